package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/centrematch/internal/category"
	"github.com/centrematch/internal/locations"
	"github.com/centrematch/internal/resolve"
)

// SearchHandler serves the query resolution endpoints.
type SearchHandler struct {
	DB       *sql.DB
	Index    *locations.Index
	Resolver *resolve.Resolver
}

// CentreResult is one centre in a search response.
type CentreResult struct {
	CentreID   int      `json:"centre_id"`
	CentreName string   `json:"centre_name"`
	Code       string   `json:"code"`
	Slug       string   `json:"slug,omitempty"`
	Suburb     *string  `json:"suburb"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	Postcode   *string  `json:"postcode"`
	Score      *float64 `json:"score,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// SearchResponse is the body of /api/search.
type SearchResponse struct {
	Query          string         `json:"query"`
	Category       string         `json:"category,omitempty"`
	ResidualTokens []string       `json:"residual_tokens,omitempty"`
	Collapsed      bool           `json:"collapsed"`
	CategoryOnly   bool           `json:"category_only"`
	Centres        []CentreResult `json:"centres"`
}

// Search resolves a free-text query into ranked centre matches.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Search term required", http.StatusBadRequest)
		return
	}

	categories, err := h.categoryNames(r.Context())
	if err != nil {
		http.Error(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}

	result, err := h.Resolver.Resolve(r.Context(), query, categories)
	if err != nil {
		http.Error(w, "Failed to resolve query", http.StatusInternalServerError)
		return
	}

	resp := SearchResponse{
		Query:          result.Query,
		Category:       result.Category,
		ResidualTokens: result.ResidualTokens,
		Collapsed:      result.Collapsed,
		CategoryOnly:   result.CategoryOnly,
		Centres:        []CentreResult{},
	}

	candidates := result.Candidates
	if result.Collapsed {
		candidates = []resolve.Candidate{*result.Best}
	}
	for _, c := range candidates {
		score := c.Score
		cr := centreResult(c.Entry)
		cr.Score = &score
		resp.Centres = append(resp.Centres, cr)
	}

	writeJSON(w, resp)
}

// Nearby returns centres within a radius of a coordinate pair.
func (h *SearchHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		http.Error(w, "lat and lng parameters required", http.StatusBadRequest)
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		http.Error(w, "lat/lng out of range", http.StatusBadRequest)
		return
	}

	radius := parseFloatParam(q.Get("radius"), 10)
	results, err := h.Index.FindNearCoordinates(r.Context(), lat, lng, radius)
	if err != nil {
		http.Error(w, "Failed to search nearby centres", http.StatusInternalServerError)
		return
	}

	writeJSON(w, nearbyResults(results))
}

// NearbyCentre returns the centres around an existing centre.
func (h *SearchHandler) NearbyCentre(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("centre_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "centre_id parameter required", http.StatusBadRequest)
		return
	}

	radius := parseFloatParam(r.URL.Query().Get("radius"), 10)
	results, err := h.Index.NearbyCentres(r.Context(), id, radius)
	if err != nil {
		http.Error(w, "Failed to search nearby centres", http.StatusInternalServerError)
		return
	}

	writeJSON(w, nearbyResults(results))
}

// MatchCategories returns the ranked category matches for a keyword.
func (h *SearchHandler) MatchCategories(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		http.Error(w, "Search term required", http.StatusBadRequest)
		return
	}

	categories, err := h.categoryNames(r.Context())
	if err != nil {
		http.Error(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}

	limit := parseIntParam(r.URL.Query().Get("limit"), category.DefaultBestMatchLimit)
	matches := category.BestMatches(keyword, categories, limit, category.DefaultBestMatchThreshold)
	if matches == nil {
		matches = []string{}
	}

	writeJSON(w, map[string]interface{}{
		"keyword": keyword,
		"matches": matches,
	})
}

// Refresh discards the location snapshot so the next search rebuilds it.
func (h *SearchHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Index.Refresh()
	writeJSON(w, map[string]string{"status": "refreshed"})
}

// Health reports liveness and database reachability.
func (h *SearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.DB.PingContext(r.Context()); err != nil {
		status = fmt.Sprintf("database unreachable: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, map[string]string{"status": status})
}

func (h *SearchHandler) categoryNames(ctx context.Context) ([]string, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT category_name
		FROM product_category
		WHERE deleted_at IS NULL
		ORDER BY category_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func centreResult(e locations.Entry) CentreResult {
	return CentreResult{
		CentreID:   e.CentreID,
		CentreName: e.CentreName,
		Code:       locations.AbbreviatedCentreCode(e.CentreName),
		Slug:       e.Slug,
		Suburb:     e.Suburb,
		City:       e.City,
		State:      e.State,
		Postcode:   e.Postcode,
	}
}

func nearbyResults(results []locations.NearbyResult) []CentreResult {
	out := make([]CentreResult, 0, len(results))
	for _, r := range results {
		d := r.DistanceKm
		cr := centreResult(r.Entry)
		cr.DistanceKm = &d
		out = append(out, cr)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func parseIntParam(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func parseFloatParam(s string, defaultValue float64) float64 {
	if s == "" {
		return defaultValue
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
