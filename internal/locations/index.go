package locations

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/centrematch/internal/geo"
	"github.com/centrematch/internal/textmatch"
)

// suburbTypoDistance is the whole-string edit distance tolerated when a
// suburb/city lookup finds no substring match. Fixed at 2: enough for a
// single typo or transposition without false positives on short names.
const suburbTypoDistance = 2

// NearbyResult is a centre paired with its distance from a search origin.
type NearbyResult struct {
	Entry      Entry
	DistanceKm float64
}

// Index is an in-memory snapshot of centre location attributes. The
// snapshot is built lazily on first use and treated as immutable until
// Refresh discards it; concurrent reads of a built snapshot need no
// locking beyond the build guard.
type Index struct {
	store Store

	mu       sync.Mutex
	snapshot []Entry
	built    bool
}

// NewIndex creates an index over a snapshot store. Nothing is fetched
// until the first lookup.
func NewIndex(store Store) *Index {
	return &Index{store: store}
}

// Ensure returns the current snapshot, building it from the store on
// first call. Concurrent first callers share a single build: whoever
// takes the lock first fetches, the rest wait and see the cached result.
func (ix *Index) Ensure(ctx context.Context) ([]Entry, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.built {
		return ix.snapshot, nil
	}

	entries, err := ix.store.FetchEntries(ctx)
	if err != nil {
		return nil, err
	}

	ix.snapshot = entries
	ix.built = true
	return ix.snapshot, nil
}

// Refresh discards the cached snapshot; the next lookup rebuilds it.
func (ix *Index) Refresh() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.snapshot = nil
	ix.built = false
}

// FindByArea resolves a query against the named-area alias table first,
// falling back to suburb/city lookup for anything that is not a known
// alias.
func (ix *Index) FindByArea(ctx context.Context, query string) ([]Entry, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	alias, ok := LookupAlias(normalized)
	if !ok {
		return ix.FindBySuburbOrCity(ctx, normalized)
	}

	entries, err := ix.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Entry
	for _, e := range entries {
		if alias.Matches(&e) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// FindBySuburbOrCity returns centres whose suburb or city contains the
// query as a substring, or sits within suburbTypoDistance edits of it.
// The edit distance is computed against the whole suburb/city string,
// not word by word.
func (ix *Index) FindBySuburbOrCity(ctx context.Context, query string) ([]Entry, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, nil
	}

	entries, err := ix.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Entry
	for _, e := range entries {
		if matchesPlace(normalized, e.suburbLower()) || matchesPlace(normalized, e.cityLower()) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// FindNearCoordinates returns centres within radiusKm of the given point,
// sorted ascending by distance. Centres without a coordinate pair are
// silently excluded, never treated as distance zero.
func (ix *Index) FindNearCoordinates(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyResult, error) {
	entries, err := ix.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var results []NearbyResult
	for _, e := range entries {
		if !e.HasCoordinates() {
			continue
		}
		d := geo.DistanceKm(lat, lng, *e.Latitude, *e.Longitude)
		if d <= radiusKm {
			results = append(results, NearbyResult{Entry: e, DistanceKm: d})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results, nil
}

// NearbyCentres returns the centres within radiusKm of the given centre,
// excluding the centre itself. A centre without coordinates has no
// neighbours.
func (ix *Index) NearbyCentres(ctx context.Context, centreID int, radiusKm float64) ([]NearbyResult, error) {
	entries, err := ix.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var target *Entry
	for i := range entries {
		if entries[i].CentreID == centreID {
			target = &entries[i]
			break
		}
	}
	if target == nil || !target.HasCoordinates() {
		return nil, nil
	}

	nearby, err := ix.FindNearCoordinates(ctx, *target.Latitude, *target.Longitude, radiusKm)
	if err != nil {
		return nil, err
	}

	var results []NearbyResult
	for _, r := range nearby {
		if r.Entry.CentreID != centreID {
			results = append(results, r)
		}
	}
	return results, nil
}

func matchesPlace(query, place string) bool {
	if place == "" {
		return false
	}
	if strings.Contains(place, query) {
		return true
	}
	return textmatch.Levenshtein(query, place) <= suburbTypoDistance
}
