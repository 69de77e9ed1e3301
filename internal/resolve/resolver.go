package resolve

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/centrematch/internal/category"
	"github.com/centrematch/internal/config"
	"github.com/centrematch/internal/debug"
	"github.com/centrematch/internal/locations"
)

// Collapse policy defaults. These were tuned against live search traffic;
// behaviour tests pin the exact values, so change them via environment
// overrides rather than editing the constants.
const (
	// DefaultCollapseMinScore is the minimum top score before collapsing
	// is considered at all.
	DefaultCollapseMinScore = 0.5

	// DefaultCollapseBand defines "significantly as good as the best":
	// candidates scoring at least this fraction of the top score.
	DefaultCollapseBand = 0.9

	// DefaultCollapseStrong collapses regardless of how many contenders
	// share the band.
	DefaultCollapseStrong = 0.7
)

// Stopwords and prepositions stripped from every query before scoring.
var stopwords = map[string]bool{
	"at": true, "in": true, "on": true, "for": true, "near": true,
	"by": true, "from": true, "to": true, "the": true, "a": true, "an": true,
}

// Dimension tokens ("2x3m", "3x3", "2.4x3m") describe the space being
// booked, not the place, and carry no location signal.
var reDimensionToken = regexp.MustCompile(`^\d+(\.\d+)?x\d+(\.\d+)?m?$`)

// Options carries the collapse policy thresholds and debug flag.
type Options struct {
	CollapseMinScore float64
	CollapseBand     float64
	CollapseStrong   float64
	Debug            bool
}

// DefaultOptions returns the standard collapse policy.
func DefaultOptions() Options {
	return Options{
		CollapseMinScore: DefaultCollapseMinScore,
		CollapseBand:     DefaultCollapseBand,
		CollapseStrong:   DefaultCollapseStrong,
	}
}

// OptionsFromEnv returns the collapse policy with environment overrides
// applied.
func OptionsFromEnv() Options {
	return Options{
		CollapseMinScore: config.GetEnvFloat("COLLAPSE_MIN_SCORE", DefaultCollapseMinScore),
		CollapseBand:     config.GetEnvFloat("COLLAPSE_BAND", DefaultCollapseBand),
		CollapseStrong:   config.GetEnvFloat("COLLAPSE_STRONG", DefaultCollapseStrong),
		Debug:            config.GetEnvBool("RESOLVE_DEBUG", false),
	}
}

// Candidate is a centre paired with its query score.
type Candidate struct {
	Entry locations.Entry
	Score float64
}

// Result is the outcome of resolving one query. An empty candidate list
// is a valid outcome, not an error.
type Result struct {
	Query          string
	Category       string
	ResidualTokens []string
	CategoryOnly   bool
	Collapsed      bool
	Best           *Candidate
	Candidates     []Candidate
}

// Resolver turns free-text search phrases into ranked centre matches.
// It is stateless per query; all state lives in the location index.
type Resolver struct {
	index *locations.Index
	opts  Options
}

// NewResolver creates a resolver with the default collapse policy.
func NewResolver(index *locations.Index) *Resolver {
	return NewResolverWithOptions(index, DefaultOptions())
}

// NewResolverWithOptions creates a resolver with explicit options.
func NewResolverWithOptions(index *locations.Index, opts Options) *Resolver {
	return &Resolver{index: index, opts: opts}
}

// Resolve runs the full pipeline for one query: tokenize, resolve the
// category keyword against the caller's category list, strip category
// synonyms and stopwords, score the residual tokens against every centre,
// rank, and apply the single-centre collapse policy.
func (r *Resolver) Resolve(ctx context.Context, query string, categories []string) (*Result, error) {
	localDebug := r.opts.Debug
	debug.Header(localDebug)
	defer debug.Footer(localDebug)

	result := &Result{Query: query}
	tokens := strings.Fields(strings.ToLower(query))
	debug.Output(localDebug, "Query %q tokenized: %v", query, tokens)

	result.Category = resolveCategoryKeyword(tokens, categories)
	debug.Output(localDebug, "Resolved category keyword: %q", result.Category)

	result.ResidualTokens = stripTokens(tokens, result.Category)
	debug.Output(localDebug, "Residual tokens: %v", result.ResidualTokens)

	entries, err := r.index.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	scorable := scorableTokens(result.ResidualTokens)
	if len(scorable) == 0 {
		// Pure category query: the category alone determines relevance,
		// every centre stays a potential match.
		result.CategoryOnly = true
		result.Candidates = make([]Candidate, 0, len(entries))
		for _, e := range entries {
			result.Candidates = append(result.Candidates, Candidate{Entry: e, Score: 1.0})
		}
		debug.Output(localDebug, "Pure category query, %d candidates", len(result.Candidates))
		return result, nil
	}

	for _, e := range entries {
		score := scoreEntry(scorable, &e)
		if score > 0 {
			result.Candidates = append(result.Candidates, Candidate{Entry: e, Score: score})
		}
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Score > result.Candidates[j].Score
	})
	debug.Output(localDebug, "%d candidates scored above zero", len(result.Candidates))

	r.applyCollapsePolicy(localDebug, result)
	return result, nil
}

// applyCollapsePolicy decides whether the ranked list reduces to a single
// centre. A query that clearly singles out one centre should not force
// the user through a disambiguation screen, but a merely good match among
// several similarly strong candidates must not be silently guessed.
func (r *Resolver) applyCollapsePolicy(localDebug bool, result *Result) {
	if len(result.Candidates) == 0 {
		return
	}

	top := result.Candidates[0].Score
	if top < r.opts.CollapseMinScore {
		debug.Output(localDebug, "Top score %.3f below collapse minimum", top)
		return
	}

	contenders := 0
	for _, c := range result.Candidates {
		if c.Score >= r.opts.CollapseBand*top {
			contenders++
		}
	}
	debug.Output(localDebug, "Top score %.3f with %d contenders in band", top, contenders)

	if contenders == 1 || top >= r.opts.CollapseStrong {
		result.Collapsed = true
		result.Best = &result.Candidates[0]
		debug.Output(localDebug, "Collapsed to centre %d (%s)",
			result.Best.Entry.CentreID, result.Best.Entry.CentreName)
	}
}

// resolveCategoryKeyword finds the first query token that matches any of
// the caller's category names. Stopwords and dimension tokens are never
// category keywords.
func resolveCategoryKeyword(tokens, categories []string) string {
	for _, token := range tokens {
		if stopwords[token] || reDimensionToken.MatchString(token) {
			continue
		}
		for _, name := range categories {
			if category.Matches(token, name) {
				return token
			}
		}
	}
	return ""
}

// stripTokens removes the category keyword and its synonyms, stopwords,
// and dimension tokens, leaving only the tokens that can identify a
// place.
func stripTokens(tokens []string, categoryKeyword string) []string {
	var categoryTokens map[string]bool
	if categoryKeyword != "" {
		categoryTokens = category.Expand(categoryKeyword)
	}

	var residual []string
	for _, token := range tokens {
		if stopwords[token] || reDimensionToken.MatchString(token) {
			continue
		}
		if categoryTokens != nil && categoryTokens[token] {
			continue
		}
		residual = append(residual, token)
	}
	return residual
}

// scorableTokens drops tokens too short to discriminate between centres.
func scorableTokens(tokens []string) []string {
	var scorable []string
	for _, t := range tokens {
		if len([]rune(t)) > 1 {
			scorable = append(scorable, t)
		}
	}
	return scorable
}

// scoreEntry computes the fraction of tokens found as substrings of the
// centre name, and independently of the suburb, returning whichever is
// higher. Name and suburb are scored separately, never as a merged pool.
func scoreEntry(tokens []string, e *locations.Entry) float64 {
	name := strings.ToLower(e.CentreName)
	suburb := ""
	if e.Suburb != nil {
		suburb = strings.ToLower(*e.Suburb)
	}

	nameHits := 0
	suburbHits := 0
	for _, t := range tokens {
		if strings.Contains(name, t) {
			nameHits++
		}
		if suburb != "" && strings.Contains(suburb, t) {
			suburbHits++
		}
	}

	best := nameHits
	if suburbHits > best {
		best = suburbHits
	}
	return float64(best) / float64(len(tokens))
}
