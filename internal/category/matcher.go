package category

import (
	"sort"
	"strings"

	"github.com/centrematch/internal/textmatch"
)

const (
	// DefaultMatchThreshold is the minimum word-level similarity for a
	// fuzzy category match.
	DefaultMatchThreshold = 0.6

	// DefaultBestMatchLimit caps the number of ranked category matches
	// returned by BestMatches.
	DefaultBestMatchLimit = 5

	// DefaultBestMatchThreshold filters weak candidates out of BestMatches.
	DefaultBestMatchThreshold = 0.5

	// Word-level substring containment outranks any fuzzy score but never
	// beats whole-name containment.
	wordContainScore = 0.9

	// Words shorter than this carry no signal ("&", "of") and are not
	// fuzzy-matched.
	minWordLength = 3
)

// Matches reports whether a keyword matches a category name using the
// default similarity threshold.
func Matches(keyword, categoryName string) bool {
	return MatchesThreshold(keyword, categoryName, DefaultMatchThreshold)
}

// MatchesThreshold decides whether a keyword matches a category name.
// Substring containment is checked before any fuzzy comparison so that
// exact domain terms ("charity" in "Charities") can never be rejected by
// threshold tuning; edit-distance similarity then covers the typo tail.
func MatchesThreshold(keyword, categoryName string, threshold float64) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	name := strings.ToLower(categoryName)

	if kw == "" || name == "" {
		return false
	}

	if strings.Contains(name, kw) {
		return true
	}

	for _, word := range splitCategoryWords(name) {
		if strings.Contains(word, kw) {
			return true
		}
		if textmatch.Similarity(kw, word) >= threshold {
			return true
		}
	}

	return false
}

// BestMatches scores every category against the keyword and returns up to
// maxResults category names sorted by descending score. Whole-name
// substring containment scores 1.0; otherwise the score is the best
// word-level score, where word substring containment scores 0.9 and a
// fuzzy word comparison scores its raw similarity. Ties preserve the
// original category order.
func BestMatches(keyword string, categories []string, maxResults int, threshold float64) []string {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}

	var candidates []scored
	for _, name := range categories {
		score := scoreCategory(kw, name)
		if score >= threshold {
			candidates = append(candidates, scored{name: name, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) == 0 {
		return nil
	}
	if maxResults > 0 && len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	results := make([]string, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.name)
	}

	return results
}

func scoreCategory(kw, categoryName string) float64 {
	name := strings.ToLower(categoryName)
	if name == "" {
		return 0
	}

	if strings.Contains(name, kw) {
		return 1.0
	}

	var best float64
	for _, word := range splitCategoryWords(name) {
		if strings.Contains(word, kw) {
			if wordContainScore > best {
				best = wordContainScore
			}
			continue
		}
		if sim := textmatch.Similarity(kw, word); sim > best {
			best = sim
		}
	}

	return best
}

// splitCategoryWords breaks a category name into comparison words, splitting
// on whitespace, "&", "," and "-", and dropping words too short to carry
// signal.
func splitCategoryWords(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		switch r {
		case ' ', '\t', '&', ',', '-':
			return true
		}
		return false
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minWordLength {
			words = append(words, f)
		}
	}

	return words
}
