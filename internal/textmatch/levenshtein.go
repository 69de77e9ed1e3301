package textmatch

import "strings"

// Levenshtein computes the classic edit distance between two strings:
// the minimum number of single-character insertions, deletions and
// substitutions needed to transform a into b. Comparison is case-sensitive;
// callers that want case-insensitive behaviour should lower-case first
// (Similarity does this).
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Single-row DP over b, previous diagonal carried separately.
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			next := min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = next
		}
	}

	return row[len(rb)]
}

// Similarity returns a normalized similarity score in [0,1] between two
// strings, case-insensitive: 1 - distance / max(len(a), len(b)).
// Two empty strings are identical (1.0); if exactly one is empty the
// score is 0.0.
func Similarity(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	if la == lb {
		return 1.0
	}
	if len(la) == 0 || len(lb) == 0 {
		return 0.0
	}

	maxLen := len([]rune(la))
	if n := len([]rune(lb)); n > maxLen {
		maxLen = n
	}

	return 1.0 - float64(Levenshtein(la, lb))/float64(maxLen)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
