package locations

import (
	"strings"
	"unicode"
)

// centreCodeLength is the fixed width of an abbreviated centre code.
const centreCodeLength = 4

// AbbreviatedCentreCode derives a short display code from a centre name.
// The result is always exactly four uppercase characters whatever the
// word count or name length: one word takes its first four letters, two
// words take two letters each, three words take 1+1+2, and four or more
// words take their initials. Names too short to fill the code are padded
// with 'X'.
func AbbreviatedCentreCode(name string) string {
	words := letterWords(name)

	var b strings.Builder
	switch {
	case len(words) == 0:
		// fall through to padding
	case len(words) == 1:
		b.WriteString(take(words[0], centreCodeLength))
	case len(words) == 2:
		b.WriteString(take(words[0], 2))
		b.WriteString(take(words[1], 2))
	case len(words) == 3:
		b.WriteString(take(words[0], 1))
		b.WriteString(take(words[1], 1))
		b.WriteString(take(words[2], 2))
	default:
		for _, w := range words[:centreCodeLength] {
			b.WriteString(take(w, 1))
		}
	}

	code := []rune(strings.ToUpper(b.String()))
	for len(code) < centreCodeLength {
		code = append(code, 'X')
	}
	return string(code[:centreCodeLength])
}

// letterWords splits a name into words keeping only letters, dropping
// anything (sizes, punctuation, numerals) that cannot contribute to a
// code.
func letterWords(name string) []string {
	var words []string
	for _, field := range strings.Fields(name) {
		var w strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) {
				w.WriteRune(r)
			}
		}
		if w.Len() > 0 {
			words = append(words, w.String())
		}
	}
	return words
}

func take(word string, n int) string {
	runes := []rune(word)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
