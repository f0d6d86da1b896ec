// file: internal/gazetteer/normalize.go
// version: 1.1.0
// guid: 9c0d1e2f-3a4b-5c6d-7e8f-9a0b1c2d3e4f

package gazetteer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
// Turns "Nāgārjuna" into "Nagarjuna" so queries typed with or without
// diacritics compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func isQuote(r rune) bool {
	switch r {
	case '\'', '"', '`', '‘', '’', '“', '”':
		return true
	}
	return false
}

// Normalize canonicalizes a raw query string for matching: trim, lowercase,
// strip diacritics, drop quotes, map punctuation and any other
// non-letter/non-digit rune to a space, and collapse whitespace runs.
//
// The function is pure and idempotent; an empty result means "no search".
func Normalize(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return ""
	}

	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isQuote(r):
			// dropped entirely so "rama's" stays one token
		case r == '.' || r == '_' || r == '-' || r == '/':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
