// Package textnorm normalizes user utterances for keyword matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the text and strips combining marks, so "Amanhã às
// 15h" and "amanha as 15h" match the same keyword tables.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		// Transform failures only happen on malformed UTF-8; fall back to
		// the lowercased original so matching still gets a chance.
		return lowered
	}
	return stripped
}
