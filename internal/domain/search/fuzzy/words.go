package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold lower-cases s using Unicode default case mapping.
// A new Caser is built per call: cases.Caser is stateful and not safe for concurrent use.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Words splits haystack into maximal runs of Latin letters, Cyrillic letters and
// ASCII digits. Everything else is a delimiter.
func Words(haystack string) []string {
	return strings.FieldsFunc(haystack, func(r rune) bool { return !isWordRune(r) })
}

func isWordRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	if !unicode.IsLetter(r) {
		return false
	}
	return unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Cyrillic, r)
}
