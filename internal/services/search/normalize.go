package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Nazarious-ucu/weather-app/internal/models"
)

// FormatCityName trims, collapses inner whitespace, lower-cases and then
// upper-cases the first letter of each word: "  new   YORK " becomes
// "New York". Letters after a hyphen or apostrophe stay lower case.
func FormatCityName(raw string) (string, error) {
	// Casers keep state, so one is built per call.
	words := strings.Fields(cases.Lower(language.Und).String(raw))
	if len(words) == 0 {
		return "", models.ErrEmptyCity
	}

	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " "), nil
}
