// Package naming derives the comparison keys the guessing game matches
// player guesses against. Normalize is shared with the game client: changing
// it invalidates every lastNameNormalized already in the dataset.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the accent-insensitive key for name: NFD decomposition,
// nonspacing marks removed, lowercased and trimmed.
func Normalize(name string) string {
	// transform chains keep internal state; build one per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	return strings.TrimSpace(strings.ToLower(stripped))
}
