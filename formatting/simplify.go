package formatting

import (
	"regexp"
	"strings"
	"unicode"
)

// Stop-words dropped from band names before matching, so "The Beatles"
// and "Beatles" land on the same key. Whole-word matches only.
var stopWordPattern = regexp.MustCompile(`\b(?:an|and|a|in|of|on|for|the|with|dj|los|les|le|la)\b`)

// Simplify reduces a display name to a loose match key: lowercased,
// stop-words removed, punctuation stripped, and runs of repeated
// characters collapsed ("Ssskkkaaa" -> "ska"). A non-empty input never
// yields an empty key; if every character falls away the lowercased
// original is returned instead.
func Simplify(name string) string {
	lower := strings.ToLower(name)
	kept := stopWordPattern.ReplaceAllString(lower, "")

	var b strings.Builder
	var prev rune = -1
	for _, r := range kept {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	if b.Len() == 0 {
		return lower
	}
	return b.String()
}
