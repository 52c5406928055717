package ical

import (
	"regexp"
	"strings"
)

var blankRunPattern = regexp.MustCompile(`\n{3,}`)

var escapeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	`"`, `\"`,
)

// Quote escapes free text into a calendar field value: backslash,
// comma, semicolon, and double-quote are backslash-escaped; each
// newline becomes the literal "\n" escape followed by a folded
// continuation line; runs of blank lines collapse to one. Unquote
// inverts it exactly, so cleaned input survives the round trip.
func Quote(s string) string {
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	s = escapeReplacer.Replace(s)
	return strings.ReplaceAll(s, "\n", "\\n\n ")
}

// Unquote decodes a calendar field value produced by Quote, and
// tolerates unfolded "\n" escapes from foreign feeds.
func Unquote(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch next := s[i+1]; next {
		case '\\', ',', ';', '"':
			b.WriteByte(next)
			i++
		case 'n', 'N':
			b.WriteByte('\n')
			i++
			// Swallow the continuation break Quote emits after the escape.
			if strings.HasPrefix(s[i+1:], "\r\n ") {
				i += 3
			} else if strings.HasPrefix(s[i+1:], "\n ") {
				i += 2
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
