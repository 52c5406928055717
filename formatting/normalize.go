package formatting

import (
	"html"
	"regexp"
	"strings"
)

var (
	breakTagPattern = regexp.MustCompile(`(?i)<\s*(?:br|/?p|/?div|/?tr|/?li|/?ul|/?ol|/?h[1-6]|/?table|/?blockquote)\b[^>]*>`)
	// Tags are stripped up to the nearest '>'. An unmatched '<' with no
	// closing '>' after it stays literal, which keeps the pass
	// deterministic on truncated markup.
	tagPattern      = regexp.MustCompile(`<[^<>]*>`)
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)
	lineEdgePattern = regexp.MustCompile(`(?m)^[ \t]+|[ \t]+$`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// Typographic characters that show up mis-encoded or entity-escaped in
// both sources, mapped to plain ASCII. Applied after entity decoding so
// "&#8217;" and a raw right-quote land on the same output.
var asciiPunct = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "--",
	"•", "*",
	"…", "...",
	" ", " ",
)

// Normalize turns a fragment of hostile markup into plain text: break
// tags become newlines, remaining tags are stripped, entities are
// decoded, typographic punctuation is flattened to ASCII, and
// whitespace is collapsed. Passes repeat until the text stops
// changing, since decoding can uncover another layer of encoded
// markup. Idempotent on its own output.
func Normalize(raw string) string {
	for i := 0; i < 4; i++ {
		text := normalizePass(raw)
		if text == raw {
			break
		}
		raw = text
	}
	return raw
}

func normalizePass(raw string) string {
	text := html.UnescapeString(raw)
	text = breakTagPattern.ReplaceAllString(text, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = asciiPunct.Replace(text)
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = lineEdgePattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
