package schedule

import (
	"regexp"
	"strings"
)

// rule is one named extraction pattern over semi-structured markup.
// Extraction failure is an ordinary miss, not an error; callers decide
// whether a missing capture drops the fragment or just logs.
type rule struct {
	name string
	re   *regexp.Regexp
}

// find returns the rule's first capture group, trimmed, and whether it
// matched at all.
func (r rule) find(s string) (string, bool) {
	m := r.re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
