package formatting

import (
	"strings"
	"time"
)

// FormatShowTime renders a start time the way the cross-reference
// summary wants it: 12-hour clock, no leading zero, ":00" dropped.
// 19:00 -> "7pm", 19:30 -> "7:30pm".
func FormatShowTime(t time.Time) string {
	s := t.Format("3:04pm")
	return strings.Replace(s, ":00", "", 1)
}
