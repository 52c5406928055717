package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"festcal/formatting"
)

var trailingParenPattern = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// CrossReference annotates every record of a band playing more than one
// distinct show with the band's full date/venue list, so each calendar
// entry reads as one of several chances to catch them. Single-show
// bands are left alone.
func CrossReference(events []*Event) {
	groups := make(map[string][]*Event)
	for _, ev := range events {
		groups[ev.Band] = append(groups[ev.Band], ev)
	}

	for _, group := range groups {
		shows := distinctShows(group)
		if len(shows) < 2 {
			continue
		}
		lines := make([]string, 0, len(shows))
		for _, show := range shows {
			lines = append(lines, fmt.Sprintf("%s, %s at %s",
				show.Start.Weekday(),
				formatting.FormatShowTime(show.Start),
				trailingParenPattern.ReplaceAllString(show.VenueName, "")))
		}
		block := "Multiple shows:\n" + strings.Join(lines, "\n")
		for _, ev := range group {
			if ev.Description == "" {
				ev.Description = block
			} else {
				ev.Description = block + "\n\n" + ev.Description
			}
		}
	}
}

// distinctShows reduces a band's records to unique (start, venue)
// pairs in chronological order.
func distinctShows(group []*Event) []*Event {
	seen := make(map[string]struct{})
	var shows []*Event
	for _, ev := range group {
		key := ev.Start.Format(time.RFC3339) + "|" + strings.ToLower(ev.VenueName)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		shows = append(shows, ev)
	}
	sort.Slice(shows, func(i, j int) bool {
		if shows[i].Start.Equal(shows[j].Start) {
			return shows[i].VenueName < shows[j].VenueName
		}
		return shows[i].Start.Before(shows[j].Start)
	})
	return shows
}
