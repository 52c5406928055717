package schedule

import (
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"festcal/fetch"
	"festcal/formatting"
	"festcal/metrics"
	"festcal/taste"
)

// The showlist index is paginated by leading letter; "1" collects the
// numeric and symbol-named acts.
var showlistShards = []string{
	"1", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
}

// Per-fragment extraction rules for the showlist markup. The site's
// HTML is not trustworthy enough for a real parse; these patterns pull
// the fields out of whatever surrounds them.
var (
	showlistRowMarker = `<tr class="event`

	ruleEventURL = rule{"event_url", regexp.MustCompile(`(?i)href="([^"]*event_\d+[^"]*)"`)}
	ruleBand     = rule{"band", regexp.MustCompile(`(?is)<a[^>]+href="[^"]*event_\d+[^"]*"[^>]*>(.*?)</a>`)}
	ruleVenue    = rule{"venue", regexp.MustCompile(`(?is)class="venue"[^>]*>(?:\s*<a[^>]*>)?(.*?)</`)}
	ruleDate     = rule{"date", regexp.MustCompile(`(?is)class="date"[^>]*>(.*?)</`)}
)

var showDatePattern = regexp.MustCompile(
	`(?i)(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?,?\s+([a-z]+)\.?\s*(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{1,2}):(\d{2})\s*([ap]m)?\s*(?:[-\x{2013}\x{2014}]\s*(\d{1,2}):(\d{2})\s*([ap]m)?)?`)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// SourceAConfig carries everything the showlist extractor needs.
type SourceAConfig struct {
	IndexURL string // fmt pattern with one %s for the shard
	Timezone *time.Location
	Now      time.Time
	Debug    bool
	Verbose  bool
}

// SourceA scrapes the festival's own showlist site, one index page per
// leading letter.
type SourceA struct {
	cfg     SourceAConfig
	fetcher *fetch.Fetcher
	filter  *taste.Filter
	dedup   *DedupSet
	stats   *metrics.Run
}

// NewSourceA wires the showlist extractor.
func NewSourceA(cfg SourceAConfig, f *fetch.Fetcher, filter *taste.Filter, dedup *DedupSet, stats *metrics.Run) *SourceA {
	return &SourceA{cfg: cfg, fetcher: f, filter: filter, dedup: dedup, stats: stats}
}

func (s *SourceA) Name() string { return "showlist" }

// Extract walks every shard and returns the surviving events. The
// site intermittently serves truncated pages, so a pass can silently
// miss shows; callers counteract that by running additional passes
// against the same dedup set.
func (s *SourceA) Extract() ([]*Event, error) {
	var events []*Event
	for _, shard := range showlistShards {
		pageURL := fmt.Sprintf(s.cfg.IndexURL, shard)
		page := s.fetcher.Fetch(pageURL, 0)
		fragments := strings.Split(page, showlistRowMarker)
		if len(fragments) < 2 {
			if s.cfg.Verbose {
				log.Printf("showlist shard %s: no event rows", shard)
			}
			continue
		}
		for _, fragment := range fragments[1:] {
			if ev := s.extractFragment(pageURL, fragment); ev != nil {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

func (s *SourceA) extractFragment(pageURL, fragment string) *Event {
	s.stats.FragmentSeen()

	path, ok := ruleEventURL.find(fragment)
	if !ok {
		return nil
	}
	eventURL := resolveURL(pageURL, path)

	rawBand, _ := ruleBand.find(fragment)
	band := formatting.Normalize(rawBand)
	if band == "" {
		s.stats.DroppedBad()
		log.Printf("showlist: fragment at %s has no band name", eventURL)
		return nil
	}

	if !s.cfg.Debug && !s.filter.Contains(band) {
		s.stats.SkippedTaste()
		return nil
	}

	venueRaw, ok := ruleVenue.find(fragment)
	venue := formatting.Normalize(venueRaw)
	if !ok || venue == "" {
		s.stats.DroppedBad()
		log.Printf("showlist: %s at %s has no venue", band, eventURL)
		return nil
	}

	dateStr, ok := ruleDate.find(fragment)
	if !ok {
		s.stats.DroppedBad()
		log.Printf("showlist: %s at %s has no date", band, eventURL)
		return nil
	}
	start, end, ok := ParseShowDate(formatting.Normalize(dateStr), s.cfg.Now.Year(), s.cfg.Timezone)
	if !ok {
		s.stats.DroppedBad()
		log.Printf("showlist: %s has unparsable date %q", band, dateStr)
		return nil
	}

	if !s.dedup.Add(band + " @ " + start.Format("1504")) {
		s.stats.Duplicate()
		return nil
	}

	homepage, description := EnrichBand(s.fetcher, band, eventURL)
	if s.cfg.Verbose {
		log.Printf("showlist: kept %s at %s (%s)", band, venue, start.Format(time.RFC3339))
	}
	s.stats.EventKept()
	return &Event{
		Band:        band,
		EventURL:    eventURL,
		DetailURL:   homepage,
		VenueName:   venue,
		Start:       start,
		End:         end,
		Description: description,
	}
}

// ParseShowDate parses the showlist's "<dow> <month> <day>, <start>[-<end>]"
// date strings into zoned timestamps. The source omits the year, so the
// caller supplies it. Shows billed before 6am belong to the previous
// evening's program; the site's day boundary is effectively 6am, so
// early-morning hours roll the calendar day forward by one. The
// rollover applies to start and end independently. A missing end time
// defaults to one hour after the start.
func ParseShowDate(s string, year int, loc *time.Location) (time.Time, time.Time, bool) {
	m := showDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	month, ok := monthsByName[strings.ToLower(m[1])[:min(3, len(m[1]))]]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	day, _ := strconv.Atoi(m[2])

	startMer, endMer := strings.ToLower(m[5]), strings.ToLower(m[8])
	if startMer == "" {
		startMer = endMer
	}
	if endMer == "" {
		endMer = startMer
	}

	start, ok := composeShowTime(year, month, day, m[3], m[4], startMer, loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	var end time.Time
	if m[6] == "" {
		end = start.Add(time.Hour)
	} else {
		end, ok = composeShowTime(year, month, day, m[6], m[7], endMer, loc)
		if !ok || end.Before(start) {
			end = start
		}
	}
	return start, end, true
}

func composeShowTime(year int, month time.Month, day int, hourStr, minStr, meridiem string, loc *time.Location) (time.Time, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute > 59 {
		return time.Time{}, false
	}
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	// 6am day boundary: a 1am show is billed under the previous day.
	if hour < 6 {
		day++
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc), true
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
