package schedule

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/apognu/gocal"

	"festcal/fetch"
	"festcal/formatting"
	"festcal/ical"
	"festcal/metrics"
	"festcal/taste"
)

var locationSuffixPattern = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`)

// SourceBConfig carries everything the feed extractor needs.
type SourceBConfig struct {
	FeedURL  string
	Category string // blocks without this category tag are not music acts
	Timezone *time.Location
	Now      time.Time
	Debug    bool
	Verbose  bool
}

// SourceB reads the alternate schedule feed: a published calendar whose
// event times arrive in UTC and whose locations already embed street
// addresses.
type SourceB struct {
	cfg     SourceBConfig
	fetcher *fetch.Fetcher
	filter  *taste.Filter
	dedup   *DedupSet
	stats   *metrics.Run
}

// NewSourceB wires the feed extractor.
func NewSourceB(cfg SourceBConfig, f *fetch.Fetcher, filter *taste.Filter, dedup *DedupSet, stats *metrics.Run) *SourceB {
	return &SourceB{cfg: cfg, fetcher: f, filter: filter, dedup: dedup, stats: stats}
}

func (s *SourceB) Name() string { return "feed" }

// Extract parses the feed document into events. Unlike the showlist's
// markup, the feed format is structurally guaranteed: a document that
// does not parse, or an event block without its timestamps, means the
// feed itself changed shape and the run must stop.
func (s *SourceB) Extract() ([]*Event, error) {
	body := s.fetcher.Fetch(s.cfg.FeedURL, 0)

	parser := gocal.NewParser(strings.NewReader(body))
	windowStart := s.cfg.Now.AddDate(-1, 0, 0)
	windowEnd := s.cfg.Now.AddDate(1, 0, 0)
	parser.Start, parser.End = &windowStart, &windowEnd
	if err := parser.Parse(); err != nil {
		return nil, fmt.Errorf("feed %s does not parse: %w", s.cfg.FeedURL, err)
	}

	var events []*Event
	for _, block := range parser.Events {
		s.stats.FragmentSeen()

		band := formatting.Normalize(ical.Unquote(block.Summary))
		if band == "" {
			s.stats.DroppedBad()
			log.Printf("feed: block %s has no summary", block.Uid)
			continue
		}
		if !s.hasCategory(block.Categories) {
			continue
		}
		if !s.cfg.Debug && !s.filter.Contains(band) {
			s.stats.SkippedTaste()
			continue
		}
		if block.Start == nil || block.End == nil {
			return nil, fmt.Errorf("feed block for %q is missing its timestamps", band)
		}

		start := block.Start.In(s.cfg.Timezone)
		end := block.End.In(s.cfg.Timezone)
		if !s.dedup.Add(band + " @ " + start.Format("20060102T150405")) {
			s.stats.Duplicate()
			continue
		}

		venue, address := splitLocation(formatting.Normalize(ical.Unquote(block.Location)))
		if venue == "" {
			s.stats.DroppedBad()
			log.Printf("feed: %s has no location", band)
			continue
		}

		description := formatting.Normalize(ical.Unquote(block.Description))
		var homepage string
		if block.URL != "" {
			enrichedHome, enriched := EnrichBand(s.fetcher, band, block.URL)
			homepage = enrichedHome
			if enriched != "" {
				if description == "" {
					description = enriched
				} else {
					description = description + "\n\n" + enriched
				}
			}
		}

		if s.cfg.Verbose {
			log.Printf("feed: kept %s at %s (%s)", band, venue, start.Format(time.RFC3339))
		}
		s.stats.EventKept()
		events = append(events, &Event{
			Band:         band,
			EventURL:     block.URL,
			DetailURL:    homepage,
			VenueName:    venue,
			VenueAddress: address,
			Start:        start,
			End:          end,
			Description:  description,
		})
	}
	return events, nil
}

func (s *SourceB) hasCategory(categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c), s.cfg.Category) {
			return true
		}
	}
	return false
}

// splitLocation separates "Venue Name (street address)" into its two
// parts; a location without a parenthetical is all venue name.
func splitLocation(location string) (venue, address string) {
	if m := locationSuffixPattern.FindStringSubmatch(location); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return location, ""
}
