package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"festcal/config"
	"festcal/fetch"
	"festcal/ical"
	"festcal/metrics"
	"festcal/schedule"
	"festcal/taste"
	"festcal/venues"
)

type runOptions struct {
	Verbose int
	Debug   bool
	Stars   int
	Loop    int
	Outfile string
}

// run executes one complete scrape: build the taste filter, pull both
// sources through the shared dedup set, resolve venue addresses,
// cross-reference multi-show bands, and write the calendar.
func run(cfg config.Config, opts runOptions) error {
	items, err := taste.LoadLibrary(cfg.LibraryPath)
	if err != nil {
		return err
	}
	filter := taste.Build(items, opts.Stars)
	log.Printf("taste filter: %d artists from %d library entries (stars>=%d or video)",
		filter.Len(), len(items), opts.Stars)

	stats := metrics.New()
	fetcher := fetch.New(&http.Client{Timeout: 3 * time.Minute}, stats)
	fetcher.UserAgent = cfg.UserAgent
	fetcher.Verbose = opts.Verbose > 1

	dedup := schedule.NewDedupSet()
	now := time.Now()
	if opts.Loop < 1 {
		opts.Loop = 1
	}

	// Both sources run behind the same extractor interface against the
	// shared dedup set; the showlist gets extra passes because its
	// pages drop rows at random.
	type sourceRun struct {
		src    schedule.Extractor
		passes int
	}
	var runs []sourceRun
	if cfg.ShowlistIndexURL != "" {
		runs = append(runs, sourceRun{schedule.NewSourceA(schedule.SourceAConfig{
			IndexURL: cfg.ShowlistIndexURL,
			Timezone: cfg.Timezone,
			Now:      now,
			Debug:    opts.Debug,
			Verbose:  opts.Verbose > 0,
		}, fetcher, filter, dedup, stats), opts.Loop})
	}
	if cfg.FeedURL != "" {
		runs = append(runs, sourceRun{schedule.NewSourceB(schedule.SourceBConfig{
			FeedURL:  cfg.FeedURL,
			Category: cfg.FeedCategory,
			Timezone: cfg.Timezone,
			Now:      now,
			Debug:    opts.Debug,
			Verbose:  opts.Verbose > 0,
		}, fetcher, filter, dedup, stats), 1})
	}

	var events []*schedule.Event
	for _, sr := range runs {
		for pass := 1; pass <= sr.passes; pass++ {
			found, err := sr.src.Extract()
			if err != nil {
				return err
			}
			events = append(events, found...)
			log.Printf("%s pass %d/%d: events=%d total=%d",
				sr.src.Name(), pass, sr.passes, len(found), len(events))
		}
	}

	if cfg.VenueLookupURL != "" {
		resolver := &venues.Resolver{
			LookupURL: cfg.VenueLookupURL,
			Fetcher:   fetcher,
			Stats:     stats,
			Verbose:   opts.Verbose > 0,
		}
		resolver.Resolve(events, venues.Cache{})
	}

	schedule.CrossReference(events)

	writer := &ical.Writer{
		ProdID:   "-//festcal//festcal 1.0//EN",
		Timezone: cfg.Timezone,
		Now:      now,
	}
	doc := writer.Document(calendarEvents(events))
	if err := os.WriteFile(opts.Outfile, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Outfile, err)
	}

	log.Printf("run summary: events=%d outfile=%s %s", len(events), opts.Outfile, stats.Snapshot().Summary())
	return nil
}

// calendarEvents maps scraped records into the writer's shape; the
// venue's resolved address rides along as a location parenthetical.
func calendarEvents(events []*schedule.Event) []ical.Event {
	out := make([]ical.Event, 0, len(events))
	for _, ev := range events {
		location := ev.VenueName
		if ev.VenueAddress != "" {
			location = fmt.Sprintf("%s (%s)", ev.VenueName, ev.VenueAddress)
		}
		description := ev.Description
		if ev.DetailURL != "" {
			if description == "" {
				description = ev.DetailURL
			} else {
				description = ev.DetailURL + "\n\n" + description
			}
		}
		out = append(out, ical.Event{
			Summary:     ev.Band,
			Location:    location,
			URL:         ev.EventURL,
			Start:       ev.Start,
			End:         ev.End,
			Description: description,
		})
	}
	return out
}
