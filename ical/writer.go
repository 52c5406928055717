package ical

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is the writer's view of one calendar entry. The pipeline maps
// its scraped records into this shape once, after all enrichment and
// cross-referencing is done.
type Event struct {
	Summary     string
	Location    string
	URL         string
	Start       time.Time
	End         time.Time
	Description string
}

// Writer assembles the final calendar document.
type Writer struct {
	ProdID   string
	Timezone *time.Location
	Now      time.Time // DTSTAMP for every entry
}

const timestampLayout = "20060102T150405"

// Document serializes the events into a complete calendar. Events are
// sorted by their raw DTSTART field value and then their summary field
// value; sequence numbers are assigned in that final order. Line
// endings are CRLF and whitespace-only continuation lines are dropped.
func (w *Writer) Document(events []Event) string {
	type entry struct {
		startField   string
		summaryField string
		ev           Event
	}
	entries := make([]entry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, entry{
			startField:   ev.Start.In(w.Timezone).Format(timestampLayout),
			summaryField: Quote(ev.Summary),
			ev:           ev,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].startField != entries[j].startField {
			return entries[i].startField < entries[j].startField
		}
		return entries[i].summaryField < entries[j].summaryField
	})

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\n")
	b.WriteString("VERSION:2.0\n")
	fmt.Fprintf(&b, "PRODID:%s\n", w.ProdID)
	b.WriteString("CALSCALE:GREGORIAN\n")
	b.WriteString("METHOD:PUBLISH\n")
	fmt.Fprintf(&b, "X-WR-TIMEZONE:%s\n", w.Timezone.String())

	stamp := w.Now.UTC().Format(timestampLayout) + "Z"
	for seq, e := range entries {
		b.WriteString("BEGIN:VEVENT\n")
		fmt.Fprintf(&b, "UID:%s@festcal\n", uuid.NewString())
		fmt.Fprintf(&b, "DTSTAMP:%s\n", stamp)
		fmt.Fprintf(&b, "SEQUENCE:%d\n", seq)
		fmt.Fprintf(&b, "DTSTART;TZID=%s:%s\n", w.Timezone.String(), e.startField)
		fmt.Fprintf(&b, "DTEND;TZID=%s:%s\n", w.Timezone.String(), e.ev.End.In(w.Timezone).Format(timestampLayout))
		fmt.Fprintf(&b, "SUMMARY:%s\n", e.summaryField)
		if e.ev.Location != "" {
			fmt.Fprintf(&b, "LOCATION:%s\n", Quote(e.ev.Location))
		}
		if e.ev.URL != "" {
			fmt.Fprintf(&b, "URL:%s\n", e.ev.URL)
		}
		if e.ev.Description != "" {
			fmt.Fprintf(&b, "DESCRIPTION:%s\n", Quote(e.ev.Description))
		}
		b.WriteString("CLASS:PUBLIC\n")
		b.WriteString("CATEGORIES:MUSIC\n")
		b.WriteString("STATUS:CONFIRMED\n")
		b.WriteString("END:VEVENT\n")
	}
	b.WriteString("END:VCALENDAR\n")

	return finalize(b.String())
}

// finalize normalizes line endings to CRLF and drops whitespace-only
// lines, which appear when an escaped newline ends a field value.
func finalize(doc string) string {
	lines := strings.Split(doc, "\n")
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\r\n") + "\r\n"
}
