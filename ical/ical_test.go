package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/apognu/gocal"
)

func TestQuoteEscapesDefinedSet(t *testing.T) {
	got := Quote(`back\slash, semi; "quoted"`)
	want := `back\\slash\, semi\; \"quoted\"`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestQuoteFoldsNewlines(t *testing.T) {
	got := Quote("line one\nline two")
	want := "line one\\n\n line two"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRoundTripQuoteUnquote(t *testing.T) {
	// ical_quote(unescape(s)) must reproduce s for the defined
	// character set.
	escaped := []string{
		`plain text`,
		`a\,b\;c\"d\\e`,
		"first\\n\n second\\n\n third",
		`doors\, 8pm\; \"early\" show`,
	}
	for _, s := range escaped {
		if got := Quote(Unquote(s)); got != s {
			t.Fatalf("round trip broke %q: got %q", s, got)
		}
	}
}

func TestUnquoteThenQuoteOnPlainText(t *testing.T) {
	plain := []string{
		"venue, with commas; and \"quotes\"",
		"two\nlines",
	}
	for _, s := range plain {
		if got := Unquote(Quote(s)); got != s {
			t.Fatalf("inverse broke %q: got %q", s, got)
		}
	}
}

func TestUnquoteToleratesUnfoldedEscapes(t *testing.T) {
	if got := Unquote(`foreign\nfeed\, text`); got != "foreign\nfeed, text" {
		t.Fatalf("got %q", got)
	}
}

func TestQuoteCollapsesBlankRuns(t *testing.T) {
	got := Quote("a\n\n\n\nb")
	want := "a\\n\n \\n\n b"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func testWriter(t *testing.T) *Writer {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return &Writer{
		ProdID:   "-//festcal//festcal 1.0//EN",
		Timezone: loc,
		Now:      time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleEvents(w *Writer) []Event {
	return []Event{
		{
			Summary:     "Zeta Band",
			Location:    "Red River Hall (123 Red River St)",
			URL:         "https://schedule.example.com/shows/event_2.html",
			Start:       time.Date(2026, time.March, 18, 20, 0, 0, 0, w.Timezone),
			End:         time.Date(2026, time.March, 18, 21, 0, 0, 0, w.Timezone),
			Description: "second on the bill, somehow",
		},
		{
			Summary:     "Alpha Band",
			Location:    "Hole in the Wall",
			URL:         "https://schedule.example.com/shows/event_1.html",
			Start:       time.Date(2026, time.March, 18, 20, 0, 0, 0, w.Timezone),
			End:         time.Date(2026, time.March, 18, 21, 0, 0, 0, w.Timezone),
			Description: "first line\nsecond line",
		},
		{
			Summary:     "Early Band",
			Location:    "The Parish",
			Start:       time.Date(2026, time.March, 17, 19, 0, 0, 0, w.Timezone),
			End:         time.Date(2026, time.March, 17, 20, 0, 0, 0, w.Timezone),
		},
	}
}

func TestDocumentSortAndSequence(t *testing.T) {
	w := testWriter(t)
	doc := w.Document(sampleEvents(w))

	// Sorted by start field then summary field; sequence follows the
	// final order.
	early := strings.Index(doc, "SUMMARY:Early Band")
	alpha := strings.Index(doc, "SUMMARY:Alpha Band")
	zeta := strings.Index(doc, "SUMMARY:Zeta Band")
	if early < 0 || alpha < 0 || zeta < 0 {
		t.Fatalf("missing summaries in document:\n%s", doc)
	}
	if !(early < alpha && alpha < zeta) {
		t.Fatalf("wrong sort order: early=%d alpha=%d zeta=%d", early, alpha, zeta)
	}

	for _, want := range []string{"SEQUENCE:0", "SEQUENCE:1", "SEQUENCE:2"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %s:\n%s", want, doc)
		}
	}
	if seq0 := strings.Index(doc, "SEQUENCE:0"); seq0 > alpha {
		t.Fatalf("sequence 0 should belong to the earliest event")
	}
}

func TestDocumentWrapperAndLineEndings(t *testing.T) {
	w := testWriter(t)
	doc := w.Document(sampleEvents(w))

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"PRODID:-//festcal//festcal 1.0//EN\r\n",
		"CALSCALE:GREGORIAN\r\n",
		"METHOD:PUBLISH\r\n",
		"X-WR-TIMEZONE:America/Chicago\r\n",
		"DTSTART;TZID=America/Chicago:20260318T200000\r\n",
		"DTSTAMP:20260301T120000Z\r\n",
		"CLASS:PUBLIC\r\n",
		"STATUS:CONFIRMED\r\n",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %q in document:\n%s", want, doc)
		}
	}
	if !strings.HasSuffix(doc, "END:VCALENDAR\r\n") {
		t.Fatalf("document should end with END:VCALENDAR")
	}
	for _, line := range strings.Split(doc, "\r\n") {
		if line != "" && strings.TrimSpace(line) == "" {
			t.Fatalf("whitespace-only line survived finalize: %q", line)
		}
	}
	if strings.Contains(strings.ReplaceAll(doc, "\r\n", ""), "\n") {
		t.Fatalf("bare newline survived CRLF normalization")
	}
}

func TestDocumentReparses(t *testing.T) {
	w := testWriter(t)
	doc := w.Document(sampleEvents(w))

	parser := gocal.NewParser(strings.NewReader(doc))
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	parser.Start, parser.End = &start, &end
	if err := parser.Parse(); err != nil {
		t.Fatalf("emitted document does not parse: %v", err)
	}
	if len(parser.Events) != 3 {
		t.Fatalf("expected 3 events after reparse, got %d", len(parser.Events))
	}
	for _, ev := range parser.Events {
		if ev.Summary == "Alpha Band" && ev.Location != "Hole in the Wall" {
			t.Fatalf("location did not survive reparse: %q", ev.Location)
		}
	}
}
