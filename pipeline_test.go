package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"festcal/config"
)

func padPage(s string) string {
	return s + "\n<!-- " + strings.Repeat("x", 250) + " -->"
}

func seedLibrary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE tracks (artist TEXT, rating INTEGER, video INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO tracks (artist, rating, video) VALUES ('Big Loud Band', 100, 0)`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

// TestRunEndToEnd drives one whole run: library to taste filter, a
// showlist shard to a scraped fragment, band-page enrichment, venue
// address resolution, and the serialized calendar on disk.
func TestRunEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, padPage("<html><body><p>No shows under this letter.</p></body></html>"))
	})
	mux.HandleFunc("/shows/b.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, padPage(`<html><body><table>
<tr class="event odd"><td><a href="/shows/event_1001.html">Big Loud Band</a></td>
<td class="venue">Hole in the Wall</td>
<td class="date">Thu Mar 15, 1:00 AM</td></tr>
<tr class="event even"><td><a href="/shows/event_1002.html">Unknown Act</a></td>
<td class="venue">Elsewhere</td>
<td class="date">Thu Mar 15, 9:00 PM</td></tr>
</table></body></html>`))
	})
	mux.HandleFunc("/shows/event_1001.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, padPage(`<html><body><div id="main">
<p>Online: <a href="http://bigloudband.example.com">bigloudband.example.com</a></p>
<p>Big Loud Band have been loud since 1999.</p>
</div></body></html>`))
	})
	mux.HandleFunc("/venues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, padPage(`<html><body><div class="venue-details">
<h2>2538 Guadalupe St</h2>
</div></body></html>`))
	})

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cfg := config.Config{
		LibraryPath:      seedLibrary(t),
		Timezone:         loc,
		ShowlistIndexURL: srv.URL + "/shows/%s.html",
		VenueLookupURL:   srv.URL + "/venues?search=",
		UserAgent:        "festcal/test",
	}
	outfile := filepath.Join(t.TempDir(), "festival.ics")

	if err := run(cfg, runOptions{Stars: 3, Loop: 1, Outfile: outfile}); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(outfile)
	if err != nil {
		t.Fatalf("read outfile: %v", err)
	}
	doc := string(data)

	year := time.Now().Year()
	for _, want := range []string{
		"SUMMARY:Big Loud Band\r\n",
		// 1am rolls to the next calendar day and carries the zone.
		fmt.Sprintf("DTSTART;TZID=America/Chicago:%d0316T010000\r\n", year),
		fmt.Sprintf("DTEND;TZID=America/Chicago:%d0316T020000\r\n", year),
		"LOCATION:Hole in the Wall (2538 Guadalupe St)\r\n",
		"URL:" + srv.URL + "/shows/event_1001.html\r\n",
		"DESCRIPTION:http://bigloudband.example.com/",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("missing %q in document:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "Unknown Act") {
		t.Fatalf("taste filter should have excluded Unknown Act:\n%s", doc)
	}
	if !strings.Contains(doc, "loud since 1999") {
		t.Fatalf("enriched bio missing from description:\n%s", doc)
	}
}
