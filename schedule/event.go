package schedule

import (
	"strings"
	"time"
)

// Event is one show worth attending: a band, a place, a time span in
// the festival's timezone, and whatever description the sources gave
// up. VenueAddress stays empty until the venue resolver fills it in.
type Event struct {
	Band         string
	EventURL     string
	DetailURL    string
	VenueName    string
	VenueAddress string
	Start        time.Time
	End          time.Time
	Description  string
}

// Extractor is one schedule source. Both sources produce the same
// record type; the pipeline composes whichever are configured.
type Extractor interface {
	Name() string
	Extract() ([]*Event, error)
}

// DedupSet suppresses duplicate events across extractors and passes.
// First record in wins; later arrivals with the same key are dropped.
type DedupSet struct {
	seen map[string]struct{}
}

// NewDedupSet returns an empty set.
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: make(map[string]struct{})}
}

// Add records key and reports whether it was new.
func (d *DedupSet) Add(key string) bool {
	key = strings.ToLower(key)
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len reports how many keys have been seen.
func (d *DedupSet) Len() int {
	return len(d.seen)
}
