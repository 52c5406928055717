package venues

import (
	"log"
	"regexp"
	"strings"

	"festcal/fetch"
	"festcal/formatting"
	"festcal/metrics"
	"festcal/schedule"
)

// The venue directory intermittently drops pages too; five tries is
// enough to ride out its flakiness without stalling the run on a venue
// that is genuinely gone.
const lookupAttempts = 5

var (
	parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	addressPattern       = regexp.MustCompile(`(?is)venue-details.*?<h2[^>]*>(.*?)</h2>`)
)

// Cache memoizes lookups for the lifetime of one run, keyed by the
// venue name with its trailing parenthetical stripped. Failed lookups
// are memoized as empty strings so a bad venue costs one fetch, not
// one per show.
type Cache map[string]string

// Resolver fills in street addresses for venues the showlist source
// names but never locates.
type Resolver struct {
	LookupURL string // venue query is appended
	Fetcher   *fetch.Fetcher
	Stats     *metrics.Run
	Verbose   bool
}

// Resolve mutates each record still missing an address, consulting the
// cache first. A venue the directory cannot place is logged and left
// unaddressed; that never fails the run.
func (r *Resolver) Resolve(events []*schedule.Event, cache Cache) {
	for _, ev := range events {
		if ev.VenueAddress != "" || ev.VenueName == "" {
			continue
		}
		name := strings.TrimSpace(parentheticalPattern.ReplaceAllString(ev.VenueName, ""))
		if name == "" {
			continue
		}
		if addr, ok := cache[name]; ok {
			r.Stats.VenueCacheHit()
			ev.VenueAddress = addr
			continue
		}
		addr := r.lookup(name)
		cache[name] = addr
		ev.VenueAddress = addr
	}
}

func (r *Resolver) lookup(name string) string {
	r.Stats.VenueLookup()
	body := r.Fetcher.Fetch(r.LookupURL+lookupQuery(name), lookupAttempts)
	m := addressPattern.FindStringSubmatch(body)
	if m == nil {
		r.Stats.VenueMiss()
		log.Printf("venue %q: no address found", name)
		return ""
	}
	addr := formatting.Normalize(m[1])
	if addr == "" {
		r.Stats.VenueMiss()
		log.Printf("venue %q: empty address block", name)
		return ""
	}
	if r.Verbose {
		log.Printf("venue %q: %s", name, addr)
	}
	return addr
}

// lookupQuery builds the directory's search query: leading "The "
// dropped, spaces become '+', ampersands percent-escaped.
func lookupQuery(name string) string {
	name = strings.TrimPrefix(name, "The ")
	name = strings.ReplaceAll(name, " ", "+")
	return strings.ReplaceAll(name, "&", "%26")
}
