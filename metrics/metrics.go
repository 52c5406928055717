package metrics

import (
	"fmt"
	"sync/atomic"
)

// Run captures counters for one scrape run.
type Run struct {
	pagesFetched  int64
	fetchRetries  int64
	fetchFailures int64

	fragmentsSeen int64
	eventsKept    int64
	skippedTaste  int64
	droppedBad    int64
	duplicates    int64

	venueLookups   int64
	venueCacheHits int64
	venueMisses    int64
}

// Snapshot provides a consistent view of the current counters.
type Snapshot struct {
	PagesFetched  int64
	FetchRetries  int64
	FetchFailures int64

	FragmentsSeen int64
	EventsKept    int64
	SkippedTaste  int64
	DroppedBad    int64
	Duplicates    int64

	VenueLookups   int64
	VenueCacheHits int64
	VenueMisses    int64
}

// New creates a zeroed Run instance.
func New() *Run {
	return &Run{}
}

func (r *Run) PageFetched()  { atomic.AddInt64(&r.pagesFetched, 1) }
func (r *Run) FetchRetry()   { atomic.AddInt64(&r.fetchRetries, 1) }
func (r *Run) FetchFailure() { atomic.AddInt64(&r.fetchFailures, 1) }

func (r *Run) FragmentSeen() { atomic.AddInt64(&r.fragmentsSeen, 1) }
func (r *Run) EventKept()    { atomic.AddInt64(&r.eventsKept, 1) }
func (r *Run) SkippedTaste() { atomic.AddInt64(&r.skippedTaste, 1) }
func (r *Run) DroppedBad()   { atomic.AddInt64(&r.droppedBad, 1) }
func (r *Run) Duplicate()    { atomic.AddInt64(&r.duplicates, 1) }

func (r *Run) VenueLookup()   { atomic.AddInt64(&r.venueLookups, 1) }
func (r *Run) VenueCacheHit() { atomic.AddInt64(&r.venueCacheHits, 1) }
func (r *Run) VenueMiss()     { atomic.AddInt64(&r.venueMisses, 1) }

// Snapshot returns a read-only view of the counters.
func (r *Run) Snapshot() Snapshot {
	return Snapshot{
		PagesFetched:   atomic.LoadInt64(&r.pagesFetched),
		FetchRetries:   atomic.LoadInt64(&r.fetchRetries),
		FetchFailures:  atomic.LoadInt64(&r.fetchFailures),
		FragmentsSeen:  atomic.LoadInt64(&r.fragmentsSeen),
		EventsKept:     atomic.LoadInt64(&r.eventsKept),
		SkippedTaste:   atomic.LoadInt64(&r.skippedTaste),
		DroppedBad:     atomic.LoadInt64(&r.droppedBad),
		Duplicates:     atomic.LoadInt64(&r.duplicates),
		VenueLookups:   atomic.LoadInt64(&r.venueLookups),
		VenueCacheHits: atomic.LoadInt64(&r.venueCacheHits),
		VenueMisses:    atomic.LoadInt64(&r.venueMisses),
	}
}

// Summary renders the counters as a key=value log line.
func (s Snapshot) Summary() string {
	return fmt.Sprintf(
		"pages=%d retries=%d fetch_failures=%d fragments=%d kept=%d skipped_taste=%d dropped=%d duplicates=%d venue_lookups=%d venue_cache_hits=%d venue_misses=%d",
		s.PagesFetched, s.FetchRetries, s.FetchFailures,
		s.FragmentsSeen, s.EventsKept, s.SkippedTaste, s.DroppedBad, s.Duplicates,
		s.VenueLookups, s.VenueCacheHits, s.VenueMisses)
}
