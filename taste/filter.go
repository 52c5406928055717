package taste

import (
	"festcal/formatting"
)

// Filter maps simplified artist keys to canonical display names. Built
// once at startup and read-only afterwards.
type Filter struct {
	names map[string]string
}

// Build selects the artists worth scraping for: rated at least
// minStars (on the 20-points-per-star scale) or owning a video.
// Artists that simplify to the same key collapse to one entry,
// last write wins.
func Build(items []RatedItem, minStars int) *Filter {
	f := &Filter{names: make(map[string]string)}
	threshold := minStars * 20
	for _, item := range items {
		if item.RatingPercent < threshold && !item.HasVideo {
			continue
		}
		f.names[formatting.Simplify(item.Artist)] = item.Artist
	}
	return f
}

// Contains reports whether name simplifies to a key in the filter.
func (f *Filter) Contains(name string) bool {
	_, ok := f.names[formatting.Simplify(name)]
	return ok
}

// DisplayName returns the canonical display name for a scraped name,
// or the empty string if the filter does not contain it.
func (f *Filter) DisplayName(name string) string {
	return f.names[formatting.Simplify(name)]
}

// Len reports how many distinct keys the filter holds.
func (f *Filter) Len() int {
	return len(f.names)
}
