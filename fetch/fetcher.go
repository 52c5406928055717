package fetch

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"festcal/metrics"
)

// Failed is the sentinel returned when a bounded fetch runs out of
// attempts. It is deliberately shorter than minBodyBytes so callers
// that only check length treat it as an empty page.
const Failed = "FAILED"

// Responses at or under this size are treated as the source's
// intermittent empty-page failure mode and retried.
const minBodyBytes = 200

// Fetcher wraps plain GETs with the retry-and-backoff loop both
// sources need. Zero attempts means retry forever.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Verbose   bool
	Stats     *metrics.Run

	// Sleep is swappable for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

// New returns a Fetcher using the given client, or http.DefaultClient
// when client is nil.
func New(client *http.Client, stats *metrics.Run) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{Client: client, Stats: stats}
}

// Fetch GETs url until it yields a plausibly non-empty body, sleeping
// with increasing backoff between tries. With maxAttempts > 0 the loop
// is bounded and exhaustion returns the Failed sentinel instead of an
// error: a dead venue page is data, not a reason to stop the run.
func (f *Fetcher) Fetch(url string, maxAttempts int) string {
	backoff := 1
	for attempt := 1; ; attempt++ {
		body, err := f.get(url)
		if err == nil && len(body) > minBodyBytes {
			if f.Stats != nil {
				f.Stats.PageFetched()
			}
			return body
		}
		if err != nil {
			log.Printf("fetch %s attempt %d: %v", url, attempt, err)
		} else if f.Verbose {
			log.Printf("fetch %s attempt %d: short body (%d bytes)", url, attempt, len(body))
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			if f.Stats != nil {
				f.Stats.FetchFailure()
			}
			log.Printf("fetch %s: giving up after %d attempts", url, attempt)
			return Failed
		}
		if f.Stats != nil {
			f.Stats.FetchRetry()
		}
		f.sleep(time.Duration(backoff) * time.Second)
		backoff = (backoff + 2) * 13 / 10
	}
}

func (f *Fetcher) get(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (f *Fetcher) sleep(d time.Duration) {
	if f.Sleep != nil {
		f.Sleep(d)
		return
	}
	time.Sleep(d)
}
