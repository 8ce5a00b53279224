package folio

import (
	"strings"
	"sync"
	"time"
)

// reportCache memoizes computed reports by (portfolio, period, date) key.
// It guarantees at most one in-flight computation per key: concurrent
// requests for the same key block on the first one and share its result.
type reportCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{} // closed when the computation finished

	report *Report
	err    error
	doneAt time.Time
}

func newReportCache(ttl time.Duration) *reportCache {
	return &reportCache{ttl: ttl, entries: make(map[string]*cacheEntry)}
}

// do returns the cached report for key, or runs compute to fill it. Only
// one compute runs per key at any time; errors are not cached.
func (c *reportCache) do(key string, compute func() (*Report, error)) (*Report, error) {
	for {
		c.mu.Lock()
		e := c.entries[key]
		if e != nil {
			select {
			case <-e.ready:
				// finished: reuse unless stale or failed
				if e.err == nil && time.Since(e.doneAt) < c.ttl {
					c.mu.Unlock()
					return e.report, nil
				}
				delete(c.entries, key)
				c.mu.Unlock()
				continue
			default:
				// in flight: wait for it
				c.mu.Unlock()
				<-e.ready
				continue
			}
		}

		e = &cacheEntry{ready: make(chan struct{})}
		c.entries[key] = e
		c.mu.Unlock()

		e.report, e.err = compute()
		e.doneAt = time.Now()
		close(e.ready)

		if e.err != nil {
			c.mu.Lock()
			if c.entries[key] == e {
				delete(c.entries, key)
			}
			c.mu.Unlock()
		}
		return e.report, e.err
	}
}

// invalidate drops every cached report of one portfolio, typically after
// its ledger changed.
func (c *reportCache) invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, name+"|") {
			delete(c.entries, key)
		}
	}
}
