package folio

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestReportCacheSharesInFlightComputation(t *testing.T) {
	c := newReportCache(time.Minute)

	var computes atomic.Int32
	gate := make(chan struct{})
	compute := func() (*Report, error) {
		computes.Add(1)
		<-gate
		return &Report{Name: "shared"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*Report, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := c.do("k", compute)
			if err != nil {
				t.Errorf("do: %v", err)
			}
			results[i] = r
		}()
	}

	// let the waiters pile up on the single in-flight entry
	time.Sleep(10 * time.Millisecond)
	close(gate)
	wg.Wait()

	if n := computes.Load(); n != 1 {
		t.Errorf("%d computations, want exactly 1", n)
	}
	for i, r := range results {
		if r != results[0] {
			t.Errorf("result %d is not the shared report", i)
		}
	}
}

func TestReportCacheExpires(t *testing.T) {
	c := newReportCache(time.Nanosecond)
	var computes atomic.Int32
	compute := func() (*Report, error) {
		computes.Add(1)
		return &Report{}, nil
	}

	if _, err := c.do("k", compute); err != nil {
		t.Fatalf("do: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.do("k", compute); err != nil {
		t.Fatalf("do: %v", err)
	}
	if n := computes.Load(); n != 2 {
		t.Errorf("%d computations, want 2 after expiry", n)
	}
}

func TestReportCacheDoesNotCacheErrors(t *testing.T) {
	c := newReportCache(time.Minute)
	var computes atomic.Int32
	boom := errors.New("boom")

	_, err := c.do("k", func() (*Report, error) { computes.Add(1); return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want the compute error, got %v", err)
	}
	r, err := c.do("k", func() (*Report, error) { computes.Add(1); return &Report{}, nil })
	if err != nil || r == nil {
		t.Fatalf("second compute should succeed, got %v, %v", r, err)
	}
	if n := computes.Load(); n != 2 {
		t.Errorf("%d computations, want 2", n)
	}
}

func TestReportCacheInvalidateIsScoped(t *testing.T) {
	c := newReportCache(time.Minute)
	var computes atomic.Int32
	compute := func() (*Report, error) {
		computes.Add(1)
		return &Report{}, nil
	}

	c.do("alpha|1y|2025-01-01|", compute)
	c.do("alphabet|1y|2025-01-01|", compute)
	c.invalidate("alpha")

	c.do("alpha|1y|2025-01-01|", compute)    // recomputed
	c.do("alphabet|1y|2025-01-01|", compute) // still cached
	if n := computes.Load(); n != 3 {
		t.Errorf("%d computations, want 3 (alphabet survives alpha's invalidation)", n)
	}
}
