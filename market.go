package folio

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PriceSource supplies end-of-day close prices. It is the engine's only
// collaborator: implementations fetch from a market data vendor, a file, or
// a test fixture.
//
// Closes returns every known close for the symbol within the range, sorted
// by date. Missing days (weekends, holidays, vendor gaps) are simply absent;
// the engine forward-fills. Implementations must be safe for concurrent
// use: the engine batches one call per symbol and may issue them in
// parallel.
type PriceSource interface {
	Closes(ctx context.Context, symbol string, r Range) (Series, error)
}

// PricePoint is one dated close.
type PricePoint struct {
	Date  Date            `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Series is a date-sorted list of closes for one symbol.
type Series struct {
	points []PricePoint
}

// NewSeries builds a series from points in any order. On duplicate dates
// the last point wins.
func NewSeries(points ...PricePoint) Series {
	sorted := make([]PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	dedup := sorted[:0]
	for _, p := range sorted {
		if n := len(dedup); n > 0 && dedup[n-1].Date == p.Date {
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	return Series{points: dedup}
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.points) }

// Empty reports whether the series holds no point at all.
func (s Series) Empty() bool { return len(s.points) == 0 }

// AsOf returns the last close on or before 'on'. ok is false when the
// series has no point up to that day, which callers treat as "price not
// yet known".
func (s Series) AsOf(on Date) (close decimal.Decimal, ok bool) {
	// first index strictly after 'on'
	i := sort.Search(len(s.points), func(i int) bool { return s.points[i].Date.After(on) })
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return s.points[i-1].Close, true
}

// priceTable joins the per-symbol series fetched for one computation.
type priceTable struct {
	currency string
	series   map[string]Series
}

// priceAsOf returns the forward-filled price of a symbol as Money.
func (t *priceTable) priceAsOf(symbol string, on Date) (Money, bool) {
	close, ok := t.series[symbol].AsOf(on)
	if !ok {
		return Money{}, false
	}
	return M(close, t.currency), true
}

// fetchPriceTable issues one batched Closes call per symbol over the full
// range, concurrently, and joins the results before any valuation starts.
// A failed fetch fails the whole table: prices are not guessed.
func fetchPriceTable(ctx context.Context, src PriceSource, symbols []string, r Range, currency string, log zerolog.Logger) (*priceTable, error) {
	table := &priceTable{currency: currency, series: make(map[string]Series, len(symbols))}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			series, err := src.Closes(ctx, symbol, r)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("fetching closes for %q: %w", symbol, err)
				}
				return
			}
			table.series[symbol] = series
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	for _, symbol := range symbols {
		log.Debug().Str("symbol", symbol).Int("closes", table.series[symbol].Len()).Msg("price series fetched")
	}
	return table, nil
}
