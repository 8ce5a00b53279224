package folio

import "iter"

// ValuationPoint is the state of the portfolio at the end of one calendar
// day.
type ValuationPoint struct {
	Date        Date  `json:"date"`
	MarketValue Money `json:"marketValue"`
	CostBasis   Money `json:"costBasis"`
	NetCashFlow Money `json:"netCashFlow"` // external flow into the portfolio that day
}

// History is a gap-free daily valuation series: exactly one point per
// calendar day of its range, weekends and holidays included.
type History struct {
	Range  Range
	Points []ValuationPoint

	// TerminalFallbacks lists securities whose value on the last day had to
	// fall back to cost basis because no price was ever known. Metrics that
	// need a trustworthy terminal value are withheld when non-empty.
	TerminalFallbacks []string
}

// ValueOn returns the market value at the end of the given day.
func (h *History) ValueOn(on Date) (Money, bool) {
	if !h.Range.Contains(on) {
		return Money{}, false
	}
	// one point per day makes the lookup an index computation
	return h.Points[on.Sub(h.Range.From)].MarketValue, true
}

// First returns the opening point of the series.
func (h *History) First() ValuationPoint { return h.Points[0] }

// Last returns the closing point of the series.
func (h *History) Last() ValuationPoint { return h.Points[len(h.Points)-1] }

// DailyReturns computes the cash-flow adjusted daily return series:
//
//	r(t) = value(t) / (value(t-1) + flow(t)) - 1
//
// Days whose denominator is zero produce no observation (the division is
// not finite); the returned dates align one-to-one with the returns.
func (h *History) DailyReturns() (dates []Date, returns []float64) {
	for i := 1; i < len(h.Points); i++ {
		p := h.Points[i]
		denom := h.Points[i-1].MarketValue.Add(p.NetCashFlow).AsFloat()
		if denom == 0 {
			continue
		}
		dates = append(dates, p.Date)
		returns = append(returns, p.MarketValue.AsFloat()/denom-1)
	}
	return dates, returns
}

// buildHistory walks the range one calendar day at a time: it replays the
// day's transactions into the running position book, then values every open
// position with the forward-filled price of the day.
//
// A position whose price is not yet known on a day is valued at its cost
// basis, once flagged with a warning. The walk never skips a day: zero-value
// days still emit a point.
func buildHistory(ledger *Ledger, r Range, table *priceTable, policy OversellPolicy) (*History, []Diagnostic, error) {
	h := &History{Range: r, Points: make([]ValuationPoint, 0, r.DayCount())}
	var diags []Diagnostic

	book := newHoldings()
	// Transactions before the window shape the opening book.
	for _, tx := range ledger.Transactions() {
		if !tx.Date.Before(r.From) {
			break
		}
		d, err := book.apply(tx, policy)
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, d...)
	}

	next, stop := iter.Pull2(ledger.Transactions(Within(r)))
	defer stop()
	_, tx, pending := next()

	flagged := make(map[string]bool) // securities already flagged for cost basis fallback

	for day := range r.Days() {
		var flow Money
		for pending && tx.Date == day {
			flow = flow.Add(tx.ExternalFlow())
			d, err := book.apply(tx, policy)
			if err != nil {
				return nil, nil, err
			}
			diags = append(diags, d...)
			_, tx, pending = next()
		}
		book.prune()

		var value, cost Money
		var fallbacks []string
		for _, sec := range book.Open() {
			holding := book.Get(sec)
			cost = cost.Add(holding.CostBasis)
			if price, ok := table.priceAsOf(sec, day); ok {
				value = value.Add(price.Mul(holding.Quantity))
				continue
			}
			// No price ever known up to this day.
			value = value.Add(holding.CostBasis)
			fallbacks = append(fallbacks, sec)
			if !flagged[sec] {
				flagged[sec] = true
				diags = append(diags, diag(DiagCostBasisPrice, SeverityWarning,
					"%s: no price known on %s, valued at cost basis", sec, day))
			}
		}

		h.Points = append(h.Points, ValuationPoint{Date: day, MarketValue: value, CostBasis: cost, NetCashFlow: flow})
		if day == r.To {
			h.TerminalFallbacks = fallbacks
		}
	}
	return h, diags, nil
}
