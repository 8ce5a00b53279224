package folio

import (
	"github.com/shopspring/decimal"
)

// replayBenchmark mirrors the portfolio's external cash flows into units of
// a benchmark: every inflow buys units at the benchmark close of the day
// (last known close on or before), every outflow sells them, floored at
// zero units. The result is a valuation history shaped exactly like the
// portfolio's, ready for the same calculators.
func replayBenchmark(portfolio *History, benchmark Series, currency string) (*History, []Diagnostic) {
	h := &History{Range: portfolio.Range, Points: make([]ValuationPoint, 0, len(portfolio.Points))}
	var diags []Diagnostic

	units := decimal.Zero
	invested := decimal.Zero // net capital at work, the benchmark's cost basis
	flagged := false

	for _, p := range portfolio.Points {
		price, ok := benchmark.AsOf(p.Date)
		flow := p.NetCashFlow

		if !flow.IsZero() {
			if !ok || !price.IsPositive() {
				if !flagged {
					flagged = true
					diags = append(diags, diag(DiagMissingPrice, SeverityWarning,
						"benchmark has no close on or before %s, flow of %s not replayed", p.Date, flow))
				}
				// The replica never traded, so the mirrored point carries no
				// flow either: a flow against a zero-valued position would
				// read as a total loss.
				flow = Money{}
			} else {
				delta := flow.value.Div(price)
				if units.Add(delta).IsNegative() {
					// An outflow larger than the benchmark position
					// liquidates it entirely; only the held units' worth of
					// the flow is replayed.
					delta = units.Neg()
					flow = M(delta.Mul(price), currency)
				}
				units = units.Add(delta)
				invested = invested.Add(flow.value)
			}
		}

		var value Money
		if ok {
			value = M(units.Mul(price), currency)
		}
		h.Points = append(h.Points, ValuationPoint{
			Date:        p.Date,
			MarketValue: value,
			CostBasis:   M(invested, currency),
			NetCashFlow: flow,
		})
	}
	return h, diags
}

// Comparison holds the null-safe metric deltas between the portfolio and
// its benchmark, keyed by metric name. A delta is nil when either side is
// nil. Outperforming is nil for metrics without a better direction (beta).
type Comparison struct {
	Deltas        map[string]*float64 `json:"deltas"`
	Outperforming map[string]*bool    `json:"outperforming"`
}

// direction of each metric: +1 when higher is better, -1 when lower is
// better, 0 when neither.
var metricDirections = map[string]int{
	"cagr": 1, "xirr": 1, "twr": 1, "mwr": 1,
	"sharpe": 1, "sortino": 1, "calmar": 1, "alpha": 1,
	"maxDrawdown": 1, "var95": 1, "var99": 1, "cvar95": 1, // less negative is better
	"volatility": -1,
	"beta":       0,
}

// ComparePerformance computes per-metric deltas (portfolio minus benchmark)
// and outperformance verdicts, propagating nulls.
func ComparePerformance(portfolio, benchmark PerformanceMetrics) Comparison {
	c := Comparison{
		Deltas:        make(map[string]*float64),
		Outperforming: make(map[string]*bool),
	}
	p, b := portfolio.byName(), benchmark.byName()
	for name, direction := range metricDirections {
		pv, bv := p[name], b[name]
		if pv == nil || bv == nil {
			c.Deltas[name] = nil
			c.Outperforming[name] = nil
			continue
		}
		c.Deltas[name] = ptr(*pv - *bv)
		if direction == 0 {
			c.Outperforming[name] = nil
			continue
		}
		better := (*pv-*bv)*float64(direction) > 0
		c.Outperforming[name] = &better
	}
	return c
}
