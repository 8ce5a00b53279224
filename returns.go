package folio

import (
	"fmt"
	"math"
)

// CashFlow is a dated external flow from the investor's point of view:
// negative for money invested, positive for money taken back.
type CashFlow struct {
	Date   Date    `json:"date"`
	Amount float64 `json:"amount"`
}

// daysPerYear is the day-count convention of the money-weighted solver.
const daysPerYear = 365.0

// avgDaysPerYear carries the leap-year average used to annualize returns
// over spans longer than a year.
const avgDaysPerYear = 365.25

// CompoundAnnualGrowth returns the growth rate between a beginning and an
// ending value. Spans longer than a year are annualized with the average
// calendar year; shorter spans report the plain total return. ok is false
// when the beginning value is not strictly positive. A terminal value below
// zero floors the result at -100%.
func CompoundAnnualGrowth(begin, end float64, span Range) (growth float64, ok bool) {
	if begin <= 0 {
		return 0, false
	}
	if end < 0 {
		return -1, true
	}
	total := end/begin - 1
	if years := span.Years(); years > 1 {
		return math.Pow(1+total, 1/years) - 1, true
	}
	return total, true
}

// Money-weighted solver failures. They are diagnostics, not hard errors:
// the metric is withheld and the report says why.
var (
	ErrMixedFlowsRequired = fmt.Errorf("internal rate needs at least one positive and one negative flow")
	ErrNonConvergence     = fmt.Errorf("internal rate did not converge")
)

const (
	irrMaxIterations = 100
	irrTolerance     = 1e-9
	irrLowerBound    = -0.9999
	irrUpperBound    = 10.0
)

// InternalRate solves the annualized internal rate of return of dated cash
// flows (XIRR): the rate r such that the net present value
//
//	sum of amount(i) / (1+r)^(days(i)/365)
//
// is zero, days counted from the earliest flow. Newton-Raphson from 0.1,
// capped at 100 iterations with a 1e-9 tolerance; when Newton leaves the
// bracket or stalls, bisection on [-0.9999, 10] takes over.
func InternalRate(flows []CashFlow) (float64, error) {
	var positive, negative bool
	for _, f := range flows {
		positive = positive || f.Amount > 0
		negative = negative || f.Amount < 0
	}
	if !positive || !negative {
		return 0, ErrMixedFlowsRequired
	}

	t0 := flows[0].Date
	for _, f := range flows {
		if f.Date.Before(t0) {
			t0 = f.Date
		}
	}

	npv := func(rate float64) (value, derivative float64) {
		for _, f := range flows {
			exponent := float64(f.Date.Sub(t0)) / daysPerYear
			discount := math.Pow(1+rate, exponent)
			value += f.Amount / discount
			derivative -= f.Amount * exponent / (discount * (1 + rate))
		}
		return value, derivative
	}

	rate := 0.1
	for i := 0; i < irrMaxIterations; i++ {
		value, derivative := npv(rate)
		if math.Abs(value) < irrTolerance {
			return rate, nil
		}
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			break
		}
		step := value / derivative
		next := rate - step
		if next <= irrLowerBound || next > irrUpperBound || math.IsNaN(next) {
			break
		}
		if math.Abs(step) < irrTolerance {
			return next, nil
		}
		rate = next
	}

	// Bisection fallback: robust as long as the root is bracketed.
	lo, hi := irrLowerBound, irrUpperBound
	flo, _ := npv(lo)
	fhi, _ := npv(hi)
	if flo*fhi > 0 {
		return 0, ErrNonConvergence
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fmid, _ := npv(mid)
		if math.Abs(fmid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, ErrNonConvergence
}

// TimeWeightedReturn links the growth of the sub-periods delimited by the
// valuation days, neutralizing external flows:
//
//	R(i) = end(i) / (start(i) + flow(i)) - 1
//
// and compounds the factors geometrically. A sub-period starting from
// nothing but a fresh contribution has no measurable performance and links
// as zero. ok is false when the series is too short to hold a single
// sub-period.
func (h *History) TimeWeightedReturn() (twr float64, ok bool) {
	if len(h.Points) < 2 {
		return 0, false
	}

	linked := 1.0
	for i := 1; i < len(h.Points); i++ {
		p := h.Points[i]
		denom := h.Points[i-1].MarketValue.AsFloat() + p.NetCashFlow.AsFloat()
		if denom == 0 {
			continue
		}
		linked *= p.MarketValue.AsFloat() / denom
	}
	return linked - 1, true
}

// AnnualizedOver converts a total return over a span into an annual rate
// when the span exceeds one year. Shorter spans return the total unchanged.
func AnnualizedOver(total float64, span Range) float64 {
	if years := span.Years(); years > 1 && total > -1 {
		return math.Pow(1+total, 1/years) - 1
	}
	return total
}
