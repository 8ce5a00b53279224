package folio

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// TradingDaysPerYear is the annualization base for daily statistics.
	TradingDaysPerYear = 252
	// DefaultRiskFreeRate is the annual risk-free rate used when the
	// configuration does not override it.
	DefaultRiskFreeRate = 0.03
)

// dailyRiskFree converts an annual risk-free rate into its daily
// equivalent, compounded over trading days.
func dailyRiskFree(annual float64) float64 {
	return math.Pow(1+annual, 1.0/TradingDaysPerYear) - 1
}

// RiskMetrics are the statistics of a daily return series. Every field is
// independently nullable: nil means the metric could not be computed from
// the available data, with a matching diagnostic.
type RiskMetrics struct {
	Volatility  *float64 `json:"volatility"`
	Sharpe      *float64 `json:"sharpe"`
	Sortino     *float64 `json:"sortino"`
	MaxDrawdown *float64 `json:"maxDrawdown"`
	VaR95       *float64 `json:"var95"`
	VaR99       *float64 `json:"var99"`
	CVaR95      *float64 `json:"cvar95"`
	Calmar      *float64 `json:"calmar"`
}

func ptr(v float64) *float64 { return &v }

// ComputeRiskMetrics derives the risk statistics of a daily return series.
// Fewer than two observations yield no metrics at all.
func ComputeRiskMetrics(returns []float64, riskFreeRate float64) (RiskMetrics, []Diagnostic) {
	var m RiskMetrics
	var diags []Diagnostic

	if len(returns) < 2 {
		return m, append(diags, diag(DiagNotEnoughReturns, SeverityInfo,
			"%d daily returns, need at least 2 for risk statistics", len(returns)))
	}

	rf := dailyRiskFree(riskFreeRate)
	mean, std := stat.MeanStdDev(returns, nil)
	sqrtYear := math.Sqrt(TradingDaysPerYear)

	m.Volatility = ptr(std * sqrtYear)

	if std > 0 {
		m.Sharpe = ptr((mean - rf) / std * sqrtYear)
	}

	// Sortino penalizes only the downside of the excess return.
	var downside []float64
	for _, r := range returns {
		if excess := r - rf; excess < 0 {
			downside = append(downside, excess)
		}
	}
	switch {
	case len(downside) == 0:
		diags = append(diags, diag(DiagNoDownside, SeverityInfo,
			"no downside excess returns, Sortino is unbounded"))
	case len(downside) < 2:
		diags = append(diags, diag(DiagNoDownside, SeverityInfo,
			"%d downside excess return, need at least 2 for Sortino", len(downside)))
	default:
		if dev := stat.StdDev(downside, nil); dev > 0 {
			m.Sortino = ptr((mean - rf) / dev * sqrtYear)
		} else {
			diags = append(diags, diag(DiagNoDownside, SeverityInfo,
				"downside deviation is zero, Sortino is unbounded"))
		}
	}

	drawdown := maxDrawdown(returns)
	m.MaxDrawdown = ptr(drawdown)

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	var95 := stat.Quantile(0.05, stat.Empirical, sorted, nil)
	var99 := stat.Quantile(0.01, stat.Empirical, sorted, nil)
	m.VaR95 = ptr(var95)
	m.VaR99 = ptr(var99)

	// Expected shortfall: average of the days at or beyond the 95% VaR.
	var tail []float64
	for _, r := range sorted {
		if r <= var95 {
			tail = append(tail, r)
		}
	}
	if len(tail) > 0 {
		m.CVaR95 = ptr(stat.Mean(tail, nil))
	}

	if drawdown == 0 {
		diags = append(diags, diag(DiagZeroDrawdown, SeverityInfo,
			"no drawdown observed, Calmar is unbounded"))
	} else {
		m.Calmar = ptr(annualizedReturn(returns) / math.Abs(drawdown))
	}

	return m, diags
}

// maxDrawdown is the deepest peak-to-trough loss of the compounded equity
// curve of the return series.
func maxDrawdown(returns []float64) float64 {
	equity, peak, worst := 1.0, 1.0, 0.0
	for _, r := range returns {
		equity *= 1 + r
		if equity > peak {
			peak = equity
		}
		if dd := equity/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}

// annualizedReturn compounds geometrically when the series covers at least
// a trading year, and scales linearly on shorter ones.
func annualizedReturn(returns []float64) float64 {
	if len(returns) >= TradingDaysPerYear {
		total := 1.0
		for _, r := range returns {
			total *= 1 + r
		}
		return math.Pow(total, TradingDaysPerYear/float64(len(returns))) - 1
	}
	return stat.Mean(returns, nil) * TradingDaysPerYear
}

// alignReturns inner-joins two dated return series on their dates.
func alignReturns(aDates []Date, a []float64, bDates []Date, b []float64) (aligned, other []float64) {
	byDate := make(map[Date]float64, len(bDates))
	for i, d := range bDates {
		byDate[d] = b[i]
	}
	for i, d := range aDates {
		if rb, ok := byDate[d]; ok {
			aligned = append(aligned, a[i])
			other = append(other, rb)
		}
	}
	return aligned, other
}

// BetaAlpha regresses a portfolio return series against a benchmark series
// sharing the same dates. Beta is the covariance over the benchmark
// variance; alpha is Jensen's alpha annualized over trading days. Both are
// nil when the joined series is too short or the benchmark does not move.
func BetaAlpha(portfolio, benchmark []float64, riskFreeRate float64) (beta, alpha *float64) {
	if len(portfolio) < 2 || len(portfolio) != len(benchmark) {
		return nil, nil
	}
	varB := stat.Variance(benchmark, nil)
	if varB == 0 {
		return nil, nil
	}
	b := stat.Covariance(portfolio, benchmark, nil) / varB

	rf := dailyRiskFree(riskFreeRate)
	meanP := stat.Mean(portfolio, nil)
	meanB := stat.Mean(benchmark, nil)
	a := (meanP - (rf + b*(meanB-rf))) * TradingDaysPerYear
	return ptr(b), ptr(a)
}
