package folio

import (
	"time"
)

// PerformanceMetrics is the full metric set of one valuation history.
// Every field is independently nullable: nil means "could not be computed",
// never zero. The reasons are in the report diagnostics.
type PerformanceMetrics struct {
	CAGR          *float64 `json:"cagr"`
	XIRR          *float64 `json:"xirr"`
	TWR           *float64 `json:"twr"`
	TWRAnnualized *float64 `json:"twrAnnualized"`
	MWR           *float64 `json:"mwr"` // alias of XIRR
	Volatility    *float64 `json:"volatility"`
	Sharpe        *float64 `json:"sharpe"`
	Sortino       *float64 `json:"sortino"`
	MaxDrawdown   *float64 `json:"maxDrawdown"`
	VaR95         *float64 `json:"var95"`
	VaR99         *float64 `json:"var99"`
	CVaR95        *float64 `json:"cvar95"`
	Calmar        *float64 `json:"calmar"`
	Beta          *float64 `json:"beta"`
	Alpha         *float64 `json:"alpha"`
}

// byName indexes the metrics by their wire name, for null-safe comparison.
func (m PerformanceMetrics) byName() map[string]*float64 {
	return map[string]*float64{
		"cagr": m.CAGR, "xirr": m.XIRR, "twr": m.TWR, "mwr": m.MWR,
		"volatility": m.Volatility, "sharpe": m.Sharpe, "sortino": m.Sortino,
		"maxDrawdown": m.MaxDrawdown, "var95": m.VaR95, "var99": m.VaR99,
		"cvar95": m.CVaR95, "calmar": m.Calmar, "beta": m.Beta, "alpha": m.Alpha,
	}
}

// Position is the valued state of one holding at the end of the window.
type Position struct {
	Security     string   `json:"security"`
	Quantity     Quantity `json:"quantity"`
	MarketValue  Money    `json:"marketValue"`
	CostBasis    Money    `json:"costBasis"`
	RealizedGain Money    `json:"realizedGain"`
	Weight       float64  `json:"weight"`
}

// BenchmarkReport carries the benchmark side of a comparison.
type BenchmarkReport struct {
	Symbol  string             `json:"symbol"`
	Metrics PerformanceMetrics `json:"metrics"`
}

// Report is the complete analytics output for one portfolio over one
// window.
type Report struct {
	Name        string    `json:"name,omitempty"`
	Window      Window    `json:"-"`
	Period      string    `json:"period"`
	Span        Range     `json:"span"`
	GeneratedAt time.Time `json:"generatedAt"`
	Currency    string    `json:"currency,omitempty"`

	MarketValue    Money `json:"marketValue"`
	CostBasis      Money `json:"costBasis"`
	RealizedGain   Money `json:"realizedGain"`
	UnrealizedGain Money `json:"unrealizedGain"`

	Positions []Position `json:"positions"`

	Metrics         PerformanceMetrics `json:"metrics"`
	Diversification Diversification    `json:"diversification"`

	Benchmark  *BenchmarkReport `json:"benchmark,omitempty"`
	Comparison *Comparison      `json:"comparison,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	History *History `json:"-"`
}

// Diagnosed reports whether a diagnostic with the given code was recorded.
func (r *Report) Diagnosed(code string) bool {
	for _, d := range r.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}
