package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/mgirard/folio"
)

func f(v float64) *float64 { return &v }

func sampleReport() *folio.Report {
	span := folio.NewRange(folio.NewDate(2024, time.January, 2), folio.NewDate(2024, time.December, 31))
	return &folio.Report{
		Name:           "retirement",
		Period:         "1y",
		Span:           span,
		GeneratedAt:    time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC),
		Currency:       "USD",
		MarketValue:    folio.M(15000, "USD"),
		CostBasis:      folio.M(10000, "USD"),
		RealizedGain:   folio.M(500, "USD"),
		UnrealizedGain: folio.M(5000, "USD"),
		Positions: []folio.Position{
			{Security: "ACME", Quantity: folio.Q(100), MarketValue: folio.M(15000, "USD"), CostBasis: folio.M(10000, "USD"), Weight: 1.0},
		},
		Metrics: folio.PerformanceMetrics{
			CAGR:       f(0.5),
			TWR:        f(0.5),
			Volatility: f(0.18),
			Sharpe:     f(1.25),
		},
		Diagnostics: []folio.Diagnostic{
			{Code: folio.DiagNoDownside, Severity: folio.SeverityInfo, Message: "no losing day in the window"},
		},
	}
}

func TestRenderReport(t *testing.T) {
	out := RenderReport(sampleReport())

	for _, want := range []string{
		"# retirement: 1y report",
		"Market value",
		"| ACME |",
		"| CAGR | 50.00% |",
		"| Sharpe | 1.25 |",
		"| XIRR | n/a |",
		"no losing day in the window",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Benchmark") {
		t.Error("no benchmark section expected without a benchmark")
	}
	if strings.Contains(out, "error") {
		t.Errorf("template error leaked into output:\n%s", out)
	}
}

func TestRenderReportWithBenchmark(t *testing.T) {
	r := sampleReport()
	r.Benchmark = &folio.BenchmarkReport{
		Symbol:  "SPY",
		Metrics: folio.PerformanceMetrics{TWR: f(0.10), Volatility: f(0.12)},
	}
	r.Comparison = &folio.Comparison{
		Deltas:        map[string]*float64{"twr": f(0.40)},
		Outperforming: map[string]*bool{"twr": ptrBool(true)},
	}

	out := RenderReport(r)
	for _, want := range []string{
		"## Benchmark: SPY",
		"| TWR | 10.00% | 40.00% | yes |",
		"| CAGR | n/a | n/a | n/a |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	jan2 := folio.NewDate(2024, time.January, 2)
	h := &folio.History{
		Range: folio.NewRange(jan2, jan2.Add(1)),
		Points: []folio.ValuationPoint{
			{Date: jan2, MarketValue: folio.M(10000, "USD"), CostBasis: folio.M(10000, "USD"), NetCashFlow: folio.M(10000, "USD")},
			{Date: jan2.Add(1), MarketValue: folio.M(10100, "USD"), CostBasis: folio.M(10000, "USD")},
		},
	}

	out := RenderHistory(h)
	for _, want := range []string{"2024-01-02", "2024-01-03", "| Date | Value |"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func ptrBool(b bool) *bool { return &b }
