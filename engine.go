package folio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrEmptyLedger is returned when a report is requested on a ledger with
// no transaction.
var ErrEmptyLedger = errors.New("ledger has no transactions")

// priceWarmupDays is how far before inception prices are fetched, so the
// first days of the walk can forward-fill over a weekend or holiday.
const priceWarmupDays = 7

// Engine computes analytics reports. It is safe for concurrent use: each
// request works on its own snapshot of the ledger, and the optional report
// cache never runs two computations for the same key at once.
type Engine struct {
	prices PriceSource
	cfg    Config
	log    zerolog.Logger
	cache  *reportCache
}

// NewEngine creates an engine on a price source. The configuration is
// normalized; the engine logs nowhere until WithLogger.
func NewEngine(prices PriceSource, cfg Config) (*Engine, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	e := &Engine{prices: prices, cfg: cfg, log: zerolog.Nop()}
	if cfg.CacheTTL > 0 {
		e.cache = newReportCache(cfg.CacheTTL)
	}
	return e, nil
}

// WithLogger sets the engine's logger and returns the engine.
func (e *Engine) WithLogger(log zerolog.Logger) *Engine {
	e.log = log.With().Str("component", "engine").Logger()
	return e
}

// Request describes one report computation.
type Request struct {
	// Name identifies the portfolio; it keys the report cache. Empty
	// bypasses the cache.
	Name string
	// Ledger is the portfolio's transaction record.
	Ledger *Ledger
	// Period is the window token ("3m", "ytd", "1y", "inception", ...).
	// Empty means inception.
	Period string
	// End is the reference end date; zero means today.
	End Date
	// Benchmark overrides the configured benchmark symbol. "none" disables
	// the comparison for this request.
	Benchmark string
}

func (r Request) benchmark(cfg Config) string {
	switch r.Benchmark {
	case "":
		return cfg.Benchmark
	case "none":
		return ""
	}
	return r.Benchmark
}

// Report computes the full analytics report for the request, going through
// the cache when the request is named.
func (e *Engine) Report(ctx context.Context, req Request) (*Report, error) {
	if req.Period == "" {
		req.Period = "inception"
	}
	if req.End.IsZero() {
		req.End = Today()
	}

	if e.cache == nil || req.Name == "" {
		return e.compute(ctx, req)
	}
	key := fmt.Sprintf("%s|%s|%s|%s", req.Name, req.Period, req.End, req.benchmark(e.cfg))
	return e.cache.do(key, func() (*Report, error) { return e.compute(ctx, req) })
}

// Invalidate drops the cached reports of a portfolio, typically after its
// ledger changed.
func (e *Engine) Invalidate(name string) {
	if e.cache != nil {
		e.cache.invalidate(name)
	}
}

func (e *Engine) compute(ctx context.Context, req Request) (*Report, error) {
	started := time.Now()

	// Work on an immutable snapshot: appends to the caller's ledger cannot
	// skew a computation in flight.
	ledger := req.Ledger.Clone()
	inception, ok := ledger.Inception()
	if !ok {
		return nil, ErrEmptyLedger
	}

	window, err := ParseWindow(req.Period, req.End)
	if err != nil {
		return nil, err
	}
	span, adjusted := window.Resolve(inception)

	currency := ledger.Currency()
	if currency == "" {
		currency = e.cfg.Currency
	}

	report := &Report{
		Name:        req.Name,
		Window:      window,
		Period:      window.Token,
		Span:        span,
		GeneratedAt: started,
		Currency:    currency,
	}
	if adjusted {
		report.Diagnostics = append(report.Diagnostics, diag(DiagPeriodAdjusted, SeverityInfo,
			"window %s starts before inception, adjusted to %s", window.Token, inception))
	}

	// One batched fetch per symbol, concurrent, joined before the walk.
	symbols := ledger.Securities()
	benchmark := req.benchmark(e.cfg)
	fetched := symbols
	if benchmark != "" {
		fetched = append(append([]string{}, symbols...), benchmark)
	}
	table, err := fetchPriceTable(ctx, e.prices, fetched, NewRange(inception.Add(-priceWarmupDays), span.To), currency, e.log)
	if err != nil {
		return nil, err
	}

	history, diags, err := buildHistory(ledger, span, table, e.cfg.OversellPolicy)
	if err != nil {
		return nil, err
	}
	report.History = history
	report.Diagnostics = append(report.Diagnostics, diags...)

	book, _, err := ReplayHoldings(ledger, span.To, e.cfg.OversellPolicy)
	if err != nil {
		return nil, err
	}
	e.positions(report, book, table)
	e.performance(report, history, ledger, span)
	e.diversify(report, table, span)
	if benchmark != "" {
		e.compare(report, history, table, benchmark, currency, span)
	}

	e.log.Info().
		Str("portfolio", req.Name).
		Str("period", window.Token).
		Stringer("span", span).
		Dur("elapsed", time.Since(started)).
		Msg("report computed")
	return report, nil
}

// positions values the end-of-window book and derives the report's
// accounting totals.
func (e *Engine) positions(report *Report, book *Holdings, table *priceTable) {
	end := report.Span.To
	var total Money
	for _, sec := range book.Open() {
		h := book.Get(sec)
		value := h.CostBasis
		if price, ok := table.priceAsOf(sec, end); ok {
			value = price.Mul(h.Quantity)
		}
		total = total.Add(value)
		report.Positions = append(report.Positions, Position{
			Security:     sec,
			Quantity:     h.Quantity,
			MarketValue:  value,
			CostBasis:    h.CostBasis,
			RealizedGain: h.RealizedGain,
		})
	}
	if !total.IsZero() {
		for i := range report.Positions {
			report.Positions[i].Weight = report.Positions[i].MarketValue.AsFloat() / total.AsFloat()
		}
	}
	report.MarketValue = total
	report.CostBasis = book.CostBasis()
	report.RealizedGain = book.RealizedGain()
	report.UnrealizedGain = total.Sub(book.CostBasis())
}

// performance fills the return and risk metrics of the portfolio history.
func (e *Engine) performance(report *Report, history *History, ledger *Ledger, span Range) {
	m := &report.Metrics

	trustedTerminal := len(history.TerminalFallbacks) == 0
	if !trustedTerminal {
		report.Diagnostics = append(report.Diagnostics, diag(DiagMissingPrice, SeverityWarning,
			"no price at %s for %v, return metrics withheld", span.To, history.TerminalFallbacks))
	}

	begin := history.First().MarketValue.AsFloat()
	end := history.Last().MarketValue.AsFloat()

	if trustedTerminal {
		if growth, ok := CompoundAnnualGrowth(begin, end, span); ok {
			m.CAGR = ptr(growth)
		} else {
			report.Diagnostics = append(report.Diagnostics, diag(DiagZeroStartValue, SeverityInfo,
				"beginning value is not positive, growth rate withheld"))
		}

		flows := investorFlows(ledger, history, span)
		if rate, err := InternalRate(flows); err == nil {
			m.XIRR, m.MWR = ptr(rate), ptr(rate)
		} else if errors.Is(err, ErrMixedFlowsRequired) {
			report.Diagnostics = append(report.Diagnostics, diag(DiagOneSignedFlows, SeverityInfo,
				"money-weighted return needs both inflows and outflows"))
		} else {
			report.Diagnostics = append(report.Diagnostics, diag(DiagNoConvergence, SeverityWarning,
				"money-weighted return solver did not converge"))
		}

		if twr, ok := history.TimeWeightedReturn(); ok {
			m.TWR = ptr(twr)
			m.TWRAnnualized = ptr(AnnualizedOver(twr, span))
		}
	}

	_, returns := history.DailyReturns()
	risk, diags := ComputeRiskMetrics(returns, e.cfg.RiskFreeRate)
	report.Diagnostics = append(report.Diagnostics, diags...)
	m.Volatility = risk.Volatility
	m.Sharpe = risk.Sharpe
	m.Sortino = risk.Sortino
	m.MaxDrawdown = risk.MaxDrawdown
	m.VaR95 = risk.VaR95
	m.VaR99 = risk.VaR99
	m.CVaR95 = risk.CVaR95
	m.Calmar = risk.Calmar
}

// investorFlows assembles the cash flow list of the money-weighted solver:
// the window's opening value as an initial outlay when the window starts
// after the first trade, then every trade's investor flow, then the
// terminal value as a final redemption.
func investorFlows(ledger *Ledger, history *History, span Range) []CashFlow {
	var flows []CashFlow

	inception, _ := ledger.Inception()
	if span.From.After(inception) {
		if v := history.First().MarketValue.AsFloat(); v > 0 {
			flows = append(flows, CashFlow{Date: span.From, Amount: -v})
		}
		for _, tx := range ledger.Transactions(Within(Range{From: span.From.Add(1), To: span.To})) {
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.InvestorFlow().AsFloat()})
		}
	} else {
		for _, tx := range ledger.Transactions(Within(span)) {
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.InvestorFlow().AsFloat()})
		}
	}

	flows = append(flows, CashFlow{Date: span.To, Amount: history.Last().MarketValue.AsFloat()})
	return flows
}

// diversify computes the concentration metrics from the end-of-window
// positions and the per-asset price return series.
func (e *Engine) diversify(report *Report, table *priceTable, span Range) {
	var securities []string
	var weights []float64
	for _, p := range report.Positions {
		securities = append(securities, p.Security)
		weights = append(weights, p.MarketValue.AsFloat())
	}

	series := make([][]float64, len(securities))
	for i, sec := range securities {
		series[i] = priceReturns(table, sec, span)
	}
	// Align on the shortest tail so covariance rows match. Series are
	// forward-filled, so trimming drops only the days before a price was
	// first known.
	shortest := -1
	for _, s := range series {
		if shortest < 0 || len(s) < shortest {
			shortest = len(s)
		}
	}
	for i, s := range series {
		if len(s) > shortest {
			series[i] = s[len(s)-shortest:]
		}
	}

	div, diags := ComputeDiversification(securities, weights, series)
	report.Diversification = div
	report.Diagnostics = append(report.Diagnostics, diags...)
}

// priceReturns computes the forward-filled daily price returns of one
// symbol over a span. Days before the first known price yield nothing.
func priceReturns(table *priceTable, symbol string, span Range) []float64 {
	var returns []float64
	prev := 0.0
	for day := range span.Days() {
		price, ok := table.priceAsOf(symbol, day)
		if !ok {
			continue
		}
		p := price.AsFloat()
		if prev > 0 {
			returns = append(returns, p/prev-1)
		}
		prev = p
	}
	return returns
}

// compare replays the portfolio flows into the benchmark and fills the
// benchmark metrics and the null-safe comparison.
func (e *Engine) compare(report *Report, history *History, table *priceTable, benchmark, currency string, span Range) {
	series, ok := table.series[benchmark]
	if !ok || series.Empty() {
		report.Diagnostics = append(report.Diagnostics, diag(DiagNoBenchmark, SeverityWarning,
			"benchmark %q has no price history, comparison withheld", benchmark))
		return
	}

	bh, diags := replayBenchmark(history, series, currency)
	report.Diagnostics = append(report.Diagnostics, diags...)

	var bm PerformanceMetrics
	begin, end := bh.First().MarketValue.AsFloat(), bh.Last().MarketValue.AsFloat()
	if growth, ok := CompoundAnnualGrowth(begin, end, span); ok {
		bm.CAGR = ptr(growth)
	}
	var flows []CashFlow
	for _, p := range bh.Points {
		if f := p.NetCashFlow.AsFloat(); f != 0 {
			flows = append(flows, CashFlow{Date: p.Date, Amount: -f})
		}
	}
	flows = append(flows, CashFlow{Date: span.To, Amount: end})
	if rate, err := InternalRate(flows); err == nil {
		bm.XIRR, bm.MWR = ptr(rate), ptr(rate)
	}
	if twr, ok := bh.TimeWeightedReturn(); ok {
		bm.TWR = ptr(twr)
		bm.TWRAnnualized = ptr(AnnualizedOver(twr, span))
	}
	_, breturns := bh.DailyReturns()
	brisk, _ := ComputeRiskMetrics(breturns, e.cfg.RiskFreeRate)
	bm.Volatility = brisk.Volatility
	bm.Sharpe = brisk.Sharpe
	bm.Sortino = brisk.Sortino
	bm.MaxDrawdown = brisk.MaxDrawdown
	bm.VaR95 = brisk.VaR95
	bm.VaR99 = brisk.VaR99
	bm.CVaR95 = brisk.CVaR95
	bm.Calmar = brisk.Calmar

	// Beta and alpha regress portfolio returns against the raw benchmark
	// price returns, inner-joined on dates.
	pDates, pReturns := history.DailyReturns()
	bDates, bPriceReturns := benchmarkPriceReturns(series, span)
	p, b := alignReturns(pDates, pReturns, bDates, bPriceReturns)
	report.Metrics.Beta, report.Metrics.Alpha = BetaAlpha(p, b, e.cfg.RiskFreeRate)

	report.Benchmark = &BenchmarkReport{Symbol: benchmark, Metrics: bm}
	comparison := ComparePerformance(report.Metrics, bm)
	report.Comparison = &comparison
}

// benchmarkPriceReturns computes the benchmark's own dated price returns
// over the span, forward-filled.
func benchmarkPriceReturns(series Series, span Range) (dates []Date, returns []float64) {
	prev := 0.0
	for day := range span.Days() {
		close, ok := series.AsOf(day)
		if !ok {
			continue
		}
		p := close.InexactFloat64()
		if prev > 0 {
			dates = append(dates, day)
			returns = append(returns, p/prev-1)
		}
		prev = p
	}
	return dates, returns
}
