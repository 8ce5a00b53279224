package folio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testTable(currency string, series map[string]Series) *priceTable {
	return &priceTable{currency: currency, series: series}
}

func pp(d Date, close float64) PricePoint {
	return PricePoint{Date: d, Close: decimal.NewFromFloat(close)}
}

func TestBuildHistoryOnePointPerDay(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	ledger := testLedger(t, NewBuy(jan2, "ACME", Q(10), USD(100), Money{}))
	r := NewRange(jan2, NewDate(2024, time.January, 31))
	table := testTable("USD", map[string]Series{
		// closes only on weekdays, with a gap
		"ACME": NewSeries(pp(jan2, 100), pp(NewDate(2024, time.January, 5), 110), pp(NewDate(2024, time.January, 29), 120)),
	})

	h, diags, err := buildHistory(ledger, r, table, OversellClamp)
	if err != nil {
		t.Fatalf("buildHistory: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if got, want := len(h.Points), r.DayCount(); got != want {
		t.Fatalf("%d points, want %d (one per calendar day)", got, want)
	}
	for i, p := range h.Points {
		if want := r.From.Add(i); p.Date != want {
			t.Fatalf("point %d is %s, want %s", i, p.Date, want)
		}
	}

	// weekend of Jan 6-7 carries Friday's close forward
	sat, _ := h.ValueOn(NewDate(2024, time.January, 6))
	if !sat.Equal(USD(1100)) {
		t.Errorf("saturday value = %s, want $1,100.00 (forward filled)", sat)
	}
	last := h.Last()
	if !last.MarketValue.Equal(USD(1200)) {
		t.Errorf("terminal value = %s, want $1,200.00", last.MarketValue)
	}
	if len(h.TerminalFallbacks) != 0 {
		t.Errorf("unexpected terminal fallbacks: %v", h.TerminalFallbacks)
	}
}

func TestBuildHistoryCostBasisFallback(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	jan10 := NewDate(2024, time.January, 10)
	ledger := testLedger(t, NewBuy(jan2, "OBSCURE", Q(10), USD(50), Money{}))
	r := NewRange(jan2, jan10)
	table := testTable("USD", map[string]Series{
		// first close known only on Jan 8
		"OBSCURE": NewSeries(pp(NewDate(2024, time.January, 8), 60)),
	})

	h, diags, err := buildHistory(ledger, r, table, OversellClamp)
	if err != nil {
		t.Fatalf("buildHistory: %v", err)
	}

	warned := false
	for _, d := range diags {
		warned = warned || d.Code == DiagCostBasisPrice
	}
	if !warned {
		t.Errorf("missing %s diagnostic, got %v", DiagCostBasisPrice, diags)
	}

	early, _ := h.ValueOn(NewDate(2024, time.January, 5))
	if !early.Equal(USD(500)) {
		t.Errorf("pre-price value = %s, want cost basis $500.00", early)
	}
	late, _ := h.ValueOn(NewDate(2024, time.January, 9))
	if !late.Equal(USD(600)) {
		t.Errorf("post-price value = %s, want $600.00", late)
	}
	if len(h.TerminalFallbacks) != 0 {
		t.Errorf("price known by the end, fallbacks = %v", h.TerminalFallbacks)
	}
}

func TestBuildHistoryTerminalFallback(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	ledger := testLedger(t, NewBuy(jan2, "OBSCURE", Q(10), USD(50), Money{}))
	r := NewRange(jan2, NewDate(2024, time.January, 10))
	table := testTable("USD", map[string]Series{"OBSCURE": {}})

	h, _, err := buildHistory(ledger, r, table, OversellClamp)
	if err != nil {
		t.Fatalf("buildHistory: %v", err)
	}
	if len(h.TerminalFallbacks) != 1 || h.TerminalFallbacks[0] != "OBSCURE" {
		t.Errorf("TerminalFallbacks = %v, want [OBSCURE]", h.TerminalFallbacks)
	}
}

func TestBuildHistoryNetCashFlow(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	jan5 := NewDate(2024, time.January, 5)
	ledger := testLedger(t,
		NewBuy(jan2, "ACME", Q(10), USD(100), USD(5)),
		NewSell(jan5, "ACME", Q(4), USD(110), USD(5)),
	)
	r := NewRange(jan2, NewDate(2024, time.January, 7))
	table := testTable("USD", map[string]Series{
		"ACME": NewSeries(pp(jan2, 100), pp(jan5, 110)),
	})

	h, _, err := buildHistory(ledger, r, table, OversellClamp)
	if err != nil {
		t.Fatalf("buildHistory: %v", err)
	}
	if flow := h.Points[0].NetCashFlow; !flow.Equal(USD(1005)) {
		t.Errorf("buy-day flow = %s, want $1,005.00", flow)
	}
	if flow := h.Points[3].NetCashFlow; !flow.Equal(USD(-435)) {
		t.Errorf("sell-day flow = %s, want -$435.00", flow)
	}
	if flow := h.Points[1].NetCashFlow; !flow.IsZero() {
		t.Errorf("quiet-day flow = %s, want zero", flow)
	}
}

func TestDailyReturnsSkipNonFinite(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	h := &History{
		Range: NewRange(jan2, jan2.Add(3)),
		Points: []ValuationPoint{
			{Date: jan2, MarketValue: USD(0)},
			{Date: jan2.Add(1), MarketValue: USD(1000), NetCashFlow: USD(1000)},
			{Date: jan2.Add(2), MarketValue: USD(1100)},
			{Date: jan2.Add(3), MarketValue: USD(1045)},
		},
	}
	dates, returns := h.DailyReturns()
	if len(returns) != 3 {
		t.Fatalf("%d returns, want 3", len(returns))
	}
	// day 1: 1000/(0+1000)-1 = 0
	if returns[0] != 0 {
		t.Errorf("flow-funded day return = %v, want 0", returns[0])
	}
	if got := returns[1]; !Percent(got*100).Equal(Percent(10)) {
		t.Errorf("second return = %v, want 0.10", got)
	}
	if got := returns[2]; !Percent(got*100).Equal(Percent(-5)) {
		t.Errorf("third return = %v, want -0.05", got)
	}
	if len(dates) != len(returns) {
		t.Fatalf("dates and returns misaligned: %d vs %d", len(dates), len(returns))
	}
}

func TestDailyReturnsZeroDenominator(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	h := &History{
		Range: NewRange(jan2, jan2.Add(2)),
		Points: []ValuationPoint{
			{Date: jan2, MarketValue: USD(0)},
			{Date: jan2.Add(1), MarketValue: USD(0)},
			{Date: jan2.Add(2), MarketValue: USD(0)},
		},
	}
	_, returns := h.DailyReturns()
	if len(returns) != 0 {
		t.Errorf("zero-value days must not produce observations, got %v", returns)
	}
}
