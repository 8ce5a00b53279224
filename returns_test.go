package folio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCompoundAnnualGrowth(t *testing.T) {
	jan2 := NewDate(2023, time.January, 2)

	t.Run("one year is the total return", func(t *testing.T) {
		growth, ok := CompoundAnnualGrowth(10000, 15000, NewRange(jan2, jan2.Add(365)))
		if !ok {
			t.Fatal("growth should be computable")
		}
		if math.Abs(growth-0.5) > 0.005 {
			t.Errorf("growth = %v, want 0.50 within 0.005", growth)
		}
	})
	t.Run("two years annualize", func(t *testing.T) {
		growth, ok := CompoundAnnualGrowth(10000, 14400, NewRange(jan2, jan2.AddYears(2)))
		if !ok {
			t.Fatal("growth should be computable")
		}
		// (1.44)^(1/2)-1 = 0.2
		if math.Abs(growth-0.2) > 0.005 {
			t.Errorf("growth = %v, want 0.20 within 0.005", growth)
		}
	})
	t.Run("zero begin is null", func(t *testing.T) {
		if _, ok := CompoundAnnualGrowth(0, 100, NewRange(jan2, jan2.Add(30))); ok {
			t.Error("zero beginning value must not produce a growth rate")
		}
	})
	t.Run("negative terminal floors at -100%", func(t *testing.T) {
		growth, ok := CompoundAnnualGrowth(100, -5, NewRange(jan2, jan2.Add(30)))
		if !ok || growth != -1 {
			t.Errorf("growth = %v, %v, want -1, true", growth, ok)
		}
	})
}

func TestInternalRateLumpSum(t *testing.T) {
	jan2 := NewDate(2023, time.January, 2)
	flows := []CashFlow{
		{Date: jan2, Amount: -10000},
		{Date: jan2.Add(365), Amount: 15000},
	}
	rate, err := InternalRate(flows)
	if err != nil {
		t.Fatalf("InternalRate: %v", err)
	}
	if math.Abs(rate-0.5) > 0.005 {
		t.Errorf("rate = %v, want 0.50 within 0.005", rate)
	}
}

func TestInternalRateTwoYears(t *testing.T) {
	jan2 := NewDate(2023, time.January, 2)
	flows := []CashFlow{
		{Date: jan2, Amount: -10000},
		{Date: jan2.Add(730), Amount: 12100},
	}
	rate, err := InternalRate(flows)
	if err != nil {
		t.Fatalf("InternalRate: %v", err)
	}
	// (1+r)^2 = 1.21
	if math.Abs(rate-0.1) > 0.001 {
		t.Errorf("rate = %v, want 0.10", rate)
	}
}

func TestInternalRateIntermediateFlows(t *testing.T) {
	jan2 := NewDate(2023, time.January, 2)
	flows := []CashFlow{
		{Date: jan2, Amount: -10000},
		{Date: jan2.Add(182), Amount: -5000},
		{Date: jan2.Add(365), Amount: 16500},
	}
	rate, err := InternalRate(flows)
	if err != nil {
		t.Fatalf("InternalRate: %v", err)
	}
	// verify the root: the NPV at the solved rate is ~0
	npv := 0.0
	for _, f := range flows {
		npv += f.Amount / math.Pow(1+rate, float64(f.Date.Sub(jan2))/365)
	}
	if math.Abs(npv) > 1e-6 {
		t.Errorf("NPV at solved rate %v is %v, want ~0", rate, npv)
	}
}

func TestInternalRateNeedsMixedFlows(t *testing.T) {
	jan2 := NewDate(2023, time.January, 2)
	_, err := InternalRate([]CashFlow{
		{Date: jan2, Amount: -100},
		{Date: jan2.Add(30), Amount: -200},
	})
	if !errors.Is(err, ErrMixedFlowsRequired) {
		t.Fatalf("want ErrMixedFlowsRequired, got %v", err)
	}
}

func TestInternalRateDeepLoss(t *testing.T) {
	// Newton overshoots below -1 on near-total losses; bisection must save it.
	jan2 := NewDate(2023, time.January, 2)
	rate, err := InternalRate([]CashFlow{
		{Date: jan2, Amount: -10000},
		{Date: jan2.Add(365), Amount: 100},
	})
	if err != nil {
		t.Fatalf("InternalRate: %v", err)
	}
	if math.Abs(rate-(-0.99)) > 0.001 {
		t.Errorf("rate = %v, want -0.99", rate)
	}
}

func twrHistory(points ...ValuationPoint) *History {
	return &History{
		Range:  NewRange(points[0].Date, points[len(points)-1].Date),
		Points: points,
	}
}

func TestTimeWeightedReturnNoFlows(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	h := twrHistory(
		ValuationPoint{Date: jan2, MarketValue: USD(10000)},
		ValuationPoint{Date: jan2.Add(1), MarketValue: USD(10500)},
		ValuationPoint{Date: jan2.Add(2), MarketValue: USD(11000)},
	)
	twr, ok := h.TimeWeightedReturn()
	if !ok {
		t.Fatal("TWR should be computable")
	}
	if !Percent(twr * 100).Equal(Percent(10)) {
		t.Errorf("TWR = %v, want the simple return 0.10", twr)
	}
}

func TestTimeWeightedReturnNeutralizesFlows(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	// 10% growth, then a large deposit, then another 10% growth.
	h := twrHistory(
		ValuationPoint{Date: jan2, MarketValue: USD(1000)},
		ValuationPoint{Date: jan2.Add(1), MarketValue: USD(1100)},
		ValuationPoint{Date: jan2.Add(2), MarketValue: USD(11100), NetCashFlow: USD(10000)},
		ValuationPoint{Date: jan2.Add(3), MarketValue: USD(12210)},
	)
	twr, ok := h.TimeWeightedReturn()
	if !ok {
		t.Fatal("TWR should be computable")
	}
	// 1.10 * 1.00 * 1.10 - 1 = 0.21
	if !Percent(twr * 100).Equal(Percent(21)) {
		t.Errorf("TWR = %v, want 0.21", twr)
	}
}

func TestTimeWeightedReturnZeroStartSubPeriod(t *testing.T) {
	jan2 := NewDate(2024, time.January, 2)
	h := twrHistory(
		ValuationPoint{Date: jan2, MarketValue: USD(0)},
		ValuationPoint{Date: jan2.Add(1), MarketValue: USD(0)},
		ValuationPoint{Date: jan2.Add(2), MarketValue: USD(5000), NetCashFlow: USD(5000)},
		ValuationPoint{Date: jan2.Add(3), MarketValue: USD(5500)},
	)
	twr, ok := h.TimeWeightedReturn()
	if !ok {
		t.Fatal("TWR should be computable")
	}
	// the first measurable sub-period is the 10% one
	if !Percent(twr * 100).Equal(Percent(10)) {
		t.Errorf("TWR = %v, want 0.10", twr)
	}
}

func TestAnnualizedOver(t *testing.T) {
	jan2 := NewDate(2023, time.January, 2)
	short := AnnualizedOver(0.05, NewRange(jan2, jan2.Add(90)))
	if short != 0.05 {
		t.Errorf("short spans stay total: got %v", short)
	}
	long := AnnualizedOver(0.44, NewRange(jan2, jan2.AddYears(2)))
	if math.Abs(long-0.2) > 0.005 {
		t.Errorf("two-year 44%% = %v annualized, want 0.20", long)
	}
}
