package simulator

import (
	"math"
	"testing"
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func dailyPrices(start time.Time, closes ...float64) []model.PricePoint {
	prices := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		prices[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return prices
}

func TestRun_WeeklyPotentialScenario(t *testing.T) {
	prices := []model.PricePoint{
		{Date: model.Day(2024, time.January, 1), Close: 100},
		{Date: model.Day(2024, time.January, 2), Close: 100},
		{Date: model.Day(2024, time.January, 8), Close: 110},
	}
	res, err := Potential(prices, model.Day(2024, time.January, 1), model.CadenceWeekly, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Portfolio) != 3 {
		t.Fatalf("expected 3 points, got %d", len(res.Portfolio))
	}
	if res.Summary.PurchasesCount != 2 {
		t.Fatalf("expected purchases on 01-01 and 01-08 only, got %d", res.Summary.PurchasesCount)
	}

	wantShares := 50.0/100 + 50.0/110
	if !almostEqual(res.Summary.TotalShares, wantShares) {
		t.Errorf("total shares: got %v, want %v", res.Summary.TotalShares, wantShares)
	}
	if !almostEqual(res.Summary.TotalCashSpent, 100) {
		t.Errorf("cash spent: got %v, want 100", res.Summary.TotalCashSpent)
	}
	wantValue := wantShares * 110
	if !almostEqual(res.Summary.CurrentValue, wantValue) {
		t.Errorf("current value: got %v, want %v", res.Summary.CurrentValue, wantValue)
	}
	if !almostEqual(res.Summary.GainLoss, wantValue-100) {
		t.Errorf("gain/loss: got %v, want %v", res.Summary.GainLoss, wantValue-100)
	}

	// 01-02 is not a Monday: holdings must be unchanged from 01-01.
	if res.Portfolio[1].CashSpent != res.Portfolio[0].CashSpent {
		t.Error("non-scheduled day must not spend cash")
	}
}

func TestRun_Monotonicity(t *testing.T) {
	start := model.Day(2024, time.March, 1)
	prices := dailyPrices(start, 50, 48, 52, 51, 0, 53, 49, 55, 54, 56)
	res, err := Potential(prices, start, model.CadenceDaily, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(res.Portfolio); i++ {
		if res.Portfolio[i].CashSpent < res.Portfolio[i-1].CashSpent {
			t.Fatalf("cash spent decreased at %d", i)
		}
		if res.Portfolio[i].SharesOwned < res.Portfolio[i-1].SharesOwned {
			t.Fatalf("shares owned decreased at %d", i)
		}
	}
}

func TestRun_GhostEmptyQualifyingSet(t *testing.T) {
	start := model.Day(2024, time.January, 1)
	res, err := Ghost(dailyPrices(start, 100, 101, 102), start, model.CadenceDaily, 25, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Portfolio) != 0 {
		t.Errorf("expected empty portfolio, got %d points", len(res.Portfolio))
	}
	if res.Summary != (model.PortfolioSummary{}) {
		t.Errorf("expected zeroed summary, got %+v", res.Summary)
	}
}

func TestRun_GhostExactDateSetGating(t *testing.T) {
	// Weekly plan anchored on Monday 2024-01-01. Clean days: the first Monday
	// and a Wednesday. Only the Monday buys: the Wednesday is clean but not
	// scheduled, the second Monday is scheduled but not clean.
	prices := []model.PricePoint{
		{Date: model.Day(2024, time.January, 1), Close: 100},
		{Date: model.Day(2024, time.January, 3), Close: 90},
		{Date: model.Day(2024, time.January, 8), Close: 80},
	}
	res, err := Ghost(prices, model.Day(2024, time.January, 1), model.CadenceWeekly, 50,
		[]string{"2024-01-01", "2024-01-03"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary.PurchasesCount != 1 {
		t.Fatalf("expected exactly 1 purchase, got %d", res.Summary.PurchasesCount)
	}
	if !almostEqual(res.Summary.TotalShares, 50.0/100) {
		t.Errorf("shares must come from the 01-01 buy only, got %v", res.Summary.TotalShares)
	}
	if res.Summary.CleanDaysCount != 2 {
		t.Errorf("clean days count: got %d, want 2", res.Summary.CleanDaysCount)
	}
}

func TestRun_Conservation(t *testing.T) {
	start := model.Day(2024, time.May, 6) // Monday
	prices := dailyPrices(start, 20, 21, 19, 22, 23, 24, 25)
	res, err := Ghost(prices, start, model.CadenceDaily, 5,
		[]string{"2024-05-06", "2024-05-08", "2024-05-12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := res.Portfolio[len(res.Portfolio)-1]
	if res.Summary.TotalCashSpent != last.CashSpent {
		t.Errorf("summary cash %v != last point cash %v", res.Summary.TotalCashSpent, last.CashSpent)
	}
	if res.Summary.TotalShares != last.SharesOwned {
		t.Errorf("summary shares %v != last point shares %v", res.Summary.TotalShares, last.SharesOwned)
	}
}

func TestRun_GainLossArithmetic(t *testing.T) {
	start := model.Day(2024, time.June, 3)
	res, err := Potential(dailyPrices(start, 10, 12, 8, 16), start, model.CadenceDaily, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := res.Summary
	if !almostEqual(s.GainLoss, s.CurrentValue-s.TotalCashSpent) {
		t.Errorf("gainLoss %v != currentValue-totalCashSpent %v", s.GainLoss, s.CurrentValue-s.TotalCashSpent)
	}
	if !almostEqual(s.GainLossPercent, s.GainLoss/s.TotalCashSpent*100) {
		t.Errorf("gainLossPercent %v inconsistent", s.GainLossPercent)
	}
}

func TestRun_GainLossPercentZeroWhenNothingSpent(t *testing.T) {
	// Start after the last price point: no points at all.
	prices := dailyPrices(model.Day(2024, time.January, 1), 100, 101)
	res, err := Potential(prices, model.Day(2024, time.February, 1), model.CadenceDaily, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Portfolio) != 0 {
		t.Fatalf("expected no points, got %d", len(res.Portfolio))
	}
	if res.Summary.GainLossPercent != 0 || res.Summary.GainLoss != 0 {
		t.Errorf("expected zero gain metrics, got %+v", res.Summary)
	}
}

func TestRun_NonPositiveCloseSkipsPurchase(t *testing.T) {
	start := model.Day(2024, time.April, 1)
	prices := dailyPrices(start, 100, 0, 50)
	res, err := Potential(prices, start, model.CadenceDaily, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Portfolio) != 3 {
		t.Fatalf("bad-close day must still be emitted, got %d points", len(res.Portfolio))
	}
	if res.Summary.PurchasesCount != 2 {
		t.Errorf("expected 2 purchases (zero close skipped), got %d", res.Summary.PurchasesCount)
	}
	mid := res.Portfolio[1]
	if mid.SharesOwned != res.Portfolio[0].SharesOwned {
		t.Error("holdings must be unchanged on a bad-close day")
	}
	if mid.PortfolioValue != 0 {
		t.Errorf("portfolio value on a zero close must be exactly shares*0, got %v", mid.PortfolioValue)
	}
}

func TestRun_EmptyPrices(t *testing.T) {
	res, err := Potential(nil, model.Day(2024, time.January, 1), model.CadenceDaily, 10)
	if err != nil {
		t.Fatalf("empty prices must not error: %v", err)
	}
	if len(res.Portfolio) != 0 {
		t.Errorf("expected empty portfolio, got %d points", len(res.Portfolio))
	}
}

func TestRun_FiltersPricesBeforeStart(t *testing.T) {
	prices := dailyPrices(model.Day(2024, time.January, 1), 100, 100, 100, 100)
	res, err := Potential(prices, model.Day(2024, time.January, 3), model.CadenceDaily, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Portfolio) != 2 {
		t.Fatalf("expected 2 points at/after start, got %d", len(res.Portfolio))
	}
	if !res.Portfolio[0].Date.Equal(model.Day(2024, time.January, 3)) {
		t.Errorf("first point should be the start date, got %s", model.FormatDay(res.Portfolio[0].Date))
	}
}

func TestRun_ValidationErrors(t *testing.T) {
	prices := dailyPrices(model.Day(2024, time.January, 1), 100)
	start := model.Day(2024, time.January, 1)

	cases := []struct {
		name string
		in   model.SimulationInput
	}{
		{"zero amount", model.SimulationInput{Prices: prices, StartDate: start, Cadence: model.CadenceDaily, AmountPerPurchase: 0, Policy: model.PotentialPolicy()}},
		{"negative amount", model.SimulationInput{Prices: prices, StartDate: start, Cadence: model.CadenceDaily, AmountPerPurchase: -5, Policy: model.PotentialPolicy()}},
		{"bad cadence", model.SimulationInput{Prices: prices, StartDate: start, Cadence: "fortnightly", AmountPerPurchase: 10, Policy: model.PotentialPolicy()}},
		{"zero start", model.SimulationInput{Prices: prices, Cadence: model.CadenceDaily, AmountPerPurchase: 10, Policy: model.PotentialPolicy()}},
		{"bad policy", model.SimulationInput{Prices: prices, StartDate: start, Cadence: model.CadenceDaily, AmountPerPurchase: 10, Policy: model.FundingPolicy{Kind: "margin"}}},
	}
	for _, tt := range cases {
		if _, err := Run(tt.in); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	start := model.Day(2023, time.July, 3)
	prices := dailyPrices(start, 31, 30.5, 29, 33, 34.25, 32, 31.75)
	clean := []string{"2023-07-03", "2023-07-05", "2023-07-08"}

	a, err := Ghost(prices, start, model.CadenceDaily, 12.5, clean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Ghost(prices, start, model.CadenceDaily, 12.5, clean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Summary != b.Summary {
		t.Errorf("identical inputs produced different summaries: %+v vs %+v", a.Summary, b.Summary)
	}
	for i := range a.Portfolio {
		if a.Portfolio[i] != b.Portfolio[i] {
			t.Fatalf("identical inputs produced different points at %d", i)
		}
	}
}
