// Package simulator reconstructs hypothetical DCA portfolios from historical
// prices. A run is one synchronous chronological pass over the input: no I/O,
// no clock, no randomness, so identical inputs always produce identical output
// and a run can be shipped across a worker boundary as plain request/response.
package simulator

import (
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/schedule"
)

// Result pairs the day-by-day trajectory with its derived summary.
type Result struct {
	Portfolio []model.PortfolioPoint `json:"portfolio"`
	Summary   model.PortfolioSummary `json:"summary"`
}

// Run executes one simulation. It returns an error only for invalid
// configuration (non-positive amount, unknown cadence or policy); bad data
// inside the price series is skipped, never raised. Prices must be sorted
// ascending by date.
func Run(in model.SimulationInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	ghost := in.Policy.Kind == model.PolicyGhost
	qualifying := make(map[string]struct{}, len(in.Policy.QualifyingDates))
	if ghost {
		for _, d := range in.Policy.QualifyingDates {
			qualifying[d] = struct{}{}
		}
		// No clean days means no purchases can ever happen; skip the pass.
		if len(qualifying) == 0 {
			return Result{Summary: model.PortfolioSummary{}}, nil
		}
	}

	start := model.Midnight(in.StartDate)
	var (
		points    []model.PortfolioPoint
		shares    float64
		cash      float64
		purchases int
	)
	for _, p := range in.Prices {
		date := model.Midnight(p.Date)
		if date.Before(start) {
			continue
		}
		if schedule.IsPurchaseDate(date, in.Cadence, start) {
			eligible := true
			if ghost {
				_, eligible = qualifying[model.FormatDay(date)]
			}
			// A non-positive close is a data-quality skip: the day is still
			// emitted, holdings just don't change.
			if eligible && p.Close > 0 {
				shares += in.AmountPerPurchase / p.Close
				cash += in.AmountPerPurchase
				purchases++
			}
		}
		points = append(points, model.PortfolioPoint{
			Date:           date,
			CashSpent:      cash,
			PortfolioValue: shares * p.Close,
			SharesOwned:    shares,
		})
	}

	return Result{
		Portfolio: points,
		Summary:   summarize(points, len(qualifying), purchases),
	}, nil
}

// Ghost simulates the clean-day-gated portfolio: a scheduled date buys only if
// it appears in qualifyingDates.
func Ghost(prices []model.PricePoint, start time.Time, cadence model.Cadence, amount float64, qualifyingDates []string) (Result, error) {
	return Run(model.SimulationInput{
		Prices:            prices,
		StartDate:         start,
		Cadence:           cadence,
		AmountPerPurchase: amount,
		Policy:            model.GhostPolicy(qualifyingDates),
	})
}

// Potential simulates the unconstrained projection: every scheduled date buys.
func Potential(prices []model.PricePoint, start time.Time, cadence model.Cadence, amount float64) (Result, error) {
	return Run(model.SimulationInput{
		Prices:            prices,
		StartDate:         start,
		Cadence:           cadence,
		AmountPerPurchase: amount,
		Policy:            model.PotentialPolicy(),
	})
}

func summarize(points []model.PortfolioPoint, cleanDays, purchases int) model.PortfolioSummary {
	s := model.PortfolioSummary{
		CleanDaysCount: cleanDays,
		PurchasesCount: purchases,
	}
	if len(points) == 0 {
		return s
	}
	last := points[len(points)-1]
	s.TotalCashSpent = last.CashSpent
	s.CurrentValue = last.PortfolioValue
	s.TotalShares = last.SharesOwned
	s.GainLoss = s.CurrentValue - s.TotalCashSpent
	if s.TotalCashSpent != 0 {
		s.GainLossPercent = s.GainLoss / s.TotalCashSpent * 100
	}
	return s
}
