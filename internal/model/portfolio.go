package model

import (
	"fmt"
	"math"
	"time"
)

// Cadence is the purchase frequency for a DCA plan.
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// ParseCadence maps a config/API string onto a Cadence.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown cadence %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the four supported cadences.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceBiweekly, CadenceMonthly:
		return true
	}
	return false
}

// PolicyKind discriminates the two funding policies.
type PolicyKind string

const (
	// PolicyGhost funds a purchase only on scheduled dates that are also in
	// the caller-supplied qualifying-date set (the user's logged clean days).
	PolicyGhost PolicyKind = "ghost"
	// PolicyPotential funds every scheduled date, unconstrained.
	PolicyPotential PolicyKind = "potential"
)

// FundingPolicy gates which scheduled dates actually receive money.
type FundingPolicy struct {
	Kind PolicyKind `json:"kind"`
	// QualifyingDates holds ISO calendar dates. Only meaningful for
	// PolicyGhost: a purchase happens at a scheduled date only if that
	// literal date is present here.
	QualifyingDates []string `json:"qualifying_dates,omitempty"`
}

// GhostPolicy builds the clean-day-gated policy.
func GhostPolicy(qualifyingDates []string) FundingPolicy {
	return FundingPolicy{Kind: PolicyGhost, QualifyingDates: qualifyingDates}
}

// PotentialPolicy builds the unconstrained policy.
func PotentialPolicy() FundingPolicy {
	return FundingPolicy{Kind: PolicyPotential}
}

// SimulationInput is everything a single DCA reconstruction needs. Prices must
// be sorted ascending by date; the simulator does not re-sort.
type SimulationInput struct {
	Prices            []PricePoint  `json:"prices"`
	StartDate         time.Time     `json:"start_date"`
	Cadence           Cadence       `json:"cadence"`
	AmountPerPurchase float64       `json:"amount_per_purchase"`
	Policy            FundingPolicy `json:"policy"`
}

// Validate rejects invalid configuration before a simulation begins. Data
// quality problems inside Prices are not errors; the simulator skips them.
func (in SimulationInput) Validate() error {
	if in.AmountPerPurchase <= 0 || math.IsNaN(in.AmountPerPurchase) || math.IsInf(in.AmountPerPurchase, 0) {
		return fmt.Errorf("amount per purchase must be positive, got %v", in.AmountPerPurchase)
	}
	if !in.Cadence.Valid() {
		return fmt.Errorf("unknown cadence %q", in.Cadence)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	switch in.Policy.Kind {
	case PolicyGhost, PolicyPotential:
	default:
		return fmt.Errorf("unknown funding policy %q", in.Policy.Kind)
	}
	return nil
}

// PortfolioPoint is one day of the reconstructed portfolio. CashSpent and
// SharesOwned are cumulative and never decrease; PortfolioValue is exactly
// SharesOwned * that day's close.
type PortfolioPoint struct {
	Date           time.Time `json:"date"`
	CashSpent      float64   `json:"cash_spent"`
	PortfolioValue float64   `json:"portfolio_value"`
	SharesOwned    float64   `json:"shares_owned"`
}

// PortfolioSummary condenses a portfolio trajectory into the headline numbers.
type PortfolioSummary struct {
	TotalCashSpent  float64 `json:"total_cash_spent"`
	CurrentValue    float64 `json:"current_value"`
	TotalShares     float64 `json:"total_shares"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
	CleanDaysCount  int     `json:"clean_days_count"`
	PurchasesCount  int     `json:"purchases_count"`
}
