package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Settings is the user's DCA plan configuration.
type Settings struct {
	Symbol            string  `json:"symbol"`
	Cadence           Cadence `json:"cadence"`
	AmountPerPurchase float64 `json:"amount_per_purchase"`
	StartDate         string  `json:"start_date"` // ISO calendar date
}

// Validate rejects settings that would make every simulation invalid.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if !s.Cadence.Valid() {
		return fmt.Errorf("unknown cadence %q", s.Cadence)
	}
	if s.AmountPerPurchase <= 0 || math.IsNaN(s.AmountPerPurchase) || math.IsInf(s.AmountPerPurchase, 0) {
		return fmt.Errorf("amount per purchase must be positive, got %v", s.AmountPerPurchase)
	}
	if _, err := ParseDay(s.StartDate); err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	return nil
}

// CachedSeries is one fetched price history plus its fetch time, so staleness
// is decided by the owner of the cache rather than inside the fetch path.
type CachedSeries struct {
	Series    []PricePoint `json:"series"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// State is the flat persisted object behind the settings store. Everything the
// app remembers between runs lives here as one JSON document.
type State struct {
	Settings   Settings                `json:"settings"`
	CleanDays  []string                `json:"clean_days,omitempty"` // ISO dates, ascending
	PriceCache map[string]CachedSeries `json:"price_cache,omitempty"`
	UpdatedAt  time.Time               `json:"updated_at"`
}
