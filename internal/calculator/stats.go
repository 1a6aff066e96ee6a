// Package calculator derives descriptive stats from a daily close series. The
// numbers are context for reports and the prices API, not trading signals.
package calculator

import (
	"errors"
	"math"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// tradingDays52w approximates one year of trading days.
const tradingDays52w = 252

// Stats summarizes where the latest close sits relative to recent history.
type Stats struct {
	LatestClose    float64 `json:"latest_close"`
	SMA200         float64 `json:"sma200,omitempty"`
	High52w        float64 `json:"high_52w"`
	Low52w         float64 `json:"low_52w"`
	Position52w    float64 `json:"position_52w"` // 0 at the low, 1 at the high
	OffHighPercent float64 `json:"off_high_percent"`
}

// Compute builds Stats from an ascending daily series. SMA200 is left zero
// when fewer than 200 closes are available.
func Compute(series []model.PricePoint) (Stats, error) {
	if len(series) == 0 {
		return Stats{}, errors.New("no price points provided")
	}

	high, low, err := Range(series, tradingDays52w)
	if err != nil {
		return Stats{}, err
	}

	latest := series[len(series)-1].Close
	s := Stats{
		LatestClose: latest,
		High52w:     high,
		Low52w:      low,
		Position52w: Position(latest, high, low),
	}
	if high > 0 {
		s.OffHighPercent = (high - latest) / high * 100
	}

	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Close
	}
	if sma, err := SMA(closes, 200); err == nil {
		s.SMA200 = sma
	}
	return s, nil
}

// Range scans the most recent window points and returns the high and low close.
func Range(series []model.PricePoint, window int) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("no price points provided")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	start := len(series) - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(series); i++ {
		if c := series[i].Close; c > high {
			high = c
		}
		if c := series[i].Close; c < low {
			low = c
		}
	}
	return high, low, nil
}

// Position returns where current sits within [low, high], clamped to 0~1.
func Position(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
