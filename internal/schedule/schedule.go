// Package schedule decides which calendar dates a DCA plan buys on. It is a
// pure predicate over date-only values: no clocks, no locale, no timezones
// beyond the UTC-midnight convention of the model package.
package schedule

import (
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// IsPurchaseDate reports whether date is a scheduled purchase date for the
// given cadence anchored at start. Dates before start never match.
//
// Monthly matches on day-of-month equality only: a plan anchored on the 29th,
// 30th or 31st skips months that lack that day. That is a known limitation
// carried deliberately instead of inventing roll-forward rules.
func IsPurchaseDate(date time.Time, cadence model.Cadence, start time.Time) bool {
	date = model.Midnight(date)
	start = model.Midnight(start)
	if date.Before(start) {
		return false
	}

	switch cadence {
	case model.CadenceDaily:
		return true
	case model.CadenceWeekly:
		return date.Weekday() == start.Weekday()
	case model.CadenceBiweekly:
		if date.Weekday() != start.Weekday() {
			return false
		}
		return (daysBetween(start, date)/7)%2 == 0
	case model.CadenceMonthly:
		return date.Day() == start.Day()
	default:
		return false
	}
}

// daysBetween counts whole days from a to b. Both are UTC midnights, so the
// division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
