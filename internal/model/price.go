package model

import "time"

// DateOnly is the ISO calendar-date layout used everywhere dates cross a
// boundary (persisted store, API payloads, qualifying-day sets).
const DateOnly = "2006-01-02"

// PricePoint is one trading day's closing price. Series are always sorted
// ascending by date; non-trading days are simply absent.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Day builds a UTC-midnight calendar date. All date math in the engine runs on
// UTC-midnight values so weekday and day-count arithmetic cannot be skewed by
// DST or the host timezone.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO calendar date into a UTC-midnight time.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateOnly, s)
}

// FormatDay renders the calendar-date part of t in ISO form.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DateOnly)
}

// Midnight truncates t to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return Day(y, m, d)
}
