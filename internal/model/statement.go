package model

import "github.com/shopspring/decimal"

// Span is a half-open [Start,End) byte-offset range into the source statement
// text. The parser uses spans to keep later, looser pattern families from
// re-capturing text an earlier family already claimed.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// ParsedTransaction is one (date, description, amount) triple extracted from a
// bank statement dump. Amount is always positive; statements record direction
// in ways too inconsistent to trust, so spend analysis works on magnitudes.
type ParsedTransaction struct {
	Date        string          `json:"date"` // ISO calendar date
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Span        Span            `json:"span"`
}

// CategoryMatch is one spending category's share of a parsed statement.
type CategoryMatch struct {
	Category    string          `json:"category"`
	MatchCount  int             `json:"match_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
