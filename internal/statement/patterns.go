package statement

import (
	"regexp"
	"strings"
)

// patternFamily is one row of the extraction table: a compiled layout pattern
// plus the submatch indexes of its date, description and amount fields.
// Families are evaluated in slice order; earlier families claim byte ranges
// that later ones may not touch.
type patternFamily struct {
	name      string
	re        *regexp.Regexp
	dateIdx   int
	descIdx   int
	amountIdx int
}

// The families run issuer-tuned layouts first and end with a loose fallback.
// Keeping them as data instead of branching code is what makes the
// first-match-wins policy auditable: priority is literally the slice order.
var patternFamilies = []patternFamily{
	{
		// Debit-register lines that tag the purchase explicitly, e.g.
		// "01/15/24 CHECKCARD 0114 STARBUCKS SEATTLE WA -5.75". The marker and
		// the optional embedded authorization date are consumed so only the
		// merchant text lands in the description.
		name:      "checkcard",
		re:        regexp.MustCompile(`(?mi)^[ \t]*(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)[ \t]+(?:CHECKCARD|DEBIT CARD PURCHASE|POS DEBIT|PURCHASE AUTHORIZED ON)[ \t]+(?:\d{2}/?\d{2}[ \t]+)?(.+?)[ \t]+\(?-?\$?([\d,]+\.\d{2})\)?-?[ \t]*$`),
		dateIdx:   1,
		descIdx:   2,
		amountIdx: 3,
	},
	{
		// Card-statement lines: date first, merchant text, amount in the last
		// column. Covers the common Chase/Amex/TD layouts including trailing
		// minus, leading -$ and parenthesized amounts.
		name:      "card-line",
		re:        regexp.MustCompile(`(?m)^[ \t]*(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\*?[ \t]+(.+?)[ \t]+\(?-?\$?([\d,]+\.\d{2})\)?-?[ \t]*$`),
		dateIdx:   1,
		descIdx:   2,
		amountIdx: 3,
	},
	{
		// Exported CSV rows: date,description,amount with optional quoting.
		// Extra trailing columns (balance, category) are ignored.
		name:      "csv-row",
		re:        regexp.MustCompile(`(?m)^[ \t]*"?(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})"?[ \t]*,[ \t]*("[^"\n]{2,}"|[^",\n]{2,}?)[ \t]*,[ \t]*"?\(?-?\$?(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)\)?"?[ \t]*(?:,[^\n]*)?$`),
		dateIdx:   1,
		descIdx:   2,
		amountIdx: 3,
	},
	{
		// Fallback: any date followed by text and a cents amount on one line,
		// for layouts none of the tuned families recognize.
		name:      "freeform",
		re:        regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)[ \t]+([A-Za-z][^\n]*?)[ \t]+\(?-?\$?([\d,]+\.\d{2})\)?`),
		dateIdx:   1,
		descIdx:   2,
		amountIdx: 3,
	},
}

// skipMarkers veto matches whose raw text is statement furniture rather than a
// purchase: balances, section totals, transfers, thank-you payment lines.
// Compared against the lowercased raw match.
var skipMarkers = []string{
	"balance",
	"total",
	"subtotal",
	"transfer",
	"xfer",
	"payment received",
	"payment - thank you",
	"thank you",
	"statement period",
	"statement date",
	"minimum payment",
	"minimum due",
	"amount due",
	"available credit",
	"credit limit",
	"due date",
	"page ",
}

func matchesSkipList(raw string) bool {
	lower := strings.ToLower(raw)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// headerWords is the vocabulary of column headers. A cleaned description made
// up entirely of these words is a header row that leaked through a pattern,
// not a merchant.
var headerWords = map[string]bool{
	"date":         true,
	"post":         true,
	"posted":       true,
	"posting":      true,
	"trans":        true,
	"transaction":  true,
	"transactions": true,
	"description":  true,
	"desc":         true,
	"details":      true,
	"detail":       true,
	"merchant":     true,
	"activity":     true,
	"amount":       true,
	"debit":        true,
	"debits":       true,
	"credit":       true,
	"credits":      true,
	"type":         true,
	"ref":          true,
	"reference":    true,
}

func looksLikeHeader(desc string) bool {
	fields := strings.Fields(strings.ToLower(desc))
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if !headerWords[strings.Trim(f, "/|-:.")] {
			return false
		}
	}
	return true
}
