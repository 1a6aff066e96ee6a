// Package statement extracts purchase transactions from pasted bank and card
// statement text. Input is whatever the user dumped in: free text, aligned
// columns or CSV exports, any mix of issuers. The parser never fails; lines it
// cannot read with confidence are dropped rather than guessed at.
package statement

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

var maxAmount = decimal.NewFromInt(100000)

// Parser turns raw statement text into normalized transactions.
type Parser struct {
	// ReferenceYear completes dates like "01/15" that carry no year. Zero
	// means the current year.
	ReferenceYear int
}

func New() *Parser {
	return &Parser{}
}

// Parse extracts every transaction the pattern families recognize.
//
// Families run in priority order and claim the byte ranges of accepted
// matches, so a line read by an issuer-tuned pattern is invisible to the
// fallback. A match only claims its range once date, description and amount
// all validate; a rejected candidate leaves the text open for later families.
// Output is deduplicated and sorted by date ascending, preserving extraction
// order within a date. Unparseable input yields an empty slice, never an
// error.
func (p *Parser) Parse(text string) []model.ParsedTransaction {
	text = normalizeNewlines(text)

	var (
		claimed []model.Span
		txs     []model.ParsedTransaction
	)
	for _, fam := range patternFamilies {
		for _, idx := range fam.re.FindAllStringSubmatchIndex(text, -1) {
			span := model.Span{Start: idx[0], End: idx[1]}
			if overlapsAny(claimed, span) {
				continue
			}
			raw := text[span.Start:span.End]
			if matchesSkipList(raw) {
				continue
			}
			desc := cleanDescription(submatch(text, idx, fam.descIdx))
			if len(desc) < 3 || looksLikeHeader(desc) {
				continue
			}
			amount, ok := parseAmount(submatch(text, idx, fam.amountIdx))
			if !ok {
				continue
			}
			date, ok := p.normalizeDate(submatch(text, idx, fam.dateIdx))
			if !ok {
				continue
			}
			claimed = append(claimed, span)
			txs = append(txs, model.ParsedTransaction{
				Date:        date,
				Description: desc,
				Amount:      amount,
				Span:        span,
			})
		}
	}

	txs = dedupe(txs)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date < txs[j].Date })
	return txs
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// submatch returns group n of a FindAllStringSubmatchIndex entry, or "" when
// the group did not participate in the match.
func submatch(text string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return text[idx[2*n]:idx[2*n+1]]
}

func overlapsAny(claimed []model.Span, s model.Span) bool {
	for _, c := range claimed {
		if c.Overlaps(s) {
			return true
		}
	}
	return false
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	storeNumber    = regexp.MustCompile(`#\s?\d+`)
	maskedCard     = regexp.MustCompile(`(?i)[x*]{2,}\s?\d{2,}`)
	trailingDigits = regexp.MustCompile(`[\s\d]+$`)
)

// cleanDescription normalizes merchant text: quotes and store/card numbers
// go, trailing reference digits go, whitespace collapses to single spaces.
func cleanDescription(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	s = storeNumber.ReplaceAllString(s, "")
	s = maskedCard.ReplaceAllString(s, "")
	s = trailingDigits.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// parseAmount reads a money field, stripping currency decoration and sign.
// Amounts are stored as magnitudes; a statement's minus only marks direction.
// Rejects zero and anything over 100,000, which in pasted text is almost
// always a reference number the pattern misread.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "()")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "-")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	d = d.Abs()
	if d.IsZero() || d.GreaterThan(maxAmount) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// normalizeDate converts MM/DD, MM/DD/YY, MM/DD/YYYY and the dash-separated
// variants to ISO form. Two-digit years pivot at 50 (49 is 2049, 50 is 1950).
// Yearless dates take the parser's reference year. Impossible calendar dates
// fail rather than being coerced to a nearby real one.
func (p *Parser) normalizeDate(raw string) (string, bool) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "*")
	sep := "/"
	if strings.Contains(raw, "-") {
		sep = "-"
	}
	parts := strings.Split(raw, sep)
	if len(parts) != 2 && len(parts) != 3 {
		return "", false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	year := p.referenceYear()
	if len(parts) == 3 {
		y, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", false
		}
		switch len(parts[2]) {
		case 2:
			if y < 50 {
				y += 2000
			} else {
				y += 1900
			}
		case 4:
		default:
			return "", false
		}
		year = y
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := model.Day(year, time.Month(month), day)
	// time.Date normalizes impossible dates like 02/30 into the next month;
	// a changed component means the input was not a real date.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return model.FormatDay(t), true
}

func (p *Parser) referenceYear() int {
	if p.ReferenceYear != 0 {
		return p.ReferenceYear
	}
	return time.Now().Year()
}

// dedupe drops repeats of the same purchase extracted from overlapping dumps.
// The key is deliberately fuzzy: date, the first 20 alphanumeric characters
// of the lowercased description, and the amount in cents. First occurrence
// wins.
func dedupe(txs []model.ParsedTransaction) []model.ParsedTransaction {
	if len(txs) < 2 {
		return txs
	}
	seen := make(map[string]bool, len(txs))
	out := txs[:0]
	for _, tx := range txs {
		key := tx.Date + "|" + descKey(tx.Description) + "|" + tx.Amount.Round(2).StringFixed(2)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tx)
	}
	return out
}

func descKey(desc string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(desc) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 20 {
				break
			}
		}
	}
	return b.String()
}
