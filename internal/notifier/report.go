package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RestaurantDev/ViceVault/internal/calculator"
	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/streak"
)

// FormatWeeklyReport formats the weekly portfolio digest into a Telegram message.
// Ghost is the clean-day-funded portfolio, potential the every-scheduled-date
// one. prices may be nil when no history was available.
func FormatWeeklyReport(settings model.Settings, ghost, potential model.PortfolioSummary, st streak.Stats, prices *calculator.Stats) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>ViceVault Weekly</b> | %s\n\n", time.Now().UTC().Format(model.DateOnly)))
	b.WriteString(fmt.Sprintf("Plan: $%.2f %s into %s since %s\n", settings.AmountPerPurchase, settings.Cadence, settings.Symbol, settings.StartDate))
	if prices != nil {
		b.WriteString(fmt.Sprintf("%s closed at $%.2f, %.1f%% off its 52-week high\n", settings.Symbol, prices.LatestClose, prices.OffHighPercent))
	}
	b.WriteString(fmt.Sprintf("Clean days logged: %d | current streak: %d\n", st.Total, st.Current))
	if st.Milestone != "" {
		b.WriteString(fmt.Sprintf("🏅 Milestone reached: %s clean\n", st.Milestone))
	}
	b.WriteString("\n")

	b.WriteString("👻 <b>Ghost portfolio</b> (clean days only)\n")
	writeSummary(&b, ghost)

	b.WriteString("\n🚀 <b>Potential portfolio</b> (every scheduled day)\n")
	writeSummary(&b, potential)

	if potential.TotalCashSpent > 0 {
		captured := ghost.TotalCashSpent / potential.TotalCashSpent * 100
		b.WriteString(fmt.Sprintf("\nYou captured %.0f%% of the possible buys. Keep going.\n", captured))
	}

	return b.String()
}

func writeSummary(b *strings.Builder, s model.PortfolioSummary) {
	b.WriteString(fmt.Sprintf("  Invested: $%.2f over %d buys\n", s.TotalCashSpent, s.PurchasesCount))
	b.WriteString(fmt.Sprintf("  Worth now: $%.2f (%.4f shares)\n", s.CurrentValue, s.TotalShares))
	b.WriteString(fmt.Sprintf("  Gain/loss: %+.2f (%+.1f%%)\n", s.GainLoss, s.GainLossPercent))
}

// FormatImportReport formats a statement import result into a Telegram message.
func FormatImportReport(txCount int, total decimal.Decimal, top []model.CategoryMatch) string {
	var b strings.Builder

	b.WriteString("🧾 <b>Statement imported</b>\n\n")
	b.WriteString(fmt.Sprintf("Parsed %d transactions, $%s total\n", txCount, total.StringFixed(2)))

	if len(top) > 0 {
		b.WriteString("\nVice spending found:\n")
		for i, m := range top {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("  %s: $%s across %d charges\n", m.Category, m.TotalAmount.StringFixed(2), m.MatchCount))
		}
	} else {
		b.WriteString("\nNo vice spending matched. Nothing to redirect this time.\n")
	}

	return b.String()
}

// FormatRefreshFailure formats a price refresh failure notice.
func FormatRefreshFailure(symbol string, err error) string {
	return fmt.Sprintf("⚠️ <b>Price refresh failed</b>\n\nSymbol: %s\nError: %v\n\nServing cached or synthetic prices until the next run.", symbol, err)
}
