// Package report renders analysis results for delivery: Telegram HTML
// messages and styled terminal text.
package report

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avasilev/fincast/forecast"
)

// maxDaysShown caps the per-account day listing; the remainder collapses
// into a single overflow line to keep messages readable.
const maxDaysShown = 5

// sortedAccountIDs returns the ids of a findings map ordered by account
// name, then id. The analyzer guarantees no ordering across accounts, so
// rendering imposes a deterministic one.
func sortedAccountIDs(findings map[int64][]forecast.Finding, accounts map[int64]forecast.AccountSummary) []int64 {
	ids := make([]int64, 0, len(findings))
	for id := range findings {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b int64) int {
		if n := strings.Compare(accounts[a].Name, accounts[b].Name); n != 0 {
			return n
		}
		return int(a - b)
	})
	return ids
}

// HTML renders a problem report as a Telegram HTML message. Call only
// when the result has findings; clean results use AllClearHTML.
func HTML(result *forecast.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString("⚠️ <b>Account balance analysis</b>\n\n")

	if len(result.Negative) > 0 {
		sb.WriteString("🔴 <b>NEGATIVE BALANCES:</b>\n\n")
		writeSection(&sb, result.Negative, result.Accounts, "Negative days")
	}
	if len(result.Threatening) > 0 {
		sb.WriteString("🟡 <b>THREATENING BALANCES:</b>\n\n")
		writeSection(&sb, result.Threatening, result.Accounts, "Threatening days")
	}

	sb.WriteString("⚠️ <b>Attention required!</b>")
	return sb.String()
}

func writeSection(sb *strings.Builder, findings map[int64][]forecast.Finding, accounts map[int64]forecast.AccountSummary, label string) {
	for _, id := range sortedAccountIDs(findings, accounts) {
		days := findings[id]
		fmt.Fprintf(sb, "📊 <b>%s</b>\n", html.EscapeString(accounts[id].Name))
		fmt.Fprintf(sb, "📅 %s: %d\n", label, len(days))

		for _, finding := range days[:min(len(days), maxDaysShown)] {
			fmt.Fprintf(sb, "   • %s: %s ₽\n",
				finding.Date.Format("2006-01-02"),
				FormatAmount(finding.Balance))
		}
		if len(days) > maxDaysShown {
			fmt.Fprintf(sb, "   • ... and %d more days\n", len(days)-maxDaysShown)
		}
		sb.WriteString("\n")
	}
}

// AllClearHTML renders the morning all-clear message.
func AllClearHTML(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("🌅 <b>Morning balance check</b>\n\n")
	fmt.Fprintf(&sb, "⏰ Time: %s\n\n", now.Format("15:04"))
	sb.WriteString("✅ <b>All accounts are in order!</b>\n\n")
	sb.WriteString("🎉 <b>No negative balances found</b>")
	return sb.String()
}

// FormatAmount renders a whole-ruble amount with thousands separators,
// e.g. -1234567.89 becomes "-1,234,568".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.Round(0).StringFixed(0)

	negative := strings.HasPrefix(fixed, "-")
	digits := strings.TrimPrefix(fixed, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := strings.Join(groups, ",")
	if negative {
		return "-" + formatted
	}
	return formatted
}
