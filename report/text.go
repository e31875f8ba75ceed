package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/avasilev/fincast/forecast"
	"github.com/avasilev/fincast/output"
)

// Text renders a result for the terminal. Account names are padded by
// display width, so cyrillic names align the same as latin ones.
func Text(result *forecast.AnalysisResult, styles *output.Styles) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n",
		styles.Keyword("Balance analysis"),
		styles.Dim(fmt.Sprintf("(run %s, %s +%d days)",
			shortRunID(result), result.StartDate.Format("2006-01-02"), result.DaysAhead)))

	if result.Clean() {
		fmt.Fprintf(&sb, "%s All %d accounts are in order\n",
			styles.Success("✓"), len(result.Accounts))
		return sb.String()
	}

	nameWidth := 0
	for _, summary := range result.Accounts {
		if w := runewidth.StringWidth(summary.Name); w > nameWidth {
			nameWidth = w
		}
	}

	if len(result.Negative) > 0 {
		fmt.Fprintf(&sb, "%s\n", styles.Error("Negative balances"))
		writeTextSection(&sb, result.Negative, result.Accounts, nameWidth, styles)
	}
	if len(result.Threatening) > 0 {
		fmt.Fprintf(&sb, "%s\n", styles.Warning("Threatening balances"))
		writeTextSection(&sb, result.Threatening, result.Accounts, nameWidth, styles)
	}

	return sb.String()
}

func writeTextSection(sb *strings.Builder, findings map[int64][]forecast.Finding, accounts map[int64]forecast.AccountSummary, nameWidth int, styles *output.Styles) {
	for _, id := range sortedAccountIDs(findings, accounts) {
		days := findings[id]
		name := accounts[id].Name
		padding := strings.Repeat(" ", nameWidth-runewidth.StringWidth(name))

		first := days[0]
		fmt.Fprintf(sb, "  %s%s  %s  from %s  %s\n",
			styles.Account(name),
			padding,
			styles.Dim(fmt.Sprintf("%3d days", len(days))),
			styles.Date(first.Date.Format("2006-01-02")),
			styles.Amount(FormatAmount(first.Balance)+" ₽"),
		)
	}
}

func shortRunID(result *forecast.AnalysisResult) string {
	id := result.RunID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
