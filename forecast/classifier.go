package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// Finding marks a day whose projected balance satisfies a threshold
// predicate. Findings are produced in the series' chronological order.
type Finding struct {
	Date    time.Time
	Balance decimal.Decimal
}

// Negative returns every day of the series whose balance is below zero.
func Negative(series *DailySeries) []Finding {
	var findings []Finding
	for offset := 0; offset < series.Len(); offset++ {
		balance := series.At(offset)
		if balance.IsNegative() {
			findings = append(findings, Finding{Date: series.Day(offset), Balance: balance})
		}
	}
	return findings
}

// Threatening returns every day of the series whose balance is positive
// but below the threshold. Both inequalities are strict: a balance of
// exactly zero is neither negative nor threatening, and a balance of
// exactly the threshold is not threatening.
func Threatening(series *DailySeries, threshold decimal.Decimal) []Finding {
	var findings []Finding
	for offset := 0; offset < series.Len(); offset++ {
		balance := series.At(offset)
		if balance.IsPositive() && balance.LessThan(threshold) {
			findings = append(findings, Finding{Date: series.Day(offset), Balance: balance})
		}
	}
	return findings
}
