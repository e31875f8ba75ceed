package forecast

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DailySeries is an ordered, gap-free series of running balances over
// [start, start+daysAhead], one entry per calendar day. Each entry holds
// the balance after that day's postings; days without postings carry the
// prior day's balance forward unchanged.
type DailySeries struct {
	start    time.Time
	balances []decimal.Decimal
}

// Start returns the first day of the series.
func (s *DailySeries) Start() time.Time {
	return s.start
}

// Len returns the number of days in the series (daysAhead + 1).
func (s *DailySeries) Len() int {
	return len(s.balances)
}

// Day returns the calendar day at the given offset from the start.
func (s *DailySeries) Day(offset int) time.Time {
	return s.start.AddDate(0, 0, offset)
}

// At returns the running balance at the given offset.
func (s *DailySeries) At(offset int) decimal.Decimal {
	return s.balances[offset]
}

// Last returns the running balance on the final day of the series.
func (s *DailySeries) Last() decimal.Decimal {
	return s.balances[len(s.balances)-1]
}

// Project folds transactions, grouped by calendar day, onto the current
// balance across daysAhead forward days. Transactions dated before the
// start or beyond the horizon are ignored; they are never retroactively
// applied. Multiple transactions on the same day accumulate additively in
// their original order.
//
// The series is built by iterating offsets 0..daysAhead explicitly, so
// entries are chronological regardless of the order transactions arrive in.
func Project(currentBalance decimal.Decimal, transactions []*Transaction, startDate time.Time, daysAhead int) (*DailySeries, error) {
	if daysAhead < 0 {
		return nil, fmt.Errorf("days ahead must be non-negative, got %d", daysAhead)
	}
	start := Day(startDate)

	// Group by day, preserving the original order within each day.
	byDay := make(map[time.Time][]*Transaction, len(transactions))
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			return nil, &InvalidTransactionError{Transaction: tx, Reason: "missing date"}
		}
		day := Day(tx.Date)
		byDay[day] = append(byDay[day], tx)
	}

	series := &DailySeries{
		start:    start,
		balances: make([]decimal.Decimal, daysAhead+1),
	}

	running := currentBalance
	for offset := 0; offset <= daysAhead; offset++ {
		day := start.AddDate(0, 0, offset)
		for _, tx := range byDay[day] {
			// Outgoing values are already negative, so both
			// directions simply add.
			running = running.Add(tx.Value)
		}
		series.balances[offset] = running
	}

	return series, nil
}
