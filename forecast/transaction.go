// Package forecast implements the balance projection engine. It folds
// planned, dated, signed transactions onto a current balance to produce a
// day-by-day running balance over a forward horizon, then classifies days
// that cross a negative threshold or fall into a low-but-positive band.
//
// The engine is pure: it performs no I/O and operates only on data already
// materialized in memory. Fetching ledger data and delivering alerts are
// the callers' concerns.
//
// All monetary amounts use decimal arithmetic. Accumulating a year of
// postings in floating point drifts; decimals do not.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a planned transaction.
type TransactionType string

const (
	// Incoming marks money arriving at the account.
	Incoming TransactionType = "in"
	// Outgoing marks money leaving the account. The transaction value
	// is already negative for outgoing transactions.
	Outgoing TransactionType = "out"
)

// Transaction is a planned, not-yet-settled ledger posting.
//
// Value is signed: outgoing transactions carry a negative value, so the
// projector adds values of both directions without re-negating anything.
type Transaction struct {
	ID        int64
	AccountID int64

	// Date is the posting day, normalized to a UTC day boundary.
	Date time.Time

	Value decimal.Decimal
	Type  TransactionType

	// IsSplitted marks the summarizing parent of a split transaction.
	IsSplitted bool

	// SplitID references the parent for raw children of a split,
	// nil otherwise.
	SplitID *int64
}

// Includable reports whether the transaction counts toward balance
// projection. Atomic unsplit postings and summarizing split parents
// count; raw children of a split do not, since their amounts are already
// covered by the parent sum.
func (t *Transaction) Includable() bool {
	if t.IsSplitted {
		return true
	}
	return t.SplitID == nil
}

// Filter returns the includable transactions, preserving their original
// order. It is pure and total; an empty input yields an empty output.
func Filter(transactions []*Transaction) []*Transaction {
	filtered := make([]*Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Includable() {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// Day truncates a timestamp to its UTC day boundary. Series days and
// transaction dates are always compared at this granularity.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Account is a ledger account as reported by the external ledger source.
type Account struct {
	ID   int64
	Name string

	// CurrentBalance is the baseline before any projected activity.
	CurrentBalance decimal.Decimal
}

// AccountSummary carries the per-account facts every analysis result
// reports regardless of findings.
type AccountSummary struct {
	Name           string
	CurrentBalance decimal.Decimal
}
