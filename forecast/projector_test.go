package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

// TestProject_NegativeShortfall walks a 1500 outgoing transaction through
// a 1000 balance: the series drops to -500 on day 2 and stays there.
func TestProject_NegativeShortfall(t *testing.T) {
	start := day(t, "2025-09-01")
	txs := []*Transaction{
		{ID: 1, Date: start.AddDate(0, 0, 2), Value: amount(t, "-1500"), Type: Outgoing},
	}

	series, err := Project(amount(t, "1000"), txs, start, 5)
	assert.NoError(t, err)

	assert.Equal(t, 6, series.Len())
	assert.Equal(t, "1000", series.At(0).String())
	assert.Equal(t, "1000", series.At(1).String())
	for offset := 2; offset <= 5; offset++ {
		assert.Equal(t, "-500", series.At(offset).String())
	}
}

// TestProject_CarryForward verifies that days without transactions repeat
// the previous day's balance exactly.
func TestProject_CarryForward(t *testing.T) {
	start := day(t, "2025-03-10")
	txs := []*Transaction{
		{ID: 1, Date: start.AddDate(0, 0, 3), Value: amount(t, "250.50"), Type: Incoming},
	}

	series, err := Project(amount(t, "100"), txs, start, 7)
	assert.NoError(t, err)

	for offset := 1; offset < series.Len(); offset++ {
		if offset == 3 {
			continue
		}
		assert.Equal(t, series.At(offset-1).String(), series.At(offset).String())
	}
	assert.Equal(t, "350.5", series.At(3).String())
}

// TestProject_Additivity verifies the final balance equals the current
// balance plus the sum of every in-window transaction.
func TestProject_Additivity(t *testing.T) {
	start := day(t, "2025-01-01")
	txs := []*Transaction{
		{ID: 1, Date: start, Value: amount(t, "10.10"), Type: Incoming},
		{ID: 2, Date: start.AddDate(0, 0, 4), Value: amount(t, "-3.33"), Type: Outgoing},
		{ID: 3, Date: start.AddDate(0, 0, 9), Value: amount(t, "7.41"), Type: Incoming},
	}

	series, err := Project(amount(t, "50"), txs, start, 9)
	assert.NoError(t, err)

	sum := amount(t, "50")
	for _, tx := range txs {
		sum = sum.Add(tx.Value)
	}
	assert.Equal(t, sum.String(), series.Last().String())
}

// TestProject_ZeroDaysAhead yields a single-day series covering only the
// start day's transactions.
func TestProject_ZeroDaysAhead(t *testing.T) {
	start := day(t, "2025-06-15")
	txs := []*Transaction{
		{ID: 1, Date: start, Value: amount(t, "-40"), Type: Outgoing},
		{ID: 2, Date: start.AddDate(0, 0, 1), Value: amount(t, "-1000"), Type: Outgoing},
	}

	series, err := Project(amount(t, "100"), txs, start, 0)
	assert.NoError(t, err)

	assert.Equal(t, 1, series.Len())
	assert.Equal(t, "60", series.At(0).String())
}

// TestProject_OutOfWindowIgnored verifies transactions before the start
// date or beyond the horizon never touch the series.
func TestProject_OutOfWindowIgnored(t *testing.T) {
	start := day(t, "2025-06-15")
	txs := []*Transaction{
		{ID: 1, Date: start.AddDate(0, 0, -1), Value: amount(t, "-99999"), Type: Outgoing},
		{ID: 2, Date: start.AddDate(0, 0, 4), Value: amount(t, "77777"), Type: Incoming},
	}

	series, err := Project(amount(t, "500"), txs, start, 3)
	assert.NoError(t, err)

	for offset := 0; offset < series.Len(); offset++ {
		assert.Equal(t, "500", series.At(offset).String())
	}
}

// TestProject_SameDayAccumulates verifies multiple transactions on one day
// add together with no dedup.
func TestProject_SameDayAccumulates(t *testing.T) {
	start := day(t, "2025-02-01")
	txs := []*Transaction{
		{ID: 1, Date: start.AddDate(0, 0, 1), Value: amount(t, "-100"), Type: Outgoing},
		{ID: 2, Date: start.AddDate(0, 0, 1), Value: amount(t, "-100"), Type: Outgoing},
		{ID: 3, Date: start.AddDate(0, 0, 1), Value: amount(t, "30"), Type: Incoming},
	}

	series, err := Project(amount(t, "200"), txs, start, 1)
	assert.NoError(t, err)
	assert.Equal(t, "30", series.At(1).String())
}

// TestProject_TimeOfDayNormalized verifies a transaction carrying a
// time-of-day still lands on its calendar day.
func TestProject_TimeOfDayNormalized(t *testing.T) {
	start := day(t, "2025-02-01")
	txs := []*Transaction{
		{ID: 1, Date: time.Date(2025, 2, 2, 18, 45, 0, 0, time.UTC), Value: amount(t, "-10"), Type: Outgoing},
	}

	series, err := Project(amount(t, "100"), txs, start, 2)
	assert.NoError(t, err)
	assert.Equal(t, "100", series.At(0).String())
	assert.Equal(t, "90", series.At(1).String())
	assert.Equal(t, "90", series.At(2).String())
}

// TestProject_DecimalExactness accumulates amounts that are notorious for
// drifting in binary floating point.
func TestProject_DecimalExactness(t *testing.T) {
	start := day(t, "2025-01-01")
	var txs []*Transaction
	for i := 0; i < 365; i++ {
		txs = append(txs, &Transaction{
			ID:    int64(i),
			Date:  start.AddDate(0, 0, i),
			Value: amount(t, "0.10"),
			Type:  Incoming,
		})
	}

	series, err := Project(decimal.Zero, txs, start, 364)
	assert.NoError(t, err)
	assert.Equal(t, "36.5", series.Last().String())
}

func TestProject_Errors(t *testing.T) {
	start := day(t, "2025-01-01")

	t.Run("NegativeDaysAhead", func(t *testing.T) {
		_, err := Project(decimal.Zero, nil, start, -1)
		assert.Error(t, err)
	})

	t.Run("MissingDate", func(t *testing.T) {
		txs := []*Transaction{{ID: 7, AccountID: 3, Value: amount(t, "5")}}
		_, err := Project(decimal.Zero, txs, start, 1)
		assert.Error(t, err)

		var invalidErr *InvalidTransactionError
		assert.True(t, errors.As(err, &invalidErr))
		assert.Equal(t, int64(7), invalidErr.GetTransaction().ID)
	})
}
