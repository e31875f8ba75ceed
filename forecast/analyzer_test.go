package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
)

func testAnalyzer(t *testing.T, threateningIDs ...int64) *Analyzer {
	t.Helper()
	return NewAnalyzer(Config{
		DaysAhead:             5,
		ThreateningThreshold:  amount(t, "100000"),
		ThreateningAccountIDs: threateningIDs,
	})
}

func balancesFor(accounts ...*Account) map[int64]AccountSummary {
	balances := make(map[int64]AccountSummary, len(accounts))
	for _, account := range accounts {
		balances[account.ID] = AccountSummary{Name: account.Name, CurrentBalance: account.CurrentBalance}
	}
	return balances
}

// TestAnalyze_EmptyAccounts verifies the degenerate case returns an empty
// result, not an error.
func TestAnalyze_EmptyAccounts(t *testing.T) {
	start := day(t, "2025-09-01")

	result, err := testAnalyzer(t).Analyze(context.Background(), nil, nil, nil, start)
	assert.NoError(t, err)

	assert.Equal(t, 0, len(result.Negative))
	assert.Equal(t, 0, len(result.Threatening))
	assert.Equal(t, 0, len(result.Accounts))
	assert.True(t, result.Clean())
}

// TestAnalyze_NoPlannedActivity verifies an account absent from the
// transactions map is valid and projects flat.
func TestAnalyze_NoPlannedActivity(t *testing.T) {
	start := day(t, "2025-09-01")
	account := &Account{ID: 1, Name: "Main", CurrentBalance: amount(t, "5000")}

	result, err := testAnalyzer(t).Analyze(
		context.Background(),
		map[int64][]*Transaction{},
		[]*Account{account},
		balancesFor(account),
		start,
	)
	assert.NoError(t, err)

	assert.Equal(t, 0, len(result.Negative))
	assert.Equal(t, 0, len(result.Threatening))
	assert.Equal(t, 1, len(result.Accounts))
	assert.Equal(t, "5000", result.Accounts[1].CurrentBalance.String())
}

// TestAnalyze_MissingBalance verifies that an account without a balance
// entry fails the run instead of defaulting to zero.
func TestAnalyze_MissingBalance(t *testing.T) {
	start := day(t, "2025-09-01")
	account := &Account{ID: 42, Name: "Orphan"}

	_, err := testAnalyzer(t).Analyze(
		context.Background(),
		nil,
		[]*Account{account},
		map[int64]AccountSummary{},
		start,
	)
	assert.Error(t, err)

	var missingErr *MissingBalanceError
	assert.True(t, errors.As(err, &missingErr))
	assert.Equal(t, int64(42), missingErr.GetAccountID())
}

// TestAnalyze_ThreateningAllowList verifies only listed accounts are
// checked against the threatening band.
func TestAnalyze_ThreateningAllowList(t *testing.T) {
	start := day(t, "2025-09-01")

	tracked := &Account{ID: 1, Name: "Tracked", CurrentBalance: amount(t, "50000")}
	untracked := &Account{ID: 2, Name: "Untracked", CurrentBalance: amount(t, "50000")}
	accounts := []*Account{tracked, untracked}

	result, err := testAnalyzer(t, 1).Analyze(
		context.Background(),
		map[int64][]*Transaction{},
		accounts,
		balancesFor(accounts...),
		start,
	)
	assert.NoError(t, err)

	_, trackedFound := result.Threatening[1]
	_, untrackedFound := result.Threatening[2]
	assert.True(t, trackedFound)
	assert.False(t, untrackedFound)
	assert.Equal(t, 6, len(result.Threatening[1]))
}

// TestAnalyze_CleanAccountsOmitted verifies accounts without findings
// only show up in the summaries map.
func TestAnalyze_CleanAccountsOmitted(t *testing.T) {
	start := day(t, "2025-09-01")

	broke := &Account{ID: 1, Name: "Broke", CurrentBalance: amount(t, "1000")}
	healthy := &Account{ID: 2, Name: "Healthy", CurrentBalance: amount(t, "900000")}
	accounts := []*Account{broke, healthy}

	transactions := map[int64][]*Transaction{
		1: {{ID: 1, AccountID: 1, Date: start.AddDate(0, 0, 2), Value: amount(t, "-1500"), Type: Outgoing}},
	}

	result, err := testAnalyzer(t).Analyze(context.Background(), transactions, accounts, balancesFor(accounts...), start)
	assert.NoError(t, err)

	assert.Equal(t, 1, len(result.Negative))
	assert.Equal(t, 4, len(result.Negative[1]))
	_, healthyFound := result.Negative[2]
	assert.False(t, healthyFound)
	assert.Equal(t, 2, len(result.Accounts))
	assert.False(t, result.Clean())
	assert.NotEqual(t, uuid.Nil, result.RunID)
}

// TestAnalyze_SplitChildrenExcluded verifies the analyzer filters raw
// split children even when the fetch layer did not.
func TestAnalyze_SplitChildrenExcluded(t *testing.T) {
	start := day(t, "2025-09-01")
	account := &Account{ID: 1, Name: "Main", CurrentBalance: amount(t, "100")}

	transactions := map[int64][]*Transaction{
		1: {
			{ID: 1, AccountID: 1, Date: start, Value: amount(t, "-60"), Type: Outgoing, IsSplitted: true},
			{ID: 2, AccountID: 1, Date: start, Value: amount(t, "-40"), Type: Outgoing, SplitID: ptr(1)},
			{ID: 3, AccountID: 1, Date: start, Value: amount(t, "-20"), Type: Outgoing, SplitID: ptr(1)},
		},
	}

	result, err := testAnalyzer(t).Analyze(context.Background(), transactions, []*Account{account}, balancesFor(account), start)
	assert.NoError(t, err)

	// Only the parent's -60 applies; children would double-count.
	assert.Equal(t, 0, len(result.Negative))
	assert.Equal(t, "100", result.Accounts[1].CurrentBalance.String())
}

// TestAnalyze_ManyAccounts exercises the concurrent fan-out path.
func TestAnalyze_ManyAccounts(t *testing.T) {
	start := day(t, "2025-09-01")

	var accounts []*Account
	transactions := make(map[int64][]*Transaction)
	for id := int64(1); id <= 50; id++ {
		accounts = append(accounts, &Account{ID: id, Name: "Account", CurrentBalance: amount(t, "10")})
		transactions[id] = []*Transaction{
			{ID: id, AccountID: id, Date: start.AddDate(0, 0, 1), Value: amount(t, "-20"), Type: Outgoing},
		}
	}

	result, err := testAnalyzer(t).Analyze(context.Background(), transactions, accounts, balancesFor(accounts...), start)
	assert.NoError(t, err)

	assert.Equal(t, 50, len(result.Negative))
	assert.Equal(t, 50, len(result.Accounts))
	for id := int64(1); id <= 50; id++ {
		assert.Equal(t, 5, len(result.Negative[id]))
		assert.Equal(t, "-10", result.Negative[id][0].Balance.String())
	}
}
