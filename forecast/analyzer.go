package forecast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/avasilev/fincast/telemetry"
)

// Config holds the analysis settings threaded into an Analyzer at
// construction. There is deliberately no process-wide configuration.
type Config struct {
	// DaysAhead is the forward horizon length; the projected series
	// spans DaysAhead+1 days including the start day.
	DaysAhead int

	// ThreateningThreshold is the upper bound of the low-but-positive
	// band. Only accounts listed in ThreateningAccountIDs are checked
	// against it.
	ThreateningThreshold decimal.Decimal

	// ThreateningAccountIDs is the allow-list of accounts tracked for
	// threatening balances.
	ThreateningAccountIDs []int64
}

// Analyzer runs the projection and classification across every account of
// a ledger.
type Analyzer struct {
	daysAhead  int
	threshold  decimal.Decimal
	threatened map[int64]struct{}
}

// NewAnalyzer creates an Analyzer from the given configuration.
func NewAnalyzer(cfg Config) *Analyzer {
	threatened := make(map[int64]struct{}, len(cfg.ThreateningAccountIDs))
	for _, id := range cfg.ThreateningAccountIDs {
		threatened[id] = struct{}{}
	}
	return &Analyzer{
		daysAhead:  cfg.DaysAhead,
		threshold:  cfg.ThreateningThreshold,
		threatened: threatened,
	}
}

// AnalysisResult is the single data product of an analysis run. Accounts
// without findings are omitted from Negative and Threatening but always
// present in Accounts. All three maps are safe to render even when empty.
type AnalysisResult struct {
	// RunID correlates log lines and notifications of one run.
	RunID uuid.UUID

	StartDate time.Time
	DaysAhead int

	Negative    map[int64][]Finding
	Threatening map[int64][]Finding
	Accounts    map[int64]AccountSummary
}

// Clean reports whether the run produced no findings of either kind.
func (r *AnalysisResult) Clean() bool {
	return len(r.Negative) == 0 && len(r.Threatening) == 0
}

// Analyze projects and classifies every account. Accounts absent from
// transactionsByAccount are treated as having zero planned activity. An
// account missing from currentBalances is a caller contract violation and
// fails the run with a MissingBalanceError.
//
// An empty accounts slice is a degenerate-but-valid case and yields a
// result with all three maps empty.
//
// Each account's working set is disjoint, so accounts are analyzed
// concurrently; only result assembly is synchronized.
func (a *Analyzer) Analyze(
	ctx context.Context,
	transactionsByAccount map[int64][]*Transaction,
	accounts []*Account,
	currentBalances map[int64]AccountSummary,
	startDate time.Time,
) (*AnalysisResult, error) {
	result := &AnalysisResult{
		RunID:       uuid.New(),
		StartDate:   Day(startDate),
		DaysAhead:   a.daysAhead,
		Negative:    make(map[int64][]Finding),
		Threatening: make(map[int64][]Finding),
		Accounts:    make(map[int64]AccountSummary, len(accounts)),
	}
	if len(accounts) == 0 {
		return result, nil
	}

	timer := telemetry.StartTimer(ctx, fmt.Sprintf("forecast.analyze (%d accounts)", len(accounts)))
	defer timer.End()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			summary, ok := currentBalances[account.ID]
			if !ok {
				return &MissingBalanceError{AccountID: account.ID, Name: account.Name}
			}

			transactions := Filter(transactionsByAccount[account.ID])
			series, err := Project(summary.CurrentBalance, transactions, result.StartDate, a.daysAhead)
			if err != nil {
				return fmt.Errorf("account %d (%s): %w", account.ID, account.Name, err)
			}

			negative := Negative(series)
			var threatening []Finding
			if _, tracked := a.threatened[account.ID]; tracked {
				threatening = Threatening(series, a.threshold)
			}

			mu.Lock()
			defer mu.Unlock()
			result.Accounts[account.ID] = summary
			if len(negative) > 0 {
				result.Negative[account.ID] = negative
			}
			if len(threatening) > 0 {
				result.Threatening[account.ID] = threatening
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
