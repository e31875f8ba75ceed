package cli

import (
	"context"
	"time"

	"github.com/avasilev/fincast/finolog"
	"github.com/avasilev/fincast/forecast"
	"github.com/avasilev/fincast/logger"
	"github.com/avasilev/fincast/telemetry"
)

// runPipeline fetches accounts and planned transactions, then analyzes
// every account. It is the shared path of the check, notify, watch and
// doctor commands.
func runPipeline(ctx context.Context, fin *FinologFlags, fc *ForecastFlags, start time.Time) (*forecast.AnalysisResult, error) {
	log := logger.FromContext(ctx)

	analyzer, err := fc.Analyzer()
	if err != nil {
		return nil, err
	}
	client := fin.Client()

	timer := telemetry.StartTimer(ctx, "pipeline.fetch")
	accounts, err := client.Accounts(ctx)
	if err != nil {
		timer.End()
		return nil, err
	}
	log.Debug().Int("accounts", len(accounts)).Msg("fetched accounts")

	ids := make([]int64, len(accounts))
	for i, account := range accounts {
		ids[i] = account.ID
	}

	transactions, err := client.Transactions(ctx, ids, start)
	timer.End()
	if err != nil {
		return nil, err
	}
	total := 0
	for _, txs := range transactions {
		total += len(txs)
	}
	log.Debug().Int("transactions", total).Msg("fetched planned transactions")

	result, err := analyzer.Analyze(ctx, transactions, accounts, finolog.Balances(accounts), start)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", result.RunID.String()).
		Int("negative_accounts", len(result.Negative)).
		Int("threatening_accounts", len(result.Threatening)).
		Msg("analysis complete")
	return result, nil
}
