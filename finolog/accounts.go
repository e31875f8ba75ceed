package finolog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avasilev/fincast/forecast"
	"github.com/avasilev/fincast/telemetry"
)

// accountPayload mirrors the account endpoint response. The summary block
// carries the current balance and arrives either as an object or as a
// single-element list depending on the account.
type accountPayload struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Summary json.RawMessage `json:"summary"`
}

type summaryPayload struct {
	Balance json.Number `json:"balance"`
}

// balance extracts the current balance from the summary block. A missing
// or null summary means a zero balance, per the API documentation.
func (p *accountPayload) balance() (decimal.Decimal, error) {
	raw := bytes.TrimSpace(p.Summary)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}

	var summary summaryPayload
	if raw[0] == '[' {
		var list []summaryPayload
		if err := json.Unmarshal(raw, &list); err != nil {
			return decimal.Zero, fmt.Errorf("account %d: invalid summary: %w", p.ID, err)
		}
		if len(list) == 0 {
			return decimal.Zero, nil
		}
		summary = list[0]
	} else {
		if err := json.Unmarshal(raw, &summary); err != nil {
			return decimal.Zero, fmt.Errorf("account %d: invalid summary: %w", p.ID, err)
		}
	}

	if summary.Balance == "" {
		return decimal.Zero, nil
	}
	balance, err := decimal.NewFromString(summary.Balance.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %d: invalid balance %q: %w", p.ID, summary.Balance, err)
	}
	return balance, nil
}

// Accounts fetches every account of the business with its current balance.
func (c *Client) Accounts(ctx context.Context) ([]*forecast.Account, error) {
	timer := telemetry.StartTimer(ctx, "finolog.accounts")
	defer timer.End()

	endpoint := fmt.Sprintf("%s/biz/%s/account", c.baseURL, c.bizID)

	var payload []accountPayload
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	accounts := make([]*forecast.Account, 0, len(payload))
	for _, p := range payload {
		balance, err := p.balance()
		if err != nil {
			return nil, fmt.Errorf("finolog: %w", err)
		}
		accounts = append(accounts, &forecast.Account{
			ID:             p.ID,
			Name:           p.Name,
			CurrentBalance: balance,
		})
	}
	return accounts, nil
}

// Balances builds the per-account balance lookup the analyzer consumes.
func Balances(accounts []*forecast.Account) map[int64]forecast.AccountSummary {
	balances := make(map[int64]forecast.AccountSummary, len(accounts))
	for _, account := range accounts {
		balances[account.ID] = forecast.AccountSummary{
			Name:           account.Name,
			CurrentBalance: account.CurrentBalance,
		}
	}
	return balances
}
