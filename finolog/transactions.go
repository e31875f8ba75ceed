package finolog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avasilev/fincast/forecast"
	"github.com/avasilev/fincast/telemetry"
)

// Transaction dates arrive either as a bare day or with a time-of-day
// suffix; both are normalized to a day boundary.
var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// transactionPayload mirrors one element of the transaction endpoint
// response.
type transactionPayload struct {
	ID         int64       `json:"id"`
	AccountID  int64       `json:"account_id"`
	Date       string      `json:"date"`
	Value      json.Number `json:"value"`
	Type       string      `json:"type"`
	IsSplitted bool        `json:"is_splitted"`
	SplitID    *int64      `json:"split_id"`
}

// TransactionDecodeError is returned when a transaction field cannot be
// decoded. The projector must never receive silently-coerced values, so
// the fetch fails naming the offending transaction instead.
type TransactionDecodeError struct {
	TransactionID int64
	Field         string
	Value         string
	Err           error
}

func (e *TransactionDecodeError) Error() string {
	return fmt.Sprintf("finolog: transaction %d: invalid %s %q: %v",
		e.TransactionID, e.Field, e.Value, e.Err)
}

func (e *TransactionDecodeError) Unwrap() error {
	return e.Err
}

// transaction converts the payload to its domain form.
func (p *transactionPayload) transaction() (*forecast.Transaction, error) {
	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		if day, err = time.ParseInLocation(layout, p.Date, time.UTC); err == nil {
			break
		}
	}
	if err != nil {
		return nil, &TransactionDecodeError{TransactionID: p.ID, Field: "date", Value: p.Date, Err: err}
	}

	value := decimal.Zero
	if p.Value != "" {
		if value, err = decimal.NewFromString(p.Value.String()); err != nil {
			return nil, &TransactionDecodeError{TransactionID: p.ID, Field: "value", Value: p.Value.String(), Err: err}
		}
	}

	return &forecast.Transaction{
		ID:         p.ID,
		AccountID:  p.AccountID,
		Date:       forecast.Day(day),
		Value:      value,
		Type:       forecast.TransactionType(p.Type),
		IsSplitted: p.IsSplitted,
		SplitID:    p.SplitID,
	}, nil
}

// Transactions fetches the planned transactions of every given account in
// a single paginated query and returns them grouped by account id. The
// date window spans windowDays on both sides of the start date; the API
// pre-filters to planned status, and the caller applies the split filter
// regardless of the with_splitted parameter.
func (c *Client) Transactions(ctx context.Context, accountIDs []int64, start time.Time) (map[int64][]*forecast.Transaction, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("finolog.transactions (%d accounts)", len(accountIDs)))
	defer timer.End()

	day := forecast.Day(start)
	windowStart := day.AddDate(0, 0, -windowDays)
	windowEnd := day.AddDate(0, 0, windowDays)

	ids := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	grouped := make(map[int64][]*forecast.Transaction)
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("account_ids", strings.Join(ids, ","))
		query.Set("date", windowStart.Format("2006-01-02")+","+windowEnd.Format("2006-01-02"))
		query.Set("status", "planned")
		query.Set("with_splitted", "false")
		query.Set("without_closed_accounts", "false")
		query.Set("page", strconv.Itoa(page))
		query.Set("pagesize", strconv.Itoa(pageSize))

		endpoint := fmt.Sprintf("%s/biz/%s/transaction?%s", c.baseURL, c.bizID, query.Encode())

		pageTimer := timer.Child(fmt.Sprintf("page %d", page))
		var payload []transactionPayload
		err := c.get(ctx, endpoint, &payload)
		pageTimer.End()
		if err != nil {
			return nil, err
		}

		for _, p := range payload {
			tx, err := p.transaction()
			if err != nil {
				return nil, err
			}
			grouped[tx.AccountID] = append(grouped[tx.AccountID], tx)
		}

		// A short page is the last page.
		if len(payload) < pageSize {
			break
		}
	}

	return grouped, nil
}
