package cli

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avasilev/fincast/calendar"
	"github.com/avasilev/fincast/finolog"
	"github.com/avasilev/fincast/forecast"
)

// FinologFlags configure the ledger API client.
type FinologFlags struct {
	APIToken string `help:"Finolog API token." env:"FINOLOG_API_TOKEN" required:""`
	BizID    string `help:"Finolog business id." env:"FINOLOG_BIZ_ID" required:""`
	BaseURL  string `help:"Finolog API base URL." env:"FINOLOG_BASE_URL" default:"${finolog_base_url}"`
}

// Client builds the configured ledger client.
func (f *FinologFlags) Client() *finolog.Client {
	return finolog.NewClient(finolog.Config{
		BaseURL:  f.BaseURL,
		APIToken: f.APIToken,
		BizID:    f.BizID,
	})
}

// TelegramFlags configure alert delivery.
type TelegramFlags struct {
	BotToken string  `help:"Telegram bot token." env:"TELEGRAM_BOT_TOKEN"`
	ChatIDs  []int64 `help:"Recipient chat ids." env:"TELEGRAM_CHAT_IDS"`
	Test     bool    `help:"Prefix outgoing messages with a test marker." env:"FINCAST_TEST"`
}

// Configured reports whether delivery is set up at all.
func (f *TelegramFlags) Configured() bool {
	return f.BotToken != "" && len(f.ChatIDs) > 0
}

// ForecastFlags configure the projection engine.
type ForecastFlags struct {
	DaysAhead           int     `help:"Forecast horizon in days." env:"FINCAST_DAYS_AHEAD" default:"365"`
	Threshold           string  `help:"Threatening balance threshold." env:"FINCAST_THRESHOLD" default:"100000"`
	ThreateningAccounts []int64 `help:"Account ids tracked for threatening balances." env:"FINCAST_THREATENING_ACCOUNTS"`
}

// Analyzer builds the configured analyzer.
func (f *ForecastFlags) Analyzer() (*forecast.Analyzer, error) {
	threshold, err := decimal.NewFromString(f.Threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %q: %w", f.Threshold, err)
	}
	return forecast.NewAnalyzer(forecast.Config{
		DaysAhead:             f.DaysAhead,
		ThreateningThreshold:  threshold,
		ThreateningAccountIDs: f.ThreateningAccounts,
	}), nil
}

// CalendarFlags configure the business-day calendar.
type CalendarFlags struct {
	CalendarDir string `help:"Directory containing holidays_YYYY.json files." env:"FINCAST_CALENDAR_DIR" default:"."`
}

// Calendar builds the configured calendar.
func (f *CalendarFlags) Calendar() *calendar.Calendar {
	return calendar.New(f.CalendarDir)
}
