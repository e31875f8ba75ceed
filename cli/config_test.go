package cli

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestForecastFlagsAnalyzer(t *testing.T) {
	t.Run("ValidThreshold", func(t *testing.T) {
		flags := &ForecastFlags{DaysAhead: 30, Threshold: "100000"}
		analyzer, err := flags.Analyzer()
		assert.NoError(t, err)
		assert.NotZero(t, analyzer)
	})

	t.Run("InvalidThreshold", func(t *testing.T) {
		flags := &ForecastFlags{DaysAhead: 30, Threshold: "lots"}
		_, err := flags.Analyzer()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `invalid threshold "lots"`)
	})
}

func TestTelegramFlagsConfigured(t *testing.T) {
	assert.False(t, (&TelegramFlags{}).Configured())
	assert.False(t, (&TelegramFlags{BotToken: "123:abc"}).Configured())
	assert.False(t, (&TelegramFlags{ChatIDs: []int64{1}}).Configured())
	assert.True(t, (&TelegramFlags{BotToken: "123:abc", ChatIDs: []int64{1}}).Configured())
}
