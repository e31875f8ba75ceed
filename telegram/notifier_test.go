package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	sent    map[int64]string
	failing map[int64]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int64]string), failing: make(map[int64]error)}
}

func (s *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	if err, ok := s.failing[chatID]; ok {
		return err
	}
	s.sent[chatID] = text
	return nil
}

func TestBroadcast(t *testing.T) {
	t.Run("AllRecipients", func(t *testing.T) {
		sender := newFakeSender()
		notifier := NewNotifier(sender, []int64{1, 2, 3}, false, zerolog.Nop())

		assert.NoError(t, notifier.Broadcast(context.Background(), "report"))
		assert.Equal(t, 3, len(sender.sent))
		assert.Equal(t, "report", sender.sent[2])
	})

	t.Run("FailureDoesNotBlockOthers", func(t *testing.T) {
		sender := newFakeSender()
		sender.failing[2] = &SendError{ChatID: 2, Description: "blocked by user"}
		notifier := NewNotifier(sender, []int64{1, 2, 3}, false, zerolog.Nop())

		err := notifier.Broadcast(context.Background(), "report")
		assert.Error(t, err)

		var sendErr *SendError
		assert.True(t, errors.As(err, &sendErr))
		assert.Equal(t, int64(2), sendErr.ChatID)

		assert.Equal(t, "report", sender.sent[1])
		assert.Equal(t, "report", sender.sent[3])
	})

	t.Run("TestModePrefix", func(t *testing.T) {
		sender := newFakeSender()
		notifier := NewNotifier(sender, []int64{1}, true, zerolog.Nop())

		assert.NoError(t, notifier.Broadcast(context.Background(), "report"))
		assert.Equal(t, TestPrefix+"report", sender.sent[1])
	})
}

func TestAllClearPolicy(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	policy := AllClearPolicy{Hour: 9, Window: 10 * time.Minute, Location: moscow}

	tests := []struct {
		name   string
		now    time.Time
		notify bool
	}{
		{"WindowOpen", time.Date(2025, 9, 15, 9, 0, 0, 0, moscow), true},
		{"InsideWindow", time.Date(2025, 9, 15, 9, 9, 59, 0, moscow), true},
		{"WindowClosed", time.Date(2025, 9, 15, 9, 10, 0, 0, moscow), false},
		{"BeforeWindow", time.Date(2025, 9, 15, 8, 59, 59, 0, moscow), false},
		{"Evening", time.Date(2025, 9, 15, 18, 0, 0, 0, moscow), false},
		{"UTCConverted", time.Date(2025, 9, 15, 6, 5, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notify, policy.ShouldNotify(tt.now))
		})
	}
}
