package telegram

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// TestPrefix marks messages sent by a notifier in test mode.
const TestPrefix = "🧪 TEST: "

// Sender is the part of Client the notifier needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Notifier broadcasts a message to a fixed set of recipients. Delivery is
// isolated per recipient: one failing chat never blocks the others.
type Notifier struct {
	sender     Sender
	recipients []int64
	testMode   bool
	logger     zerolog.Logger
}

// NewNotifier creates a Notifier delivering through sender to recipients.
func NewNotifier(sender Sender, recipients []int64, testMode bool, logger zerolog.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		recipients: recipients,
		testMode:   testMode,
		logger:     logger,
	}
}

// Broadcast sends the text to every recipient and returns the joined
// delivery errors, if any. Every recipient is attempted regardless of
// earlier failures.
func (n *Notifier) Broadcast(ctx context.Context, text string) error {
	if n.testMode {
		text = TestPrefix + text
	}

	var errs []error
	for _, chatID := range n.recipients {
		if err := n.sender.SendMessage(ctx, chatID, text); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("delivery failed")
			errs = append(errs, err)
			continue
		}
		n.logger.Debug().Int64("chat_id", chatID).Msg("delivered")
	}
	return errors.Join(errs...)
}

// AllClearPolicy decides when an all-clear result is worth announcing.
// Problem reports always go out; the "all accounts are fine" message is
// only sent once a day, inside a fixed local-time window.
type AllClearPolicy struct {
	// Hour is the local hour the window opens at.
	Hour int

	// Window is how long past the hour the message may still be sent.
	Window time.Duration

	// Location is the timezone the hour refers to.
	Location *time.Location
}

// DefaultAllClearPolicy returns the 09:00–09:10 Moscow-time window. When
// the timezone database lacks Europe/Moscow, a fixed UTC+3 zone is used;
// Moscow has not observed DST since 2014.
func DefaultAllClearPolicy() AllClearPolicy {
	location, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		location = time.FixedZone("MSK", 3*60*60)
	}
	return AllClearPolicy{
		Hour:     9,
		Window:   10 * time.Minute,
		Location: location,
	}
}

// ShouldNotify reports whether now falls inside the all-clear window.
func (p AllClearPolicy) ShouldNotify(now time.Time) bool {
	local := now.In(p.Location)
	open := time.Date(local.Year(), local.Month(), local.Day(), p.Hour, 0, 0, 0, p.Location)
	return !local.Before(open) && local.Sub(open) < p.Window
}
