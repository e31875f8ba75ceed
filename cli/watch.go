package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/avasilev/fincast/calendar"
	"github.com/avasilev/fincast/logger"
)

// WatchCmd runs the check pipeline on a schedule until interrupted.
// Calendar files are reloaded when they change on disk.
type WatchCmd struct {
	Finolog  FinologFlags  `embed:""`
	Telegram TelegramFlags `embed:""`
	Forecast ForecastFlags `embed:""`
	Calendar CalendarFlags `embed:""`

	Schedule string `help:"Cron schedule for checks." default:"@hourly"`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	log := logger.New(globals.Verbose)

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	runCtx = logger.WithContext(runCtx, log)

	cal := cmd.Calendar.Calendar()
	if err := cmd.watchCalendarDir(runCtx, cal, log); err != nil {
		// Scheduled checks still work without live reload.
		log.Warn().Err(err).Msg("calendar watch disabled")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cmd.Schedule, func() {
		cmd.runOnce(runCtx, cal)
	}); err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()

	log.Info().Str("schedule", cmd.Schedule).Msg("watch started")
	<-runCtx.Done()
	log.Info().Msg("shutting down")
	return nil
}

// runOnce performs one gated check-and-notify cycle. Failures are logged,
// never fatal; the next scheduled run gets a fresh chance.
func (cmd *WatchCmd) runOnce(ctx context.Context, cal *calendar.Calendar) {
	log := logger.FromContext(ctx)

	now := time.Now()
	if !cal.IsWorkingDay(now) {
		event := log.Info()
		if name := cal.HolidayName(now); name != "" {
			event = event.Str("holiday", name)
		}
		event.Msg("non-working day, skipping check")
		return
	}

	result, err := runPipeline(ctx, &cmd.Finolog, &cmd.Forecast, now)
	if err != nil {
		log.Error().Err(err).Msg("check failed")
		return
	}

	if !cmd.Telegram.Configured() {
		return
	}
	if err := notifyResult(ctx, &cmd.Telegram, result, now, false); err != nil {
		log.Error().Err(err).Msg("notification failed")
	}
}

// watchCalendarDir reloads the calendar when holiday files change.
// Editors and updaters often replace files in multiple steps, so events
// are debounced.
func (cmd *WatchCmd) watchCalendarDir(ctx context.Context, cal *calendar.Calendar, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(cmd.Calendar.CalendarDir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
			_ = watcher.Close()
		}()

		const debounceDelay = 100 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasPrefix(name, "holidays_") || !strings.HasSuffix(name, ".json") {
					continue
				}

				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					cal.Reload()
					log.Info().Str("file", name).Msg("calendar reloaded")
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("calendar watch error")
			}
		}
	}()

	return nil
}
