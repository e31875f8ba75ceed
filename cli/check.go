package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alecthomas/kong"

	"github.com/avasilev/fincast/forecast"
	"github.com/avasilev/fincast/logger"
	"github.com/avasilev/fincast/output"
	"github.com/avasilev/fincast/report"
	"github.com/avasilev/fincast/telegram"
	"github.com/avasilev/fincast/telemetry"
)

type CheckCmd struct {
	Finolog  FinologFlags  `embed:""`
	Telegram TelegramFlags `embed:""`
	Forecast ForecastFlags `embed:""`
	Calendar CalendarFlags `embed:""`

	Force        bool `help:"Run even on a non-working day."`
	Notify       bool `help:"Send the report to Telegram recipients."`
	AlwaysNotify bool `help:"Send the all-clear report outside the morning window."`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	log := logger.New(globals.Verbose)
	runCtx := logger.WithContext(context.Background(), log)

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once
	styles := output.NewStyles(ctx.Stdout)

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start("check")
		runCtx = telemetry.WithTimer(runCtx, checkTimer)

		defer reportTelemetry()
	}

	now := time.Now()
	if !cmd.Force {
		cal := cmd.Calendar.Calendar()
		if !cal.IsWorkingDay(now) {
			if name := cal.HolidayName(now); name != "" {
				printInfof(ctx.Stdout, "today is %s, skipping check", name)
			} else {
				printInfof(ctx.Stdout, "today is a non-working day, skipping check")
			}
			return nil
		}
	}

	result, err := runPipeline(runCtx, &cmd.Finolog, &cmd.Forecast, now)
	if err != nil {
		reportTelemetry()
		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	_, _ = fmt.Fprint(ctx.Stdout, report.Text(result, styles))

	if cmd.Notify && cmd.Telegram.Configured() {
		if err := notifyResult(runCtx, &cmd.Telegram, result, now, cmd.AlwaysNotify); err != nil {
			printError(ctx.Stderr, err.Error())
			return NewCommandError(1)
		}
	}

	if len(result.Negative) > 0 {
		return NewCommandError(1)
	}
	return nil
}

// notifyResult delivers the rendered result. Problem reports always go
// out; all-clear reports respect the morning window unless forced.
func notifyResult(ctx context.Context, flags *TelegramFlags, result *forecast.AnalysisResult, now time.Time, alwaysNotify bool) error {
	log := logger.FromContext(ctx)
	notifier := telegram.NewNotifier(
		telegram.NewClient(telegram.Config{BotToken: flags.BotToken}),
		flags.ChatIDs,
		flags.Test,
		log,
	)

	if result.Clean() {
		policy := telegram.DefaultAllClearPolicy()
		if !alwaysNotify && !policy.ShouldNotify(now) {
			log.Info().Msg("no findings, outside all-clear window, not notifying")
			return nil
		}
		return notifier.Broadcast(ctx, report.AllClearHTML(now.In(policy.Location)))
	}

	return notifier.Broadcast(ctx, report.HTML(result))
}
