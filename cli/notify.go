package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/avasilev/fincast/logger"
	"github.com/avasilev/fincast/output"
	"github.com/avasilev/fincast/report"
)

// NotifyCmd runs a forced check and always delivers the report, ignoring
// the business-day gate and the all-clear window.
type NotifyCmd struct {
	Finolog  FinologFlags  `embed:""`
	Telegram TelegramFlags `embed:""`
	Forecast ForecastFlags `embed:""`

	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *NotifyCmd) Run(ctx *kong.Context, globals *Globals) error {
	if !cmd.Telegram.Configured() {
		printError(ctx.Stderr, "telegram delivery is not configured (bot token and chat ids required)")
		return NewCommandError(1)
	}

	if !cmd.Yes {
		question := fmt.Sprintf("Send the balance report to %d recipients?", len(cmd.Telegram.ChatIDs))
		confirmed, err := promptYesNo(question)
		if err != nil {
			return err
		}
		if !confirmed {
			printInfof(ctx.Stdout, "aborted")
			return nil
		}
	}

	log := logger.New(globals.Verbose)
	runCtx := logger.WithContext(context.Background(), log)

	now := time.Now()
	result, err := runPipeline(runCtx, &cmd.Finolog, &cmd.Forecast, now)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	_, _ = fmt.Fprint(ctx.Stdout, report.Text(result, output.NewStyles(ctx.Stdout)))

	if err := notifyResult(runCtx, &cmd.Telegram, result, now, true); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("report delivered to %d recipients", len(cmd.Telegram.ChatIDs)))
	return nil
}
