package cli

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/avasilev/fincast/logger"
)

// DoctorCmd provides doctor utilities for debugging analysis runs.
type DoctorCmd struct {
	Dump DumpCmd `cmd:"" help:"Run the pipeline and dump the raw analysis result."`
}

// DumpCmd runs a forced analysis and prints the unrendered result.
type DumpCmd struct {
	Finolog  FinologFlags  `embed:""`
	Forecast ForecastFlags `embed:""`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	log := logger.New(globals.Verbose)
	runCtx := logger.WithContext(context.Background(), log)

	result, err := runPipeline(runCtx, &cmd.Finolog, &cmd.Forecast, time.Now())
	if err != nil {
		return err
	}

	repr.New(ctx.Stdout).Println(result)
	return nil
}
