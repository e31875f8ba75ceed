package cli

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
	Verbose   bool `help:"Enable debug logging." short:"v"`
}

type Commands struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Fetch ledger data, project balances and report shortfalls."`
	Notify   NotifyCmd   `cmd:"" help:"Run a forced check and send the report regardless of findings."`
	Watch    WatchCmd    `cmd:"" help:"Run scheduled checks and deliver alerts until interrupted."`
	Calendar CalendarCmd `cmd:"" help:"Probe the business-day calendar."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging analysis runs."`
}
