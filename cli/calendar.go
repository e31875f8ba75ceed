package cli

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"github.com/avasilev/fincast/calendar"
)

// CalendarCmd probes the business-day calendar. Without arguments it
// reports today; the exit code is 1 for non-working days, so the command
// doubles as a shell gate.
type CalendarCmd struct {
	Calendar CalendarFlags `embed:""`

	Date  string `help:"Day to probe (YYYY-MM-DD), defaults to today." arg:"" optional:""`
	Days  int    `help:"Also show the following N days." default:"0"`
	Probe bool   `help:"Check a table of known holidays and transfers."`
}

// probeDates are known holidays, transferred working days and ordinary
// days around year boundaries, for sanity-checking loaded holiday files.
var probeDates = []string{
	"2025-01-01",
	"2025-01-09",
	"2025-05-02",
	"2025-05-09",
	"2025-12-31",
	"2026-01-01",
	"2026-01-08",
	"2026-01-09",
}

func (cmd *CalendarCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Probe {
		cal := cmd.Calendar.Calendar()
		for _, value := range probeDates {
			probe, err := time.ParseInLocation("2006-01-02", value, time.UTC)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(ctx.Stdout, describeDay(cal, probe))
		}
		return nil
	}

	day := time.Now()
	if cmd.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", cmd.Date, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", cmd.Date, err)
		}
		day = parsed
	}

	cal := cmd.Calendar.Calendar()

	for offset := 0; offset <= cmd.Days; offset++ {
		_, _ = fmt.Fprintln(ctx.Stdout, describeDay(cal, day.AddDate(0, 0, offset)))
	}

	if cmd.Days == 0 && !cal.IsWorkingDay(day) {
		return NewCommandError(1)
	}
	return nil
}

func describeDay(cal *calendar.Calendar, day time.Time) string {
	status := "HOLIDAY"
	if cal.IsWorkingDay(day) {
		status = "WORKING_DAY"
	}

	line := fmt.Sprintf("%s (%s)  %s", day.Format("2006-01-02"), day.Weekday(), status)
	if name := cal.HolidayName(day); name != "" {
		line += "  " + name
	}
	return line
}
