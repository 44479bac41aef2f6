package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

// scheduleCmd holds the flags for the 'schedule' subcommand.
type scheduleCmd struct {
	app *App

	spec string
	now  bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run a report periodically" }
func (*scheduleCmd) Usage() string {
	return `holdrisk schedule [-spec <cron>] [-now] etf|portfolio [<report flags>]

  Runs the etf or the portfolio report on a cron schedule (SCHEDULE,
  weekly on Monday 07:00 by default) until interrupted. A run still in
  progress when the next one is due makes the next one skip.

Usage Examples:
# Mail the ETF report every Monday morning.
$ holdrisk schedule -spec "0 7 * * 1" etf
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.spec, "spec", "", "cron schedule, standard 5 fields (defaults to SCHEDULE)")
	f.BoolVar(&c.now, "now", false, "also run the report once at start")
}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing report to schedule (etf or portfolio)")
		return subcommands.ExitUsageError
	}
	var report subcommands.Command
	switch args[0] {
	case "etf":
		report = &etfCmd{app: c.app}
	case "portfolio":
		report = &portfolioCmd{app: c.app}
	default:
		fmt.Fprintf(os.Stderr, "Error: cannot schedule %q, want etf or portfolio\n", args[0])
		return subcommands.ExitUsageError
	}
	reportFlags := flag.NewFlagSet(report.Name(), flag.ContinueOnError)
	report.SetFlags(reportFlags)
	if err := reportFlags.Parse(args[1:]); err != nil {
		return subcommands.ExitUsageError
	}

	spec := c.spec
	if spec == "" {
		spec = c.app.Config.Schedule
	}
	log := c.app.Log.With().Str("schedule", spec).Str("report", report.Name()).Logger()

	job := cron.FuncJob(func() {
		if status := report.Execute(ctx, reportFlags); status != subcommands.ExitSuccess {
			log.Error().Int("status", int(status)).Msg("scheduled report failed")
		}
	})
	sched := cron.New(cron.WithLogger(cron.PrintfLogger(&log)))
	id, err := sched.AddJob(spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(job))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", spec, err)
		return subcommands.ExitUsageError
	}

	if c.now {
		job.Run()
	}
	sched.Start()
	log.Info().Time("next", sched.Entry(id).Next).Msg("report scheduled")

	<-ctx.Done()
	<-sched.Stop().Done()
	log.Info().Msg("scheduler stopped")
	return subcommands.ExitSuccess
}
