package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/exposure"
	"github.com/etnz/exposure/renderer"
	"github.com/etnz/exposure/source"
	"github.com/google/subcommands"
)

// Errors of the portfolio report that abort the run.
var (
	errNoFiles = errors.New("no CSV files found")
	errNoValid = errors.New("no valid fund files parsed")
)

// portfolioCmd holds the flags for the 'portfolio' subcommand.
type portfolioCmd struct {
	app *App

	dir         string
	output      string
	chart       string
	metricsFile string
	pretty      bool
	markdown    bool
	mail        bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "aggregate every holdings CSV of a folder into a portfolio report" }
func (*portfolioCmd) Usage() string {
	return `holdrisk portfolio [-dir <dir>] [-o <file.csv>] [-chart <file.png>] [-metrics-file <file>] [-pretty|-markdown] [-mail]

  Reads every .csv file of the folder (but the output file), in name order,
  as the holdings of one fund, and consolidates them into a single
  portfolio. Funds are equally weighted unless EQUAL_FUND_WEIGHT=false, in
  which case FUND_ALLOCATIONS gives the amount invested in each file.

  Prints the thematic exposure, the HHI, the top 20 positions and the top
  sectors and countries, then writes every position to the output CSV.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "folder containing the holdings CSV files")
	f.StringVar(&c.output, "o", "", "summary CSV file (defaults to OUTPUT_CSV, in the folder)")
	f.StringVar(&c.chart, "chart", "", "write a sector exposure chart to this PNG file")
	f.StringVar(&c.metricsFile, "metrics-file", "", "write the metrics to this Prometheus textfile")
	f.BoolVar(&c.pretty, "pretty", false, "print the report as rendered markdown")
	f.BoolVar(&c.markdown, "markdown", false, "print the report as raw markdown")
	f.BoolVar(&c.mail, "mail", false, "deliver the report like the etf command does")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := c.run(ctx)
	switch {
	case errors.Is(err, errNoFiles):
		fmt.Fprintf(os.Stderr, "No CSV files found in %s. Upload holdings CSV(s) and re-run.\n", c.dir)
		return subcommands.ExitFailure
	case errors.Is(err, errNoValid):
		fmt.Fprintln(os.Stderr, "No valid fund files parsed. Exiting.")
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *portfolioCmd) run(ctx context.Context) error {
	app, cfg := c.app, c.app.Config
	output := c.output
	if output == "" {
		output = filepath.Join(c.dir, cfg.OutputCSV)
	}

	r := app.newRun("portfolio")
	res, err := app.portfolioReport(r, c.dir, output)
	if err != nil {
		return err
	}
	report := res.report

	text, md := renderer.PortfolioText(report), renderer.PortfolioMarkdown(report)
	switch {
	case c.pretty:
		app.printMarkdown(md)
	case c.markdown:
		io.WriteString(app.Stdout, md)
	default:
		io.WriteString(app.Stdout, text)
	}

	if err := renderer.SaveSummaryCSV(output, res.portfolio, res.metrics); err != nil {
		return err
	}
	fmt.Fprintf(app.Stdout, "Aggregated portfolio summary written to %s\n", output)

	if c.chart != "" {
		if err := c.writeChart(res.metrics.Sectors); err != nil {
			r.log.Error().Err(err).Str("file", c.chart).Msg("cannot write chart")
		}
	}
	if c.metricsFile != "" {
		err := renderer.WriteMetricsTextfile(c.metricsFile, renderer.Metrics{
			Report:        "portfolio",
			Name:          report.Name,
			Holdings:      report.Positions,
			TopPct:        res.metrics.TopPct,
			HHI:           res.metrics.HHI,
			ThemeExposure: res.metrics.ThemeExposure,
			Skipped:       len(r.skipped),
		})
		if err != nil {
			r.log.Error().Err(err).Str("file", c.metricsFile).Msg("cannot write metrics")
		}
	}
	if c.mail {
		app.deliver(ctx, r, report.Name+" "+report.Date.Format("2006-01-02"), text, md)
	}
	return nil
}

func (c *portfolioCmd) writeChart(sectors []exposure.Exposure) error {
	f, err := os.Create(c.chart)
	if err != nil {
		return err
	}
	if err := renderer.ExposureChart(f, "Sector exposure (%)", sectors); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type portfolioResult struct {
	portfolio *exposure.Portfolio
	metrics   *exposure.PortfolioMetrics
	report    *renderer.PortfolioReport
}

// portfolioReport discovers, loads, aggregates and measures the funds of dir.
func (a *App) portfolioReport(r *run, dir, output string) (*portfolioResult, error) {
	cfg := a.Config
	theme, err := a.theme(exposure.ThemePortfolio)
	if err != nil {
		return nil, err
	}

	files, err := source.Discover(dir, output)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}
	r.log.Info().Strs("files", files).Msg("holdings files found")

	raws := source.ReadCSVFiles(dir, files, r.diag)
	funds := exposure.FundLoader{Diagnostics: r.diag}.Load(raws...)
	if len(funds) == 0 {
		return nil, errNoValid
	}

	p, err := exposure.Aggregate(funds, cfg.WeightPolicy(), r.diag)
	if errors.Is(err, exposure.ErrNoFunds) {
		return nil, errNoValid
	}
	if err != nil {
		return nil, err
	}
	r.log.Info().Int("funds", len(p.Contributions)).Int("positions", len(p.Positions)).Str("key", string(p.Key)).Msg("portfolio aggregated")

	m := exposure.ComputePortfolioMetrics(p, theme, cfg.Thresholds)
	report := renderer.NewPortfolioReport(cfg.PortfolioName, files, p, m, theme, r.skipped, a.Now())
	report.RunID = r.id
	return &portfolioResult{portfolio: p, metrics: m, report: report}, nil
}
