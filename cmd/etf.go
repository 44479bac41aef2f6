package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/exposure"
	"github.com/etnz/exposure/renderer"
	"github.com/etnz/exposure/source"
	"github.com/google/subcommands"
)

// etfCmd holds the flags for the 'etf' subcommand.
type etfCmd struct {
	app *App

	location    string
	jsonPath    string
	pretty      bool
	markdown    bool
	noMail      bool
	metricsFile string
}

func (*etfCmd) Name() string     { return "etf" }
func (*etfCmd) Synopsis() string { return "report on the holdings of a single fund" }
func (*etfCmd) Usage() string {
	return `holdrisk etf [-f <location>] [-json-path <path>] [-pretty|-markdown] [-no-mail] [-metrics-file <file>]

  Fetches the holdings of a single fund and reports its concentration
  (top 10 weight, HHI), its thematic exposure, and the minimal list of
  holdings covering 70% of the fund.

  The location is an http(s) URL, an s3://bucket/key location or a local
  file. It defaults to HOLDINGS_URL. The report is printed, then mailed
  when SMTP_HOST and EMAIL_TO are set, and posted to WEBHOOK_URL if any.
`
}

func (c *etfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.location, "f", "", "holdings location (defaults to HOLDINGS_URL)")
	f.StringVar(&c.jsonPath, "json-path", "", "JSONPath of the records in a JSON payload (defaults to HOLDINGS_JSON_PATH)")
	f.BoolVar(&c.pretty, "pretty", false, "print the report as rendered markdown")
	f.BoolVar(&c.markdown, "markdown", false, "print the report as raw markdown")
	f.BoolVar(&c.noMail, "no-mail", false, "do not deliver the report")
	f.StringVar(&c.metricsFile, "metrics-file", "", "write the metrics to this Prometheus textfile")
}

func (c *etfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *etfCmd) run(ctx context.Context) error {
	app, cfg := c.app, c.app.Config
	location := c.location
	if location == "" {
		location = cfg.HoldingsURL
	}
	jsonPath := c.jsonPath
	if jsonPath == "" {
		jsonPath = cfg.JSONPath
	}

	r := app.newRun("etf")
	report, err := app.fundReport(ctx, r, location, jsonPath)
	if err != nil {
		return err
	}
	report.RunID = r.id

	text, md := renderer.FundText(report), renderer.FundMarkdown(report)
	switch {
	case c.pretty:
		app.printMarkdown(md)
	case c.markdown:
		io.WriteString(app.Stdout, md)
	default:
		io.WriteString(app.Stdout, text)
	}

	if c.metricsFile != "" {
		err := renderer.WriteMetricsTextfile(c.metricsFile, renderer.Metrics{
			Report:        "etf",
			Name:          report.Name,
			Holdings:      report.Holdings,
			TopPct:        report.TopPct.Fraction(),
			HHI:           report.HHI,
			ThemeExposure: report.ThemePct.Fraction(),
		})
		if err != nil {
			r.log.Error().Err(err).Str("file", c.metricsFile).Msg("cannot write metrics")
		}
	}

	if !c.noMail {
		app.deliver(ctx, r, "ETF Report "+report.Date.Format(time.DateOnly), text, md)
	}
	return nil
}

// fundReport fetches, loads and measures a single fund.
func (a *App) fundReport(ctx context.Context, r *run, location, jsonPath string) (*renderer.FundReport, error) {
	cfg := a.Config
	theme, err := a.theme(exposure.ThemeETF)
	if err != nil {
		return nil, err
	}

	fetcher := &source.Fetcher{
		HTTP:     source.NewHTTPClient(cfg.FetchTimeout, cfg.HTTPCache),
		JSONPath: jsonPath,
	}
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	raw, err := fetcher.Fetch(fetchCtx, location)
	if err != nil {
		r.diag.Skip(location, err)
		return nil, err
	}

	funds := exposure.FundLoader{Diagnostics: r.diag}.Load(raw)
	if len(funds) == 0 {
		err := exposure.ErrNoFunds
		if n := len(r.skipped); n > 0 {
			err = r.skipped[n-1].Err
		}
		return nil, fmt.Errorf("no usable holdings in %q: %w", location, err)
	}
	fund := funds[0]
	r.log.Info().Str("source", location).Int("holdings", fund.Len()).Msg("fund loaded")

	m := exposure.ComputeFundMetrics(fund, theme, cfg.Thresholds)
	return renderer.NewFundReport(cfg.FundName, cfg.FundISIN, fund, m, theme, a.Now()), nil
}
