package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/etnz/exposure"
	"github.com/etnz/exposure/source"
	"github.com/google/subcommands"
)

// columnsCmd holds the flags for the 'columns' subcommand.
type columnsCmd struct {
	app *App

	jsonPath string
}

func (*columnsCmd) Name() string     { return "columns" }
func (*columnsCmd) Synopsis() string { return "show how the columns of holdings files are understood" }
func (*columnsCmd) Usage() string {
	return `holdrisk columns [-json-path <path>] <location>...

  Reads each holdings table and prints which of its columns provides the
  name, weight, ISIN, sector, country, asset class and currency of the
  holdings. Useful to check a new provider's file before reporting on it.
`
}

func (c *columnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.jsonPath, "json-path", "$", "JSONPath of the records in a JSON payload")
}

func (c *columnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing holdings location")
		return subcommands.ExitUsageError
	}
	cfg := c.app.Config
	fetcher := &source.Fetcher{HTTP: source.NewHTTPClient(cfg.FetchTimeout, cfg.HTTPCache), JSONPath: c.jsonPath}

	status := subcommands.ExitSuccess
	w := tabwriter.NewWriter(c.app.Stdout, 0, 4, 2, ' ', 0)
	for _, location := range f.Args() {
		raw, err := fetcher.Fetch(ctx, location)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", location, err)
			status = subcommands.ExitFailure
			continue
		}
		m := exposure.ResolveColumns(raw.Columns)
		fmt.Fprintf(w, "%s (%d rows)\n", location, len(raw.Rows))
		for _, rule := range exposure.ColumnRules {
			label, ok := m[rule.Field]
			if !ok {
				label = "-"
			}
			fmt.Fprintf(w, "  %s\t%s\n", rule.Field, label)
		}
		if err := m.Require(raw.Columns); err != nil {
			fmt.Fprintf(w, "  unusable: %v\n", err)
			status = subcommands.ExitFailure
		}
		w.Flush()
	}
	return status
}
