// Package cmd implements the CLI application reporting on fund holdings.
package cmd

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/exposure"
	"github.com/etnz/exposure/config"
	"github.com/etnz/exposure/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// App is the state shared by the commands of a single process: the
// configuration, built once, and the logger.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Stdout io.Writer
	Now    func() time.Time
}

// NewApp builds the application from the configuration.
func NewApp(cfg *config.Config) *App {
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)
	return &App{Config: cfg, Log: log, Stdout: os.Stdout, Now: time.Now}
}

// run holds what belongs to a single report run.
type run struct {
	id      string
	log     zerolog.Logger
	skipped exposure.SkipLog
	diag    exposure.Collector
}

func (a *App) newRun(report string) *run {
	r := &run{id: uuid.NewString()}
	r.log = a.Log.With().Str("run_id", r.id).Str("report", report).Logger()
	r.diag = exposure.Collectors{&r.skipped, logger.Collector{Log: r.log}}
	return r
}

// theme returns the configured theme, or the preset.
func (a *App) theme(preset string) (*exposure.Theme, error) {
	if a.Config.ThemeFile != "" {
		return exposure.LoadTheme(a.Config.ThemeFile)
	}
	return exposure.LoadTheme(preset)
}

// printMarkdown renders markdown for the terminal. It falls back to the raw
// markdown when it cannot be rendered.
func (a *App) printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			io.WriteString(a.Stdout, out)
			return
		}
	}
	a.Log.Debug().Err(err).Msg("cannot render markdown")
	io.WriteString(a.Stdout, md)
}
