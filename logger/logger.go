// Package logger configures the structured logger of the command line tool.
package logger

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/etnz/exposure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Enable pretty console output
	Output io.Writer
}

// New creates a new structured logger. Logs go to stderr by default: stdout
// carries the reports.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// SetGlobalLogger sets the package-level logger
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}

// Collector reports skipped sources to a logger.
type Collector struct {
	Log zerolog.Logger
}

// Skip logs a skipped source at warn level, with the reason and the error.
func (c Collector) Skip(source string, err error) {
	s := exposure.Skipped{Source: source, Err: err}
	ev := c.Log.Warn().Str("source", source).Str("reason", s.Reason()).Err(err)
	var perr *exposure.WeightParseError
	if errors.As(err, &perr) {
		ev = ev.Int("row", perr.Row)
	}
	ev.Msg("skipping source")
}
