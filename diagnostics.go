package exposure

import (
	"errors"
	"fmt"
)

// Reasons a source is skipped. They are never fatal on their own: the run only
// fails when no source survives.
var (
	ErrSourceRead      = errors.New("cannot read source")
	ErrMissingColumn   = errors.New("required column not found")
	ErrWeightParse     = errors.New("invalid weight")
	ErrDegenerateTotal = errors.New("total weight is not positive")
	ErrNoAllocation    = errors.New("no allocation configured")

	// ErrCurrencyMismatch is returned when fund allocations mix currencies.
	ErrCurrencyMismatch = errors.New("allocations must share one currency")

	// ErrNoFunds is returned when nothing is left to aggregate.
	ErrNoFunds = errors.New("no valid fund")
)

// WeightParseError reports the first weight cell that is not a number.
type WeightParseError struct {
	Row   int // 1-based data row
	Value string
}

func (e *WeightParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse weight %q", e.Row, e.Value)
}

func (e *WeightParseError) Unwrap() error { return ErrWeightParse }

// Collector receives the sources that are dropped along the pipeline.
type Collector interface {
	Skip(source string, err error)
}

// Skipped is a source dropped from the run.
type Skipped struct {
	Source string
	Err    error
}

// Reason returns a short classification of the skip.
func (s Skipped) Reason() string {
	switch {
	case errors.Is(s.Err, ErrSourceRead):
		return "read failure"
	case errors.Is(s.Err, ErrMissingColumn):
		return "missing column"
	case errors.Is(s.Err, ErrWeightParse):
		return "invalid weight"
	case errors.Is(s.Err, ErrDegenerateTotal):
		return "degenerate total"
	case errors.Is(s.Err, ErrNoAllocation):
		return "no allocation"
	case errors.Is(s.Err, ErrCurrencyMismatch):
		return "currency mismatch"
	default:
		return "error"
	}
}

// SkipLog is a Collector that keeps the skipped sources in memory, in order.
type SkipLog []Skipped

func (l *SkipLog) Skip(source string, err error) {
	*l = append(*l, Skipped{Source: source, Err: err})
}

// Collectors fans out to several collectors.
type Collectors []Collector

func (c Collectors) Skip(source string, err error) {
	for _, x := range c {
		if x != nil {
			x.Skip(source, err)
		}
	}
}

// discard is used when no collector is configured.
type discard struct{}

func (discard) Skip(string, error) {}
