package exposure

import "fmt"

// Percent is a weight on the 0-100 scale.
type Percent float64

// Pct converts a 0-1 fraction into a Percent.
func Pct(fraction float64) Percent { return Percent(fraction * 100) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// Fraction returns the 0-1 value.
func (p Percent) Fraction() float64 { return float64(p) / 100 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}
