package exposure

import (
	"strings"
	"testing"
)

// csvTable decodes an inline CSV table.
func csvTable(t *testing.T, source, text string) *RawTable {
	t.Helper()
	raw, err := DecodeCSV(source, strings.NewReader(text))
	if err != nil {
		t.Fatalf("DecodeCSV(%q) error = %v", source, err)
	}
	return raw
}

// fund loads an inline CSV table.
func fund(t *testing.T, source, text string) *FundTable {
	t.Helper()
	f, err := LoadFund(csvTable(t, source, text))
	if err != nil {
		t.Fatalf("LoadFund(%q) error = %v", source, err)
	}
	return f
}

func EUR(v float64) Money { return M(v, "EUR") }

const near = 1e-6

func approx(a, b float64) bool {
	d := a - b
	return d < near && d > -near
}
