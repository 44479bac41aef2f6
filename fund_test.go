package exposure

import (
	"errors"
	"testing"
)

func TestLoadFund_SumsTo100(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"percentages", "Name,Weight\nA,50\nB,30\nC,20\n"},
		{"percent signs", "Name,Weight (%)\nA,50%\nB,30%\nC,20%\n"},
		{"fractions", "Name,Weight\nA,0.5\nB,0.3\nC,0.2\n"},
		{"partial total", "Name,Weight\nA,40\nB,20\n"},
		{"over total", "Name,Weight\nA,80\nB,70\n"},
		{"fractions with cash missing", "Name,Weight\nA,0.45\nB,0.45\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fund(t, "f.csv", tt.csv)
			if got := f.TotalPct(); !approx(got, 100) {
				t.Errorf("TotalPct() = %v, want 100", got)
			}
		})
	}
}

func TestLoadFund_Holdings(t *testing.T) {
	f := fund(t, "ishares.csv", "\ufeffTicker,Name,Sector,Weight (%),ISIN,Location,Currency\n"+
		"NVDA,NVIDIA CORP,Information Technology,6.0,US67066G1040,United States,USD\n"+
		"MSFT,MICROSOFT CORP,Information Technology,4.0,US5949181045,United States,USD\n"+
		",,,,,,\n"+
		"\"The content is for information only\"\n")

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	h := f.Holdings()
	want := Holding{
		Name:      "NVIDIA CORP",
		WeightPct: 60,
		ISIN:      "US67066G1040",
		Sector:    "Information Technology",
		Currency:  "USD",
		Source:    "ishares.csv",
	}
	if got := h[0]; got.Name != want.Name || !approx(got.WeightPct, want.WeightPct) || got.ISIN != want.ISIN ||
		got.Sector != want.Sector || got.Currency != want.Currency || got.Source != want.Source {
		t.Errorf("Holdings()[0] = %+v, want %+v", got, want)
	}
	if !f.HasISIN() {
		t.Error("HasISIN() = false, want true")
	}
	if got := f.Columns()[FieldWeight]; got != "Weight (%)" {
		t.Errorf("Columns()[weight] = %q, want %q", got, "Weight (%)")
	}

	// holdings are returned as copies
	h[0].Name = "changed"
	if f.Holdings()[0].Name != "NVIDIA CORP" {
		t.Error("Holdings() exposes the table internals")
	}
}

func TestLoadFund_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want error
	}{
		{"no weight column", "Name,Market Value\nA,100\n", ErrMissingColumn},
		{"no name column", "Ticker,Weight\nA,100\n", ErrMissingColumn},
		{"bad weight", "Name,Weight\nA,50\nB,fifty\n", ErrWeightParse},
		{"zero total", "Name,Weight\nA,0\nB,0\n", ErrDegenerateTotal},
		{"no rows", "Name,Weight\n", ErrDegenerateTotal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFund(csvTable(t, "f.csv", tt.csv))
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadFund() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFund_WeightErrorRow(t *testing.T) {
	// the blank second row is skipped but still counts in the reported row number
	_, err := LoadFund(csvTable(t, "f.csv", "Name,Weight\nA,50\n,\nB,n/a\n"))
	var perr *WeightParseError
	if !errors.As(err, &perr) {
		t.Fatalf("LoadFund() error = %v, want *WeightParseError", err)
	}
	if perr.Row != 3 {
		t.Errorf("WeightParseError.Row = %d, want 3", perr.Row)
	}
}

func TestFundTable_Sorted(t *testing.T) {
	f := fund(t, "f.csv", "Name,Weight\nC,20\nA,40\nB,20\nD,20\n")
	var got []string
	for _, h := range f.Sorted() {
		got = append(got, h.Name)
	}
	want := []string{"A", "C", "B", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
	if f.Holdings()[0].Name != "C" {
		t.Error("Sorted() reordered the table")
	}
}

func TestFundLoader_Load(t *testing.T) {
	var log SkipLog
	funds := FundLoader{Diagnostics: &log}.Load(
		csvTable(t, "good.csv", "Name,Weight\nA,100\n"),
		csvTable(t, "bad.csv", "Name,Value\nA,100\n"),
		csvTable(t, "other.csv", "Holding,%\nB,1\n"),
	)
	if len(funds) != 2 || funds[0].Source() != "good.csv" || funds[1].Source() != "other.csv" {
		t.Fatalf("Load() kept %d funds, want good.csv and other.csv", len(funds))
	}
	if len(log) != 1 || log[0].Source != "bad.csv" || log[0].Reason() != "missing column" {
		t.Errorf("skipped = %+v, want bad.csv for a missing column", log)
	}
}
