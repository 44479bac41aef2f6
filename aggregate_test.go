package exposure

import (
	"errors"
	"strings"
	"testing"
)

func TestAggregate_EqualWeight(t *testing.T) {
	funds := []*FundTable{
		fund(t, "a.csv", "Name,Weight,Sector\nNVIDIA,60,\nApple,40,Technology\n"),
		fund(t, "b.csv", "Name,Weight,Sector,Country\nNVIDIA,50,Semiconductors,US\nShell,50,Energy,UK\n"),
	}
	p, err := Aggregate(funds, EqualWeight{}, nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if p.Key != KeyName {
		t.Errorf("Key = %q, want %q", p.Key, KeyName)
	}
	if got := p.TotalPct(); !approx(got, 100) {
		t.Errorf("TotalPct() = %v, want 100", got)
	}
	want := []Position{
		{Rank: 1, Name: "NVIDIA", Sector: "Semiconductors", Country: "US", WeightPct: 55},
		{Rank: 2, Name: "Shell", Sector: "Energy", Country: "UK", WeightPct: 25},
		{Rank: 3, Name: "Apple", Sector: "Technology", WeightPct: 20},
	}
	if len(p.Positions) != len(want) {
		t.Fatalf("Positions = %+v, want %+v", p.Positions, want)
	}
	for i, w := range want {
		got := p.Positions[i]
		if got.Rank != w.Rank || got.Name != w.Name || got.Sector != w.Sector || got.Country != w.Country || !approx(got.WeightPct, w.WeightPct) {
			t.Errorf("Positions[%d] = %+v, want %+v", i, got, w)
		}
	}
	if s := p.Sources(); len(s) != 2 || s[0] != "a.csv" || s[1] != "b.csv" {
		t.Errorf("Sources() = %v", s)
	}
}

func TestAggregate_ScenarioB(t *testing.T) {
	funds := []*FundTable{
		fund(t, "a.csv", "Name,Weight\nNVIDIA,100%\n"),
		fund(t, "b.csv", "Name,Weight\nNVIDIA,100%\n"),
	}
	p, err := Aggregate(funds, EqualWeight{}, nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(p.Positions) != 1 || p.Positions[0].Name != "NVIDIA" || !approx(p.Positions[0].WeightPct, 100) {
		t.Fatalf("Positions = %+v, want NVIDIA at 100%%", p.Positions)
	}
	theme, err := LoadTheme(ThemePortfolio)
	if err != nil {
		t.Fatal(err)
	}
	m := ComputePortfolioMetrics(p, theme, DefaultThresholds)
	if !approx(m.ThemeExposure, 1) {
		t.Errorf("ThemeExposure = %v, want 1", m.ThemeExposure)
	}
}

func TestAggregate_ByISIN(t *testing.T) {
	funds := []*FundTable{
		fund(t, "a.csv", "Name,Weight,ISIN\nAlphabet A,50,US02079K3059\nAlphabet C,50,US02079K1079\n"),
		fund(t, "b.csv", "Name,Weight\nAlphabet A,100\n"),
	}
	p, err := Aggregate(funds, EqualWeight{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Key != KeyISIN {
		t.Errorf("Key = %q, want %q", p.Key, KeyISIN)
	}
	// the holding without ISIN is a distinct position
	if len(p.Positions) != 3 {
		t.Fatalf("Positions = %+v, want 3 positions", p.Positions)
	}
	if p.Positions[0].ISIN != "" || !approx(p.Positions[0].WeightPct, 50) {
		t.Errorf("Positions[0] = %+v, want the name-only Alphabet A at 50", p.Positions[0])
	}
	if p.Positions[1].ISIN != "US02079K3059" {
		t.Errorf("Positions[1] = %+v, want tie kept in first-seen order", p.Positions[1])
	}
}

func TestAggregate_Allocations(t *testing.T) {
	funds := []*FundTable{
		fund(t, "a.csv", "Name,Weight\nX,100\n"),
		fund(t, "b.csv", "Name,Weight\nY,100\n"),
		fund(t, "c.csv", "Name,Weight\nZ,100\n"),
	}
	alloc, err := ParseAllocations("a.csv=12000, b.csv=8000 EUR", "EUR")
	if err != nil {
		t.Fatalf("ParseAllocations() error = %v", err)
	}
	var log SkipLog
	p, err := Aggregate(funds, alloc, &log)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(log) != 1 || log[0].Source != "c.csv" || !errors.Is(log[0].Err, ErrNoAllocation) {
		t.Errorf("skipped = %+v, want c.csv without allocation", log)
	}
	if len(p.Contributions) != 2 {
		t.Fatalf("Contributions = %+v", p.Contributions)
	}
	sum := 0.0
	for _, c := range p.Contributions {
		sum += c.Multiplier
	}
	if !approx(sum, 1) {
		t.Errorf("sum of multipliers = %v, want 1", sum)
	}
	if !approx(p.Positions[0].WeightPct, 60) || !approx(p.Positions[1].WeightPct, 40) {
		t.Errorf("Positions = %+v, want X 60 and Y 40", p.Positions)
	}
	if amount, ok := alloc.Amount("a.csv"); !ok || !amount.Equal(EUR(12000)) {
		t.Errorf("Amount(a.csv) = %v, %v", amount, ok)
	}
}

func TestAggregate_NoFunds(t *testing.T) {
	if _, err := Aggregate(nil, EqualWeight{}, nil); !errors.Is(err, ErrNoFunds) {
		t.Errorf("Aggregate(nil) error = %v, want ErrNoFunds", err)
	}
	f := fund(t, "a.csv", "Name,Weight\nX,100\n")
	if _, err := Aggregate([]*FundTable{f}, Allocations{}, nil); !errors.Is(err, ErrNoFunds) {
		t.Errorf("Aggregate() without any allocation error = %v, want ErrNoFunds", err)
	}
}

func TestParseAllocations_Errors(t *testing.T) {
	for _, s := range []string{
		"a.csv",
		"a.csv=ten",
		"a.csv=0",
		"a.csv=-5",
		"a.csv=10000 EUR,b.csv=10000 JPY",
		"a.csv=10000,b.csv=10000 USD",
		"a.csv=1000,b.csv=2000,a.csv=3000",
	} {
		if _, err := ParseAllocations(s, "EUR"); err == nil {
			t.Errorf("ParseAllocations(%q) error = nil, want an error", s)
		}
	}
	if _, err := ParseAllocations("a.csv=10000 EUR,b.csv=10000 JPY", "EUR"); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("ParseAllocations() error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := ParseAllocations("a.csv=1000,a.csv=3000", "EUR"); err == nil || !strings.Contains(err.Error(), `"a.csv"`) {
		t.Errorf("ParseAllocations() error = %v, want the duplicate file named", err)
	}
}

func TestAllocations_MixedCurrencies(t *testing.T) {
	a := fund(t, "a.csv", "Name,Weight\nX,100\n")
	b := fund(t, "b.csv", "Name,Weight\nY,100\n")
	alloc := Allocations{"a.csv": EUR(10000), "b.csv": M(10000, "JPY")}

	var log SkipLog
	m := alloc.Multipliers([]*FundTable{a, b}, &log)
	if len(m) != 1 || !approx(m["a.csv"], 1) {
		t.Errorf("Multipliers() = %v, want only a.csv at 1", m)
	}
	if len(log) != 1 || log[0].Source != "b.csv" || log[0].Reason() != "currency mismatch" {
		t.Errorf("skipped = %v, want b.csv for currency mismatch", log)
	}
}
