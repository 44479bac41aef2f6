package exposure

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Holding is one line of a fund holdings table, in canonical form.
type Holding struct {
	Name       string
	WeightPct  float64 // 0-100 scale
	ISIN       string
	Sector     string
	Country    string
	AssetClass string
	Currency   string
	Source     string // the source the line was read from
}

// FundTable is the validated holdings of a single fund. Its weights sum to 100.
//
// It is immutable: accessors return copies.
type FundTable struct {
	source   string
	columns  ColumnMap
	holdings []Holding
}

// Source returns the identifier of the fund (usually its file name).
func (f *FundTable) Source() string { return f.source }

// Len returns the number of holdings.
func (f *FundTable) Len() int { return len(f.holdings) }

// Holdings returns a copy of the holdings, in table order.
func (f *FundTable) Holdings() []Holding { return slices.Clone(f.holdings) }

// Columns returns the provider labels the table was read from.
func (f *FundTable) Columns() ColumnMap {
	m := make(ColumnMap, len(f.columns))
	for k, v := range f.columns {
		m[k] = v
	}
	return m
}

// Sorted returns the holdings by decreasing weight. Equal weights keep the
// table order.
func (f *FundTable) Sorted() []Holding {
	h := f.Holdings()
	slices.SortStableFunc(h, func(a, b Holding) int { return descending(a.WeightPct, b.WeightPct) })
	return h
}

// TotalPct returns the sum of the weights.
func (f *FundTable) TotalPct() float64 { return floats.Sum(weightsOf(f.holdings)) }

// HasISIN tells whether any holding carries an ISIN.
func (f *FundTable) HasISIN() bool {
	return slices.ContainsFunc(f.holdings, func(h Holding) bool { return h.ISIN != "" })
}

func weightsOf(h []Holding) []float64 {
	w := make([]float64, len(h))
	for i := range h {
		w[i] = h[i].WeightPct
	}
	return w
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// LoadFund turns a raw provider table into a FundTable.
//
// Weights are normalized to percentages and then rescaled so that the fund
// sums to exactly 100, which absorbs tables that omit the cash line.
func LoadFund(raw *RawTable) (*FundTable, error) {
	columns := ResolveColumns(raw.Columns)
	if err := columns.Require(raw.Columns); err != nil {
		return nil, err
	}

	col := func(f Field) int {
		if label, ok := columns[f]; ok {
			return raw.Index(label)
		}
		return -1
	}
	nameCol, weightCol := col(FieldName), col(FieldWeight)
	isinCol, sectorCol, countryCol := col(FieldISIN), col(FieldSector), col(FieldCountry)
	classCol, currencyCol := col(FieldAssetClass), col(FieldCurrency)

	var (
		holdings []Holding
		cells    []string
		rowNums  []int
	)
	for i, row := range raw.Rows {
		name, weight := raw.Cell(row, nameCol), raw.Cell(row, weightCol)
		if name == "" && weight == "" {
			// blank line, or a footer note spanning the first column only
			continue
		}
		holdings = append(holdings, Holding{
			Name:       name,
			ISIN:       raw.Cell(row, isinCol),
			Sector:     raw.Cell(row, sectorCol),
			Country:    raw.Cell(row, countryCol),
			AssetClass: raw.Cell(row, classCol),
			Currency:   raw.Cell(row, currencyCol),
			Source:     raw.Source,
		})
		cells = append(cells, weight)
		rowNums = append(rowNums, i+1)
	}

	weights, err := NormalizeWeights(cells)
	if err != nil {
		var perr *WeightParseError
		if errors.As(err, &perr) {
			perr.Row = rowNums[perr.Row-1]
		}
		return nil, fmt.Errorf("column %q: %w", columns[FieldWeight], err)
	}

	total := floats.Sum(weights)
	if !(total > 0) {
		return nil, fmt.Errorf("%w: %g", ErrDegenerateTotal, total)
	}
	scale := 100.0 / total
	for i := range holdings {
		holdings[i].WeightPct = weights[i] * scale
	}

	return &FundTable{source: raw.Source, columns: columns, holdings: holdings}, nil
}

// FundLoader loads many raw tables, skipping the ones that cannot be used.
type FundLoader struct {
	Diagnostics Collector
}

// Load returns the funds that loaded successfully, in input order. Every other
// table is reported to the Diagnostics collector.
func (l FundLoader) Load(raws ...*RawTable) []*FundTable {
	diag := l.Diagnostics
	if diag == nil {
		diag = discard{}
	}
	var funds []*FundTable
	for _, raw := range raws {
		f, err := LoadFund(raw)
		if err != nil {
			diag.Skip(raw.Source, err)
			continue
		}
		funds = append(funds, f)
	}
	return funds
}
