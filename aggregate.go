package exposure

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// WeightPolicy decides how much each fund contributes to the portfolio.
type WeightPolicy interface {
	// Multipliers returns, for each fund, the fraction of the portfolio it
	// represents. Funds the policy cannot weight are reported and get no entry.
	Multipliers(funds []*FundTable, diag Collector) map[string]float64
	String() string
}

// EqualWeight gives each of the N funds a 1/N share.
type EqualWeight struct{}

func (EqualWeight) Multipliers(funds []*FundTable, _ Collector) map[string]float64 {
	m := make(map[string]float64, len(funds))
	for _, f := range funds {
		m[f.Source()] = 1.0 / float64(len(funds))
	}
	return m
}

func (EqualWeight) String() string { return "equal-weight funds" }

// Allocations weights funds by the amount invested in each, keyed by source
// name.
type Allocations map[string]Money

// ParseAllocations reads "fund_a.csv=12000,fund_b.csv=8000 EUR". Amounts
// without a currency use the default currency. All amounts must be in the same
// currency and each file may appear once.
func ParseAllocations(s, currency string) (Allocations, error) {
	a := make(Allocations)
	var first Money
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, amount, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid allocation %q: want <file>=<amount>", item)
		}
		m, err := ParseMoney(amount, currency)
		if err != nil {
			return nil, fmt.Errorf("invalid allocation for %q: %w", name, err)
		}
		if !m.IsPositive() {
			return nil, fmt.Errorf("invalid allocation for %q: amount must be positive", name)
		}
		name = strings.TrimSpace(name)
		if _, dup := a[name]; dup {
			return nil, fmt.Errorf("invalid allocation: %q is allocated twice", name)
		}
		if len(a) == 0 {
			first = m
		}
		if _, err := first.Add(m); err != nil {
			return nil, fmt.Errorf("invalid allocation for %q: %w", name, err)
		}
		a[name] = m
	}
	return a, nil
}

func (a Allocations) Multipliers(funds []*FundTable, diag Collector) map[string]float64 {
	var (
		total Money
		kept  []*FundTable
	)
	for _, f := range funds {
		amount, ok := a[f.Source()]
		if !ok {
			diag.Skip(f.Source(), ErrNoAllocation)
			continue
		}
		sum, err := total.Add(amount)
		if err != nil {
			diag.Skip(f.Source(), err)
			continue
		}
		total = sum
		kept = append(kept, f)
	}
	m := make(map[string]float64, len(kept))
	for _, f := range kept {
		m[f.Source()] = a[f.Source()].Ratio(total)
	}
	return m
}

func (a Allocations) String() string { return "allocation-weighted funds" }

// Amount returns the allocation of a fund.
func (a Allocations) Amount(source string) (Money, bool) {
	m, ok := a[source]
	return m, ok
}

// Key is the identity used to consolidate holdings across funds.
type Key string

const (
	KeyISIN Key = "isin"
	KeyName Key = "name"
)

// Position is a holding consolidated over all the funds of a portfolio.
type Position struct {
	Rank      int
	ISIN      string
	Name      string
	Sector    string
	Country   string
	WeightPct float64 // share of the portfolio, 0-100
}

// Contribution is the share of the portfolio brought in by one fund.
type Contribution struct {
	Source     string
	Multiplier float64
	Holdings   int
}

// Portfolio is the consolidation of several funds.
type Portfolio struct {
	Key           Key
	Policy        WeightPolicy
	Contributions []Contribution
	Positions     []Position // by decreasing weight
}

// Sources returns the funds included in the portfolio, in input order.
func (p *Portfolio) Sources() []string {
	s := make([]string, len(p.Contributions))
	for i, c := range p.Contributions {
		s[i] = c.Source
	}
	return s
}

// TotalPct returns the sum of the position weights.
func (p *Portfolio) TotalPct() float64 {
	w := make([]float64, len(p.Positions))
	for i := range p.Positions {
		w[i] = p.Positions[i].WeightPct
	}
	return floats.Sum(w)
}

type groupKey struct{ isin, name string }

// Aggregate consolidates the funds into a single portfolio.
//
// Holdings are grouped by (ISIN, name) when any holding of any fund has an
// ISIN, by name otherwise. Groups keep the order in which they were first seen
// so that ties are resolved the same way on every run.
func Aggregate(funds []*FundTable, policy WeightPolicy, diag Collector) (*Portfolio, error) {
	if policy == nil {
		policy = EqualWeight{}
	}
	if diag == nil {
		diag = discard{}
	}
	mult := policy.Multipliers(funds, diag)

	p := &Portfolio{Key: KeyName, Policy: policy}
	var included []*FundTable
	for _, f := range funds {
		m, ok := mult[f.Source()]
		if !ok {
			continue
		}
		included = append(included, f)
		p.Contributions = append(p.Contributions, Contribution{Source: f.Source(), Multiplier: m, Holdings: f.Len()})
	}
	if len(included) == 0 {
		return nil, ErrNoFunds
	}
	if slices.ContainsFunc(included, (*FundTable).HasISIN) {
		p.Key = KeyISIN
	}

	index := make(map[groupKey]int)
	for _, f := range included {
		m := mult[f.Source()]
		for _, h := range f.holdings {
			k := groupKey{name: h.Name}
			if p.Key == KeyISIN {
				k.isin = h.ISIN
			}
			i, seen := index[k]
			if !seen {
				i = len(p.Positions)
				index[k] = i
				p.Positions = append(p.Positions, Position{ISIN: k.isin, Name: h.Name})
			}
			pos := &p.Positions[i]
			if pos.Sector == "" {
				pos.Sector = h.Sector
			}
			if pos.Country == "" {
				pos.Country = h.Country
			}
			pos.WeightPct += h.WeightPct * m
		}
	}

	slices.SortStableFunc(p.Positions, func(a, b Position) int { return descending(a.WeightPct, b.WeightPct) })
	for i := range p.Positions {
		p.Positions[i].Rank = i + 1
	}
	return p, nil
}
