package exposure

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Report sizes.
const (
	FundTopK       = 10
	PortfolioTopK  = 20
	RollupTopK     = 10
	CumulativeMark = 70.0 // percent of the fund covered by the "minimal 70" list
)

// HHI bands, on the 0-1 scale (1500 and 2500 points on the usual 10000 scale).
const (
	hhiModerate = 0.15
	hhiHigh     = 0.25
)

// Thresholds above which a report raises an alert.
type Thresholds struct {
	TopConcentration float64 // share of the top 10, as a 0-1 fraction
	ThemeExposure    float64 // thematic exposure, as a 0-1 fraction
}

// DefaultThresholds are the historical alert levels.
var DefaultThresholds = Thresholds{TopConcentration: 0.35, ThemeExposure: 0.15}

// Alert is a metric beyond its threshold.
type Alert struct {
	Metric    string
	Value     float64 // 0-1 fraction
	Threshold float64 // 0-1 fraction
}

// HHI returns the Herfindahl-Hirschman index of the weights given on the 0-100
// scale: the sum of the squared fractions. It is 1 for a single holding and
// 1/N for N equal holdings.
func HHI(weightsPct []float64) float64 {
	w := make([]float64, len(weightsPct))
	floats.ScaleTo(w, 0.01, weightsPct)
	return floats.Dot(w, w)
}

// HHIBand labels the concentration level of an index.
func HHIBand(hhi float64) string {
	switch {
	case hhi < hhiModerate:
		return "unconcentrated"
	case hhi <= hhiHigh:
		return "moderately concentrated"
	default:
		return "highly concentrated"
	}
}

// CumulativePrefix returns the length of the shortest prefix of the weights
// whose sum reaches the mark. The weight that crosses the mark is included. If
// the mark is never reached, all the weights are.
func CumulativePrefix(weightsPct []float64, mark float64) int {
	sum := 0.0
	for i, w := range weightsPct {
		sum += w
		if sum >= mark {
			return i + 1
		}
	}
	return len(weightsPct)
}

// Exposure sums up the weight of a group of holdings (a sector, a country).
type Exposure struct {
	Label     string // empty for holdings with no value
	WeightPct float64
}

// Rollup groups weights by label and returns the groups by decreasing weight.
// Holdings without a label make up their own group. Ties keep the order in
// which labels were first seen.
func Rollup(labels []string, weightsPct []float64) []Exposure {
	index := make(map[string]int)
	var out []Exposure
	for i, l := range labels {
		j, ok := index[l]
		if !ok {
			j = len(out)
			index[l] = j
			out = append(out, Exposure{Label: l})
		}
		out[j].WeightPct += weightsPct[i]
	}
	slices.SortStableFunc(out, func(a, b Exposure) int { return descending(a.WeightPct, b.WeightPct) })
	return out
}

// ThemeExposure returns the fraction (0-1) of the weight flagged by the theme.
func ThemeExposure(t *Theme, names, sectors []string, weightsPct []float64) float64 {
	sum := 0.0
	for i := range names {
		if t.Flag(names[i], sectors[i]) {
			sum += weightsPct[i]
		}
	}
	return sum / 100
}

// FundMetrics are the risk metrics of a single fund.
type FundMetrics struct {
	Top           []Holding // the FundTopK largest holdings
	TopPct        float64   // weight of Top, 0-1
	HHI           float64
	ThemeExposure float64   // 0-1
	Cumulative    []Holding // the minimal list reaching CumulativeMark
	Alerts        []Alert
}

// ComputeFundMetrics computes the metrics of a single fund.
func ComputeFundMetrics(f *FundTable, theme *Theme, th Thresholds) *FundMetrics {
	sorted := f.Sorted()
	names, sectors := make([]string, len(sorted)), make([]string, len(sorted))
	for i, h := range sorted {
		names[i], sectors[i] = h.Name, h.Sector
	}
	weights := weightsOf(sorted)

	m := &FundMetrics{
		Top:           sorted[:min(FundTopK, len(sorted))],
		HHI:           HHI(weights),
		ThemeExposure: ThemeExposure(theme, names, sectors, weights),
		Cumulative:    sorted[:CumulativePrefix(weights, CumulativeMark)],
	}
	m.TopPct = floats.Sum(weights[:len(m.Top)]) / 100
	m.Alerts = th.check(m.TopPct, m.ThemeExposure)
	return m
}

// PortfolioMetrics are the risk metrics of a consolidated portfolio.
type PortfolioMetrics struct {
	Top           []Position // the PortfolioTopK largest positions
	TopPct        float64    // weight of the 10 largest positions, 0-1
	HHI           float64
	ThemeExposure float64 // 0-1
	Flags         []bool  // theme flag of every position, aligned on Portfolio.Positions
	Sectors       []Exposure
	Countries     []Exposure
	Alerts        []Alert
}

// ComputePortfolioMetrics computes the metrics of a portfolio. Rollups hold all
// the groups; reports show the first RollupTopK.
func ComputePortfolioMetrics(p *Portfolio, theme *Theme, th Thresholds) *PortfolioMetrics {
	n := len(p.Positions)
	names, sectors, countries := make([]string, n), make([]string, n), make([]string, n)
	weights := make([]float64, n)
	flags := make([]bool, n)
	for i, pos := range p.Positions {
		names[i], sectors[i], countries[i] = pos.Name, pos.Sector, pos.Country
		weights[i] = pos.WeightPct
		flags[i] = theme.Flag(pos.Name, pos.Sector)
	}

	m := &PortfolioMetrics{
		Top:           p.Positions[:min(PortfolioTopK, n)],
		TopPct:        floats.Sum(weights[:min(FundTopK, n)]) / 100,
		HHI:           HHI(weights),
		ThemeExposure: ThemeExposure(theme, names, sectors, weights),
		Flags:         flags,
		Sectors:       Rollup(sectors, weights),
		Countries:     Rollup(countries, weights),
	}
	m.Alerts = th.check(m.TopPct, m.ThemeExposure)
	return m
}

func (th Thresholds) check(topPct, themePct float64) []Alert {
	var alerts []Alert
	if th.TopConcentration > 0 && topPct >= th.TopConcentration {
		alerts = append(alerts, Alert{Metric: "top 10 concentration", Value: topPct, Threshold: th.TopConcentration})
	}
	if th.ThemeExposure > 0 && themePct >= th.ThemeExposure {
		alerts = append(alerts, Alert{Metric: "thematic exposure", Value: themePct, Threshold: th.ThemeExposure})
	}
	return alerts
}
