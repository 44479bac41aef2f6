package renderer

import (
	"time"

	"github.com/etnz/exposure"
)

// Line is a holding as shown in a report.
type Line struct {
	Rank      int              `json:"rank"`
	Name      string           `json:"name"`
	ISIN      string           `json:"isin,omitempty"`
	WeightPct exposure.Percent `json:"weightPct"`
	Flagged   bool             `json:"flagged"`
	Category  string           `json:"category,omitempty"`
}

// Group is a sector or a country as shown in a report.
type Group struct {
	Label     string           `json:"label"`
	WeightPct exposure.Percent `json:"weightPct"`
}

// Alert is a metric beyond its threshold.
type Alert struct {
	Metric    string           `json:"metric"`
	Value     exposure.Percent `json:"value"`
	Threshold exposure.Percent `json:"threshold"`
}

// FundReport is the data of the single fund report.
type FundReport struct {
	Name       string           `json:"name"`
	ISIN       string           `json:"isin,omitempty"`
	Date       time.Time        `json:"date"`
	RunID      string           `json:"runId,omitempty"`
	Source     string           `json:"source"`
	Holdings   int              `json:"holdings"`
	TopPct     exposure.Percent `json:"topPct"`
	HHI        float64          `json:"hhi"`
	HHIBand    string           `json:"hhiBand"`
	Theme      string           `json:"theme"`
	ThemePct   exposure.Percent `json:"themePct"`
	Top        []Line           `json:"top"`
	Cumulative []Line           `json:"cumulative"`
	Alerts     []Alert          `json:"alerts,omitempty"`
}

// NewFundReport builds the report of a single fund.
func NewFundReport(name, isin string, f *exposure.FundTable, m *exposure.FundMetrics, theme *exposure.Theme, on time.Time) *FundReport {
	return &FundReport{
		Name:       name,
		ISIN:       isin,
		Date:       on,
		Source:     f.Source(),
		Holdings:   f.Len(),
		TopPct:     exposure.Pct(m.TopPct),
		HHI:        m.HHI,
		HHIBand:    exposure.HHIBand(m.HHI),
		Theme:      themeName(theme),
		ThemePct:   exposure.Pct(m.ThemeExposure),
		Top:        holdingLines(m.Top, theme),
		Cumulative: holdingLines(m.Cumulative, theme),
		Alerts:     alerts(m.Alerts),
	}
}

// Fund is a fund included in a portfolio report.
type Fund struct {
	Source     string           `json:"source"`
	Holdings   int              `json:"holdings"`
	Share      exposure.Percent `json:"share"`
	Allocation string           `json:"allocation,omitempty"`
}

// Skip is a source left out of a report.
type Skip struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// PortfolioReport is the data of the portfolio report.
type PortfolioReport struct {
	Name      string           `json:"name"`
	Date      time.Time        `json:"date"`
	RunID     string           `json:"runId,omitempty"`
	Files     []string         `json:"files"` // every file considered
	Funds     []Fund           `json:"funds"` // the funds included
	Skipped   []Skip           `json:"skipped,omitempty"`
	Policy    string           `json:"policy"`
	EqualFund bool             `json:"equalFund"`
	ByISIN    bool             `json:"byIsin"`
	Positions int              `json:"positions"`
	TopPct    exposure.Percent `json:"topPct"`
	HHI       float64          `json:"hhi"`
	HHIBand   string           `json:"hhiBand"`
	Theme     string           `json:"theme"`
	ThemePct  exposure.Percent `json:"themePct"`
	Top       []Line           `json:"top"`
	Sectors   []Group          `json:"sectors"`
	Countries []Group          `json:"countries"`
	Alerts    []Alert          `json:"alerts,omitempty"`
}

// NewPortfolioReport builds the report of a consolidated portfolio.
func NewPortfolioReport(name string, files []string, p *exposure.Portfolio, m *exposure.PortfolioMetrics, theme *exposure.Theme, skipped []exposure.Skipped, on time.Time) *PortfolioReport {
	r := &PortfolioReport{
		Name:      name,
		Date:      on,
		Files:     files,
		Policy:    p.Policy.String(),
		ByISIN:    p.Key == exposure.KeyISIN,
		Positions: len(p.Positions),
		TopPct:    exposure.Pct(m.TopPct),
		HHI:       m.HHI,
		HHIBand:   exposure.HHIBand(m.HHI),
		Theme:     themeName(theme),
		ThemePct:  exposure.Pct(m.ThemeExposure),
		Sectors:   groups(m.Sectors),
		Countries: groups(m.Countries),
		Alerts:    alerts(m.Alerts),
	}
	_, r.EqualFund = p.Policy.(exposure.EqualWeight)

	allocations, _ := p.Policy.(exposure.Allocations)
	for _, c := range p.Contributions {
		f := Fund{Source: c.Source, Holdings: c.Holdings, Share: exposure.Pct(c.Multiplier)}
		if amount, ok := allocations.Amount(c.Source); ok {
			f.Allocation = amount.String()
		}
		r.Funds = append(r.Funds, f)
	}
	for _, s := range skipped {
		r.Skipped = append(r.Skipped, Skip{Source: s.Source, Reason: s.Reason(), Error: s.Err.Error()})
	}
	for i, pos := range m.Top {
		category, _ := theme.Match(pos.Name, pos.Sector)
		r.Top = append(r.Top, Line{
			Rank:      pos.Rank,
			Name:      pos.Name,
			ISIN:      pos.ISIN,
			WeightPct: exposure.Percent(pos.WeightPct),
			Flagged:   m.Flags[i],
			Category:  category,
		})
	}
	return r
}

func themeName(t *exposure.Theme) string {
	if t == nil {
		return "AI"
	}
	return t.Name
}

func holdingLines(holdings []exposure.Holding, theme *exposure.Theme) []Line {
	lines := make([]Line, len(holdings))
	for i, h := range holdings {
		category, flagged := theme.Match(h.Name, h.Sector)
		lines[i] = Line{
			Rank:      i + 1,
			Name:      h.Name,
			ISIN:      h.ISIN,
			WeightPct: exposure.Percent(h.WeightPct),
			Flagged:   flagged,
			Category:  category,
		}
	}
	return lines
}

func groups(e []exposure.Exposure) []Group {
	g := make([]Group, 0, min(len(e), exposure.RollupTopK))
	for _, x := range e[:min(len(e), exposure.RollupTopK)] {
		g = append(g, Group{Label: x.Label, WeightPct: exposure.Percent(x.WeightPct)})
	}
	return g
}

func alerts(a []exposure.Alert) []Alert {
	var out []Alert
	for _, x := range a {
		out = append(out, Alert{Metric: x.Metric, Value: exposure.Pct(x.Value), Threshold: exposure.Pct(x.Threshold)})
	}
	return out
}
