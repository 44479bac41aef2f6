package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/exposure"
	"github.com/wcharczuk/go-chart/v2"
)

// ExposureChart renders the groups (sectors or countries) as a PNG bar chart.
func ExposureChart(w io.Writer, title string, groups []exposure.Exposure) error {
	groups = groups[:min(len(groups), exposure.RollupTopK)]
	if len(groups) == 0 {
		return fmt.Errorf("nothing to chart")
	}
	bars := make([]chart.Value, len(groups))
	for i, g := range groups {
		bars[i] = chart.Value{Value: g.WeightPct, Label: truncate(label(g.Label), 16)}
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  1024,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("cannot render chart: %w", err)
	}
	return nil
}
