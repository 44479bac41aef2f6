package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the gauges exported after a run.
type Metrics struct {
	Report        string // "etf" or "portfolio"
	Name          string
	Holdings      int
	TopPct        float64 // 0-1
	HHI           float64
	ThemeExposure float64 // 0-1
	Skipped       int
}

// WriteMetricsTextfile writes the metrics in the Prometheus text format, for
// the node_exporter textfile collector.
func WriteMetricsTextfile(filename string, m Metrics) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"report": m.Report, "name": m.Name}
	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "holdrisk",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		g.Set(v)
		reg.MustRegister(g)
	}
	gauge("holdings", "Number of holdings or consolidated positions.", float64(m.Holdings))
	gauge("top10_ratio", "Weight of the 10 largest holdings (0-1).", m.TopPct)
	gauge("hhi", "Herfindahl-Hirschman index of the holdings (0-1).", m.HHI)
	gauge("theme_exposure_ratio", "Weight of the holdings flagged by the theme (0-1).", m.ThemeExposure)
	gauge("skipped_sources", "Number of sources skipped during the run.", float64(m.Skipped))
	return prometheus.WriteToTextfile(filename, reg)
}
