package renderer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/etnz/exposure"
)

// SummaryHeader returns the header of the summary table. The ISIN column is
// only present when positions were keyed by ISIN.
func SummaryHeader(byISIN bool) []string {
	h := []string{"rank"}
	if byISIN {
		h = append(h, "isin")
	}
	return append(h, "name", "sector", "country", "weight_pct", "ai_flag")
}

// WriteSummaryCSV writes every position of the portfolio, untruncated, with its
// theme flag.
func WriteSummaryCSV(w io.Writer, p *exposure.Portfolio, m *exposure.PortfolioMetrics) error {
	byISIN := p.Key == exposure.KeyISIN
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader(byISIN)); err != nil {
		return err
	}
	for i, pos := range p.Positions {
		rec := []string{strconv.Itoa(pos.Rank)}
		if byISIN {
			rec = append(rec, pos.ISIN)
		}
		rec = append(rec,
			pos.Name,
			pos.Sector,
			pos.Country,
			strconv.FormatFloat(pos.WeightPct, 'f', -1, 64),
			strconv.FormatBool(m.Flags[i]),
		)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveSummaryCSV writes the summary table to a file.
func SaveSummaryCSV(filename string, p *exposure.Portfolio, m *exposure.PortfolioMetrics) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", filename, err)
	}
	if err := WriteSummaryCSV(f, p, m); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	return f.Close()
}
