package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Display widths of the text reports. Persisted tables are never truncated.
const (
	nameWidth  = 60
	labelWidth = 40
)

var rule = strings.Repeat("-", 60)

// truncate cuts s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// label shows an empty group label.
func label(s string) string {
	if s == "" {
		return "(unspecified)"
	}
	return s
}

func mark(flagged bool, theme string) string {
	if !flagged {
		return ""
	}
	return " [" + theme + "]"
}

// FundText renders the single fund report as plain text.
func FundText(r *FundReport) string {
	var b strings.Builder
	title := r.Name
	if r.ISIN != "" {
		title += " (" + r.ISIN + ")"
	}
	fmt.Fprintf(&b, "ETF report for %s — %s\n", title, r.Date.Format(time.DateOnly))
	fmt.Fprintf(&b, "Top 10 weight: %s\n", r.TopPct)
	fmt.Fprintf(&b, "HHI: %.4f (%s)\n", r.HHI, r.HHIBand)
	fmt.Fprintf(&b, "%s exposure: %s\n", r.Theme, r.ThemePct)
	writeAlerts(&b, r.Alerts)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Top %d holdings:\n", len(r.Top))
	for _, l := range r.Top {
		fmt.Fprintf(&b, "%d. %s — %s%s\n", l.Rank, truncate(l.Name, nameWidth), l.WeightPct, mark(l.Flagged, r.Theme))
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Holdings up to 70% cumulative weight:")
	for _, l := range r.Cumulative {
		fmt.Fprintf(&b, "- %s — %s%s\n", truncate(l.Name, nameWidth), l.WeightPct, mark(l.Flagged, r.Theme))
	}
	return b.String()
}

// PortfolioText renders the portfolio report as plain text.
func PortfolioText(r *PortfolioReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — Portfolio risk assessment\n", r.Name)
	fmt.Fprintf(&b, "Date (UTC): %s\n", r.Date.UTC().Format(time.RFC3339))
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	}
	fmt.Fprintf(&b, "CSV files processed: %d: %s\n", len(r.Funds), strings.Join(r.Files, ", "))
	if r.EqualFund {
		fmt.Fprintf(&b, "Aggregation mode: equal-weight funds = %t\n", r.EqualFund)
	} else {
		fmt.Fprintf(&b, "Aggregation mode: %s\n", r.Policy)
		for _, f := range r.Funds {
			fmt.Fprintf(&b, "  %s: %s (%s)\n", f.Source, f.Allocation, f.Share)
		}
	}
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "Skipped files:")
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "- %s: %s\n", s.Source, s.Error)
		}
		return len(r.Skipped) > 0
	})
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total %s-related exposure: %s of portfolio\n", r.Theme, r.ThemePct)
	fmt.Fprintf(&b, "HHI concentration index: %.4f (%s)\n", r.HHI, r.HHIBand)
	writeAlerts(&b, r.Alerts)
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "Top %d holdings (by portfolio %%):\n", len(r.Top))
	for _, l := range r.Top {
		isin := ""
		if l.ISIN != "" {
			isin = " (" + l.ISIN + ")"
		}
		fmt.Fprintf(&b, "%2d. %s%s — %s%s\n", l.Rank, truncate(l.Name, nameWidth), isin, l.WeightPct, mark(l.Flagged, r.Theme))
	}
	fmt.Fprintln(&b, rule)
	writeGroups(&b, "Top sectors:", r.Sectors)
	fmt.Fprintln(&b, rule)
	writeGroups(&b, "Top countries:", r.Countries)
	fmt.Fprintln(&b, rule)
	return b.String()
}

func writeGroups(w io.Writer, title string, groups []Group) {
	fmt.Fprintln(w, title)
	for _, g := range groups {
		fmt.Fprintf(w, "- %s — %s\n", truncate(label(g.Label), labelWidth), g.WeightPct)
	}
}

func writeAlerts(w io.Writer, alerts []Alert) {
	ConditionalBlock(w, func(w io.Writer) bool {
		for _, a := range alerts {
			fmt.Fprintf(w, "ALERT: %s %s ≥ %s\n", a.Metric, a.Value, a.Threshold)
		}
		return len(alerts) > 0
	})
}
