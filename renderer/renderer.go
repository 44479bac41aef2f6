package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"
)

//go:embed *.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell":  cell,
	"label": label,
	"date":  func(t time.Time) string { return t.Format(time.DateOnly) },
	"hhi":   func(v float64) string { return fmt.Sprintf("%.4f", v) },
}

// FundMarkdown renders the single fund report to a markdown string.
func FundMarkdown(r *FundReport) string {
	partials := map[string]string{
		"fund_title":    "fund_title.md",
		"fund_holdings": "fund_holdings.md",
		"alerts":        "alerts.md",
	}
	return renderTemplate("fundReport", "fund_report.md", partials, r)
}

// PortfolioMarkdown renders the portfolio report to a markdown string.
func PortfolioMarkdown(r *PortfolioReport) string {
	partials := map[string]string{
		"portfolio_title":     "portfolio_title.md",
		"portfolio_funds":     "portfolio_funds.md",
		"portfolio_positions": "portfolio_positions.md",
		"portfolio_groups":    "portfolio_groups.md",
		"alerts":              "alerts.md",
	}
	return renderTemplate("portfolioReport", "portfolio_report.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
