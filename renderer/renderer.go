// Package renderer turns analytics reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/mgirard/folio"
)

//go:embed *.md
var templates embed.FS

// RenderReport renders the full report to a markdown string.
func RenderReport(r *folio.Report) string {
	partials := map[string]string{
		"report_title":       "report_title.md",
		"report_summary":     "report_summary.md",
		"report_positions":   "report_positions.md",
		"report_metrics":     "report_metrics.md",
		"report_benchmark":   "report_benchmark.md",
		"report_diagnostics": "report_diagnostics.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// RenderHistory renders the day-by-day valuation history to a markdown table.
func RenderHistory(h *folio.History) string {
	return renderTemplate("history", "history.md", nil, h)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Funcs(funcMap).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
