// Package renderer turns an aggregated summary into the markdown report.
package renderer

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/orgpulse/orgpulse/internal/domain"
)

// Context is the template context for the report. The summary's fields are
// promoted so templates address them directly.
type Context struct {
	*domain.Summary
	PeriodLabel string
	StartDate   string
	EndDate     string
	GeneratedAt string
}

// RenderMarkdown renders the summary through the template file at
// templatePath.
func RenderMarkdown(summary *domain.Summary, templatePath, periodLabel, startDate, endDate string) (string, error) {
	tmpl, err := template.New(filepath.Base(templatePath)).ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", templatePath, err)
	}

	// Templates index RepoSummaries by name; keep it non-nil.
	if summary.RepoSummaries == nil {
		summary.RepoSummaries = map[string]string{}
	}

	ctx := Context{
		Summary:     summary,
		PeriodLabel: periodLabel,
		StartDate:   startDate,
		EndDate:     endDate,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
