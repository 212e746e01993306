package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/eduprobe-cli/internal/profile"
	"github.com/KaramelBytes/eduprobe-cli/internal/quality"
)

// Report is a markdown-friendly digest of one pipeline run.
type Report struct {
	Name          string
	RunID         string
	Delimiter     string
	Rows          int
	Padded        int
	Truncated     int
	Cols          []profile.ColumnProfile
	Quality       quality.Stats
	Distributions []NumSummary
	Signals       []Signal
	Warnings      []string
}

// maxReportSignals caps the [SIGNALS] section; signals.tsv keeps the full list.
const maxReportSignals = 15

// Markdown renders a compact report suitable for reading next to the TSV artifacts.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}
	if r.Delimiter != "" {
		b.WriteString(fmt.Sprintf("Delimiter: %s\n", r.Delimiter))
	}
	b.WriteString(fmt.Sprintf("Rows: %d", r.Rows))
	if r.Padded > 0 || r.Truncated > 0 {
		b.WriteString(fmt.Sprintf(" (padded %d, truncated %d)", r.Padded, r.Truncated))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (unique %d, missing %.1f%%)\n",
			safeName(c.Name), c.Kind, c.Unique, c.MissingShare()*100))
	}

	q := r.Quality
	b.WriteString("\n[QUALITY]\n")
	b.WriteString(fmt.Sprintf("- kept %d of %d\n", q.Kept, q.Total))
	b.WriteString(fmt.Sprintf("- %s: %d, %s: %d, %s: %d\n",
		quality.ReasonBadTokens, q.BadTokens, quality.ReasonBadKey, q.BadKey, quality.ReasonBadNum, q.BadNum))

	if len(r.Distributions) > 0 {
		b.WriteString("\n[DISTRIBUTIONS]\n")
		for _, d := range r.Distributions {
			b.WriteString(fmt.Sprintf("- %s: n %d, mean %.4g, std %.4g, min %.4g, max %.4g, median %.4g\n",
				safeName(d.Column), d.Count, d.Mean, d.Std, d.Min, d.Max, d.Median))
		}
	}

	if len(r.Signals) > 0 {
		b.WriteString("\n[SIGNALS]\n")
		for i, s := range r.Signals {
			if i == maxReportSignals {
				b.WriteString(fmt.Sprintf("- ... %d more in signals.tsv\n", len(r.Signals)-maxReportSignals))
				break
			}
			b.WriteString(fmt.Sprintf("%d. [%s] %s: %s (impact %.2f)\n", i+1, s.Priority, s.Kind, safeVal(s.Description), s.Impact))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
