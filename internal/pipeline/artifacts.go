package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	"github.com/KaramelBytes/eduprobe-cli/internal/manifest"
	"github.com/KaramelBytes/eduprobe-cli/internal/table"
	"github.com/KaramelBytes/eduprobe-cli/internal/utils"
)

// Artifact file names.
const (
	FileCleaned        = "cleaned.tsv"
	FileBeforeSample   = "before_sample.txt"
	FileAfterSample    = "after_sample.tsv"
	FileCardinality    = "cardinality.tsv"
	FileSkinny         = "skinny.tsv"
	FileQualityKept    = "quality_kept.tsv"
	FileQualityReject  = "quality_rejected.tsv"
	FileQualityCounts  = "quality_counts.tsv"
	FileRatios         = "ratios.tsv"
	FileBucketed       = "bucketed.tsv"
	FileBucketCounts   = "bucket_counts.tsv"
	FileNumericProfile = "numeric_profile.tsv"
	FileOutliers       = "outliers.tsv"
	FileComparison     = "category_comparison.tsv"
	FileSignals        = "signals.tsv"
	FileReport         = "report.md"
	FileXLSX           = "report.xlsx"
)

// FrequencyFile is freq_<column>.tsv.
func FrequencyFile(column string) string { return "freq_" + utils.FileComponent(column) + ".tsv" }

// SummaryFile is summary_by_<column>.tsv.
func SummaryFile(column string) string { return "summary_by_" + utils.FileComponent(column) + ".tsv" }

// artifacts writes files into the output directory and records them in the manifest.
type artifacts struct {
	dir string
	m   *manifest.Manifest
	log *slog.Logger
	// per-column file names already handed out, by file
	owners map[string]string
}

// claim reserves a per-column file name. When a different column already
// sanitized to the same name, a numbered variant is returned and renamed is true.
func (a *artifacts) claim(name, column string) (file string, renamed bool) {
	if a.owners == nil {
		a.owners = make(map[string]string)
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	file = name
	for i := 2; ; i++ {
		owner, taken := a.owners[file]
		if !taken || owner == column {
			break
		}
		file = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	a.owners[file] = column
	return file, file != name
}

func (a *artifacts) path(name string) string { return filepath.Join(a.dir, name) }

func (a *artifacts) table(role, name string, t *table.Table) error {
	b, err := t.TSV()
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "render "+name)
	}
	return a.write(role, name, b, t.Len())
}

func (a *artifacts) lines(role, name string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return a.write(role, name, []byte(b.String()), len(lines))
}

func (a *artifacts) write(role, name string, data []byte, rows int) error {
	if err := utils.SafeWriteFile(a.path(name), data); err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "write "+name)
	}
	a.m.Add(role, name, rows)
	a.log.Debug("artifact written", "file", name, "rows", rows)
	return nil
}
