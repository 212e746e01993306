package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/eduprobe-cli/internal/analysis"
	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	"github.com/KaramelBytes/eduprobe-cli/internal/export"
	"github.com/KaramelBytes/eduprobe-cli/internal/features"
	"github.com/KaramelBytes/eduprobe-cli/internal/ingest"
	"github.com/KaramelBytes/eduprobe-cli/internal/logging"
	"github.com/KaramelBytes/eduprobe-cli/internal/manifest"
	"github.com/KaramelBytes/eduprobe-cli/internal/profile"
	"github.com/KaramelBytes/eduprobe-cli/internal/quality"
	"github.com/KaramelBytes/eduprobe-cli/internal/table"
	"github.com/KaramelBytes/eduprobe-cli/internal/utils"
)

// Result is what a completed run hands back to the caller.
type Result struct {
	OutDir   string
	Manifest *manifest.Manifest
	Report   *analysis.Report
}

// Inspection is the ingest and profiling output without any artifacts.
type Inspection struct {
	Load     *ingest.Result
	Profiles []profile.ColumnProfile
}

// Inspect loads and profiles input without writing anything.
func Inspect(input string, opt Options) (*Inspection, error) {
	res, err := ingest.Load(input, opt.Ingest)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(res.Table, opt); err != nil {
		return nil, err
	}
	return &Inspection{Load: res, Profiles: profile.Columns(res.Table, opt.Profile)}, nil
}

// checkColumns reports every missing required column at once.
func checkColumns(t *table.Table, opt Options) error {
	if missing := t.Schema.Missing(opt.RequiredColumns); len(missing) > 0 {
		return apperr.New(apperr.CodeConfig, "input is missing required columns: %s", strings.Join(missing, ", "))
	}
	if opt.KeyColumn != "" && !t.Schema.Has(opt.KeyColumn) {
		return apperr.New(apperr.CodeConfig, "key column %q not in header", opt.KeyColumn)
	}
	return nil
}

// Run executes every stage in order and writes its artifacts to opt.OutDir.
// Artifacts written before a failing stage stay on disk.
func Run(input string, opt Options) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opt.OutDir == "" {
		opt.OutDir = "eda_out"
	}
	if opt.GradeColumn == "" {
		opt.GradeColumn = DefaultGradeColumn
	}

	res, err := ingest.Load(input, opt.Ingest)
	if err != nil {
		return nil, err
	}
	t := res.Table
	if err := checkColumns(t, opt); err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(opt.OutDir); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "create output directory")
	}

	m := manifest.New(input, opt.OutDir)
	m.Delimiter = res.Delimiter.String()
	log = log.With("run", m.RunID)
	out := &artifacts{dir: opt.OutDir, m: m, log: log}
	var notes []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		notes = append(notes, msg)
		m.Warn(msg)
		log.Warn(msg)
	}

	// Stage 1: ingest.
	st := res.Stats
	m.Counts.Ingested, m.Counts.Padded, m.Counts.Truncated = st.Rows, st.Padded, st.Truncated
	log.Info("stage complete", "stage", "ingest", "rows", st.Rows, "columns", t.Schema.Len(),
		"delimiter", res.Delimiter, "padded", st.Padded, "truncated", st.Truncated, "na_cells", st.NACells)
	if st.Truncated > 0 {
		warn("%d rows had more fields than the header and were truncated", st.Truncated)
	}
	if err := out.table("cleaned", FileCleaned, t); err != nil {
		return nil, err
	}
	if err := out.lines("before_sample", FileBeforeSample, res.Before); err != nil {
		return nil, err
	}
	if err := out.table("after_sample", FileAfterSample, res.After(opt.Ingest.SampleRows)); err != nil {
		return nil, err
	}

	// Stage 2: profile.
	keyCol := opt.KeyColumn
	if keyCol == "" && t.Schema.Len() > 0 {
		keyCol = t.Schema.Columns[0]
	}
	profiles := profile.Columns(t, opt.Profile)
	categorical := without(profile.SelectCategorical(profiles), keyCol)
	if err := out.table("cardinality", FileCardinality, profile.CardinalityTable(profiles)); err != nil {
		return nil, err
	}
	freqs := make([]profile.FrequencyTable, 0, len(categorical))
	for _, c := range categorical {
		ft := profile.Frequency(t, c, features.LabelFor(c))
		freqs = append(freqs, ft)
		name, renamed := out.claim(FrequencyFile(c), c)
		if renamed {
			warn("frequency table for %q written as %s to avoid a file name clash", c, name)
		}
		if err := out.table("frequency", name, ft.Table()); err != nil {
			return nil, err
		}
	}
	skinnyCols := append([]string{keyCol}, head(categorical, 2)...)
	if t.Schema.Has(opt.GradeColumn) && !contains(skinnyCols, opt.GradeColumn) {
		skinnyCols = append(skinnyCols, opt.GradeColumn)
	}
	if err := out.table("skinny", FileSkinny, profile.Skinny(t, skinnyCols)); err != nil {
		return nil, err
	}
	log.Info("stage complete", "stage", "profile", "columns", len(profiles), "categorical", len(categorical))

	// Stage 3: quality filter.
	kept, rejected, qs := quality.Filter(t, keyCol)
	m.Counts.Kept, m.Counts.Rejected = qs.Kept, qs.Rejected()
	for _, a := range []struct {
		role, name string
		t          *table.Table
	}{
		{"quality_kept", FileQualityKept, kept},
		{"quality_rejected", FileQualityReject, rejected},
		{"quality_counts", FileQualityCounts, qs.Table()},
	} {
		if err := out.table(a.role, a.name, a.t); err != nil {
			return nil, err
		}
	}
	log.Info("stage complete", "stage", "quality", "kept", qs.Kept, "bad_tokens", qs.BadTokens,
		"bad_key", qs.BadKey, "bad_num", qs.BadNum)

	// Stage 4: derived features.
	if missing := kept.Schema.Missing(features.RatioInputs); len(missing) > 0 {
		warn("ratio inputs not found, affected ratios are NA: %s", strings.Join(missing, ", "))
	}
	ratios := features.AddRatios(kept)
	if err := out.table("ratios", FileRatios, ratios); err != nil {
		return nil, err
	}
	bucketCols := present(ratios, opt.BucketColumns)
	if miss := ratios.Schema.Missing(opt.BucketColumns); len(miss) > 0 {
		warn("bucket columns not found: %s", strings.Join(miss, ", "))
	}
	feat := features.AddLabels(features.AddBuckets(ratios, bucketCols), opt.GradeScheme, opt.GradeColumn)
	if err := out.table("bucketed", FileBucketed, feat); err != nil {
		return nil, err
	}
	if err := out.table("bucket_counts", FileBucketCounts, features.BucketCounts(feat, bucketCols)); err != nil {
		return nil, err
	}
	log.Info("stage complete", "stage", "features", "columns", feat.Schema.Len(), "buckets", len(bucketCols))

	// Stage 5: aggregation and signals.
	aopt := opt.Analysis
	aopt.KeyColumn = keyCol
	if aopt.Label == nil {
		aopt.Label = features.Label
	}
	// Source columns keep the kinds decided in stage 2; only derived columns are profiled here.
	kinds := profile.Kinds(profiles)
	var derived []string
	for _, c := range feat.Schema.Columns {
		if _, ok := kinds[c]; !ok {
			derived = append(derived, c)
		}
	}
	numeric := without(profile.SelectNumeric(profiles), keyCol)
	numeric = append(numeric, profile.SelectNumeric(profile.Columns(feat.Project(derived), opt.Profile))...)
	if len(numeric) == 0 {
		warn("no numeric columns qualified for distribution statistics")
	}

	metrics := present(feat, opt.Metrics)
	if miss := feat.Schema.Missing(opt.Metrics); len(miss) > 0 {
		warn("metric columns not found: %s", strings.Join(miss, ", "))
	}
	if len(metrics) == 0 {
		metrics = numeric
	}
	groupBy := present(feat, opt.GroupBy)
	if len(groupBy) == 0 && len(categorical) > 0 {
		if len(opt.GroupBy) > 0 {
			warn("group-by columns not found, grouping by %s", categorical[0])
		}
		groupBy = categorical[:1]
	}
	for _, g := range groupBy {
		gs := analysis.SummarizeGroups(feat, g, metrics, aopt)
		name, renamed := out.claim(SummaryFile(g), g)
		if renamed {
			warn("group summary for %q written as %s to avoid a file name clash", g, name)
		}
		if err := out.table("summary", name, gs.Table()); err != nil {
			return nil, err
		}
	}

	dists := analysis.Distributions(feat, numeric, aopt.MinSampleSize)
	if err := out.table("numeric_profile", FileNumericProfile, analysis.DistributionTable(dists)); err != nil {
		return nil, err
	}
	outliers := analysis.DetectOutliers(feat, dists, aopt)
	if err := out.table("outliers", FileOutliers, analysis.OutlierTable(outliers)); err != nil {
		return nil, err
	}
	comparisons := analysis.Compare(feat, categorical, numeric, aopt)
	if err := out.table("category_comparison", FileComparison, analysis.ComparisonTable(comparisons)); err != nil {
		return nil, err
	}
	signals := analysis.RankSignals(analysis.SignalInputs{
		Comparisons:   comparisons,
		Distributions: dists,
		Outliers:      outliers,
		Profiles:      profiles,
		Frequencies:   freqs,
		Quality:       qs,
	}, aopt)
	if err := out.table("signals", FileSignals, analysis.SignalTable(signals)); err != nil {
		return nil, err
	}
	m.Counts.Outliers, m.Counts.Signals = len(outliers), len(signals)
	log.Info("stage complete", "stage", "analysis", "numeric", len(dists), "outliers", len(outliers),
		"comparisons", len(comparisons), "signals", len(signals))

	report := &analysis.Report{
		Name:          filepath.Base(input),
		RunID:         m.RunID,
		Delimiter:     res.Delimiter.String(),
		Rows:          st.Rows,
		Padded:        st.Padded,
		Truncated:     st.Truncated,
		Cols:          profiles,
		Quality:       qs,
		Distributions: dists,
		Signals:       signals,
		Warnings:      notes,
	}
	if err := out.write("report", FileReport, []byte(report.Markdown()), -1); err != nil {
		return nil, err
	}

	if opt.XLSX {
		err := export.WriteXLSX(out.path(FileXLSX), []export.Sheet{
			{Name: export.SheetSignals, Table: analysis.SignalTable(signals)},
			{Name: export.SheetNumericProfile, Table: analysis.DistributionTable(dists)},
			{Name: export.SheetComparisons, Table: analysis.ComparisonTable(comparisons)},
			{Name: export.SheetOutliers, Table: analysis.OutlierTable(outliers)},
		})
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, err, "write "+FileXLSX)
		}
		m.Add("xlsx_report", FileXLSX, -1)
	}

	if err := m.Save(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "write "+manifest.FileName)
	}
	log.Info("run complete", "out", opt.OutDir, "artifacts", len(m.Artifacts)+1)
	return &Result{OutDir: opt.OutDir, Manifest: m, Report: report}, nil
}

func present(t *table.Table, cols []string) []string {
	var out []string
	for _, c := range cols {
		if t.Schema.Has(c) && !contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func without(cols []string, drop string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != drop {
			out = append(out, c)
		}
	}
	return out
}

func head(cols []string, n int) []string {
	if len(cols) < n {
		return cols
	}
	return cols[:n]
}

func contains(cols []string, c string) bool {
	for _, x := range cols {
		if x == c {
			return true
		}
	}
	return false
}
