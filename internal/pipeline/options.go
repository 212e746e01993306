package pipeline

import (
	"log/slog"

	"github.com/KaramelBytes/eduprobe-cli/internal/analysis"
	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	"github.com/KaramelBytes/eduprobe-cli/internal/config"
	"github.com/KaramelBytes/eduprobe-cli/internal/features"
	"github.com/KaramelBytes/eduprobe-cli/internal/ingest"
	"github.com/KaramelBytes/eduprobe-cli/internal/profile"
)

// DefaultGradeColumn is the column LetterGrade is derived from.
const DefaultGradeColumn = "FinalGrade"

// Options is everything one run needs besides the input path.
type Options struct {
	OutDir string

	Ingest   ingest.Options
	Profile  profile.Options
	Analysis analysis.Options

	// RequiredColumns must all be in the header or the run stops before any stage.
	RequiredColumns []string
	KeyColumn       string
	GroupBy         []string
	BucketColumns   []string
	// Metrics are averaged per group; all numeric columns when empty.
	Metrics     []string
	GradeScheme features.GradeScheme
	GradeColumn string
	XLSX        bool

	Logger *slog.Logger
}

// FromConfig maps a validated configuration onto run options.
func FromConfig(c *config.Global) (Options, error) {
	if err := c.Validate(); err != nil {
		return Options{}, apperr.Wrap(apperr.CodeConfig, err, "configuration")
	}
	scheme, err := features.ParseGradeScheme(c.GradeScheme)
	if err != nil {
		return Options{}, apperr.Wrap(apperr.CodeConfig, err, "configuration")
	}

	ing := ingest.DefaultOptions()
	if c.NATokens != nil {
		ing.NATokens = c.NATokens
	}
	if c.SampleRows > 0 {
		ing.SampleRows = c.SampleRows
	}

	prof := profile.DefaultOptions()
	prof.NumericShare = c.NumericShareThreshold
	prof.CategoricalMin = c.CategoricalMinUnique
	prof.CategoricalMax = c.CategoricalMaxUnique

	an := analysis.DefaultOptions()
	an.OutlierThreshold = c.OutlierZScoreThreshold
	an.MinSampleSize = c.MinSampleSize
	an.MinGroupSupport = c.MinGroupSupport
	an.KeyColumn = c.KeyColumn
	an.Label = features.Label

	return Options{
		OutDir:          c.OutputDir,
		Ingest:          ing,
		Profile:         prof,
		Analysis:        an,
		RequiredColumns: c.Columns,
		KeyColumn:       c.KeyColumn,
		GroupBy:         c.GroupBy,
		BucketColumns:   c.BucketColumns,
		Metrics:         c.Metrics,
		GradeScheme:     scheme,
		GradeColumn:     DefaultGradeColumn,
		XLSX:            c.XLSXReport,
	}, nil
}
