package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	"github.com/KaramelBytes/eduprobe-cli/internal/ingest"
	"github.com/KaramelBytes/eduprobe-cli/internal/pipeline"
)

var (
	anaOutDir       string
	anaKey          string
	anaGroupBy      []string
	anaBuckets      []string
	anaGradeScheme  string
	anaOutlierThr   float64
	anaNumericShare float64
	anaXLSX         bool

	// input flags shared with profile
	inDelimiter string
	inSheet     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the full cleaning and analysis pipeline over one dataset",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := analyzeOptions(cmd)
		if err != nil {
			return err
		}
		res, err := pipeline.Run(args[0], opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Wrote %d artifacts to %s (run %s)\n", len(res.Manifest.Artifacts)+1, res.OutDir, res.Manifest.RunID)
		sigs := res.Report.Signals
		for i := 0; i < len(sigs) && i < 5; i++ {
			fmt.Fprintf(out, "  %d. [%s] %s: %s\n", i+1, sigs[i].Priority, sigs[i].Kind, sigs[i].Description)
		}
		return nil
	},
}

// analyzeOptions layers changed flags over the loaded configuration.
func analyzeOptions(cmd *cobra.Command) (pipeline.Options, error) {
	c := *cfg
	f := cmd.Flags()
	if f.Changed("out") {
		c.OutputDir = anaOutDir
	}
	if f.Changed("key") {
		c.KeyColumn = anaKey
	}
	if f.Changed("group-by") {
		c.GroupBy = anaGroupBy
	}
	if f.Changed("bucket") {
		c.BucketColumns = anaBuckets
	}
	if f.Changed("grade-scheme") {
		c.GradeScheme = anaGradeScheme
	}
	if f.Changed("outlier-threshold") {
		c.OutlierZScoreThreshold = anaOutlierThr
	}
	if f.Changed("numeric-share") {
		c.NumericShareThreshold = anaNumericShare
	}
	if f.Changed("xlsx") {
		c.XLSXReport = anaXLSX
	}
	opt, err := pipeline.FromConfig(&c)
	if err != nil {
		return opt, err
	}
	if err := applyInputFlags(cmd, &opt.Ingest); err != nil {
		return opt, err
	}
	opt.Logger = logger
	return opt, nil
}

// applyInputFlags handles --delimiter and --sheet, shared by analyze and profile.
func applyInputFlags(cmd *cobra.Command, opt *ingest.Options) error {
	f := cmd.Flags()
	if f.Changed("delimiter") {
		switch strings.ToLower(inDelimiter) {
		case ",", "comma":
			opt.Delimiter = ingest.Comma
		case "\t", "\\t", "tab":
			opt.Delimiter = ingest.Tab
		case "", "auto":
			opt.Delimiter = 0
		default:
			return apperr.New(apperr.CodeUsage, "unsupported --delimiter: %s (use comma|tab|auto)", inDelimiter)
		}
	}
	if f.Changed("sheet") {
		opt.Sheet = inSheet
	}
	return nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inDelimiter, "delimiter", "", "field delimiter for text input: comma|tab|auto")
	cmd.Flags().StringVar(&inSheet, "sheet", "", "worksheet name for .xlsx input (default first sheet)")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutDir, "out", "o", "", "output directory (default eda_out)")
	analyzeCmd.Flags().StringVar(&anaKey, "key", "", "row key column (default first column)")
	analyzeCmd.Flags().StringSliceVar(&anaGroupBy, "group-by", nil, "columns to summarize by (comma-separated)")
	analyzeCmd.Flags().StringSliceVar(&anaBuckets, "bucket", nil, "numeric columns to bucket (comma-separated)")
	analyzeCmd.Flags().StringVar(&anaGradeScheme, "grade-scheme", "", "letter grade scheme: percent|code")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 0, "flag values with |z| above this (default 2.5)")
	analyzeCmd.Flags().Float64Var(&anaNumericShare, "numeric-share", 0, "share of numeric values for a numeric column (default 0.80)")
	analyzeCmd.Flags().BoolVar(&anaXLSX, "xlsx", false, "also write report.xlsx")
	addInputFlags(analyzeCmd)
}
