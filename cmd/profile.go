package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	"github.com/KaramelBytes/eduprobe-cli/internal/pipeline"
	"github.com/KaramelBytes/eduprobe-cli/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Print the column cardinality table of a dataset",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := pipeline.FromConfig(cfg)
		if err != nil {
			return err
		}
		if err := applyInputFlags(cmd, &opt.Ingest); err != nil {
			return err
		}
		ins, err := pipeline.Inspect(args[0], opt)
		if err != nil {
			return err
		}
		logger.Info("profiled", "rows", ins.Load.Stats.Rows, "columns", len(ins.Profiles), "delimiter", ins.Load.Delimiter)
		if err := profile.CardinalityTable(ins.Profiles).WriteTSV(cmd.OutOrStdout()); err != nil {
			return apperr.Wrap(apperr.CodeInternal, err, "write output")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	addInputFlags(profileCmd)
}
