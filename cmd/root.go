package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	cfgpkg "github.com/KaramelBytes/eduprobe-cli/internal/config"
	"github.com/KaramelBytes/eduprobe-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	logFile string

	// Loaded configuration and run logger
	cfg      *cfgpkg.Global
	logger   *slog.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "eduprobe",
	Short: "eduprobe: exploratory analysis of student performance datasets",
	Long: `eduprobe cleans one CSV/TSV/XLSX file of student records and writes TSV reports:
frequency tables, derived ratios, buckets, z-score outliers, category comparisons
and a ranked list of signals.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(apperr.ExitCode(err))
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.eduprobe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file (overrides config)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.Wrap(apperr.CodeUsage, err, "usage")
	})
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return apperr.Wrap(apperr.CodeConfig, err, "load config")
	}
	cfg = c

	path := cfg.LogFile
	if logFile != "" {
		path = logFile
	}
	_ = closeLog()
	l, closeFn, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Debug:  debug,
		File:   path,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return apperr.Wrap(apperr.CodeConfig, err, "init logging")
	}
	logger, closeLog = l, closeFn
	logger.Debug("config loaded", "file", cfgFile, "output_dir", cfg.OutputDir)
	return nil
}

// exactArgs is cobra.ExactArgs with its failure classified as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return apperr.Wrap(apperr.CodeUsage, cobra.ExactArgs(n)(cmd, args), "usage")
	}
}
