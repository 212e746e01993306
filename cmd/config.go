package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	cfgpkg "github.com/KaramelBytes/eduprobe-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set eduprobe configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return apperr.Wrap(apperr.CodeInternal, err, "marshal config")
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "Set a config value and save to disk. List values are comma-separated.\nKeys: " + strings.Join(cfgpkg.Keys(), ", "),
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := cfg.Set(key, val); err != nil {
			return apperr.Wrap(apperr.CodeConfig, err, "config set")
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return apperr.Wrap(apperr.CodeConfig, err, "save config")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
