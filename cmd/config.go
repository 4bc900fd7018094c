package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/llmport/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect llmport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration after defaults and environment overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawCfg, path, err := config.LoadEffectiveRawConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, "# no config file found, using defaults")
		} else {
			fmt.Fprintf(out, "# loaded from %s\n", path)
		}
		data, err := yaml.Marshal(rawCfg)
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
