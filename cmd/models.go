package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spachava753/llmport/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered by the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ResolveConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogging(cfg.LogLevel)

		provider, err := newProvider(cmd.Context(), cfg.Provider)
		if err != nil {
			return err
		}
		ids, err := provider.ListModels(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, id := range ids {
			line := id
			if id == cfg.Provider.Model {
				line += " (configured)"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
