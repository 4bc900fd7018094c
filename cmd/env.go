package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spachava753/llmport/internal/config"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print environment variables",
	Long:  `Print all environment variables read by llmport.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printEnvironmentVariables(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

func printEnvironmentVariables(w io.Writer) {
	printVar := func(name, description string, sensitive bool) {
		value := os.Getenv(name)
		switch {
		case value == "":
			value = "(not set)"
		case sensitive:
			value = maskSecret(value)
		}
		fmt.Fprintf(w, "  %-30s - %s\n    Value: %s\n\n", name, description, value)
	}

	fmt.Fprintln(w, "API Keys:")
	printVar("ANTHROPIC_API_KEY", "Used by the anthropic provider", true)
	printVar("OPENAI_API_KEY", "Used by the openai provider", true)
	printVar("GEMINI_API_KEY", "Used by the gemini provider", true)

	fmt.Fprintln(w, "Configuration:")
	printVar(config.PathEnv, "Path to the config file", false)
	printVar(config.EnvPrefix+"PROVIDER", "Overrides provider", false)
	printVar(config.EnvPrefix+"MODEL", "Overrides model", false)
	printVar(config.EnvPrefix+"BASE_URL", "Overrides base_url", false)
	printVar(config.EnvPrefix+"CHUNK_LINES", "Overrides chunk.max_lines", false)
	printVar(config.EnvPrefix+"CONCURRENCY", "Overrides concurrency", false)
	printVar(config.EnvPrefix+"LOG_LEVEL", "Overrides log_level", false)
	printVar(config.EnvPrefix+"REQUESTS_PER_MINUTE", "Overrides rate_limit.requests_per_minute", false)
}
