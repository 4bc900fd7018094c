package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spachava753/llmport/internal/config"
	"github.com/spachava753/llmport/internal/convert"
	"github.com/spachava753/llmport/internal/ignore"
	"github.com/spachava753/llmport/internal/llm"
	"github.com/spachava753/llmport/internal/pipeline"
	"github.com/spachava753/llmport/internal/prompt"
	"github.com/spachava753/llmport/internal/retry"
	"github.com/spachava753/llmport/internal/symbols"
	"github.com/spachava753/llmport/internal/version"
)

var (
	configPath string
	inputDir   string
	outputDir  string

	// newProvider is replaced in tests.
	newProvider = llm.NewProvider
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "llmport -i <input_dir> -o <output_dir>",
	Short: "Port a source tree to another language with an LLM",
	Long: `llmport walks a source tree, splits every matching file into chunks and asks
a language model to convert each chunk. Definitions found by an external
analyzer (ctags by default) are included in every prompt. The converted files
are written to the output directory, mirroring the input layout.`,
	Version:      version.Get(),
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateInputDir(inputDir)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ResolveConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger := setupLogging(cfg.LogLevel)
		_, err = runConvert(cmd.Context(), cfg, logger, inputDir, outputDir)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	// Listen for cancellation
	// - in shells for user-initiated interruption SIGINT
	// - in system sent/container environments, SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (default: $LLMPORT_CONFIG, ./llmport.yaml or the user config directory)")
	rootCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory containing the source files to convert")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory the converted files are written to")
	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")
	rootCmd.SetVersionTemplate("llmport version {{.Version}}\n")
}

func validateInputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input directory does not exist: %s", dir)
		}
		return fmt.Errorf("cannot access input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", dir)
	}
	return nil
}

// runConvert wires the components from cfg and converts every file under
// in. Per-file failures are logged and reported in the results only.
func runConvert(ctx context.Context, cfg *config.Config, logger *slog.Logger, in, out string) ([]pipeline.Result, error) {
	provider, err := newProvider(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}
	predictor := llm.Wrap(provider,
		llm.WithRateLimit(cfg.RequestsPerMinute),
		llm.WithLogging(logger),
	)

	builder, err := prompt.New(prompt.Options{
		SourceLanguage:   cfg.SourceLanguage,
		TargetLanguage:   cfg.TargetLanguage,
		Fence:            cfg.Fence,
		DefinitionMarker: cfg.DefinitionMarker,
		TemplatePath:     cfg.TemplatePath,
	})
	if err != nil {
		return nil, err
	}

	engine := convert.New(predictor, builder, convert.Options{
		Retry: retry.Policy{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialDelay,
		},
		MinChunkLines:     cfg.MinChunkLines,
		ExtractCodeBlocks: cfg.ExtractCodeBlocks,
		Logger:            logger,
	})

	rules, err := ignore.Load(in)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore rules: %w", err)
	}

	logger.Info("starting conversion",
		"input", in,
		"output", out,
		"provider", cfg.Provider.Name,
		"model", cfg.Provider.Model,
		"chunk_lines", cfg.ChunkLines,
	)
	results, err := pipeline.Run(ctx, pipeline.Options{
		InputDir:         in,
		OutputDir:        out,
		SourceExtensions: cfg.SourceExtensions,
		TargetExtension:  cfg.TargetExtension,
		ChunkLines:       cfg.ChunkLines,
		Concurrency:      cfg.Concurrency,
		Ignore:           rules,
		Logger:           logger,
	}, engine, symbols.NewExtractor(cfg.ExtractorCommand, cfg.ExtractorArgs, logger))
	if err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("conversion finished", "files", len(results), "failed", failed)
	return results, nil
}
