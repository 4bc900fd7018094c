package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spachava753/llmport/internal/chunk"
	"github.com/spachava753/llmport/internal/config"
	"github.com/spachava753/llmport/internal/prompt"
	"github.com/spachava753/llmport/internal/render"
	"github.com/spachava753/llmport/internal/symbols"
)

var (
	promptRaw        bool
	promptChunkLines int
)

var promptCmd = &cobra.Command{
	Use:   "prompt <file>",
	Short: "Show the prompts that would be sent for a source file",
	Long: `Builds the prompts for every chunk of a single source file without calling
a model. No API key is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _, err := config.LoadEffectiveRawConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		level, _ := config.ParseLogLevel(raw.LogLevel)
		logger := setupLogging(level)

		builder, err := prompt.New(prompt.Options{
			SourceLanguage:   raw.Source.Language,
			TargetLanguage:   raw.Target.Language,
			Fence:            raw.Source.Fence,
			DefinitionMarker: raw.Extractor.DefinitionMarker,
			TemplatePath:     raw.Prompt.TemplatePath,
		})
		if err != nil {
			return err
		}

		path := args[0]
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		records := symbols.NewExtractor(raw.Extractor.Command, raw.Extractor.Args, logger).Extract(cmd.Context(), path)

		maxLines := raw.Chunk.MaxLines
		if promptChunkLines > 0 {
			maxLines = promptChunkLines
		}

		out := cmd.OutOrStdout()
		var r render.Renderer = render.Plain{}
		if !promptRaw {
			r = render.New(out)
		}
		chunks := chunk.Split(string(source), maxLines)
		for i, c := range chunks {
			p, err := builder.Build(c, records)
			if err != nil {
				return fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
			}
			title := fmt.Sprintf("chunk %d/%d (%d lines)", i+1, len(chunks), chunk.CountLines(c))
			if err := render.Section(out, r, title, p); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	promptCmd.Flags().BoolVar(&promptRaw, "raw", false, "Print prompts without markdown rendering")
	promptCmd.Flags().IntVar(&promptChunkLines, "chunk-lines", 0, "Override the configured maximum lines per chunk")
	rootCmd.AddCommand(promptCmd)
}
