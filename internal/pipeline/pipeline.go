// Package pipeline walks an input tree and converts every matching source
// file into a mirrored path under the output directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/spachava753/llmport/internal/ignore"
	"github.com/spachava753/llmport/internal/symbols"
)

// ErrNotText is reported for files whose content is not text.
var ErrNotText = errors.New("file content is not text")

// Converter converts one whole source file.
type Converter interface {
	Convert(ctx context.Context, source string, records []symbols.Record, maxChunkLines int) (string, error)
}

// SymbolExtractor collects the definitions a file declares. It never fails;
// extraction problems yield an empty slice.
type SymbolExtractor interface {
	Extract(ctx context.Context, path string) []symbols.Record
}

// Options configure a run.
type Options struct {
	InputDir  string
	OutputDir string
	// SourceExtensions selects input files, e.g. ".c". Matching is exact.
	SourceExtensions []string
	// TargetExtension replaces the source extension in output paths.
	TargetExtension string
	ChunkLines      int
	// Concurrency bounds the number of files converted at once. Values
	// below 2 convert files one after another.
	Concurrency int
	Ignore      *ignore.Rules
	Logger      *slog.Logger
}

// Result is the outcome for one discovered file.
type Result struct {
	Input  string
	Output string
	Err    error
}

type job struct {
	input  string
	output string
}

// Run converts every matching file under opts.InputDir. Failures are
// isolated per file and reported in the results, which follow discovery
// order. The error is non-nil only when the input tree cannot be walked.
func Run(ctx context.Context, opts Options, conv Converter, extractor SymbolExtractor) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jobs, err := discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("discovered source files", "count", len(jobs), "input", opts.InputDir)

	results := make([]Result, len(jobs))
	process := func(i int) {
		j := jobs[i]
		results[i] = Result{Input: j.input, Output: j.output}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			return
		}
		if err := convertFile(ctx, j, opts.ChunkLines, conv, extractor, logger); err != nil {
			logger.Error("failed to convert file", "input", j.input, "error", err)
			results[i].Err = err
		}
	}

	if opts.Concurrency <= 1 {
		for i := range jobs {
			process(i)
		}
		return results, nil
	}

	var eg errgroup.Group
	eg.SetLimit(opts.Concurrency)
	for i := range jobs {
		eg.Go(func() error {
			process(i)
			return nil
		})
	}
	_ = eg.Wait()
	return results, nil
}

func discover(ctx context.Context, opts Options) ([]job, error) {
	absOut, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	var jobs []job
	err = filepath.WalkDir(opts.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(opts.InputDir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if abs, err := filepath.Abs(path); err == nil && abs == absOut {
				return filepath.SkipDir
			}
			if opts.Ignore.Match(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := filepath.Ext(path)
		if !slices.Contains(opts.SourceExtensions, ext) || opts.Ignore.Match(rel) {
			return nil
		}
		jobs = append(jobs, job{
			input:  path,
			output: filepath.Join(opts.OutputDir, strings.TrimSuffix(rel, ext)+opts.TargetExtension),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", opts.InputDir, err)
	}
	return jobs, nil
}

// checkText returns ErrNotText, naming the detected type, unless the file
// is some kind of text/plain.
func checkText(path string) error {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("%w: detected %s", ErrNotText, mime.String())
}

func convertFile(ctx context.Context, j job, chunkLines int, conv Converter, extractor SymbolExtractor, logger *slog.Logger) error {
	if err := checkText(j.input); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	records := extractor.Extract(ctx, j.input)

	src, err := os.ReadFile(j.input)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	logger.Info("converting file", "input", j.input, "records", len(records))
	out, err := conv.Convert(ctx, string(src), records, chunkLines)
	if err != nil {
		return err
	}

	if err := os.WriteFile(j.output, []byte(out), 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}
	logger.Info("wrote file", "output", j.output)
	return nil
}
