// Package convert turns a source file into target-language code by sending
// it to a model chunk by chunk.
//
// Throttling is retried with exponential backoff. When a chunk does not fit
// the model's context window it is converted again in halves, recursively,
// until it fits or cannot be split further.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spachava753/llmport/internal/chunk"
	"github.com/spachava753/llmport/internal/codeblock"
	"github.com/spachava753/llmport/internal/llm"
	"github.com/spachava753/llmport/internal/retry"
	"github.com/spachava753/llmport/internal/symbols"
)

// ErrCannotShrink is returned when a chunk overflows the context window and
// halving it would go below the minimum chunk size.
var ErrCannotShrink = errors.New("chunk cannot be shrunk further")

// DefaultMinChunkLines is the smallest chunk the engine will send.
const DefaultMinChunkLines = 1

// PromptBuilder renders the prompt for one chunk.
type PromptBuilder interface {
	Build(chunk string, records []symbols.Record) (string, error)
}

// Options tune an Engine.
type Options struct {
	// Retry is the throttling policy around each model call. Its Retryable
	// predicate defaults to llm.Classify reporting ClassRetryable.
	Retry retry.Policy
	// MinChunkLines is the floor for shrinking on context overflow.
	MinChunkLines int
	// ExtractCodeBlocks keeps only fenced code from each completion.
	ExtractCodeBlocks bool
	Logger            *slog.Logger
}

// Engine converts whole sources. It is safe for concurrent use as long as
// the predictor and builder are.
type Engine struct {
	predictor llm.Predictor
	builder   PromptBuilder
	policy    retry.Policy
	minLines  int
	extract   bool
	logger    *slog.Logger
}

// New creates an Engine.
func New(predictor llm.Predictor, builder PromptBuilder, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	minLines := opts.MinChunkLines
	if minLines < 1 {
		minLines = DefaultMinChunkLines
	}

	policy := opts.Retry
	if policy.Retryable == nil {
		policy.Retryable = func(err error) bool {
			return llm.Classify(err) == llm.ClassRetryable
		}
	}
	if policy.Notify == nil {
		policy.Notify = func(err error, next time.Duration) {
			logger.Warn("model throttled, retrying", "wait", next, "error", err)
		}
	}

	return &Engine{
		predictor: predictor,
		builder:   builder,
		policy:    policy,
		minLines:  minLines,
		extract:   opts.ExtractCodeBlocks,
		logger:    logger,
	}
}

// Convert splits source into chunks of at most maxChunkLines lines, converts
// each in order and joins the results with a newline.
func (e *Engine) Convert(ctx context.Context, source string, records []symbols.Record, maxChunkLines int) (string, error) {
	chunks := chunk.Split(source, maxChunkLines)
	outputs := make([]string, 0, len(chunks))
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := e.convertChunk(ctx, c, records, maxChunkLines)
		if err != nil {
			return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		outputs = append(outputs, out)
	}
	return strings.Join(outputs, "\n"), nil
}

func (e *Engine) convertChunk(ctx context.Context, c string, records []symbols.Record, maxChunkLines int) (string, error) {
	p, err := e.builder.Build(c, records)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	out, err := retry.Do(ctx, e.policy, func() (string, error) {
		return e.predictor.Predict(ctx, p)
	})
	if err == nil {
		if e.extract {
			out = codeblock.Extract(out)
		}
		return out, nil
	}
	if llm.Classify(err) != llm.ClassContextOverflow {
		return "", err
	}

	lines := chunk.CountLines(c)
	next := min(maxChunkLines, lines) / 2
	if next < e.minLines {
		return "", fmt.Errorf("%w: %d lines overflow the context window: %w", ErrCannotShrink, lines, err)
	}
	e.logger.Warn("context window exceeded, shrinking chunk",
		"chunk_lines", lines,
		"next_chunk_lines", next,
	)
	return e.Convert(ctx, c, records, next)
}
