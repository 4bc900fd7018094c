// Package llm is the boundary to remote text-completion models. It exposes a
// single Predict operation per provider, classifies provider failures into
// the few categories the conversion engine reacts to, and lists the models a
// provider offers.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Predictor turns a prompt into a completion.
type Predictor interface {
	Predict(ctx context.Context, prompt string) (string, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, prompt string) (string, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ModelLister lists the model identifiers a provider exposes.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Provider is a remote model service.
type Provider interface {
	Predictor
	ModelLister
}

// Supported provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Name        string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature *float64
	// Timeout bounds a single request. Zero means no per-request limit.
	Timeout time.Duration
}

// NewProvider builds the provider named by cfg.Name.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderAnthropic:
		return NewAnthropic(cfg), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Name)
	}
}
