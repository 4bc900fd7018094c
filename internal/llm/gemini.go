package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature *float64
	timeout     time.Duration
}

// NewGemini creates a Gemini provider.
func NewGemini(ctx context.Context, cfg ProviderConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("error creating gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		maxTokens:   int32(cfg.MaxTokens),
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Predict sends prompt as a single user turn and returns the text parts of
// the first candidate.
func (g *Gemini) Predict(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = g.maxTokens
	}
	if g.temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*g.temperature))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classifyGemini(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &Error{Class: ClassFatal, Provider: ProviderGemini, Err: errors.New("no candidates in response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// ListModels returns the names of all models, without the "models/" prefix.
func (g *Gemini) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list gemini models: %w", err)
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return &Error{Class: classifyMessage(err.Error()), Provider: ProviderGemini, Err: err}
	}

	class := classifyHTTP(apiErr.Code, apiErr.Message)
	if class == ClassFatal && apiErr.Status == "RESOURCE_EXHAUSTED" {
		class = ClassRetryable
	}
	return &Error{Class: class, Provider: ProviderGemini, StatusCode: apiErr.Code, Err: err}
}
