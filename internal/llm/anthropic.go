package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic calls the Anthropic Messages API.
type Anthropic struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature *float64
}

// NewAnthropic creates an Anthropic provider. SDK retries are disabled;
// throttling is retried by the caller.
func NewAnthropic(cfg ProviderConfig) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	return &Anthropic{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

// Predict sends prompt as a single user message and returns the text blocks
// of the reply.
func (a *Anthropic) Predict(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if a.temperature != nil {
		params.Temperature = anthropic.Float(*a.temperature)
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyAnthropic(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &Error{Class: ClassFatal, Provider: ProviderAnthropic, Err: errors.New("no text content in response")}
	}
	return sb.String(), nil
}

// ListModels returns the identifiers of all models visible to the API key.
func (a *Anthropic) ListModels(ctx context.Context) ([]string, error) {
	var ids []string
	pager := a.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
	for pager.Next() {
		ids = append(ids, pager.Current().ID)
	}
	if err := pager.Err(); err != nil {
		return nil, fmt.Errorf("failed to list anthropic models: %w", err)
	}
	return ids, nil
}

func classifyAnthropic(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Class:      classifyHTTP(apiErr.StatusCode, apiErr.Error()),
			Provider:   ProviderAnthropic,
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
	}
	return &Error{Class: classifyMessage(err.Error()), Provider: ProviderAnthropic, Err: err}
}
