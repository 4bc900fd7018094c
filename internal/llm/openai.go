package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAI calls the Chat Completions API of OpenAI or a compatible server.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature *float64
}

// NewOpenAI creates an OpenAI provider. SDK retries are disabled; throttling
// is retried by the caller.
func NewOpenAI(cfg ProviderConfig) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

// Predict sends prompt as a single user message and returns the first choice.
func (o *OpenAI) Predict(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(o.maxTokens)
	}
	if o.temperature != nil {
		params.Temperature = openai.Float(*o.temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Class: ClassFatal, Provider: ProviderOpenAI, Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the identifiers of all models visible to the API key.
func (o *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	var ids []string
	pager := o.client.Models.ListAutoPaging(ctx)
	for pager.Next() {
		ids = append(ids, pager.Current().ID)
	}
	if err := pager.Err(); err != nil {
		return nil, fmt.Errorf("failed to list openai models: %w", err)
	}
	return ids, nil
}

func classifyOpenAI(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return &Error{Class: classifyMessage(err.Error()), Provider: ProviderOpenAI, Err: err}
	}

	class := classifyHTTP(apiErr.StatusCode, apiErr.Error())
	switch apiErr.Code {
	case "context_length_exceeded":
		class = ClassContextOverflow
	case "insufficient_quota":
		// reported as 429 but waiting will not help
		class = ClassFatal
	}
	return &Error{Class: class, Provider: ProviderOpenAI, StatusCode: apiErr.StatusCode, Err: err}
}
