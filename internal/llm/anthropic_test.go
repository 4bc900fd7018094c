package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestServer(t *testing.T, status int, body string) (*Anthropic, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewAnthropic(ProviderConfig{Model: "claude-test", APIKey: "test", BaseURL: srv.URL + "/"}), &calls
}

func TestAnthropicPredict(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-test", req.Model)
		if len(req.Messages) == 1 && len(req.Messages[0].Content) == 1 {
			gotPrompt = req.Messages[0].Content[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"fn add(a: i32, b: i32) -> i32 { a + b }"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":12}}`)
	}))
	defer srv.Close()

	p := NewAnthropic(ProviderConfig{Model: "claude-test", APIKey: "test", BaseURL: srv.URL + "/"})
	out, err := p.Predict(context.Background(), "convert this")
	require.NoError(t, err)
	assert.Equal(t, "fn add(a: i32, b: i32) -> i32 { a + b }", out)
	assert.Equal(t, "convert this", gotPrompt)
}

func TestAnthropicErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Class
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`,
			want:   ClassRetryable,
		},
		{
			name:   "prompt too long",
			status: http.StatusBadRequest,
			body:   `{"type":"error","error":{"type":"invalid_request_error","message":"prompt is too long: 210000 tokens > 200000 maximum"}}`,
			want:   ClassContextOverflow,
		},
		{
			name:   "request too large",
			status: http.StatusRequestEntityTooLarge,
			body:   `{"type":"error","error":{"type":"request_too_large","message":"Request exceeds the maximum allowed number of bytes"}}`,
			want:   ClassContextOverflow,
		},
		{
			name:   "authentication",
			status: http.StatusUnauthorized,
			body:   `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			want:   ClassFatal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, calls := newAnthropicTestServer(t, tt.status, tt.body)
			_, err := p.Predict(context.Background(), "prompt")
			require.Error(t, err)

			var llmErr *Error
			require.True(t, errors.As(err, &llmErr))
			assert.Equal(t, tt.want, llmErr.Class)
			assert.Equal(t, tt.status, llmErr.StatusCode)
			assert.Equal(t, 1, *calls, "SDK retries must stay disabled")
		})
	}
}
