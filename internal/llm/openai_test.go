package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"let x = 1;"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI(ProviderConfig{Model: "gpt-test", APIKey: "test", BaseURL: srv.URL})
	out, err := p.Predict(context.Background(), "int x = 1;")
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;", out)
}

func TestOpenAIErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Class
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			want:   ClassRetryable,
		},
		{
			name:   "quota exhausted",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			want:   ClassFatal,
		},
		{
			name:   "context length",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"This model's maximum context length is 8192 tokens.","type":"invalid_request_error","code":"context_length_exceeded"}}`,
			want:   ClassContextOverflow,
		},
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"Invalid model","type":"invalid_request_error","code":"model_not_found"}}`,
			want:   ClassFatal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			p := NewOpenAI(ProviderConfig{Model: "gpt-test", APIKey: "test", BaseURL: srv.URL})
			_, err := p.Predict(context.Background(), "prompt")
			require.Error(t, err)
			assert.Equal(t, tt.want, Classify(err))
			assert.Equal(t, 1, calls)
		})
	}
}

func TestOpenAIListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"object":"list","data":[
			{"id":"gpt-4o","object":"model","created":1,"owned_by":"openai"},
			{"id":"gpt-4o-mini","object":"model","created":1,"owned_by":"openai"}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI(ProviderConfig{Model: "gpt-4o", APIKey: "test", BaseURL: srv.URL})
	ids, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, ids)
}
