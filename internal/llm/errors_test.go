package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{name: "nil", err: nil, want: ClassFatal},
		{name: "classified retryable", err: &Error{Class: ClassRetryable, Err: errors.New("x")}, want: ClassRetryable},
		{name: "wrapped classified", err: fmt.Errorf("chunk 2: %w", &Error{Class: ClassContextOverflow, Err: errors.New("x")}), want: ClassContextOverflow},
		{name: "context window message", err: errors.New("Input is too long for the Context Window"), want: ClassContextOverflow},
		{name: "throttling message", err: errors.New("ThrottlingException: slow down"), want: ClassRetryable},
		{name: "too many requests", err: errors.New("429 Too Many Requests"), want: ClassRetryable},
		{name: "other", err: errors.New("connection refused"), want: ClassFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifyHTTP(t *testing.T) {
	tests := []struct {
		status int
		msg    string
		want   Class
	}{
		{status: 429, msg: "rate limited", want: ClassRetryable},
		{status: 413, msg: "request too large", want: ClassContextOverflow},
		{status: 400, msg: "prompt is too long: 250000 tokens > 200000 maximum", want: ClassContextOverflow},
		{status: 400, msg: "invalid model", want: ClassFatal},
		{status: 401, msg: "invalid x-api-key", want: ClassFatal},
		{status: 500, msg: "internal error", want: ClassFatal},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d %s", tt.status, tt.msg), func(t *testing.T) {
			assert.Equal(t, tt.want, classifyHTTP(tt.status, tt.msg))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Class: ClassRetryable, Provider: ProviderOpenAI, StatusCode: 429, Err: errors.New("slow down")}
	assert.Equal(t, "openai (HTTP 429, retryable): slow down", err.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), err.Err)
}
