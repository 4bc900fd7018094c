package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Class groups provider failures by how the caller should react.
type Class int

const (
	// ClassFatal failures abort the current job.
	ClassFatal Class = iota
	// ClassRetryable failures are throttling signals worth retrying later.
	ClassRetryable
	// ClassContextOverflow failures mean the prompt did not fit the model's
	// context window; a smaller input may succeed.
	ClassContextOverflow
)

func (c Class) String() string {
	switch c {
	case ClassRetryable:
		return "retryable"
	case ClassContextOverflow:
		return "context_overflow"
	default:
		return "fatal"
	}
}

// Error is a provider failure with its classification attached.
type Error struct {
	Class      Class
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d, %s): %v", e.Provider, e.StatusCode, e.Class, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Provider, e.Class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify reports the class of err. Errors that carry no classification are
// judged by their message.
func Classify(err error) Class {
	if err == nil {
		return ClassFatal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return classifyMessage(err.Error())
}

var (
	overflowMarkers = []string{
		"context window",
		"context length",
		"context_length_exceeded",
		"maximum context length",
		"prompt is too long",
		"input token count",
		"request_too_large",
	}
	throttleMarkers = []string{
		"throttl",
		"rate limit",
		"rate_limit",
		"too many requests",
		"resource_exhausted",
	}
)

func classifyMessage(msg string) Class {
	msg = strings.ToLower(msg)
	switch {
	case containsAny(msg, overflowMarkers):
		return ClassContextOverflow
	case containsAny(msg, throttleMarkers):
		return ClassRetryable
	default:
		return ClassFatal
	}
}

// classifyHTTP classifies an API error from its status code and body text.
// The body wins for context overflows because providers report those with
// ordinary 400 responses.
func classifyHTTP(status int, msg string) Class {
	lower := strings.ToLower(msg)
	switch {
	case status == 413 || containsAny(lower, overflowMarkers):
		return ClassContextOverflow
	case status == 429:
		return ClassRetryable
	default:
		return ClassFatal
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
