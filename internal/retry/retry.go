// Package retry runs an operation with bounded exponential backoff for errors
// a caller marks as retryable.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultMaxAttempts is the number of calls made before giving up.
	DefaultMaxAttempts = 5
	// DefaultInitialDelay is the wait before the first retry.
	DefaultInitialDelay = time.Second
)

// Policy describes when and how often an operation is retried.
type Policy struct {
	// MaxAttempts bounds the total number of calls, including the first.
	MaxAttempts uint
	// InitialDelay is the wait before the first retry. The wait before
	// retry k (0-indexed) is InitialDelay * 2^k.
	InitialDelay time.Duration
	// Retryable reports whether err should be retried. A nil predicate
	// retries nothing.
	Retryable func(err error) bool
	// Notify is called before each wait with the error and the wait length.
	Notify func(err error, next time.Duration)
	// BackOff overrides the delay schedule. It is mostly useful in tests.
	BackOff func() backoff.BackOff
}

// Exponential returns the doubling, jitter-free schedule starting at initial.
func Exponential(initial time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	return b
}

// Do calls op until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = DefaultMaxAttempts
	}
	delay := p.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}

	var b backoff.BackOff
	if p.BackOff != nil {
		b = p.BackOff()
	} else {
		b = Exponential(delay)
	}

	operation := func() (T, error) {
		res, err := op()
		if err != nil && (p.Retryable == nil || !p.Retryable(err)) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
		// attempts bound the loop, not wall time
		backoff.WithMaxElapsedTime(0),
	}
	if p.Notify != nil {
		opts = append(opts, backoff.WithNotify(p.Notify))
	}

	res, err := backoff.Retry(ctx, operation, opts...)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return res, err
}
