package serp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// StatusError reports a non-200 provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("serp provider returned status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the status is worth retrying. Rate limiting and
// provider 5xx are transient; other 4xx mean the request itself is bad.
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}

// Retry runs an operation with bounded exponential backoff.
type Retry struct {
	maxRetries int
	delay      time.Duration
}

// NewRetry creates a retry policy with maxRetries additional attempts after
// the first, starting at delay and doubling per attempt.
func NewRetry(maxRetries int, delay time.Duration) *Retry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if delay <= 0 {
		delay = time.Second
	}
	return &Retry{maxRetries: maxRetries, delay: delay}
}

// Execute runs fn until it succeeds, a non-retryable error occurs, the
// attempts are exhausted, or ctx is done.
func (r *Retry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}
		if !retryable(err) {
			return err
		}

		backoff := r.delay << uint(attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return lastErr
}

// retryable treats provider-confirmed client errors as terminal; network
// failures and everything else may be transient.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrEmptyKeyword) {
		return false
	}
	return true
}
