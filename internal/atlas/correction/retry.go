package correction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// TransportError is a non-2xx response or transport-level failure from the
// correction provider. It is never wrapped around credential material.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("correction request status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether an error is worth retrying: rate limiting,
// request timeouts, and server-side failures. Everything else is treated as
// fatal and propagated so the batch aborts with the prior graph intact.
func Retryable(err error) bool {
	var te *TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch {
	case te.StatusCode == http.StatusTooManyRequests:
		return true
	case te.StatusCode == http.StatusRequestTimeout:
		return true
	case te.StatusCode >= 500:
		return true
	}
	return false
}

// WithRetry runs fn up to attempts times, sleeping delay between retryable
// failures. Non-retryable errors and context cancellation return immediately.
// The delay is a fixed courtesy pause for the rate-limited provider, not a
// correctness requirement.
func WithRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !Retryable(err) || attempt == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
