package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxRetryWait caps a single wait between attempts. A server asking for a
// longer pause is not retried at all.
const MaxRetryWait = time.Minute

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
//
// After is the wait requested by the server (for example a Retry-After
// header). It replaces the backoff delay when longer.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := retryWait(err, delay)
		if !ok {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// retryWait reports how long to wait before retrying err, or false when err
// must not be retried.
func retryWait(err error, delay time.Duration) (time.Duration, bool) {
	var re *RetryableError
	if !errors.As(err, &re) {
		return 0, false
	}
	if re.After > MaxRetryWait {
		return 0, false
	}
	return min(max(delay, re.After), MaxRetryWait), true
}
