package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks backend and transport failures (timeouts, connection
// errors, 5xx and 429 responses).
var ErrNetwork = errors.New("network error")

// RetryableError marks err as transient. After, when positive, is the delay
// the server asked for (an HTTP Retry-After).
type RetryableError struct {
	Err   error
	After time.Duration
}

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryAfter wraps err as retryable no sooner than after.
func RetryAfter(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, After: after}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry policy for registry fetches.
type Backoff struct {
	Attempts int           // Total calls, including the first
	Delay    time.Duration // Wait before the second call; doubles after each retry
	MaxDelay time.Duration // Cap on any single wait, including server-requested ones
}

// DefaultBackoff makes three attempts, waiting 1s then 2s.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 30 * time.Second}

// Retry calls fn until it succeeds, returns an error that is not retryable,
// or the attempts are used up. The last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		var re *RetryableError
		if errors.As(err, &re) && re.After > wait {
			wait = re.After
		}
		if b.MaxDelay > 0 && wait > b.MaxDelay {
			wait = b.MaxDelay
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff retries fn with [DefaultBackoff].
// Only errors wrapped with Retryable will trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
