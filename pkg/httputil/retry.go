package httputil

import (
	"context"
	"errors"
	"time"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// RetryableError marks a transient failure such as a network timeout or a
// 5xx response. [Backoff.Do] attempts the operation again for these.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or any error it wraps, is a
// [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff controls how [Backoff.Do] repeats a failing operation.
type Backoff struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Delay is the wait before the second call. It doubles after each
	// retryable failure.
	Delay time.Duration
	// MaxRateLimitWait is the longest Retry-After a rate-limited error may
	// ask for and still be retried. Longer waits are returned to the caller.
	// Zero disables retries on rate limits.
	MaxRateLimitWait time.Duration
}

// DefaultBackoff is used by [RetryWithBackoff]: three calls, one second
// initial delay, and rate-limit waits of up to ten seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxRateLimitWait: 10 * time.Second}

// Do calls fn until it succeeds, returns a permanent error, or runs out of
// attempts. It returns the last error, or ctx.Err() if ctx is cancelled
// while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		wait, ok := b.waitFor(err, delay)
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
		}
		delay *= 2
	}
	return lastErr
}

// waitFor returns how long to wait before retrying err, and false when err
// must not be retried.
func (b Backoff) waitFor(err error, delay time.Duration) (time.Duration, bool) {
	if IsRetryable(err) {
		return delay, true
	}
	var rl *errs.RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter <= 0 {
		return 0, false
	}
	wait := time.Duration(rl.RetryAfter) * time.Second
	if wait > b.MaxRateLimitWait {
		return 0, false
	}
	return wait, true
}

// Retry calls fn up to attempts times, doubling delay after each retryable
// failure. Rate-limited errors are not retried.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff runs fn with [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
