package httputil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

var errTransient = errors.New("connection reset")

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("RetryableError should unwrap to the cause")
	}
	if !IsRetryable(fmt.Errorf("fetch issue: %w", err)) {
		t.Error("IsRetryable should see through wrapping")
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("not found")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 1, nil},
		{"permanent stops", 5, permanent, 1, permanent},
		{"retry then succeed", 2, Retryable(errTransient), 3, nil},
		{"exhausted", 5, Retryable(errTransient), 3, errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return Retryable(errTransient)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestBackoff_WaitFor(t *testing.T) {
	b := Backoff{Attempts: 3, Delay: time.Second, MaxRateLimitWait: 10 * time.Second}

	tests := []struct {
		name     string
		err      error
		wantWait time.Duration
		wantOK   bool
	}{
		{"transient", Retryable(errTransient), time.Second, true},
		{"permanent", errors.New("not found"), 0, false},
		{"short rate limit", &errs.RateLimitedError{RetryAfter: 4}, 4 * time.Second, true},
		{"wrapped rate limit", fmt.Errorf("list issues: %w", &errs.RateLimitedError{RetryAfter: 2}), 2 * time.Second, true},
		{"long rate limit", &errs.RateLimitedError{RetryAfter: 3600}, 0, false},
		{"rate limit without hint", &errs.RateLimitedError{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wait, ok := b.waitFor(tt.err, time.Second)
			if ok != tt.wantOK || wait != tt.wantWait {
				t.Errorf("waitFor() = (%v, %v), want (%v, %v)", wait, ok, tt.wantWait, tt.wantOK)
			}
		})
	}
}

func TestRetry_RateLimitNotRetried(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &errs.RateLimitedError{RetryAfter: 1}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	var rl *errs.RateLimitedError
	if !errors.As(err, &rl) {
		t.Errorf("Retry() = %v, want RateLimitedError", err)
	}
}

func TestBackoff_Do_SingleAttempt(t *testing.T) {
	calls := 0
	err := Backoff{}.Do(context.Background(), func() error {
		calls++
		return Retryable(errTransient)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, errTransient) {
		t.Errorf("Do() = %v, want %v", err, errTransient)
	}
}
