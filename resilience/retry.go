package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// DefaultMaxRetries is the retry ceiling used when none (or a
// non-positive one) is configured.
const DefaultMaxRetries = 3

// DefaultBaseDelay is the backoff unit: retry n waits BaseDelay * 2^n.
const DefaultBaseDelay = time.Second

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	// Values <= 0 fall back to DefaultMaxRetries.
	MaxRetries int
	// BaseDelay is the backoff unit. Retry n (1-based) waits
	// BaseDelay * 2^n. Defaults to one second.
	BaseDelay time.Duration
	// MaxDelay caps a single backoff wait. Zero means uncapped.
	MaxDelay time.Duration
	// Jitter adds +-Jitter*delay randomness (0.0 to 1.0). Zero keeps the
	// deterministic schedule.
	Jitter float64
	// RetryIf decides whether an error is worth retrying. Nil retries
	// everything except context cancellation.
	RetryIf func(error) bool
	// OnRetry is called before each backoff wait.
	OnRetry func(retry int, err error, delay time.Duration)
}

// DefaultRetryIf retries everything except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry runs fn up to 1+MaxRetries times. The context is checked before
// every attempt and during every backoff wait.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}
	base := cfg.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryIf(err) || attempt == retries {
			return zero, lastErr
		}

		retry := attempt + 1
		delay := Backoff(retry, base, cfg.MaxDelay, cfg.Jitter)
		if cfg.OnRetry != nil {
			cfg.OnRetry(retry, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// Backoff computes the wait before the nth retry: base * 2^n, optionally
// jittered and capped.
func Backoff(retry int, base, maxDelay time.Duration, jitter float64) time.Duration {
	if retry < 1 {
		retry = 1
	}
	delay := base << uint(retry)
	if jitter > 0 {
		offset := (rand.Float64()*2 - 1) * jitter * float64(delay)
		delay += time.Duration(offset)
	}
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	if delay < 0 {
		delay = base
	}
	return delay
}
