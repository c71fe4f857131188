package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/meme-api/internal/redact"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper backed by a timer.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryPolicy describes a bounded retry loop with pure exponential backoff.
// The delay before attempt k+1 (k starting at 1) is BaseDelay*Multiplier^(k-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Sleep       Sleeper
}

// DefaultRetryPolicy returns 3 attempts with delays of 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
	}
}

// NoRetry is a policy that makes exactly one attempt.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// Delay returns the wait before the attempt following attempt number
// `attempt` (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier <= 1 {
		multiplier = 2
	}
	delay := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= multiplier
	}
	return time.Duration(delay)
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Sleep == nil {
		p.Sleep = ContextSleep
	}
	return p
}

// Retry calls fn until it succeeds, fails non-transiently, or MaxAttempts is
// reached. Exhaustion returns an error wrapping both ErrRetriesExhausted and
// the last transient failure. With MaxAttempts of 1 the first error is
// returned unchanged.
func Retry[T any](
	ctx context.Context,
	policy RetryPolicy,
	logger *slog.Logger,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	policy = policy.normalized()
	if logger == nil {
		logger = slog.Default()
	}

	var zero T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		logger.DebugContext(ctx, "calling provider",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts)

		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "provider call succeeded after retry", "attempt", attempt)
			}
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) {
			logger.WarnContext(ctx, "permanent error occurred, not retrying",
				"attempt", attempt,
				"error", redact.Error(err))
			return zero, err
		}

		if policy.MaxAttempts == 1 {
			return zero, err
		}

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Delay(attempt)
		logger.InfoContext(ctx, "transient error, retrying after delay",
			"attempt", attempt,
			"delay_ms", delay.Milliseconds(),
			"error", redact.Error(err))

		if err := policy.Sleep(ctx, delay); err != nil {
			logger.WarnContext(ctx, "retry wait cancelled",
				"attempt", attempt,
				"ctx_err", err)
			return zero, Transient("retry", err)
		}
	}

	logger.WarnContext(ctx, "maximum retry attempts reached",
		"max_attempts", policy.MaxAttempts,
		"error", redact.Error(lastErr))
	return zero, fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}
