// ABOUTME: Fixed-delay bounded retry for calls whose failures can be transient
// ABOUTME: The classifier decides which errors are worth another attempt
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrExhausted is wrapped into the error returned after the last retryable failure.
var ErrExhausted = errors.New("retry attempts exhausted")

// RetryConfig controls the attempt budget. MaxAttempts counts the initial call.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultConfig is one call plus five retries, half a second apart.
func DefaultConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 6,
		Delay:       500 * time.Millisecond,
	}
}

// ErrorClassifier reports whether err may succeed on a later attempt.
type ErrorClassifier func(error) bool

type Retrier struct {
	config      RetryConfig
	isRetryable ErrorClassifier
	logger      *slog.Logger
	wait        func(ctx context.Context, d time.Duration) error
}

func NewRetrier(config RetryConfig, classifier ErrorClassifier, logger *slog.Logger) *Retrier {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		config:      config,
		isRetryable: classifier,
		logger:      logger,
		wait:        sleep,
	}
}

// Config returns the retry budget in use.
func (r *Retrier) Config() RetryConfig {
	return r.config
}

// Do runs operation until it succeeds, fails with a non-retryable error, or the
// attempt budget runs out. Non-retryable errors are returned unchanged.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			if attempt > 1 {
				r.logger.InfoContext(ctx, "operation succeeded after retry",
					"attempt", attempt,
					"total_duration_ms", time.Since(start).Milliseconds())
			}
			return nil
		}

		retryable := r.isRetryable != nil && r.isRetryable(lastErr)
		if !retryable {
			r.logger.WarnContext(ctx, "operation failed with non-retryable error",
				"attempt", attempt,
				"error", lastErr)
			return lastErr
		}

		if attempt == r.config.MaxAttempts {
			break
		}

		r.logger.WarnContext(ctx, "operation attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts,
			"error", lastErr,
			"retry_delay_ms", r.config.Delay.Milliseconds())

		if err := r.wait(ctx, r.config.Delay); err != nil {
			r.logger.ErrorContext(ctx, "retry cancelled by context",
				"attempt", attempt,
				"context_error", err)
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}

	r.logger.ErrorContext(ctx, "operation failed permanently",
		"attempts", r.config.MaxAttempts,
		"error", lastErr,
		"total_duration_ms", time.Since(start).Milliseconds())

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, r.config.MaxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
