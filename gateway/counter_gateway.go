// Package gateway provides anti-corruption layer implementations.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"visitboard/domain"
	"visitboard/metrics"
	"visitboard/port"
	"visitboard/retry"
)

// CounterGateway implements HitCounterPort on top of a CounterPort driver,
// retrying transient connectivity failures with a fixed delay.
type CounterGateway struct {
	driver  port.CounterPort
	key     domain.CounterKey
	backend domain.CounterBackend
	retrier *retry.Retrier
}

// NewCounterGateway creates a new CounterGateway.
func NewCounterGateway(driver port.CounterPort, key domain.CounterKey, backend domain.CounterBackend, cfg retry.RetryConfig, logger *slog.Logger) *CounterGateway {
	if logger == nil {
		logger = slog.Default()
	}
	retryLogger := logger.With("component", "counter_gateway", "backend", string(backend), "key", key.String())

	return &CounterGateway{
		driver:  driver,
		key:     key,
		backend: backend,
		retrier: retry.NewRetrier(cfg, isStoreUnavailable, retryLogger),
	}
}

// IncrementAndFetch increments the counter by one and returns the new value.
func (g *CounterGateway) IncrementAndFetch(ctx context.Context) (int64, error) {
	if !g.key.IsValid() {
		return 0, fmt.Errorf("invalid counter key %q", g.key)
	}

	var value int64
	attempt := 0
	err := g.retrier.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			metrics.RecordRetry(string(g.backend))
		}

		v, err := g.driver.Incr(ctx, g.key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return 0, fmt.Errorf("%w: %w", domain.ErrConnectionExhausted, err)
		}
		return 0, err
	}

	return value, nil
}

// Ping checks if the counter store is available.
func (g *CounterGateway) Ping(ctx context.Context) error {
	return g.driver.Ping(ctx)
}

// Backend returns the configured store implementation.
func (g *CounterGateway) Backend() domain.CounterBackend {
	return g.backend
}

func isStoreUnavailable(err error) bool {
	return errors.Is(err, domain.ErrStoreUnavailable)
}
