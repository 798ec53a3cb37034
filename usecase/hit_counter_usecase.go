// Package usecase contains business logic for visitboard.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"visitboard/domain"
	"visitboard/metrics"
	"visitboard/port"
)

const tracerName = "visitboard/usecase"

// HitCounterUsecase increments the visit counter shown on the landing page.
type HitCounterUsecase struct {
	counter port.HitCounterPort
	logger  *slog.Logger
}

// NewHitCounterUsecase creates a new HitCounterUsecase.
func NewHitCounterUsecase(counter port.HitCounterPort, logger *slog.Logger) *HitCounterUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &HitCounterUsecase{
		counter: counter,
		logger:  logger,
	}
}

// RecordVisit increments the counter and returns the new value.
func (u *HitCounterUsecase) RecordVisit(ctx context.Context) (int64, error) {
	backend := string(u.counter.Backend())
	ctx, span := otel.Tracer(tracerName).Start(ctx, "HitCounterUsecase.RecordVisit")
	defer span.End()
	span.SetAttributes(attribute.String("counter.backend", backend))

	start := time.Now()
	count, err := u.counter.IncrementAndFetch(ctx)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrConnectionExhausted) {
			status = "exhausted"
			metrics.SetCounterStoreUp(false)
		}
		metrics.RecordIncrement(backend, status, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, status)

		u.logger.ErrorContext(ctx, "failed to increment hit counter",
			"backend", backend,
			"status", status,
			"error", err,
		)
		return 0, err
	}

	metrics.RecordIncrement(backend, "success", elapsed)
	metrics.SetCounterStoreUp(true)
	span.SetAttributes(attribute.Int64("counter.value", count))

	return count, nil
}

// Ready reports whether the counter store answers a ping.
func (u *HitCounterUsecase) Ready(ctx context.Context) error {
	if err := u.counter.Ping(ctx); err != nil {
		metrics.SetCounterStoreUp(false)
		return err
	}
	metrics.SetCounterStoreUp(true)
	return nil
}

// Backend returns the name of the configured counter store.
func (u *HitCounterUsecase) Backend() domain.CounterBackend {
	return u.counter.Backend()
}
