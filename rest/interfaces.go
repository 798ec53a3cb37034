// Package rest contains the echo handlers of visitboard.
package rest

import (
	"context"

	"visitboard/domain"
)

// VisitRecorder counts a landing page visit.
type VisitRecorder interface {
	RecordVisit(ctx context.Context) (int64, error)
}

// SummaryBuilder produces the dataset summary page model.
type SummaryBuilder interface {
	BuildSummary(ctx context.Context) domain.RenderedSummary
}

// ReadinessChecker reports whether the counter store is reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
	Backend() domain.CounterBackend
}
