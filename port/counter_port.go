// Package port defines interfaces for external dependencies.
package port

import (
	"context"

	"visitboard/domain"
)

// CounterPort defines the interface for an atomic-increment store.
type CounterPort interface {
	// Incr atomically increments key by one and returns the new value.
	// Transient connectivity failures wrap domain.ErrStoreUnavailable.
	Incr(ctx context.Context, key domain.CounterKey) (int64, error)

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// HitCounterPort is the retrying increment-and-fetch view of the counter store.
type HitCounterPort interface {
	// IncrementAndFetch returns the incremented counter value. It fails with
	// domain.ErrConnectionExhausted once the retry budget is spent.
	IncrementAndFetch(ctx context.Context) (int64, error)

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Backend names the store implementation.
	Backend() domain.CounterBackend
}
