package domain

import "errors"

var (
	// ErrStoreUnavailable marks a transient connectivity failure of the counter store.
	// Only errors wrapping this sentinel are retried.
	ErrStoreUnavailable = errors.New("counter store unavailable")

	// ErrConnectionExhausted is returned once the counter store stayed unreachable
	// for the whole retry budget.
	ErrConnectionExhausted = errors.New("counter store connection exhausted")

	// ErrDataUnavailable covers a missing, unreadable, malformed or empty dataset.
	ErrDataUnavailable = errors.New("dataset unavailable")

	// ErrRenderFailure is returned when the survival chart could not be produced.
	ErrRenderFailure = errors.New("chart render failure")
)
