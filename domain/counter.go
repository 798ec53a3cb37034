// Package domain contains core domain types for visitboard.
package domain

import "strings"

// CounterKey names the single integer held by the counter store.
type CounterKey string

// DefaultCounterKey is the key the landing page increments.
const DefaultCounterKey CounterKey = "hits"

// IsValid reports whether the key can be sent to the store.
func (k CounterKey) IsValid() bool {
	return strings.TrimSpace(string(k)) != ""
}

// String returns the string representation of the counter key.
func (k CounterKey) String() string {
	return string(k)
}

// CounterBackend identifies which store implementation backs the counter.
type CounterBackend string

const (
	// CounterBackendRedis uses INCR against a Redis server.
	CounterBackendRedis CounterBackend = "redis"
	// CounterBackendSQLite uses an upsert against a local SQLite file.
	CounterBackendSQLite CounterBackend = "sqlite"
)

var validCounterBackends = map[CounterBackend]bool{
	CounterBackendRedis:  true,
	CounterBackendSQLite: true,
}

// IsValid returns true if the backend is a known implementation.
func (b CounterBackend) IsValid() bool {
	return validCounterBackends[b]
}
