package db

import (
	"context"
	"time"
)

// Store is the database facade used by the composition root.
type Store interface {
	Pinger
	CounterStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CounterStore provides integer counters with expiry.
type CounterStore interface {
	// Counter returns the value at key, or ErrKeyNotFound.
	Counter(ctx context.Context, key string) (int64, error)
	// IncrByWithTTL increments key and sets its TTL only when the key has none yet.
	// Both commands go out in one round trip. Returns the new value.
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}
