package common

import (
	"context"
	"time"
)

// CacheInterface is the facet cache backend. Values read back from a shared
// backend may be generic JSON; callers go through DecodeCached.
type CacheInterface interface {
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores value for ttl. Write failures are logged, never returned.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)

	Delete(ctx context.Context, key string)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend in health output ("memory", "redis")
	Name() string

	Close() error
}
