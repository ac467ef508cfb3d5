// Package cache provides byte-level storage backends for registry responses.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache in Redis, useful in CI fleets
//   - [NullCache]: never stores anything (--no-cache)
//
// All backends implement [Cache]. Entries carry their own TTL; an expired
// entry reads as a miss.
//
// # Keys
//
// A [Keyer] builds cache keys. Packument keys embed a digest of the registry
// URL, and [ScopedKeyer] adds a prefix such as a credential digest.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the payload for key. A missing or expired entry returns
	// hit=false and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
