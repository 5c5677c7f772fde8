// Package cache provides the caching layer shared by the CLI, the pipeline
// runner and the API server.
//
// A [Cache] stores opaque byte slices with a TTL. Three backends exist:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer] so that every consumer agrees on key
// layout. [ScopedKeyer] prefixes keys for per-tenant isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per kind of cached data.
const (
	// TTLEpic bounds how stale a fetched epic may be.
	TTLEpic = 10 * time.Minute

	// TTLHTTP applies to raw issue tracker responses.
	TTLHTTP = 10 * time.Minute

	// TTLLayout applies to computed layouts. Layout keys include the epic
	// content hash, so entries never go stale; the TTL only bounds size.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)
