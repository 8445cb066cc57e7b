// Package cache stores computed decomposition, layout and analysis results.
//
// # Backends
//
// Every backend implements [Cache], a byte-oriented key/value store with
// per-entry time-to-live:
//
//   - [FileCache]: one JSON entry file per key below a directory (CLI)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: never stores anything (caching disabled)
//
// [Compressed] wraps any backend with snappy block compression. Layer edge
// lists of large boards compress well.
//
// # Keys
//
// Keys are produced by a [Keyer]. The [DefaultKeyer] hashes the canonical
// graph document together with every option that influences the result, so
// a key changes whenever the result could change. [ScopedKeyer] prefixes
// keys for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLDecompose = 7 * 24 * time.Hour
	TTLLayout    = 7 * 24 * time.Hour
	TTLAnalysis  = 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeDecompose = "decompose"
	KeyTypeLayout    = "layout"
	KeyTypeAnalysis  = "analysis"
)
