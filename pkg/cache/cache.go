// Package cache provides payload caching for encoded catalog transfers.
//
// The server caches the bytes each codec produces, keyed per format, so
// repeated requests skip storage and encoding entirely. Two implementations
// exist: a Redis-backed cache for deployments and a null cache that
// disables caching without changing any call sites.
package cache

import (
	"context"
	"time"
)

// Cache stores encoded payloads by key with a time-to-live.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connections.
	Close() error
}

// PayloadKey returns the cache key for one format's encoded payload.
func PayloadKey(format string) string {
	return "payload:" + format
}
