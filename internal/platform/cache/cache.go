// Package cache provides a small JSON cache abstraction backed by Redis.
// It is used as a read-through cache in front of listing queries whose
// results change rarely relative to how often they are requested.
package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss indicates the requested key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores JSON-encoded values under string keys with a fixed TTL.
type Cache interface {
	// Get unmarshals the cached value for key into dest.
	// Returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string, dest any) error

	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
