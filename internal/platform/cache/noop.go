package cache

import "context"

// NoopCache is a Cache that stores nothing. Every Get is a miss.
// Useful when caching is disabled or in tests that do not exercise it.
type NoopCache struct{}

var _ Cache = NoopCache{}

func (NoopCache) Get(ctx context.Context, key string, dest any) error { return ErrCacheMiss }

func (NoopCache) Set(ctx context.Context, key string, value any) error { return nil }

func (NoopCache) Delete(ctx context.Context, keys ...string) error { return nil }
