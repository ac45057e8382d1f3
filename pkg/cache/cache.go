package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store keeps rendered page data between requests. Values are JSON encoded.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PageKey is the cache key of the data behind a server-rendered route.
func PageKey(path string) string {
	return "page:" + strings.TrimSuffix(path, "/")
}

// Remember returns the cached value for key, or runs load and caches its result.
// Cache failures never fail the read; load errors are returned as is.
func Remember[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if store != nil {
		if raw, err := store.Get(ctx, key); err == nil {
			var cached T
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if store != nil {
		if raw, err := json.Marshal(value); err == nil {
			_ = store.Set(ctx, key, raw, ttl)
		}
	}
	return value, nil
}
