package httputil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/observability"
)

// Cache stores decoded API responses as JSON in a [cache.Cache] backend.
//
// Keys are built with the backend's [cache.Keyer] (HTTPKey), so a Cache
// backed by a [cache.FileCache] in the CLI and by a [cache.RedisCache] in the
// server share one key layout.
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys, avoiding collisions between endpoints:
//
//	issues := c.Namespace("issues:")
//	subs := c.Namespace("sub_issues:")
//	issues.Set(ctx, "acme/web#12", issue)  // key becomes "http:github::issues:acme/web#12"
type Cache struct {
	backend   cache.Cache
	keyer     cache.Keyer
	ttl       time.Duration
	namespace string
	prefix    string
}

// NewCache creates a Cache writing through backend with the given TTL.
// A nil backend disables caching; a nil keyer uses [cache.NewDefaultKeyer].
// namespace identifies the API (e.g. "github:").
func NewCache(backend cache.Cache, keyer cache.Keyer, namespace string, ttl time.Duration) *Cache {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cache{backend: backend, keyer: keyer, ttl: ttl, namespace: namespace}
}

// TTL returns the time-to-live for cache entries.
// A TTL of 0 means cache entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
//
// It returns (true, nil) on a hit and (false, nil) on a miss. An entry that
// no longer decodes is dropped and reported as a miss. Backend failures are
// returned as errors; callers normally treat them as a miss.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.backend.Get(ctx, c.key(key))
	if err != nil {
		return false, err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "http")
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.backend.Delete(ctx, c.key(key))
		observability.Cache().OnCacheMiss(ctx, "http")
		return false, nil
	}
	observability.Cache().OnCacheHit(ctx, "http")
	return true, nil
}

// Set stores v as JSON under key, overwriting any existing entry.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.backend.Set(ctx, c.key(key), data, c.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, "http", len(data))
	return nil
}

// Delete removes the entry for key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, c.key(key))
}

// Namespace returns a view of the cache that prefixes all keys with prefix.
// The view shares the backend and TTL of its parent. Calls chain:
//
//	c.Namespace("repos:").Namespace("acme/web:")  // prefix: "repos:acme/web:"
func (c *Cache) Namespace(prefix string) *Cache {
	ns := *c
	ns.prefix = c.prefix + prefix
	return &ns
}

func (c *Cache) key(key string) string {
	return c.keyer.HTTPKey(c.namespace, c.prefix+key)
}
