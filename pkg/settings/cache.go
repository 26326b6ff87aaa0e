package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bracketforge/notify/pkg/logger"
)

// Loader fetches the current value from its source of truth.
type Loader[T any] func(ctx context.Context) (T, error)

// Cache is an explicit short-TTL value cache: it holds one value together
// with its expiry and refreshes through the loader when the value goes stale.
// There is no hidden module-level state; the component that needs the value
// owns the cache instance.
type Cache[T any] struct {
	loader Loader[T]
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	value  T
	expiry time.Time
	primed bool
}

// CacheOption configures a Cache.
type CacheOption[T any] func(*Cache[T])

// WithCacheLogger sets the logger for the Cache.
func WithCacheLogger[T any](log *slog.Logger) CacheOption[T] {
	return func(c *Cache[T]) {
		c.logger = log
	}
}

// NewCache creates a cache around the loader. A non-positive ttl disables
// caching entirely: every Current call hits the loader.
func NewCache[T any](loader Loader[T], ttl time.Duration, opts ...CacheOption[T]) *Cache[T] {
	c := &Cache[T]{
		loader: loader,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the cached value, refreshing it first when expired. A
// failed refresh falls back to the last known value (stale reads beat
// blocking delivery on a settings source outage) and only errors when no
// value was ever loaded.
func (c *Cache[T]) Current(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primed && time.Now().Before(c.expiry) {
		return c.value, nil
	}

	value, err := c.loader(ctx)
	if err != nil {
		if c.primed {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "settings refresh failed, serving stale value",
				logger.Error(err),
			)
			return c.value, nil
		}
		var zero T
		return zero, err
	}

	c.value = value
	c.expiry = time.Now().Add(c.ttl)
	c.primed = true
	return c.value, nil
}

// Refresh forces a reload through the loader regardless of expiry.
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, err := c.loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.value = value
	c.expiry = time.Now().Add(c.ttl)
	c.primed = true
	return c.value, nil
}

// Static returns a loader that always yields the given value, for
// deployments without a dynamic settings source and for tests.
func Static[T any](value T) Loader[T] {
	return func(context.Context) (T, error) {
		return value, nil
	}
}

// FromRedis returns a loader that reads a JSON-encoded value from a Redis
// key, letting every service instance observe the same switches. A missing
// key yields the zero value: absent settings mean nothing is switched off.
func FromRedis[T any](client redis.UniversalClient, key string) Loader[T] {
	return func(ctx context.Context) (T, error) {
		var value T
		raw, err := client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return value, nil
			}
			return value, err
		}
		if err := json.Unmarshal(raw, &value); err != nil {
			return value, err
		}
		return value, nil
	}
}
