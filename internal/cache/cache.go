package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// Store is the minimal key-value surface the cache needs.
// Keep this small interface so tests can fake it easily.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Metrics receives hit/miss counts; nil-safe via the noop default.
type Metrics interface {
	Hit(key string)
	Miss(key string)
}

type noopMetrics struct{}

func (noopMetrics) Hit(string)  {}
func (noopMetrics) Miss(string) {}

// Cache is a JSON read-through cache over a key-value store. A nil store
// disables caching entirely; every error path falls open to the source
// of truth, the cache is never a correctness dependency.
type Cache struct {
	store   Store
	log     *slog.Logger
	metrics Metrics
}

func New(store Store, log *slog.Logger) *Cache {
	return &Cache{
		store:   store,
		log:     log,
		metrics: noopMetrics{},
	}
}

func (c *Cache) WithMetrics(m Metrics) *Cache {
	if m != nil {
		c.metrics = m
	}

	return c
}

func (c *Cache) Enabled() bool {
	return c != nil && c.store != nil
}

// Get fetches and JSON-decodes into dest. Store errors and decode
// failures are both reported as a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.store.Get(ctx, key)

	if err != nil {
		c.metrics.Miss(keyLabel(key))
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.Debug("cache decode failed", "key", key, "err", err)
		c.metrics.Miss(keyLabel(key))
		return false
	}

	c.metrics.Hit(keyLabel(key))
	return true
}

// Set JSON-encodes and stores with expiry. Failures are swallowed.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(value)

	if err != nil {
		c.log.Debug("cache encode failed", "key", key, "err", err)
		return
	}

	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		c.log.Debug("cache set failed", "key", key, "err", err)
	}
}

// Fetch is the read-through wrapper: try the cache, fall back to fn and
// repopulate on miss. Concurrent misses for the same key may invoke fn
// redundantly; fn must be idempotent and side-effect free.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var cached T

	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	out, err := fn(ctx)

	if err != nil {
		return out, err
	}

	c.Set(ctx, key, out, ttl)

	return out, nil
}

// keyLabel keeps metric cardinality bounded: only the versioned prefix,
// never the full argument-bearing key.
func keyLabel(key string) string {
	if i := strings.Index(key, ":v"); i > 0 {
		return key[:i]
	}

	return key
}
