// Package cache implements the two-tier TTL cache in front of the
// external geocoding/suggestion service: a fast in-memory map backed by
// a durable kv.Store that survives restarts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"offerlens/internal/kv"
	applog "offerlens/internal/log"
)

// DefaultTTL is how long a looked-up value stays fresh.
const DefaultTTL = 5 * time.Minute

type Clock func() time.Time

type entry[T any] struct {
	Value  T         `json:"value"`
	Expiry time.Time `json:"expiry"`
}

// Cache is a two-tier TTL cache. Get consults memory first, then the
// durable tier, promoting durable hits into memory. Expired entries are
// purged lazily on read; there is no eager sweep and no size bound.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	mem     map[string]entry[T]
	durable kv.Store // nil disables the durable tier
}

// New builds a cache over the given durable store. A nil store keeps
// the cache memory-only; a nil clock uses time.Now.
func New[T any](durable kv.Store, ttl time.Duration, now Clock) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{ttl: ttl, now: now, mem: make(map[string]entry[T]), durable: durable}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	now := c.now()

	c.mu.Lock()
	if e, ok := c.mem[key]; ok {
		if now.Before(e.Expiry) {
			c.mu.Unlock()
			return e.Value, true
		}
		delete(c.mem, key)
	}
	c.mu.Unlock()

	if c.durable == nil {
		return zero, false
	}
	raw, ok, err := c.durable.GetItem(ctx, key)
	if err != nil {
		applog.Error(nil, "cache.durable.get.fail", err, map[string]any{"key": key})
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var e entry[T]
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		applog.Error(nil, "cache.durable.decode.fail", err, map[string]any{"key": key})
		_ = c.durable.RemoveItem(ctx, key)
		return zero, false
	}
	if !now.Before(e.Expiry) {
		if err := c.durable.RemoveItem(ctx, key); err != nil {
			applog.Error(nil, "cache.durable.remove.fail", err, map[string]any{"key": key})
		}
		return zero, false
	}

	// Promote the durable hit into the fast tier.
	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()
	return e.Value, true
}

// Set writes value into both tiers with expiry now+TTL. A durable-tier
// failure is logged and swallowed; the in-memory write always lands.
func (c *Cache[T]) Set(ctx context.Context, key string, value T) {
	e := entry[T]{Value: value, Expiry: c.now().Add(c.ttl)}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	if c.durable == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		applog.Error(nil, "cache.durable.encode.fail", err, map[string]any{"key": key})
		return
	}
	if err := c.durable.SetItem(ctx, key, string(raw)); err != nil {
		applog.Error(nil, "cache.durable.set.fail", err, map[string]any{"key": key})
	}
}

// CoordKey builds a cache key from coordinates rounded to two decimal
// places (~1 km), so nearby lookups share an entry.
func CoordKey(prefix string, lat, lng float64) string {
	return fmt.Sprintf("%s:%.2f,%.2f", prefix, lat, lng)
}

// TextKey builds a cache key from a free-text query, lower-cased to
// maximize the hit rate.
func TextKey(prefix, s string) string {
	return prefix + ":" + strings.ToLower(strings.TrimSpace(s))
}
