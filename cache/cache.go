// Package cache memoizes backend reads under typed keys until a write
// invalidates them. There is no TTL.
package cache

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"

	"WorshipHub/logger"

	"golang.org/x/sync/singleflight"
)

// Cache is the request cache shared by every consumer of one API client.
type Cache struct {
	store  Store
	flight singleflight.Group

	// epoch moves on every invalidation; a load started under an older epoch
	// must not write its result back.
	mu    sync.Mutex
	epoch atomic.Uint64

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// New wraps store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// NewMemory returns a Cache backed by a fresh MemoryStore.
func NewMemory() *Cache {
	return New(NewMemoryStore())
}

// Store exposes the underlying store.
func (c *Cache) Store() Store {
	return c.store
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Fetch returns the cached value for key unless force is set or the entry is
// missing, in which case load is called and its result stored. Concurrent
// misses on the same key share one load. Load errors are returned and not
// cached, and neither are nil results. A load that overlaps an invalidation
// still answers its callers but leaves the store untouched.
func Fetch[T any](ctx context.Context, c *Cache, key Key, force bool, load func(context.Context) (T, error)) (T, error) {
	if !force {
		if v, ok := c.lookup(ctx, key); ok {
			if typed, ok := decode[T](v); ok {
				c.hits.Add(1)
				return typed, nil
			}
			logger.Warn("cache entry has unexpected shape, refetching", logger.String("key", key.String()))
		}
	}
	c.misses.Add(1)

	started := c.epoch.Load()
	flightKey := key.String() + "#" + strconv.FormatUint(started, 10)
	v, err, _ := c.flight.Do(flightKey, func() (interface{}, error) {
		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.storeLoaded(ctx, key, fresh, started)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, _ := v.(T)
	return typed, nil
}

func (c *Cache) storeLoaded(ctx context.Context, key Key, val interface{}, started uint64) {
	if isNil(val) {
		logger.Debug("empty result not cached", logger.String("key", key.String()))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch.Load() != started {
		logger.Debug("cache invalidated during load, result not stored", logger.String("key", key.String()))
		return
	}
	if err := c.store.Set(ctx, key, val); err != nil {
		logger.Warn("cache set failed", logger.String("key", key.String()), logger.ErrorField(err))
	}
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func (c *Cache) lookup(ctx context.Context, key Key) (interface{}, bool) {
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn("cache get failed, treating as miss", logger.String("key", key.String()), logger.ErrorField(err))
		return nil, false
	}
	return v, ok
}

// decode accepts either the stored value itself or its JSON form.
func decode[T any](v interface{}) (T, bool) {
	switch x := v.(type) {
	case T:
		return x, true
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(x, &out); err != nil {
			return out, false
		}
		return out, true
	}
	var zero T
	return zero, false
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) {
	c.mutate("invalidate", func() error { return c.store.Invalidate(ctx, keys...) })
}

// InvalidateKind drops every key of kind.
func (c *Cache) InvalidateKind(ctx context.Context, kind Kind) {
	c.mutate("invalidate kind "+string(kind), func() error { return c.store.InvalidateKind(ctx, kind) })
}

// InvalidatePrefix drops every key whose name starts with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	c.mutate("invalidate prefix "+prefix, func() error { return c.store.InvalidatePrefix(ctx, prefix) })
}

// InvalidateContaining drops every key whose name contains substr.
func (c *Cache) InvalidateContaining(ctx context.Context, substr string) {
	c.mutate("invalidate containing "+substr, func() error { return c.store.InvalidateContaining(ctx, substr) })
}

// Clear drops everything.
func (c *Cache) Clear(ctx context.Context) {
	c.mutate("clear", func() error { return c.store.Clear(ctx) })
}

// mutate runs an invalidation under the write lock and moves the epoch, so
// loads already in flight neither store their result nor absorb new callers.
// Errors are logged, never returned to the writer.
func (c *Cache) mutate(op string, run func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch.Add(1)
	if err := run(); err != nil {
		logger.Error("cache "+op+" failed", logger.ErrorField(err))
	}
}
