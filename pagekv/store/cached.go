package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/kapetan-io/tackle/set"
	"github.com/maypok86/otter"
	"github.com/samber/mo"

	"github.com/pagekv/pagekv-go/internal/iter"
)

// Cached wraps a Storage with a read-through cache of Get results. Absent
// keys are cached as well. Writes through Cached invalidate the cached entry;
// writes made directly to the wrapped Storage are not observed until the
// entry is evicted. Range is never cached.
type Cached struct {
	// mu orders cache fills against invalidation. Get holds the read lock from
	// the inner read until the fill, writes hold the write lock from the inner
	// write until the delete, so a fill never stores a value older than the
	// last write through Cached.
	mu    sync.RWMutex
	inner Storage
	cache otter.Cache[string, mo.Option[[]byte]]
	log   *slog.Logger
}

func NewCached(inner Storage, opts CacheOptions) (*Cached, error) {
	set.Default(&opts.Log, slog.Default())
	set.Default(&opts.Capacity, DefaultCacheOptions().Capacity)
	if opts.Capacity < 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", opts.Capacity)
	}

	cache, err := otter.MustBuilder[string, mo.Option[[]byte]](opts.Capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("while building store cache: %w", err)
	}
	opts.Log.Debug("store cache enabled", "capacity", opts.Capacity)

	return &Cached{
		inner: inner,
		cache: cache,
		log:   opts.Log,
	}, nil
}

func (c *Cached) Get(key []byte) (mo.Option[[]byte], error) {
	if value, ok := c.cache.Get(string(key)); ok {
		return cloneOption(value), nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	value, err := c.inner.Get(key)
	if err != nil {
		return mo.None[[]byte](), err
	}
	if !c.cache.Set(string(key), cloneOption(value)) {
		c.log.Debug("store cache rejected entry", "key", key)
	}
	return value, nil
}

func (c *Cached) Range(start, end []byte) (iter.KVIterator, error) {
	return c.inner.Range(start, end)
}

func (c *Cached) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer c.cache.Delete(string(key))
	return c.inner.Set(key, value)
}

func (c *Cached) Remove(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer c.cache.Delete(string(key))
	return c.inner.Remove(key)
}

// Close releases the cache. The wrapped Storage is left untouched.
func (c *Cached) Close() {
	c.cache.Close()
}

func cloneOption(v mo.Option[[]byte]) mo.Option[[]byte] {
	if b, ok := v.Get(); ok {
		return mo.Some(slices.Clone(b))
	}
	return v
}
