package ttlcache

import (
	"sync"
	"time"
)

// Cache is an in-process map of string keys to values with a fixed
// time-to-live. Expiry is checked lazily on Get; stale entries are removed at
// that point and never swept in the background. There is no capacity bound and
// Put is last-write-wins. The cache is safe for concurrent use within a single
// process and holds no state across restarts.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

type entry[V any] struct {
	storedAt time.Time
	value    V
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock overrides the time source, for deterministic tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key. A key that was never set, or whose
// entry is older than the TTL, reports absent; the stale entry is dropped.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(ent.storedAt) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Put stores value under key, replacing any previous entry and restarting its
// TTL.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{storedAt: c.now(), value: value}
}

// Delete removes the entry for key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
