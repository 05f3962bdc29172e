// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/pricewatch/internal/metrics"
)

// defaultSweepInterval is how often expired entries are swept.
const defaultSweepInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// pendingLoad tracks GetOrLoad calls in flight for one key. Delete and
// Clear mark it stale so results loaded before the removal are not stored.
type pendingLoad struct {
	refs  int
	stale bool
}

// Cache is a thread-safe TTL cache.
type Cache[K comparable, V any] struct {
	name string
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[K]entry[V]
	pending map[K]*pendingLoad

	stats Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a cache whose entries live for ttl and starts its sweep
// goroutine. Call Close to stop it.
func New[K comparable, V any](name string, ttl time.Duration) *Cache[K, V] {
	return newWithSweep[K, V](name, ttl, defaultSweepInterval)
}

func newWithSweep[K comparable, V any](name string, ttl, sweep time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		name:    name,
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		pending: make(map[K]*pendingLoad),
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop(sweep)
	return c
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
		c.mu.Unlock()
		ok = false
	}

	c.record(ok)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(ttl)}
	c.stats.TotalKeys = int64(len(c.entries))
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// caching its result. Errors are not cached, and neither is a result whose
// key was deleted or cleared while load ran.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	p := c.pending[key]
	if p == nil {
		p = &pendingLoad{}
		c.pending[key] = p
	}
	p.refs++
	c.mu.Unlock()

	v, err := load()

	c.mu.Lock()
	defer c.mu.Unlock()
	p.refs--
	if p.refs == 0 && c.pending[key] == p {
		delete(c.pending, key)
	}
	if err != nil || p.stale {
		return v, err
	}
	c.entries[key] = entry[V]{value: v, expiresAt: time.Now().Add(c.ttl)}
	c.stats.TotalKeys = int64(len(c.entries))
	return v, nil
}

// Delete removes key.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p := c.pending[key]; p != nil {
		p.stale = true
		delete(c.pending, key)
	}
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
		c.stats.TotalKeys = int64(len(c.entries))
	}
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.pending {
		p.stale = true
	}
	c.pending = make(map[K]*pendingLoad)
	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[K]entry[V])
	c.stats.TotalKeys = 0
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the statistics.
func (c *Cache[K, V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns hits as a percentage of lookups.
func (c *Cache[K, V]) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// Close stops the sweep goroutine. It is safe to call more than once.
func (c *Cache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[K, V]) record(hit bool) {
	c.mu.Lock()
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()
	metrics.RecordCacheLookup(c.name, hit)
}

func (c *Cache[K, V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[K, V]) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
}
