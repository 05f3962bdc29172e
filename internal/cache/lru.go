// PriceWatch - Price Tracking and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pricewatch

package cache

import (
	"sync"
	"time"
)

type lruNode struct {
	key        string
	seenAt     time.Time
	expiresAt  time.Time
	prev, next *lruNode
}

// LRUCache is a bounded set of recently seen keys. Keys expire after ttl;
// when full, the least recently seen key is evicted.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*lruNode

	// head.next is the most recent node, tail.prev the oldest.
	head, tail *lruNode

	hits, misses int64
}

// NewLRUCache creates a set holding at most capacity keys for ttl each.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*lruNode, capacity),
		head:     &lruNode{},
		tail:     &lruNode{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// IsDuplicate reports whether key was seen within ttl. Unseen keys are
// recorded, so a second call with the same key returns true.
func (c *LRUCache) IsDuplicate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if n, ok := c.items[key]; ok {
		if !now.After(n.expiresAt) {
			c.unlink(n)
			c.pushFront(n)
			c.hits++
			return true
		}
		c.remove(n)
	}

	n := &lruNode{key: key, seenAt: now, expiresAt: now.Add(c.ttl)}
	c.pushFront(n)
	c.items[key] = n
	for len(c.items) > c.capacity {
		c.remove(c.tail.prev)
	}
	c.misses++
	return false
}

// Contains reports whether key is present and unexpired without touching
// its recency.
func (c *LRUCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	return ok && !time.Now().After(n.expiresAt)
}

// Forget removes key so the next IsDuplicate call accepts it.
func (c *LRUCache) Forget(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		c.remove(n)
		return true
	}
	return false
}

// CleanupExpired drops expired keys and returns how many were removed.
func (c *LRUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for n := c.tail.prev; n != c.head; {
		prev := n.prev
		if now.After(n.expiresAt) {
			c.remove(n)
			removed++
		}
		n = prev
	}
	return removed
}

// Len returns the number of stored keys.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns duplicate hits, first sightings and current size.
func (c *LRUCache) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// list helpers; callers hold mu.

func (c *LRUCache) pushFront(n *lruNode) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRUCache) unlink(n *lruNode) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *LRUCache) remove(n *lruNode) {
	if n == c.head || n == c.tail {
		return
	}
	c.unlink(n)
	delete(c.items, n.key)
}
