// Package lru provides a small thread-safe LRU cache with optional expiry.
package lru

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache is a fixed-capacity LRU cache. Entries older than the TTL are treated
// as missing; a zero TTL disables expiry.
type Cache[K comparable, V any] struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[K]*entry[K, V]
	head    *entry[K, V] // most recently used
	tail    *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key      K
	value    V
	storedAt time.Time
	prev     *entry[K, V]
	next     *entry[K, V]
}

// New creates a cache holding at most maxEntries values.
func New[K comparable, V any](maxEntries int, ttl time.Duration, clock clockwork.Clock) *Cache[K, V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[K]*entry[K, V]),
	}
}

// Get returns the cached value and promotes it to most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.expired(e) {
		c.remove(e)
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Put stores a value, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = now
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value, storedAt: now}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len returns the number of stored entries, including expired ones not yet
// reclaimed.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return c.ttl > 0 && c.clock.Since(e.storedAt) >= c.ttl
}

func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *Cache[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *Cache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
