package lru

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestCache_BasicGetPut(t *testing.T) {
	c := New[string, string](3, 0, nil)

	c.Put("a", "A")
	c.Put("b", "B")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Eviction(t *testing.T) {
	c := New[string, string](2, 0, nil)

	c.Put("a", "A")
	c.Put("b", "B")
	c.Put("c", "C") // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", v)

	v, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", v)
	assert.Equal(t, 2, c.Len())
}

func TestCache_AccessPromotesEntry(t *testing.T) {
	c := New[string, string](2, 0, nil)

	c.Put("a", "A")
	c.Put("b", "B")

	// Access "a" to promote it
	c.Get("a")

	// Insert "c", should evict "b" (LRU), not "a"
	c.Put("c", "C")

	_, ok := c.Get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestCache_UpdateExisting(t *testing.T) {
	c := New[string, string](2, 0, nil)

	c.Put("a", "A1")
	c.Put("a", "A2")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.November, 17, 12, 0, 0, 0, time.UTC))
	c := New[string, int](4, time.Minute, clock)

	c.Put("feed", 1)
	clock.Advance(59 * time.Second)
	v, ok := c.Get("feed")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(time.Second)
	_, ok = c.Get("feed")
	assert.False(t, ok, "entry should expire once the TTL has elapsed")
	assert.Equal(t, 0, c.Len())
}

func TestCache_PutRefreshesExpiry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.November, 17, 12, 0, 0, 0, time.UTC))
	c := New[string, int](4, time.Minute, clock)

	c.Put("feed", 1)
	clock.Advance(50 * time.Second)
	c.Put("feed", 2)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("feed")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_MinimumCapacity(t *testing.T) {
	c := New[int, int](0, 0, nil)
	c.Put(1, 1)
	c.Put(2, 2)
	assert.Equal(t, 1, c.Len())
}
