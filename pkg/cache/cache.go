// Package cache provides a small thread-safe LRU cache with hit and
// miss accounting.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
}

// EvictCallback runs when an entry is evicted to make room.
type EvictCallback[V any] func(key string, value V)

type entry[V any] struct {
	key   string
	value V
}

// LRU is a fixed-capacity cache that evicts the least recently used
// entry on overflow.
type LRU[V any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List
	evictFn EvictCallback[V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Option configures an LRU.
type Option[V any] func(*LRU[V])

// WithEvictCallback runs fn for every evicted entry.
func WithEvictCallback[V any](fn EvictCallback[V]) Option[V] {
	return func(c *LRU[V]) { c.evictFn = fn }
}

// NewLRU creates a cache holding at most maxSize entries. Sizes below
// one fall back to a single slot.
func NewLRU[V any](maxSize int, opts ...Option[V]) *LRU[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	c := &LRU[V]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.hits.Add(1)
	c.order.MoveToFront(element)
	return element.Value.(*entry[V]).value, true
}

// Set stores a value, evicting the least recently used entry if the
// cache is full.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		element.Value.(*entry[V]).value = value
		c.order.MoveToFront(element)
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})
	if c.order.Len() > c.maxSize {
		c.evictOldest()
	}
}

// Delete removes an entry. It reports whether the key was present.
func (c *LRU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return false
	}
	c.remove(element)
	return true
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry without running eviction callbacks.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Stats snapshots the hit, miss, and eviction counters.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	size := c.order.Len()
	c.mu.Unlock()

	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      size,
	}
}

func (c *LRU[V]) evictOldest() {
	element := c.order.Back()
	if element == nil {
		return
	}
	e := element.Value.(*entry[V])
	c.remove(element)
	c.evictions.Add(1)
	if c.evictFn != nil {
		c.evictFn(e.key, e.value)
	}
}

func (c *LRU[V]) remove(element *list.Element) {
	e := element.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(element)
}
