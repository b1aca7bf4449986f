package assignment

import "sync"

type cacheKey struct {
	target string
	path   string
}

type cacheEntry[V any] struct {
	value V
	ok    bool
}

// Cache memoizes resolved assignments per target and object path. Misses are
// remembered too. It is safe for concurrent use.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry[V]
}

// NewCache creates an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[cacheKey]cacheEntry[V])}
}

// Load returns the cached result for (target, path), calling fill on the
// first query. When two callers race on the same key the first stored result
// is kept.
func (c *Cache[V]) Load(target, path string, fill func() (V, bool)) (V, bool) {
	key := cacheKey{target: target, path: path}

	c.mu.RLock()
	en, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return en.value, en.ok
	}

	value, found := fill()

	c.mu.Lock()
	defer c.mu.Unlock()
	if en, ok := c.entries[key]; ok {
		return en.value, en.ok
	}
	c.entries[key] = cacheEntry[V]{value: value, ok: found}
	return value, found
}

// Len returns the number of cached keys.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every cached result.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry[V])
	c.mu.Unlock()
}
