package base64load

import (
	"sync"

	"github.com/sasskit/base64load/internal/types"
)

// Cache stores final data URI strings keyed by the raw source argument of
// the call that produced them. Keys are never resolved paths or hashes, so
// a cache can be shared between functions with different base directories
// only when their sources cannot collide.
type Cache = types.Cache

// MapCache adapts a plain map to the Cache interface. It carries no
// synchronization; use it only when the host evaluates functions from a
// single goroutine.
type MapCache map[string]string

// Get returns the cached value for key.
func (m MapCache) Get(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// Set stores value under key.
func (m MapCache) Set(key, value string) {
	m[key] = value
}

// Evict removes the entry for key, if present.
func (m MapCache) Evict(key string) {
	delete(m, key)
}

// MemoryCache is an in-memory Cache safe for concurrent use. It is the
// default cache a load function is built with.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

// Get returns the cached value for key.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]

	return value, ok
}

// Set stores value under key.
func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Evict removes the entry for key, if present.
func (c *MemoryCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
