// Package dircache provides a persistent cache for encoded data URIs,
// storing one JSON entry per source under a hash-addressed directory
// layout. It survives process restarts, so unchanged assets are never read
// or fetched twice across builds.
package dircache

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// Cache is an on-disk cache safe for concurrent use within one process.
// Entries live under <root>/entries/<2-hex>/<xxhash>.json. The raw source
// string is stored inside each entry; the hash only addresses the file.
type Cache struct {
	mu   sync.RWMutex
	fs   afero.Fs
	root string
}

// entry is the stored form of one cached value. Source keeps the raw key so
// a hash collision reads as a miss instead of a wrong value.
type entry struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithFs sets the filesystem the cache stores entries on.
// Defaults to the host OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(c *Cache) {
		c.fs = fsys
	}
}

// New opens the cache rooted at dir, creating the layout when absent.
func New(dir string, opts ...Option) (*Cache, error) {
	c := &Cache{fs: afero.NewOsFs(), root: dir}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.fs.MkdirAll(filepath.Join(dir, "entries"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	return c, nil
}

// Get returns the cached value for key. Unreadable or foreign entry files
// read as misses.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := afero.ReadFile(c.fs, c.entryPath(key))
	if err != nil {
		return "", false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Source != key {
		return "", false
	}

	return e.Value, true
}

// Set stores value under key, dropping the value when the write fails.
func (c *Cache) Set(key, value string) {
	_ = c.Put(key, value)
}

// Put stores value under key and reports write failures.
func (c *Cache) Put(key, value string) error {
	data, err := json.Marshal(entry{Source: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	path := c.entryPath(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache bucket: %w", err)
	}
	if err := afero.WriteFile(c.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Evict removes the entry for key, if present.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.fs.Remove(c.entryPath(key))
}

// Root returns the directory the cache stores entries under.
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) entryPath(key string) string {
	sum := fmt.Sprintf("%016x", xxhash.Sum64String(key))
	return filepath.Join(c.root, "entries", sum[:2], sum+".json")
}
