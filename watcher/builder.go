package watcher

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Builder provides a fluent API for constructing a Watcher.
type Builder struct {
	store    Store
	baseDir  string
	debounce time.Duration
}

// New creates a new watcher Builder.
func New() *Builder {
	return &Builder{debounce: defaultDebounceInterval}
}

// WithStore sets the cache the watcher evicts from. Required.
func (b *Builder) WithStore(store Store) *Builder {
	b.store = store
	return b
}

// WithBaseDir sets the directory relative cache keys resolve against.
// Use the load function's base directory so keys map to the same files.
// Defaults to the process working directory.
func (b *Builder) WithBaseDir(dir string) *Builder {
	b.baseDir = dir
	return b
}

// WithDebounceInterval sets the debounce interval for file changes.
// Multiple rapid changes to one file coalesce into a single eviction.
//
// Default is 100 milliseconds.
func (b *Builder) WithDebounceInterval(interval time.Duration) *Builder {
	b.debounce = interval
	return b
}

// Build creates the Watcher with the configured options.
func (b *Builder) Build() (*Watcher, error) {
	if b.store == nil {
		return nil, &WatcherError{Message: "a store is required"}
	}

	baseDir := b.baseDir
	if baseDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, &WatcherError{Message: "failed to determine working directory", Err: err}
		}
		baseDir = dir
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &WatcherError{Message: "failed to create file watcher", Err: err}
	}

	return &Watcher{
		store:     b.store,
		baseDir:   baseDir,
		debounce:  b.debounce,
		fsWatcher: fsWatcher,
		keys:      make(map[string][]string),
	}, nil
}
