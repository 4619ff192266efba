// Package watcher invalidates cached data URIs when their source files
// change.
//
// A load function caches the encoded value for each source string, so a
// long-lived host keeps serving the first encoding even after the file on
// disk changes. The watcher bridges that gap: it watches the local files
// behind selected cache keys and evicts the corresponding entries when a
// file is written, replaced or removed, so the next call re-encodes.
//
// Basic usage:
//
//	cache := base64load.NewMemoryCache()
//	w, err := watcher.New().
//	    WithStore(cache).
//	    WithBaseDir(fn.BaseDir()).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
//	_ = w.Add("images/logo.png")
//
//	evicted, err := w.Watch()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go func() {
//	    for key := range evicted {
//	        log.Printf("re-encoding %s on next use", key)
//	    }
//	}()
//
// # Thread Safety
//
// The Watcher is safe for concurrent use. Eviction notifications are
// best effort: when nobody drains the channel, they are dropped while the
// evictions themselves still happen.
package watcher

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store is the cache surface the watcher evicts from. The base64load
// caches and dircache.Cache satisfy it.
type Store interface {
	Evict(key string)
}

// defaultDebounceInterval coalesces rapid successive writes to one file
// into a single eviction.
const defaultDebounceInterval = 100 * time.Millisecond

// evictBuffer is the capacity of the notification channel.
const evictBuffer = 16

// Watcher monitors the local files behind cache keys and evicts entries
// when the files change.
type Watcher struct {
	store     Store
	baseDir   string
	debounce  time.Duration
	fsWatcher *fsnotify.Watcher

	stopChan  chan struct{}
	doneChan  chan struct{}
	evictChan chan string

	mu      sync.Mutex
	running bool
	stopped bool
	keys    map[string][]string // watched path -> cache keys
}

// Add registers a cache key whose source names a local file. Relative keys
// resolve against the watcher's base directory, the same way the load
// function resolves them. The file is watched from now on.
func (w *Watcher) Add(key string) error {
	path := key
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.baseDir, path)
	}
	path = filepath.Clean(path)

	if err := w.fsWatcher.Add(path); err != nil {
		return &WatcherError{Message: "failed to watch " + path, Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !slices.Contains(w.keys[path], key) {
		w.keys[path] = append(w.keys[path], key)
	}

	return nil
}

// Remove unregisters a cache key. The watch on the underlying file is
// dropped once no key references it.
func (w *Watcher) Remove(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, keys := range w.keys {
		idx := slices.Index(keys, key)
		if idx < 0 {
			continue
		}

		keys = slices.Delete(keys, idx, idx+1)
		if len(keys) == 0 {
			delete(w.keys, path)
			_ = w.fsWatcher.Remove(path)
		} else {
			w.keys[path] = keys
		}
	}
}

// Watch starts the invalidation loop. It returns a channel that receives
// the evicted cache keys; the channel is closed when Stop is called and
// may drop notifications when nobody drains it.
func (w *Watcher) Watch() (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil, &WatcherError{Message: "watcher is stopped"}
	}
	if w.running {
		return nil, &WatcherError{Message: "watcher is already running"}
	}

	w.running = true
	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})
	w.evictChan = make(chan string, evictBuffer)

	go w.watchLoop()

	return w.evictChan, nil
}

// Stop gracefully stops the watcher and releases the file watches.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopChan)
		<-w.doneChan // wait for watchLoop to finish
	}

	_ = w.fsWatcher.Close()
}

// watchLoop is the main loop reacting to file events.
func (w *Watcher) watchLoop() {
	defer close(w.doneChan)
	defer close(w.evictChan)

	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors

	// Debounce timer coalescing bursts of events.
	var debounceTimer *time.Timer
	var debounceChan <-chan time.Time

	pending := make(map[string]struct{})

	schedule := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.NewTimer(w.debounce)
		debounceChan = debounceTimer.C
	}

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending[filepath.Clean(event.Name)] = struct{}{}
				schedule()
			}

		case _, ok := <-errs:
			// Watch errors are not fatal; keep watching.
			if !ok {
				errs = nil
			}

		case <-debounceChan:
			debounceChan = nil
			for path := range pending {
				delete(pending, path)
				for _, key := range w.keysFor(path) {
					w.store.Evict(key)
					select {
					case w.evictChan <- key:
					default:
					}
				}
			}
		}
	}
}

func (w *Watcher) keysFor(path string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.keys[path])
}

// WatcherError represents a watcher-specific error.
type WatcherError struct {
	Message string
	Err     error
}

func (e *WatcherError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *WatcherError) Unwrap() error {
	return e.Err
}
