package base64load

import (
	"time"

	"github.com/spf13/afero"
)

// config holds the settings a load function is built with. New captures it
// once; later mutation of the inputs has no effect on the built function.
type config struct {
	Detect       bool
	Remote       bool
	BaseDir      string
	MaxFetchSize int64 `default:"16777216"`

	cache        Cache
	cacheSet     bool
	fs           afero.Fs
	fetcher      Fetcher
	sniffer      Sniffer
	fetchTimeout time.Duration
}

// Option configures a load function.
type Option func(*config)

// WithDetect enables mimetype detection from file content. Detection makes
// the function asynchronous.
func WithDetect(enabled bool) Option {
	return func(c *config) {
		c.Detect = enabled
	}
}

// WithRemote allows http and https sources. Remote access makes the
// function asynchronous.
func WithRemote(enabled bool) Option {
	return func(c *config) {
		c.Remote = enabled
	}
}

// WithBaseDir sets the directory relative sources resolve against.
// Defaults to the process working directory at the time New is called.
func WithBaseDir(dir string) Option {
	return func(c *config) {
		c.BaseDir = dir
	}
}

// WithCache sets the cache shared by invocations of the built function.
// Passing nil disables caching entirely. By default each function gets its
// own in-memory cache.
func WithCache(cache Cache) Option {
	return func(c *config) {
		c.cache = cache
		c.cacheSet = true
	}
}

// WithCacheMap uses an existing map as the cache, letting the caller
// inspect or prime entries directly. The map is used as-is, without
// synchronization; see MapCache. A nil map disables caching.
func WithCacheMap(m map[string]string) Option {
	return func(c *config) {
		if m == nil {
			c.cache = nil
		} else {
			c.cache = MapCache(m)
		}
		c.cacheSet = true
	}
}

// WithFilesystem sets the filesystem local sources are read from.
// Defaults to the host OS filesystem.
func WithFilesystem(fs afero.Fs) Option {
	return func(c *config) {
		c.fs = fs
	}
}

// WithFetcher overrides the transport used for remote sources. Only
// exercised when remote access is enabled; remote-disabled functions reject
// URL sources before consulting any fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *config) {
		c.fetcher = f
	}
}

// WithSniffer overrides the content inspection used for mimetype detection.
// Asynchronous functions consult it whenever neither the call site nor the
// transport supplied a mimetype.
func WithSniffer(s Sniffer) Option {
	return func(c *config) {
		c.sniffer = s
	}
}

// WithMaxFetchSize caps the size of a remote response body.
// Defaults to 16 MiB.
func WithMaxFetchSize(size ByteSize) Option {
	return func(c *config) {
		c.MaxFetchSize = size.Int64()
	}
}

// WithFetchTimeout bounds a remote fetch end to end, connection through
// body. Zero or negative keeps the default of 30 seconds. Ignored when a
// custom fetcher is supplied.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}
