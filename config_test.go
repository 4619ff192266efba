package base64load_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasskit/base64load"
)

func TestParseConfig(t *testing.T) {
	t.Run("yaml settings", func(t *testing.T) {
		cfg, err := base64load.ParseConfig([]byte(`
detect: true
remote: true
base_dir: /srv/assets
max_fetch_size: 4MiB
fetch_timeout: 10s
cache:
  type: dir
  dir: /var/cache/base64load
`))
		require.NoError(t, err)
		assert.True(t, cfg.Detect)
		assert.True(t, cfg.Remote)
		assert.Equal(t, "/srv/assets", cfg.BaseDir)
		assert.Equal(t, int64(4*1024*1024), cfg.MaxFetchSize.Int64())
		assert.Equal(t, 10*time.Second, cfg.FetchTimeout.Duration())
		assert.Equal(t, "dir", cfg.Cache.Type)
		assert.Equal(t, "/var/cache/base64load", cfg.Cache.Dir)
	})

	t.Run("json settings", func(t *testing.T) {
		cfg, err := base64load.ParseConfig([]byte(`{"detect": true, "max_fetch_size": "1MiB"}`))
		require.NoError(t, err)
		assert.True(t, cfg.Detect)
		assert.Equal(t, int64(1024*1024), cfg.MaxFetchSize.Int64())
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := base64load.ParseConfig([]byte("{}"))
		require.NoError(t, err)
		assert.False(t, cfg.Detect)
		assert.False(t, cfg.Remote)
		assert.Equal(t, int64(16*1024*1024), cfg.MaxFetchSize.Int64())
		assert.Zero(t, cfg.FetchTimeout)
		assert.Equal(t, "memory", cfg.Cache.Type)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("BASE64LOAD_DETECT", "true")
		t.Setenv("BASE64LOAD_BASE_DIR", "/env/assets")
		t.Setenv("BASE64LOAD_MAX_FETCH_SIZE", "1MiB")
		t.Setenv("BASE64LOAD_FETCH_TIMEOUT", "5s")
		t.Setenv("BASE64LOAD_CACHE_TYPE", "none")

		cfg, err := base64load.ParseConfig([]byte(`
detect: false
base_dir: /file/assets
max_fetch_size: 8MiB
fetch_timeout: 30s
`))
		require.NoError(t, err)
		assert.True(t, cfg.Detect)
		assert.Equal(t, "/env/assets", cfg.BaseDir)
		assert.Equal(t, int64(1024*1024), cfg.MaxFetchSize.Int64())
		assert.Equal(t, 5*time.Second, cfg.FetchTimeout.Duration())
		assert.Equal(t, "none", cfg.Cache.Type)
	})

	t.Run("invalid environment duration", func(t *testing.T) {
		t.Setenv("BASE64LOAD_FETCH_TIMEOUT", "soon")

		_, err := base64load.ParseConfig([]byte("{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BASE64LOAD_FETCH_TIMEOUT")
	})

	t.Run("invalid environment boolean", func(t *testing.T) {
		t.Setenv("BASE64LOAD_DETECT", "definitely")

		_, err := base64load.ParseConfig([]byte("{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BASE64LOAD_DETECT")
	})

	t.Run("invalid cache type", func(t *testing.T) {
		_, err := base64load.ParseConfig([]byte("cache:\n  type: bogus\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("dir cache requires a directory", func(t *testing.T) {
		_, err := base64load.ParseConfig([]byte("cache:\n  type: dir\n"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := base64load.ParseConfig([]byte("detect: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads from the filesystem", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/base64load.yaml", []byte("detect: true\n"), 0o644))

		cfg, err := base64load.LoadConfig(fs, "/etc/base64load.yaml")
		require.NoError(t, err)
		assert.True(t, cfg.Detect)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := base64load.LoadConfig(afero.NewMemMapFs(), "/etc/absent.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestConfig_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("builds an equivalent function", func(t *testing.T) {
		cfg, err := base64load.ParseConfig([]byte("detect: true\nbase_dir: /assets\n"))
		require.NoError(t, err)

		opts, err := cfg.Options()
		require.NoError(t, err)

		opts = append(opts, base64load.WithFilesystem(newAssetFs(t)))
		fn, err := base64load.New(opts...)
		require.NoError(t, err)
		assert.True(t, fn.Async())
		assert.Equal(t, "/assets", fn.BaseDir())

		value, err := fn.Load(ctx, "pixel.gif", "")
		require.NoError(t, err)
		assert.Equal(t, pixelURI, value)
	})

	t.Run("none disables caching", func(t *testing.T) {
		cfg, err := base64load.ParseConfig([]byte("cache:\n  type: none\n"))
		require.NoError(t, err)

		opts, err := cfg.Options()
		require.NoError(t, err)

		fs := newAssetFs(t)
		opts = append(opts, base64load.WithFilesystem(fs), base64load.WithBaseDir("/assets"))
		fn, err := base64load.New(opts...)
		require.NoError(t, err)

		_, err = fn.Load(ctx, "pixel.gif", "image/gif")
		require.NoError(t, err)

		require.NoError(t, fs.Remove("/assets/pixel.gif"))

		_, err = fn.Load(ctx, "pixel.gif", "image/gif")
		require.Error(t, err)
		assert.ErrorIs(t, err, base64load.ErrNotFound)
	})

	t.Run("dir cache persists across functions", func(t *testing.T) {
		cacheDir := t.TempDir()
		cfg := &base64load.Config{Cache: base64load.CacheConfig{Type: "dir", Dir: cacheDir}}

		opts, err := cfg.Options()
		require.NoError(t, err)

		opts = append(opts, base64load.WithBaseDir("/assets"))
		first, err := base64load.New(append(opts, base64load.WithFilesystem(newAssetFs(t)))...)
		require.NoError(t, err)

		value, err := first.Load(ctx, "pixel.gif", "image/gif")
		require.NoError(t, err)
		assert.Equal(t, pixelURI, value)

		// A fresh function over an empty filesystem still answers from the
		// cache directory.
		secondOpts, err := cfg.Options()
		require.NoError(t, err)
		secondOpts = append(secondOpts,
			base64load.WithBaseDir("/assets"),
			base64load.WithFilesystem(afero.NewMemMapFs()),
		)
		second, err := base64load.New(secondOpts...)
		require.NoError(t, err)

		value, err = second.Load(ctx, "pixel.gif", "image/gif")
		require.NoError(t, err)
		assert.Equal(t, pixelURI, value)
	})

	t.Run("unknown cache type", func(t *testing.T) {
		cfg := &base64load.Config{Cache: base64load.CacheConfig{Type: "weird"}}

		_, err := cfg.Options()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown cache type")
	})
}

func TestConfig_JSON(t *testing.T) {
	cfg, err := base64load.ParseConfig([]byte("detect: true\nbase_dir: /assets\n"))
	require.NoError(t, err)

	out, err := cfg.JSON()
	require.NoError(t, err)
	require.True(t, json.Valid(out))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, true, decoded["detect"])
	assert.Equal(t, "/assets", decoded["base_dir"])
	assert.Contains(t, decoded, "max_fetch_size")
	assert.Contains(t, decoded, "cache")
}

func TestDotenv(t *testing.T) {
	writeEnvFile := func(t *testing.T, content string) string {
		t.Helper()

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	t.Run("load sets unset variables", func(t *testing.T) {
		path := writeEnvFile(t, "BASE64LOAD_TEST_FROMFILE=fromfile\n")

		t.Setenv("BASE64LOAD_TEST_FROMFILE", "")
		require.NoError(t, os.Unsetenv("BASE64LOAD_TEST_FROMFILE"))

		require.NoError(t, base64load.LoadDotenv(path))
		assert.Equal(t, "fromfile", os.Getenv("BASE64LOAD_TEST_FROMFILE"))
	})

	t.Run("load respects existing variables", func(t *testing.T) {
		path := writeEnvFile(t, "BASE64LOAD_TEST_KEEP=fromfile\n")

		t.Setenv("BASE64LOAD_TEST_KEEP", "keep")

		require.NoError(t, base64load.LoadDotenv(path))
		assert.Equal(t, "keep", os.Getenv("BASE64LOAD_TEST_KEEP"))
	})

	t.Run("overload replaces existing variables", func(t *testing.T) {
		path := writeEnvFile(t, "BASE64LOAD_TEST_OVERRIDE=fromfile\n")

		t.Setenv("BASE64LOAD_TEST_OVERRIDE", "original")

		require.NoError(t, base64load.OverloadDotenv(path))
		assert.Equal(t, "fromfile", os.Getenv("BASE64LOAD_TEST_OVERRIDE"))
	})

	t.Run("missing files are ignored", func(t *testing.T) {
		assert.NoError(t, base64load.LoadDotenv(filepath.Join(t.TempDir(), "absent.env")))
		assert.NoError(t, base64load.OverloadDotenv(filepath.Join(t.TempDir(), "absent.env")))
	})
}
