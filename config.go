package base64load

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	sigyaml "sigs.k8s.io/yaml"

	"github.com/sasskit/base64load/dircache"
)

// Config is the file-based configuration surface. It mirrors the Option
// surface for hosts that wire base64load from a settings file instead of
// code:
//
//	detect: true
//	remote: true
//	base_dir: ./assets
//	max_fetch_size: 4MiB
//	fetch_timeout: 10s
//	cache:
//	  type: dir
//	  dir: .cache/base64load
type Config struct {
	Detect       bool        `yaml:"detect" json:"detect"`
	Remote       bool        `yaml:"remote" json:"remote"`
	BaseDir      string      `yaml:"base_dir" json:"base_dir"`
	MaxFetchSize ByteSize    `yaml:"max_fetch_size" json:"max_fetch_size" default:"16777216"`
	FetchTimeout Duration    `yaml:"fetch_timeout,omitempty" json:"fetch_timeout,omitempty"`
	Cache        CacheConfig `yaml:"cache" json:"cache"`
}

// CacheConfig selects the cache backing a load function.
type CacheConfig struct {
	// Type selects the implementation: "memory", "dir" or "none".
	Type string `yaml:"type" json:"type" default:"memory" validate:"oneof=memory dir none"`

	// Dir is the root directory for the "dir" type.
	Dir string `yaml:"dir" json:"dir" validate:"required_if=Type dir"`
}

var configValidator = validator.New()

// LoadConfig reads a YAML or JSON settings file, layers BASE64LOAD_*
// environment overrides on top, applies defaults and validates the result.
// A nil fsys means the host OS filesystem.
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig parses raw YAML or JSON settings bytes, layering environment
// overrides, defaults and validation the same way LoadConfig does.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// Options converts the configuration into the equivalent functional options
// for New.
func (c *Config) Options() ([]Option, error) {
	opts := []Option{
		WithDetect(c.Detect),
		WithRemote(c.Remote),
		WithMaxFetchSize(c.MaxFetchSize),
	}
	if c.BaseDir != "" {
		opts = append(opts, WithBaseDir(c.BaseDir))
	}
	if c.FetchTimeout > 0 {
		opts = append(opts, WithFetchTimeout(c.FetchTimeout.Duration()))
	}

	switch c.Cache.Type {
	case "", "memory":
		// The default in-memory cache, nothing to wire.
	case "none":
		opts = append(opts, WithCache(nil))
	case "dir":
		store, err := dircache.New(c.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache directory %s: %w", c.Cache.Dir, err)
		}
		opts = append(opts, WithCache(store))
	default:
		return nil, fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}

	return opts, nil
}

// JSON renders the effective configuration as canonical JSON.
func (c *Config) JSON() ([]byte, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	out, err := sigyaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config to JSON: %w", err)
	}

	return out, nil
}

// applyEnv layers BASE64LOAD_* environment variables over the file values.
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("BASE64LOAD_DETECT"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BASE64LOAD_DETECT value %q: %w", v, err)
		}
		c.Detect = parsed
	}
	if v, ok := os.LookupEnv("BASE64LOAD_REMOTE"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BASE64LOAD_REMOTE value %q: %w", v, err)
		}
		c.Remote = parsed
	}
	if v, ok := os.LookupEnv("BASE64LOAD_BASE_DIR"); ok {
		c.BaseDir = v
	}
	if v, ok := os.LookupEnv("BASE64LOAD_MAX_FETCH_SIZE"); ok {
		parsed, err := ParseByteSize(v)
		if err != nil {
			return fmt.Errorf("invalid BASE64LOAD_MAX_FETCH_SIZE value %q: %w", v, err)
		}
		c.MaxFetchSize = parsed
	}
	if v, ok := os.LookupEnv("BASE64LOAD_FETCH_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BASE64LOAD_FETCH_TIMEOUT value %q: %w", v, err)
		}
		c.FetchTimeout = Duration(parsed)
	}
	if v, ok := os.LookupEnv("BASE64LOAD_CACHE_TYPE"); ok {
		c.Cache.Type = v
	}
	if v, ok := os.LookupEnv("BASE64LOAD_CACHE_DIR"); ok {
		c.Cache.Dir = v
	}

	return nil
}

// LoadDotenv loads environment variables from dotenv files before config
// parsing. Variables already present in the environment win; missing files
// are silently ignored so optional .env.local patterns work. With no
// arguments it loads ".env".
func LoadDotenv(files ...string) error {
	existing := existingFiles(files)
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// OverloadDotenv is LoadDotenv with the opposite precedence: values from
// the files replace variables already present in the environment.
func OverloadDotenv(files ...string) error {
	existing := existingFiles(files)
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Overload(existing...)
}

func existingFiles(files []string) []string {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}

	return existing
}
