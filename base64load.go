// Package base64load provides a stylesheet custom function that inlines a
// local file or remote URL as a base64 data URI.
//
// The function registers with a Sass compiler host under the signature
//
//	base64load($source, $mimetype: null)
//
// and answers each call with a double-quoted string literal such as
//
//	"data:image/png;base64,iVBORw0KGgo..."
//
// Basic usage:
//
//	host := &sass.Options{}
//	fn, err := base64load.Install(host)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// By default the function is synchronous: sources must be local files and
// the $mimetype argument is required. Enabling detection or remote access
// switches the function to asynchronous execution, where mimetypes may be
// detected from content and http/https sources are allowed:
//
//	fn, err := base64load.Install(host,
//	    base64load.WithDetect(true),
//	    base64load.WithRemote(true),
//	)
//
// Results are cached per function under the raw $source string, so a
// stylesheet referencing the same asset many times reads it once.
package base64load

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/afero"

	"github.com/sasskit/base64load/internal/encoder"
	"github.com/sasskit/base64load/internal/resolver"
	"github.com/sasskit/base64load/internal/sniff"
	"github.com/sasskit/base64load/internal/types"
	"github.com/sasskit/base64load/sass"
)

// Signature is the declaration the load function registers under.
const Signature = "base64load($source, $mimetype: null)"

// Function is a configured load function ready for registration with a
// host. Build one with New or Install; its execution mode is fixed at build
// time and it is safe for concurrent use.
type Function struct {
	baseDir string
	async   bool
	enc     encoder.Encoder
}

// New builds a load function from the options.
//
// The function is asynchronous exactly when detection or remote access is
// enabled; otherwise it is synchronous and never touches the network.
func New(opts ...Option) (*Function, error) {
	var cfg config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply default settings: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.fs == nil {
		cfg.fs = afero.NewOsFs()
	}
	if cfg.BaseDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		cfg.BaseDir = dir
	}
	if !cfg.cacheSet {
		cfg.cache = NewMemoryCache()
	}

	f := &Function{
		baseDir: cfg.BaseDir,
		async:   cfg.Detect || cfg.Remote,
	}

	encCfg := encoder.Config{
		Cache: cfg.cache,
		Local: resolver.NewLocal(cfg.fs, cfg.BaseDir),
	}
	if !f.async {
		f.enc = encoder.NewSync(encCfg)

		return f, nil
	}

	fetcher := cfg.fetcher
	if fetcher == nil && cfg.Remote {
		httpFetcher := resolver.NewHTTPFetcher()
		httpFetcher.MaxSize = cfg.MaxFetchSize
		if cfg.fetchTimeout > 0 {
			httpFetcher.Client.Timeout = cfg.fetchTimeout
		}
		fetcher = httpFetcher
	}

	sniffer := cfg.sniffer
	if sniffer == nil && cfg.Detect {
		sniffer = sniff.Content{}
	}

	encCfg.Remote = &resolver.Remote{Allowed: cfg.Remote, Fetcher: fetcher}
	encCfg.Sniffer = sniffer
	f.enc = encoder.NewAsync(encCfg)

	return f, nil
}

// Install builds a load function and registers it with the host in one
// call.
func Install(host *sass.Options, opts ...Option) (*Function, error) {
	f, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := f.Register(host); err != nil {
		return nil, err
	}

	return f, nil
}

// Register installs the function into the host's function table, creating
// the table when absent. Registration fails if the host already has an
// entry under the same signature; the existing entry is left untouched.
func (f *Function) Register(host *sass.Options) error {
	if host == nil {
		return &types.Error{Kind: types.ErrInvalidHostConfig}
	}
	if host.Functions == nil {
		host.Functions = make(map[string]sass.Callback)
	}
	if _, exists := host.Functions[Signature]; exists {
		return &types.Error{Kind: types.ErrDuplicateSignature, Detail: Signature}
	}

	host.Functions[Signature] = f.Callback()

	return nil
}

// Async reports whether the function runs asynchronously. Hosts that
// distinguish blocking from non-blocking custom functions dispatch on this.
func (f *Function) Async() bool {
	return f.async
}

// BaseDir returns the directory relative sources resolve against.
func (f *Function) BaseDir() string {
	return f.baseDir
}

// Callback returns the host callback implementing the function.
func (f *Function) Callback() sass.Callback {
	return func(ctx context.Context, args []sass.Value) (sass.Value, error) {
		call, err := validateArgs(args, !f.async)
		if err != nil {
			return nil, err
		}

		value, err := f.load(ctx, call)
		if err != nil {
			return nil, err
		}

		return sass.NewString(value), nil
	}
}

// Load runs the pipeline directly, outside the host calling convention.
// The arguments are validated exactly as a stylesheet call would be; pass
// "" for an omitted mimetype. The returned string includes the surrounding
// double quotes.
func (f *Function) Load(ctx context.Context, source, mimeType string) (string, error) {
	args := []sass.Value{sass.NewString(source)}
	if mimeType == "" {
		args = append(args, sass.Null{})
	} else {
		args = append(args, sass.NewString(mimeType))
	}

	call, err := validateArgs(args, !f.async)
	if err != nil {
		return "", err
	}

	return f.load(ctx, call)
}

// load runs the encode pipeline and verifies the produced literal before it
// reaches the host. A malformed result here is a bug in the pipeline, never
// a user error.
func (f *Function) load(ctx context.Context, call callArgs) (string, error) {
	value, err := f.enc.Encode(ctx, call.Source, call.Mime)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(value, `"data:`) || !strings.HasSuffix(value, `"`) || len(value) < 8 {
		return "", &types.Error{
			Kind:   types.ErrInternalInvariant,
			Source: call.Source,
			Mime:   call.Mime,
			Detail: "produced value is not a quoted data URI",
		}
	}

	return value, nil
}

// callArgs is one invocation's parsed arguments. Mime is "" when the call
// site passed null or omitted the second argument.
type callArgs struct {
	Source string
	Mime   string
}

// validateArgs parses and checks the positional argument values. All
// argument errors are reported from here so both execution modes reject
// malformed calls identically before any I/O happens.
func validateArgs(args []sass.Value, syncMode bool) (callArgs, error) {
	var call callArgs

	if len(args) == 0 {
		return call, &types.Error{Kind: types.ErrInvalidSourceType, Detail: "no arguments"}
	}

	source, ok := args[0].(sass.String)
	if !ok {
		return call, &types.Error{Kind: types.ErrInvalidSourceType, Detail: fmt.Sprintf("got %T", args[0])}
	}
	if source.Text == "" {
		return call, &types.Error{Kind: types.ErrInvalidSource}
	}
	call.Source = source.Text

	if syncMode && resolver.IsRemote(call.Source) {
		return call, &types.Error{Kind: types.ErrRemoteRequiresAsync, Source: call.Source}
	}

	supplied := false
	if len(args) > 1 && !sass.IsNull(args[1]) {
		mime, ok := args[1].(sass.String)
		if !ok {
			return call, &types.Error{Kind: types.ErrInvalidMime, Source: call.Source, Detail: fmt.Sprintf("got %T", args[1])}
		}
		supplied = true
		call.Mime = mime.Text
	}

	if syncMode && call.Mime == "" {
		return call, &types.Error{Kind: types.ErrMimeRequiredSync, Source: call.Source}
	}
	if supplied && call.Mime == "" {
		return call, &types.Error{Kind: types.ErrInvalidMime, Source: call.Source, Detail: "mimetype must not be empty"}
	}

	return call, nil
}
