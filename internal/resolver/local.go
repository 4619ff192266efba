package resolver

import (
	"context"
	"path/filepath"

	"github.com/sasskit/base64load/internal/types"
	"github.com/spf13/afero"
)

// Local resolves source paths on a filesystem. Relative sources are joined
// with BaseDir; absolute sources are used verbatim.
type Local struct {
	Fs      afero.Fs
	BaseDir string
}

// NewLocal creates a Local resolver. If fs is nil, the OS filesystem is used.
func NewLocal(fs afero.Fs, baseDir string) *Local {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Local{Fs: fs, BaseDir: baseDir}
}

// Resolve reads the file the source names. The resolved path must be an
// existing regular file; a directory, a missing file, or an unreadable one
// all report ErrNotFound with the resolved path for diagnostics.
func (r *Local) Resolve(ctx context.Context, source string) (*Result, error) {
	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.BaseDir, path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := r.Fs.Stat(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrNotFound, Source: source, Detail: "resolved to " + path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &types.Error{Kind: types.ErrNotFound, Source: source, Detail: "resolved to " + path + ", not a regular file"}
	}

	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrNotFound, Source: source, Detail: "resolved to " + path, Err: err}
	}

	return &Result{Origin: path, Bytes: data}, nil
}
