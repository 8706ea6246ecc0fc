// Package workspace manages the metadata directory owned by the external
// dataset tool as an explicit resource handle: it can be probed, measured
// and destroyed, but its contents are opaque to this program.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/stevedipaola/f-kamu-cli/pkg/errors"
)

// ErrUnsafePath indicates a workspace path that would destroy data this
// program does not own (a filesystem root or the working directory itself).
var ErrUnsafePath = errors.New("unsafe workspace path")

// Workspace is a handle on the tool-owned metadata directory.
type Workspace struct {
	path string
	fs   afero.Fs
	l    *zap.Logger
}

// Option is a functional option for a workspace handle
type Option func(*Workspace)

// WithFs overrides the backing file system (used by tests)
func WithFs(fs afero.Fs) Option {
	return func(w *Workspace) {
		if fs != nil {
			w.fs = fs
		}
	}
}

// Logger overrides the zap logger used by this workspace
func Logger(l *zap.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.l = l
		}
	}
}

// New creates a handle on the metadata directory at path. The directory
// does not need to exist.
func New(path string, opts ...Option) *Workspace {
	w := &Workspace{
		path: path,
		fs:   afero.NewOsFs(),
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(w)
	}
	return w
}

// Path returns the location of the metadata directory.
func (w *Workspace) Path() string {
	return w.path
}

// Dir returns the directory the metadata directory lives in. Tool
// invocations run there so the tool resolves its own workspace.
func (w *Workspace) Dir() string {
	return filepath.Dir(w.path)
}

// Exists reports whether the metadata directory is present.
func (w *Workspace) Exists() (bool, error) {
	return afero.DirExists(w.fs, w.path)
}

// Reset removes the metadata directory and everything beneath it. A
// missing directory is not an error, so a reset is safe to repeat.
func (w *Workspace) Reset() error {
	cleaned := filepath.Clean(w.path)
	if cleaned == "" || cleaned == "." || cleaned == string(filepath.Separator) {
		return ErrUnsafePath.Wrap(fmt.Errorf("refusing to remove %q", w.path))
	}
	w.l.Info("resetting workspace", zap.String("path", cleaned))
	return w.fs.RemoveAll(cleaned)
}

// Size returns the cumulated size in bytes of the files under the
// metadata directory. A missing directory has size zero.
func (w *Workspace) Size() (int64, error) {
	exists, err := w.Exists()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	var total int64
	err = afero.Walk(w.fs, w.path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
