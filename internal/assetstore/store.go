// Package assetstore defines the read-only key→blob store the asset
// handler resolves against, plus the fs.FS adapter used in production
// (go:embed) and in tests (fstest.MapFS).
package assetstore

import (
	"io"
	"io/fs"

	"github.com/keithlinneman/assetserve/internal/xerrors"
)

// ErrNotFound is returned by Open for keys that do not exist.
var ErrNotFound = xerrors.New("assetstore: not found")

// Store is a read-only key→blob store. Keys are POSIX-style relative paths
// with no leading slash. Implementations are immutable at runtime, so
// Exists and Open are expected to agree and need no locking.
type Store interface {
	Exists(key string) bool
	Open(key string) (io.ReadCloser, int64, error)
}

// FSStore adapts any fs.FS into a Store. Directories are not assets.
type FSStore struct {
	fsys fs.FS
}

func NewFS(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

func (s *FSStore) Exists(key string) bool {
	if key == "" || !fs.ValidPath(key) {
		return false
	}
	info, err := fs.Stat(s.fsys, key)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (s *FSStore) Open(key string) (io.ReadCloser, int64, error) {
	if key == "" || !fs.ValidPath(key) {
		return nil, 0, ErrNotFound
	}
	f, err := s.fsys.Open(key)
	if err != nil {
		return nil, 0, xerrors.Wrapf(ErrNotFound, "open %q: %v", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, xerrors.Wrapf(err, "stat %q", key)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, ErrNotFound
	}
	return f, info.Size(), nil
}
