// Package file keeps cart snapshots as one JSON file per key on a go-billy
// filesystem. Use osfs for a real profile directory and memfs in tests.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

const ext = ".json"

// Storage implements app.Storage on a billy.Filesystem.
type Storage struct {
	fs billy.Filesystem
}

// New returns a Storage rooted at the filesystem's root.
func New(fs billy.Filesystem) *Storage {
	return &Storage{fs: fs}
}

// Open returns a Storage rooted at dir on the local disk, creating dir.
//
//	st, err := file.Open(filepath.Join(home, ".storefront"))
func Open(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file: mkdir %q: %w", dir, err)
	}
	return New(osfs.New(dir)), nil
}

// Get reads <key>.json. A missing file reports ok=false.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := util.ReadFile(s.fs, key+ext)
	switch {
	case err == nil:
		return b, true, nil
	case os.IsNotExist(err):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("file: read %q: %w", key+ext, err)
	}
}

// Set replaces <key>.json. The value is written to a temp file first and
// renamed over the target so a reader never sees a partial snapshot.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	tmp, err := util.TempFile(s.fs, ".", key+ext+".tmp-")
	if err != nil {
		return fmt.Errorf("file: create temp for %q: %w", key, err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(name)
		return fmt.Errorf("file: write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(name)
		return fmt.Errorf("file: close %q: %w", name, err)
	}
	if err := s.fs.Rename(name, key+ext); err != nil {
		_ = s.fs.Remove(name)
		return fmt.Errorf("file: rename %q: %w", name, err)
	}
	return nil
}
