package kvstore

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileBackend stores each named collection as <dir>/<name>.json.
type FileBackend struct {
	dir string
}

var _ Backend = (*FileBackend)(nil)

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Get(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "reading "+name)
	}
	return data, true, nil
}

func (b *FileBackend) Set(name string, data []byte) error {
	// write-then-rename so a crash mid-write never corrupts the collection
	tmp := b.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "writing "+name)
	}
	return errors.Wrap(os.Rename(tmp, b.path(name)), "replacing "+name)
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+".json")
}
