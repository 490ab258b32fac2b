package storage

import (
	"os"
	"path/filepath"

	todoerrors "github.com/abatilo/todos/internal/errors"
)

// FileBackend stores each key as a JSON file inside a directory.
type FileBackend struct {
	basePath string
}

// NewFileBackend creates a FileBackend rooted at path. The directory is
// created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{basePath: path}
}

func (f *FileBackend) keyPath(key string) string {
	return filepath.Join(f.basePath, SanitizeKey(key)+fileExt)
}

func (f *FileBackend) Get(key string) ([]byte, error) {
	content, err := os.ReadFile(f.keyPath(key))
	if os.IsNotExist(err) {
		return nil, todoerrors.KeyNotFoundError{Key: key}
	}
	return content, err
}

// Set replaces the file atomically so readers in other processes never see a
// partial write.
func (f *FileBackend) Set(key string, value []byte) error {
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	if err := os.MkdirAll(f.basePath, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.basePath, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.keyPath(key))
}

func (f *FileBackend) Close() error {
	return nil
}
