package storage

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abatilo/todos/internal/config"
	todoerrors "github.com/abatilo/todos/internal/errors"
)

const (
	boltFileName   = "todos.db"
	boltBucket     = "todos"
	sqliteFileName = "todos.sqlite"
	fileExt        = ".json"
)

// Backend is a key-value persistence layer holding whole serialized snapshots.
// Get returns errors.KeyNotFoundError when the key has never been written.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// OpenBackend creates the backend named in cfg rooted at cfg.Path.
func OpenBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileBackend(cfg.Path), nil
	case "bolt":
		return OpenBolt(filepath.Join(cfg.Path, boltFileName), boltBucket)
	case "sqlite":
		return OpenSQLite(filepath.Join(cfg.Path, sqliteFileName))
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, todoerrors.UnknownBackendError{Name: cfg.Backend}
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeKey converts a storage key to a safe file name stem.
// "work/todo list" -> "work-todo-list"
func SanitizeKey(key string) string {
	result := unsafeKeyChars.ReplaceAllString(key, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return "default"
	}
	return result
}
