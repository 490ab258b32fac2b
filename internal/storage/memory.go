package storage

import (
	"bytes"
	"sync"

	todoerrors "github.com/abatilo/todos/internal/errors"
)

// MemoryBackend keeps values in process memory. Nothing survives the process.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, todoerrors.KeyNotFoundError{Key: key}
	}
	return bytes.Clone(v), nil
}

func (m *MemoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = bytes.Clone(value)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
