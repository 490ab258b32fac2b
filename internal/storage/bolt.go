package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	todoerrors "github.com/abatilo/todos/internal/errors"
)

// BoltBackend stores keys in a single BoltDB bucket.
type BoltBackend struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (or creates) the BoltDB file and ensures the bucket exists.
func OpenBolt(path string, bucket string) (*BoltBackend, error) {
	if bucket == "" {
		bucket = boltBucket
	}
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltBackend{db: db, bucket: []byte(bucket)}, nil
}

func (b *BoltBackend) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(key))
		if v == nil {
			return todoerrors.KeyNotFoundError{Key: key}
		}
		// v is only valid inside the transaction
		value = bytes.Clone(v)
		return nil
	})
	return value, err
}

func (b *BoltBackend) Set(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), value)
	})
}

func (b *BoltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
