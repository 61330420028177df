package boltdb

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the embedded store.
const (
	BucketUsers           = "users"
	BucketUsersByEmail    = "users_by_email"
	BucketUsersByUsername = "users_by_username"
	BucketTasks           = "tasks"
)

// DefaultBuckets lists every top-level bucket the repositories rely on.
var DefaultBuckets = []string{
	BucketUsers,
	BucketUsersByEmail,
	BucketUsersByUsername,
	BucketTasks,
}

// Store wraps a BoltDB file holding users and tasks for single-node deployments.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string, buckets ...string) (*Store, error) {
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Update runs fn in a read-write transaction.
func (s *Store) Update(fn func(tx *bolt.Tx) error) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(fn)
}

// View runs fn in a read-only transaction.
func (s *Store) View(fn func(tx *bolt.Tx) error) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(fn)
}

// Ping verifies the file is open and readable.
func (s *Store) Ping() error {
	return s.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(BucketUsers)) == nil {
			return errors.New("boltdb: users bucket missing")
		}
		return nil
	})
}

// Count returns the number of keys in a top-level bucket.
func (s *Store) Count(bucket string) (int, error) {
	var count int
	err := s.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return bolt.ErrBucketNotFound
		}
		count = b.Stats().KeyN
		return nil
	})
	return count, err
}

// Reset drops and recreates the given buckets.
func (s *Store) Reset(buckets ...string) error {
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	return s.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}
