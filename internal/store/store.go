package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/gamelib/internal/compat"
	bolt "go.etcd.io/bbolt"
)

var bucketCompat = []byte("compat")

// CompatStore implements compat.Persister using BoltDB.
// Entries are partitioned per display identity so switching GPUs never
// serves another device's results.
type CompatStore struct {
	db *bolt.DB
}

// NewCompatStore opens (or creates) the cache database under baseCacheDir.
func NewCompatStore(baseCacheDir, identity string) (*CompatStore, error) {
	dir := baseCacheDir
	if identity != "" {
		dir = filepath.Join(baseCacheDir, hashIdentity(identity))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "compat.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCompat)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CompatStore{db: db}, nil
}

func hashIdentity(identity string) string {
	normalized := strings.TrimSpace(strings.ToLower(identity))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close closes the database file.
func (s *CompatStore) Close() error {
	return s.db.Close()
}

// Load reads every stored entry. Undecodable values are skipped.
func (s *CompatStore) Load() (map[string]compat.Entry, error) {
	out := make(map[string]compat.Entry)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCompat)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e compat.Entry
			if json.Unmarshal(v, &e) != nil {
				return nil
			}
			out[string(k)] = e
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load compat cache: %w", err)
	}
	return out, nil
}

// Put writes a batch of entries in a single transaction.
func (s *CompatStore) Put(entries map[string]compat.Entry) error {
	encoded := make(map[string][]byte, len(entries))
	for k, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		encoded[k] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCompat)
		for k, data := range encoded {
			if err := b.Put([]byte(k), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear deletes every stored entry.
func (s *CompatStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketCompat); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketCompat)
		return err
	})
}
