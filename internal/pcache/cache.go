// Package pcache provides a small persistent key→value cache used to warm
// substitution-table snapshots across process restarts (internal/substitution
// CachedLoader) and any other string→string state the pipeline's ambient
// components want to survive a restart.
//
// Two implementations are provided:
//   - memoryCache — in-memory only, used in tests and when no path is configured.
//   - bboltCache  — embedded key-value store (bbolt), used in production.
//
// A third wrapper, S3FIFO (s3fifo.go), fronts a Cache with a bounded
// in-memory eviction layer so a large remote source doesn't grow the hot set
// without limit.
package pcache

import (
	"fmt"
	"log"
	"sync"

	bolt "go.etcd.io/bbolt"
)

// Cache is the persistent key→value cache interface. All implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value for key, if present.
	Get(key string) (value string, ok bool)

	// Set stores key → value. Overwrites any existing entry silently.
	Set(key, value string)

	// Delete removes key, if present. A no-op if key is absent.
	Delete(key string)

	// Close releases any resources held by the cache (e.g. file handles).
	Close() error
}

// --- memoryCache ---------------------------------------------------------

type memoryCache struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemory returns a thread-safe in-memory Cache. Used in tests and as a
// fallback when no bbolt path is configured.
func NewMemory() Cache {
	return &memoryCache{store: make(map[string]string)}
}

func (c *memoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *memoryCache) Set(key, value string) {
	c.mu.Lock()
	c.store[key] = value
	c.mu.Unlock()
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
}

func (c *memoryCache) Close() error { return nil }

// --- bboltCache ----------------------------------------------------------

const bboltBucket = "pcache"

// bboltCache is a Cache backed by an embedded bbolt database. Entries
// survive process restarts. The database file is created at the given path
// if it does not exist.
type bboltCache struct {
	db *bolt.DB
}

// NewBbolt opens (or creates) the bbolt database at path and ensures the
// bucket exists.
func NewBbolt(path string) (Cache, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bbolt cache %q: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bboltBucket))
		return err
	}); err != nil {
		db.Close() //nolint:errcheck // best-effort close on init failure
		return nil, fmt.Errorf("create bbolt bucket: %w", err)
	}

	log.Printf("[PCACHE] persistent cache opened at %s", path)
	return &bboltCache{db: db}, nil
}

func (c *bboltCache) Get(key string) (string, bool) {
	var value string
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bboltBucket))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		log.Printf("[PCACHE] bbolt Get error: %v", err)
		return "", false
	}
	return value, value != ""
}

func (c *bboltCache) Set(key, value string) {
	if err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bboltBucket))
		if b == nil {
			return fmt.Errorf("bucket %q not found", bboltBucket)
		}
		return b.Put([]byte(key), []byte(value))
	}); err != nil {
		log.Printf("[PCACHE] bbolt Set error: %v", err)
	}
}

func (c *bboltCache) Delete(key string) {
	if err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bboltBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	}); err != nil {
		log.Printf("[PCACHE] bbolt Delete error: %v", err)
	}
}

func (c *bboltCache) Close() error {
	return c.db.Close()
}

// Open returns a Cache for path: a bbolt-backed cache if path is non-empty,
// falling back to an in-memory cache (and logging why) if bbolt cannot be
// opened. An empty path always yields an in-memory cache, suitable for tests
// and stateless deployments.
func Open(path string) Cache {
	if path == "" {
		return NewMemory()
	}
	c, err := NewBbolt(path)
	if err != nil {
		log.Printf("[PCACHE] failed to open persistent cache at %q, falling back to memory: %v", path, err)
		return NewMemory()
	}
	return c
}
