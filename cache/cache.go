// Package cache stores extraction records keyed by the md5 of the
// normalized URL. Entries expire by comparing a stored timestamp against
// the read time; nothing evicts them in the background. A write race on the
// same key is last-write-wins: records are pure functions of the page at
// roughly the same moment, so staleness is bounded and harmless.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"github.com/leadlens/leadlens/models"
)

// entry holds a cached record with its creation timestamp.
type entry struct {
	record    models.ExtractionRecord
	createdAt time.Time
}

// Cache is an in-memory, TTL-bound record store safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	ttl        time.Duration
	maxEntries int
}

// New creates a Cache with the given TTL and capacity.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Cache{
		store:      make(map[string]*entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Key generates the cache key for a normalized URL.
func Key(normalizedURL string) string {
	sum := md5.Sum([]byte(normalizedURL))
	return hex.EncodeToString(sum[:])
}

// Get returns a copy of the cached record for the key, with Meta.Cached set,
// if the entry exists and is younger than the TTL. A stale entry reads the
// same as a missing one.
func (c *Cache) Get(key string) (*models.ExtractionRecord, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return nil, false
	}

	rec := e.record
	rec.Meta.Cached = true
	return &rec, true
}

// Set stores a record under the key, unconditionally overwriting any
// previous entry. At capacity a random entry is evicted to make room
// (map iteration order is random in Go).
func (c *Cache) Set(key string, rec *models.ExtractionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	stored := *rec
	stored.Meta.Cached = false
	c.store[key] = &entry{record: stored, createdAt: time.Now()}
}

// Len reports how many entries are currently stored, live or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
