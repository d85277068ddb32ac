package folio

import (
	"sync"
	"time"
)

// EntryCache is an in-memory TTL cache of collections in front of a
// ContentStore.
type EntryCache struct {
	mu      sync.RWMutex
	store   ContentStore
	ttl     time.Duration
	entries map[string]cachedCollection
}

type cachedCollection struct {
	entries []Entry
	fetched time.Time
}

// NewEntryCache creates an EntryCache backed by the given store.
func NewEntryCache(s ContentStore, ttl time.Duration) *EntryCache {
	return &EntryCache{store: s, ttl: ttl, entries: make(map[string]cachedCollection)}
}

func (c *EntryCache) lookup(collection string) ([]Entry, bool) {
	cc, ok := c.entries[collection]
	if !ok || time.Since(cc.fetched) >= c.ttl {
		return nil, false
	}
	return cc.entries, true
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *EntryCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cachedCollection)
	c.mu.Unlock()
}

// Entries returns the cached collection, reloading it when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *EntryCache) Entries(collection string) ([]Entry, error) {
	c.mu.RLock()
	if entries, ok := c.lookup(collection); ok {
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if entries, ok := c.lookup(collection); ok {
		return entries, nil
	}
	entries, err := c.store.Entries(collection)
	if err != nil {
		return nil, err
	}
	c.entries[collection] = cachedCollection{entries: entries, fetched: time.Now()}
	return entries, nil
}

// Entry returns a single entry from the cached collection.
func (c *EntryCache) Entry(collection, id string) (Entry, error) {
	entries, err := c.Entries(collection)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}
