package cache

import (
	"sync"
	"time"
)

// MemoryCache is an in-process snapshot store with a fixed TTL. There is no
// explicit delete; expired entries simply stop being returned.
type MemoryCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryItem
}

type memoryItem struct {
	snap      *Snapshot
	expiresAt time.Time
}

// Ensure MemoryCache implements SnapshotCache
var _ SnapshotCache = (*MemoryCache)(nil)

// NewMemoryCache creates a snapshot cache where entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memoryItem),
	}
}

// Get returns the stored snapshot for key, or a miss once it has expired.
func (c *MemoryCache) Get(key string) (*Snapshot, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().After(item.expiresAt) {
		return nil, false
	}
	return item.snap, true
}

// Set stores snap under key with the cache's TTL. Overwrites are
// idempotent; concurrent writers racing on the same key are harmless.
func (c *MemoryCache) Set(key string, snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryItem{snap: snap, expiresAt: c.now().Add(c.ttl)}
}
