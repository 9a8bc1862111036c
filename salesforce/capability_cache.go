// ABOUTME: Process-wide TTL cache of per-org schema capabilities
// ABOUTME: Lazily initialized, never fails, and treats expired entries as misses
package salesforce

import (
	"sync"
	"time"
)

// CapabilityTTL is how long a probed capability stays valid.
const CapabilityTTL = time.Hour

type capabilityEntry struct {
	value      bool
	insertedAt time.Time
}

// CapabilityCache remembers whether an org uses coded address fields. The zero
// value is ready to use, and a nil *CapabilityCache behaves as an always-miss
// cache. Concurrent Put calls for the same key are last-write-wins.
type CapabilityCache struct {
	once  sync.Once
	store *sync.Map
	now   func() time.Time
}

// NewCapabilityCache creates a cache with the default TTL and the wall clock.
func NewCapabilityCache() *CapabilityCache {
	return &CapabilityCache{}
}

// NewCapabilityCacheWithClock creates a cache that reads time from now.
func NewCapabilityCacheWithClock(now func() time.Time) *CapabilityCache {
	return &CapabilityCache{now: now}
}

func (c *CapabilityCache) table() *sync.Map {
	c.once.Do(func() {
		c.store = &sync.Map{}
	})
	return c.store
}

func (c *CapabilityCache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// Get returns the cached value for key and whether it was a live hit.
func (c *CapabilityCache) Get(key string) (value bool, ok bool) {
	if c == nil {
		return false, false
	}
	store := c.table()

	raw, found := store.Load(key)
	if !found {
		return false, false
	}
	entry, isEntry := raw.(capabilityEntry)
	if !isEntry {
		store.Delete(key)
		return false, false
	}
	if c.clock().Sub(entry.insertedAt) >= CapabilityTTL {
		store.CompareAndDelete(key, raw)
		return false, false
	}
	return entry.value, true
}

// Put records value for key, replacing any previous entry.
func (c *CapabilityCache) Put(key string, value bool) {
	if c == nil {
		return
	}
	c.table().Store(key, capabilityEntry{value: value, insertedAt: c.clock()})
}
