// ABOUTME: Tests for the capability cache
// ABOUTME: Verifies TTL boundaries, nil safety, and concurrent first use
package salesforce

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCapabilityCacheTTLBoundary(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewCapabilityCacheWithClock(clock.Now)

	cache.Put("org-1", true)

	clock.Advance(59*time.Minute + 59*time.Second)
	value, ok := cache.Get("org-1")
	assert.True(t, ok, "entry should still be live just before the hour")
	assert.True(t, value)

	clock.Advance(2 * time.Second)
	_, ok = cache.Get("org-1")
	assert.False(t, ok, "entry should expire after the hour")
}

func TestCapabilityCachePurgesExpiredEntry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cache := NewCapabilityCacheWithClock(clock.Now)

	cache.Put("org-1", false)
	clock.Advance(2 * time.Hour)

	_, ok := cache.Get("org-1")
	assert.False(t, ok)

	_, stillStored := cache.table().Load("org-1")
	assert.False(t, stillStored, "expired entry should be deleted on lookup")
}

func TestCapabilityCacheMissAndOverwrite(t *testing.T) {
	cache := NewCapabilityCache()

	_, ok := cache.Get("unknown")
	assert.False(t, ok)

	cache.Put("org-1", true)
	cache.Put("org-1", false)

	value, ok := cache.Get("org-1")
	assert.True(t, ok)
	assert.False(t, value)
}

func TestCapabilityCacheNilNeverFails(t *testing.T) {
	var cache *CapabilityCache

	assert.NotPanics(t, func() {
		cache.Put("org-1", true)
		_, ok := cache.Get("org-1")
		assert.False(t, ok)
	})
}

func TestCapabilityCacheZeroValueUsable(t *testing.T) {
	var cache CapabilityCache

	cache.Put("org-1", true)
	value, ok := cache.Get("org-1")

	assert.True(t, ok)
	assert.True(t, value)
}

func TestCapabilityCacheConcurrentFirstUse(t *testing.T) {
	cache := NewCapabilityCache()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("org-%d", i%5)
			cache.Put(key, i%2 == 0)
			cache.Get(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		_, ok := cache.Get(fmt.Sprintf("org-%d", i))
		assert.True(t, ok)
	}
}
