// Package cache provides a small in-memory snapshot cache so a burst of
// dashboard refreshes does not turn into a burst of SP-API calls.
package cache

import (
	"sync"
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// CachedSnapshot holds one cached fetch result.
type CachedSnapshot struct {
	Snapshot *models.MetricsSnapshot
	Status   models.SourceStatus
}

// entry wraps a cached snapshot with expiry and insertion order tracking.
type entry struct {
	cached    CachedSnapshot
	expiry    time.Time
	insertIdx int64
}

// SnapshotCache caches fetch results keyed by period.
// Thread-safe with sync.RWMutex; expiry is lazy.
type SnapshotCache struct {
	mu         sync.RWMutex
	items      map[models.Period]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a SnapshotCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *SnapshotCache {
	return &SnapshotCache{
		items:      make(map[models.Period]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns a cached result if found and not expired.
func (c *SnapshotCache) Get(period models.Period) (CachedSnapshot, bool) {
	c.mu.RLock()
	e, ok := c.items[period]
	c.mu.RUnlock()

	if !ok {
		return CachedSnapshot{}, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[period]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, period)
		}
		c.mu.Unlock()
		return CachedSnapshot{}, false
	}

	return e.cached, true
}

// Set stores a result in the cache. Evicts the oldest entry if at capacity.
func (c *SnapshotCache) Set(period models.Period, cached CachedSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		cached:    cached,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[period]; exists {
		c.items[period] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[period] = e
}

// Clear drops all entries. Used by the dashboard's refresh action.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[models.Period]entry)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *SnapshotCache) evictOldest() {
	var oldestKey models.Period
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
