// Package sop implements the procedure matching and execution sub-pipeline:
// a process-wide document cache, relevance scoring against issue text, and
// step-by-step execution through an action dispatcher.
package sop

import (
	"sync/atomic"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
)

// snapshot is one immutable generation of the cache. Refreshes swap the whole
// snapshot so concurrent readers never see a half-updated document set.
type snapshot struct {
	docs     []models.ProcedureDocument
	syncedAt time.Time
}

// CacheStatus describes the cache for the sync-status endpoint.
type CacheStatus struct {
	Count         int        `json:"documents_cached"`
	LastSync      *time.Time `json:"last_sync,omitempty"`
	CacheAgeHours float64    `json:"cache_age_hours,omitempty"`
}

// Cache holds the synced procedure documents. Read-mostly; document order is
// the sync order, which matcher tie-breaking depends on.
type Cache struct {
	current atomic.Pointer[snapshot]
	ttl     time.Duration
}

// NewCache creates an empty cache with the given time-to-live.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{ttl: ttl}
	c.current.Store(&snapshot{})
	return c
}

// Replace atomically swaps in a new document set.
func (c *Cache) Replace(docs []models.ProcedureDocument) {
	c.current.Store(&snapshot{docs: docs, syncedAt: time.Now()})
}

// Documents returns the current generation's documents in sync order. The
// returned slice must not be mutated.
func (c *Cache) Documents() []models.ProcedureDocument {
	return c.current.Load().docs
}

// Stale reports whether the cache has never been populated or has outlived
// its TTL.
func (c *Cache) Stale() bool {
	snap := c.current.Load()
	if snap.syncedAt.IsZero() {
		return true
	}
	return time.Since(snap.syncedAt) > c.ttl
}

// Status reports the current cache state.
func (c *Cache) Status() CacheStatus {
	snap := c.current.Load()
	status := CacheStatus{Count: len(snap.docs)}
	if !snap.syncedAt.IsZero() {
		t := snap.syncedAt
		status.LastSync = &t
		status.CacheAgeHours = time.Since(t).Hours()
	}
	return status
}
