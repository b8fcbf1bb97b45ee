package syncdata

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// SnapshotCache holds one built snapshot with a TTL. A TTL of zero disables
// caching entirely: every Get rebuilds.
type SnapshotCache struct {
	mu    sync.RWMutex
	snap  *Snapshot
	built time.Time
	ttl   time.Duration
	sf    singleflight.Group
}

// NewSnapshotCache creates a snapshot cache with the given TTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl}
}

// expired reports whether the held snapshot is stale. Callers must hold at
// least a read lock.
func (c *SnapshotCache) expired() bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return time.Since(c.built) > c.ttl
}

// Get returns the cached snapshot, rebuilding it through build when missing
// or expired. Concurrent callers share one build via singleflight.
func (c *SnapshotCache) Get(ctx context.Context, build func(context.Context) (*Snapshot, error)) (*Snapshot, error) {
	// Fast path: cached and fresh.
	c.mu.RLock()
	snap := c.snap
	fresh := snap != nil && !c.expired()
	c.mu.RUnlock()

	if fresh {
		return snap, nil
	}

	result, err, _ := c.sf.Do("snapshot", func() (interface{}, error) {
		// Double-check after winning the singleflight slot.
		c.mu.RLock()
		snap := c.snap
		fresh := snap != nil && !c.expired()
		c.mu.RUnlock()

		if fresh {
			return snap, nil
		}

		newSnap, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.snap = newSnap
		c.built = time.Now()
		c.mu.Unlock()

		return newSnap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

// Invalidate drops the held snapshot so the next Get rebuilds.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}
