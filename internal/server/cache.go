package server

import (
	"context"
	"sync"
	"time"

	"github.com/mj1618/rigi-cli/internal/model"
	"github.com/mj1618/rigi-cli/internal/platform"
)

// TreeCache provides a TTL-based cache in front of a tree reader. It
// implements platform.TreeReader.
type TreeCache struct {
	reader platform.TreeReader
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	snap      *model.Snapshot
	timestamp time.Time
}

// NewTreeCache creates a new cache. A ttl of 0 disables caching.
func NewTreeCache(reader platform.TreeReader, ttl time.Duration) *TreeCache {
	return &TreeCache{reader: reader, ttl: ttl, now: time.Now}
}

// ReadTree returns the cached snapshot if within TTL, otherwise reads fresh.
// Errors are never cached.
func (c *TreeCache) ReadTree(ctx context.Context) (*model.Snapshot, error) {
	if c.ttl <= 0 {
		return c.reader.ReadTree(ctx)
	}

	c.mu.Lock()
	if c.snap != nil && c.now().Sub(c.timestamp) < c.ttl {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	snap, err := c.reader.ReadTree(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snap = snap
	c.timestamp = c.now()
	c.mu.Unlock()

	return snap, nil
}

// Invalidate drops the cached snapshot.
func (c *TreeCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
