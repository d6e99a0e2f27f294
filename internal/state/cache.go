package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"metal-rates/internal/storage"
)

// SnapshotCache owns the last successfully built response document. It is
// purely last-write/last-read; it never refreshes or repairs itself.
type SnapshotCache struct {
	mu    sync.Mutex
	store storage.DocumentStore
}

// NewSnapshotCache constructs the cache gateway.
func NewSnapshotCache(store storage.DocumentStore) *SnapshotCache {
	return &SnapshotCache{store: store}
}

// Get returns the last snapshot document, or ok=false when none exists.
func (c *SnapshotCache) Get(ctx context.Context) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.store.Get(ctx, storage.KeySnapshot)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	return doc, true, nil
}

// Put overwrites the snapshot wholesale.
func (c *SnapshotCache) Put(ctx context.Context, doc []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Put(ctx, storage.KeySnapshot, doc); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}
