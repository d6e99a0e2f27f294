package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. Used for tests and
// throwaway environments.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get returns the stored document or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

// Put stores the document under key.
func (s *MemoryStore) Put(ctx context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(doc))
	copy(stored, doc)
	s.docs[key] = stored
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ DocumentStore = (*MemoryStore)(nil)
