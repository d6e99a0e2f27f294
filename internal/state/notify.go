package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"metal-rates/internal/rates"
	"metal-rates/internal/storage"
)

// NotifyState owns the last-notified reading. It is a single record with its
// own lifecycle: advanced only after a confirmed delivery, never evicted.
type NotifyState struct {
	mu    sync.Mutex
	store storage.DocumentStore
}

// NewNotifyState constructs the notify-state gateway.
func NewNotifyState(store storage.DocumentStore) *NotifyState {
	return &NotifyState{store: store}
}

// Transition runs one decide-deliver-advance cycle atomically. fn receives the
// last notified reading (nil when none) and returns the reading to advance to,
// or nil to leave state untouched. Returning an error also leaves state
// untouched, so an undelivered change is retried on the next tick.
func (n *NotifyState) Transition(ctx context.Context, fn func(last *rates.Reading) (*rates.Reading, error)) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	last, err := n.load(ctx)
	if err != nil {
		return err
	}

	next, err := fn(last)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	doc, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal notify state: %w", err)
	}
	if err := n.store.Put(ctx, storage.KeyNotifyState, doc); err != nil {
		return fmt.Errorf("persist notify state: %w", err)
	}
	return nil
}

func (n *NotifyState) load(ctx context.Context) (*rates.Reading, error) {
	doc, err := n.store.Get(ctx, storage.KeyNotifyState)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notify state: %w", err)
	}

	var r rates.Reading
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, fmt.Errorf("decode notify state: %w", err)
	}
	return &r, nil
}
