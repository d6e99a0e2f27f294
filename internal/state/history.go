// Package state wraps the document store with typed gateways for the three
// shared records: the rolling history, the last-success snapshot, and the
// last-notified reading. Each gateway is the sole writer of its document and
// exposes its read-modify-write cycle as one mutex-scoped operation, so an
// inbound request racing a scheduled tick can never interleave a stale load
// with another trigger's save.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"metal-rates/internal/rates"
	"metal-rates/internal/storage"
)

// HistoryLedger owns the rolling history document.
type HistoryLedger struct {
	mu     sync.Mutex
	store  storage.DocumentStore
	unit   string
	logger zerolog.Logger
}

// NewHistoryLedger constructs the ledger gateway.
func NewHistoryLedger(store storage.DocumentStore, unit string, logger zerolog.Logger) *HistoryLedger {
	return &HistoryLedger{
		store:  store,
		unit:   unit,
		logger: logger.With().Str("component", "history_ledger").Logger(),
	}
}

// load tolerates a missing or corrupt document by starting an empty ledger;
// an unreadable history must not take the serving path down.
func (l *HistoryLedger) load(ctx context.Context) *rates.History {
	doc, err := l.store.Get(ctx, storage.KeyHistory)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Warn().Err(err).Msg("history unreadable, starting empty")
		}
		return rates.NewHistory(l.unit)
	}

	var h rates.History
	if err := json.Unmarshal(doc, &h); err != nil {
		l.logger.Warn().Err(err).Msg("history corrupt, starting empty")
		return rates.NewHistory(l.unit)
	}
	if h.Unit == "" {
		h.Unit = l.unit
	}
	return &h
}

// Update runs fn against the current ledger as a single atomic
// read-modify-write. fn reports whether the ledger changed; only then is the
// document persisted. fn's computed results stay valid even when the persist
// fails, so the caller can keep serving and treat the error as observability.
func (l *HistoryLedger) Update(ctx context.Context, fn func(h *rates.History) bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.load(ctx)
	if !fn(h) {
		return nil
	}

	doc, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := l.store.Put(ctx, storage.KeyHistory, doc); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Recent returns the unit and the most recent n entries in chronological order.
func (l *HistoryLedger) Recent(ctx context.Context, n int) (string, []rates.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.load(ctx)
	return h.Unit, h.LastN(n), nil
}
