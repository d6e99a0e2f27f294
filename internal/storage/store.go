package storage

import (
	"context"
	"errors"
	"fmt"

	"metal-rates/internal/config"
)

// Document keys. Persistence is three named JSON documents; their shape is
// owned by the packages that read them.
const (
	KeyHistory     = "history"
	KeySnapshot    = "last_success"
	KeyNotifyState = "last_notified"
)

// ErrNotFound indicates no document exists under the requested key.
var ErrNotFound = errors.New("storage: document not found")

// DocumentStore persists opaque JSON documents under fixed keys.
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, doc []byte) error
	Close() error
}

// Open builds the document store selected by storage.driver.
func Open(ctx context.Context, cfg config.StorageConfig) (DocumentStore, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path)
	case "postgres":
		return NewPostgresStore(ctx, cfg)
	case "redis":
		return NewRedisStore(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
