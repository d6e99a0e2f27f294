package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"metal-rates/internal/config"
)

const (
	createDocumentsSQL = `CREATE TABLE IF NOT EXISTS documents (
        key        text PRIMARY KEY,
        doc        jsonb NOT NULL,
        updated_at timestamptz NOT NULL DEFAULT now()
    );`

	getDocumentSQL = `SELECT doc FROM documents WHERE key = $1;`

	putDocumentSQL = `INSERT INTO documents (key, doc, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (key) DO UPDATE
    SET doc = EXCLUDED.doc,
        updated_at = now();`
)

// PostgresStore keeps documents in a single key/jsonb table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pgx pool and ensures the documents table exists.
func NewPostgresStore(ctx context.Context, cfg config.StorageConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("storage.dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse storage dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if _, err := pool.Exec(ctx, createDocumentsSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the stored document or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, getDocumentSQL, key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	return doc, nil
}

// Put upserts the document under key.
func (s *PostgresStore) Put(ctx context.Context, key string, doc []byte) error {
	if _, err := s.pool.Exec(ctx, putDocumentSQL, key, doc); err != nil {
		return fmt.Errorf("put document %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

var _ DocumentStore = (*PostgresStore)(nil)
