package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"metal-rates/internal/config"
)

const redisKeyPrefix = "metalwatch:"

// RedisStore keeps documents as redis string values.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a redis-backed store.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client}
}

// Get returns the stored document or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	return doc, nil
}

// Put stores the document under key without expiry; documents are replaced
// wholesale on each successful ingestion, never aged out.
func (s *RedisStore) Put(ctx context.Context, key string, doc []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, doc, 0).Err(); err != nil {
		return fmt.Errorf("put document %s: %w", key, err)
	}
	return nil
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ DocumentStore = (*RedisStore)(nil)
