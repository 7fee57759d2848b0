package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/storefront-admin/internal/ports"
)

// KVStore keeps each browser's local storage in one Redis hash. Every write refreshes
// the hash's idle expiry.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	idle   time.Duration
}

var (
	_ ports.KVStore  = (*KVStore)(nil)
	_ ports.KVPurger = (*KVStore)(nil)
)

// NewKVStore creates a Redis-backed KVStore. A non-positive idle keeps namespaces forever.
func NewKVStore(client redis.UniversalClient, prefix string, idle time.Duration) *KVStore {
	if prefix == "" {
		prefix = "localstorage:"
	}
	return &KVStore{client: client, prefix: prefix, idle: idle}
}

func (s *KVStore) Get(ctx context.Context, namespace, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.prefix+namespace, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, namespace, key, value string) error {
	hash := s.prefix + namespace
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hash, key, value)
		if s.idle > 0 {
			pipe.Expire(ctx, hash, s.idle)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.HDel(ctx, s.prefix+namespace, key).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// Purge drops every key of namespace.
func (s *KVStore) Purge(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, s.prefix+namespace).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
