package redis

// Package redis provides Redis-based adapters for sessions and browser local storage.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

// SessionStore is a Redis-based session store for production use.
// Entries expire through Redis TTLs.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

func (s *SessionStore) Save(ctx context.Context, key string, sess domainauth.Session, ttl time.Duration) error {
	if key == "" {
		return errors.New("session key cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

// Get returns the stored session, or an empty session when none exists.
func (s *SessionStore) Get(ctx context.Context, key string) (domainauth.Session, error) {
	if key == "" {
		return domainauth.Session{}, nil
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, nil
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+key).Err()
}
