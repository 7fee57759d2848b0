// Package memory provides in-process, size-bounded stores for single-instance deployments
// and development. Contents are lost on restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/ports"
)

type sessionEntry struct {
	sess      domainauth.Session
	expiresAt time.Time
}

// SessionStore keeps sessions in an LRU cache. The least recently used session is
// evicted once size is reached; expired entries are dropped on read.
type SessionStore struct {
	cache *lru.Cache[string, sessionEntry]
	now   func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a store holding at most size sessions.
func NewSessionStore(size int) (*SessionStore, error) {
	cache, err := lru.New[string, sessionEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &SessionStore{cache: cache, now: time.Now}, nil
}

func (s *SessionStore) Save(_ context.Context, key string, sess domainauth.Session, ttl time.Duration) error {
	if key == "" {
		return errors.New("session key cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	s.cache.Add(key, sessionEntry{sess: sess, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *SessionStore) Get(_ context.Context, key string) (domainauth.Session, error) {
	e, ok := s.cache.Get(key)
	if !ok {
		return domainauth.Session{}, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.cache.Remove(key)
		return domainauth.Session{}, nil
	}
	return e.sess, nil
}

func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}
