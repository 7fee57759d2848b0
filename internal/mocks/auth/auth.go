package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider   = (*MockAuthProvider)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.ProfileFetcher = (*StubProfileFetcher)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.TokenGrant, error)

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	Token       string

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		Token:       "mock-access-token",
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.TokenGrant, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	token := m.Token
	if token == "" {
		token = "mock-access-token"
	}
	return domainauth.TokenGrant{Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// MemorySessionStore is an in-memory session store for unit tests. TTLs are recorded, not enforced.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	ttls     map[string]time.Duration
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
		ttls:     make(map[string]time.Duration),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, key string, sess domainauth.Session, ttl time.Duration) error {
	if key == "" {
		return errors.New("session key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = sess
	m.ttls[key] = ttl
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, key string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[key], nil
}

func (m *MemorySessionStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	delete(m.ttls, key)
	return nil
}

// TTL returns the ttl recorded for key by the last Save.
func (m *MemorySessionStore) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StubProfileFetcher returns a fixed profile or error and counts calls.
// When Gate is non-nil each call blocks until Gate is closed or ctx ends.
type StubProfileFetcher struct {
	Profile domainauth.Profile
	Err     error
	Gate    chan struct{}

	calls atomic.Int32
}

func (s *StubProfileFetcher) FetchProfile(ctx context.Context, _ string) (domainauth.Profile, error) {
	s.calls.Add(1)
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return domainauth.Profile{}, ctx.Err()
		}
	}
	if s.Err != nil {
		return domainauth.Profile{}, s.Err
	}
	return s.Profile, nil
}

// Calls returns how many times FetchProfile was invoked.
func (s *StubProfileFetcher) Calls() int {
	return int(s.calls.Load())
}
