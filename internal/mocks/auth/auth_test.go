package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{})

	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	grant, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})

	require.NoError(t, err)
	assert.Equal(t, "mock-access-token", grant.Token)
	assert.True(t, grant.ExpiresAt.After(time.Now()))
}

func TestMemorySessionStore_SaveGetDelete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{
		User:            &domainauth.Profile{ID: "u-1", Role: domainauth.RoleAdmin},
		IsAuthenticated: true,
	}
	require.NoError(t, store.Save(ctx, "k1", sess, time.Hour))
	assert.Equal(t, time.Hour, store.TTL("k1"))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "k1"))
	got, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_SaveEmptyKey(t *testing.T) {
	store := NewMemorySessionStore()

	err := store.Save(context.Background(), "", domainauth.Session{}, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session key cannot be empty")
}

func TestStubProfileFetcher(t *testing.T) {
	t.Run("returns profile", func(t *testing.T) {
		f := &StubProfileFetcher{Profile: domainauth.Profile{ID: "u-1"}}
		p, err := f.FetchProfile(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "u-1", p.ID)
		assert.Equal(t, 1, f.Calls())
	})

	t.Run("returns error", func(t *testing.T) {
		boom := errors.New("boom")
		f := &StubProfileFetcher{Err: boom}
		_, err := f.FetchProfile(context.Background(), "tok")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("gate honours ctx", func(t *testing.T) {
		f := &StubProfileFetcher{Gate: make(chan struct{})}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.FetchProfile(ctx, "tok")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
