package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

// ProfileFetcher performs the logical "GET profile" operation for a bearer token.
// Failures are returned as classified errors (see internal/errors).
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (domainauth.Profile, error)
}

// SignInInput carries credentials for the password sign-in flow.
type SignInInput struct {
	Email    string
	Password string
}

// SignUpInput carries the registration form for the sign-up flow.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// CredentialAuthenticator exchanges user credentials for a bearer token.
type CredentialAuthenticator interface {
	SignIn(ctx context.Context, in SignInInput) (domainauth.TokenGrant, error)
	SignUp(ctx context.Context, in SignUpInput) (domainauth.TokenGrant, error)
}

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes a redirect-based authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the bearer token.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.TokenGrant, error)
}

// SessionStore persists session containers keyed by an opaque token key.
// Get returns an empty Session and no error when nothing is stored.
type SessionStore interface {
	Save(ctx context.Context, key string, sess domainauth.Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (domainauth.Session, error)
	Delete(ctx context.Context, key string) error
}
