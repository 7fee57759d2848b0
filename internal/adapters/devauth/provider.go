package devauth

// Package devauth provides config-driven sign-in for local development: a credential
// authenticator and redirect provider that mint local tokens, and a profile fetcher that
// answers for them without a backend.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/target/storefront-admin/internal/adapters/authroles"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
)

// TokenPrefix marks tokens minted by this package. Other tokens are rejected with a 401.
const TokenPrefix = "dev."

// Config controls the dev auth behavior.
type Config struct {
	UserID        string
	Name          string
	Email         string
	Groups        []string
	Roles         authroles.StaticRoleMapper
	Permissions   []string
	TokenDuration time.Duration // default 8h when zero
}

// Provider implements ports.CredentialAuthenticator, ports.AuthProvider, and
// ports.ProfileFetcher for local development.
type Provider struct {
	profile       domainauth.Profile
	tokenDuration time.Duration
	now           func() time.Time
}

var (
	_ ports.CredentialAuthenticator = (*Provider)(nil)
	_ ports.AuthProvider            = (*Provider)(nil)
	_ ports.ProfileFetcher          = (*Provider)(nil)
)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.TokenDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	name := cfg.Name
	if name == "" {
		name = cfg.UserID
	}
	return &Provider{
		profile: domainauth.Profile{
			ID:          cfg.UserID,
			Name:        name,
			Email:       cfg.Email,
			Role:        cfg.Roles.Map(cfg.Groups),
			Permissions: append([]string(nil), cfg.Permissions...),
		},
		tokenDuration: dur,
		now:           time.Now,
	}, nil
}

// SignIn accepts any non-empty credentials.
func (p *Provider) SignIn(_ context.Context, in ports.SignInInput) (domainauth.TokenGrant, error) {
	if in.Email == "" || in.Password == "" {
		return domainauth.TokenGrant{}, apperrors.Validation("email and password are required")
	}
	return p.mint()
}

// SignUp accepts any complete registration form.
func (p *Provider) SignUp(_ context.Context, in ports.SignUpInput) (domainauth.TokenGrant, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return domainauth.TokenGrant{}, apperrors.Validation("name, email and password are required")
	}
	return p.mint()
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The callback handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by handler) and mints a token.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.TokenGrant, error) {
	return p.mint()
}

// FetchProfile returns the configured profile for tokens minted here.
func (p *Provider) FetchProfile(ctx context.Context, token string) (domainauth.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domainauth.Profile{}, err
	}
	if !strings.HasPrefix(token, TokenPrefix) {
		return domainauth.Profile{}, &apperrors.APIError{
			Status:  401,
			Payload: []byte(`{"message":"unknown development token"}`),
		}
	}
	return p.profile.Normalize(), nil
}

func (p *Provider) mint() (domainauth.TokenGrant, error) {
	suffix, err := randomString(32)
	if err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("generate token: %w", err)
	}
	return domainauth.TokenGrant{
		Token:     TokenPrefix + suffix,
		ExpiresAt: p.now().Add(p.tokenDuration),
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
