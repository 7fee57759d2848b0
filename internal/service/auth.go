package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
// Credentials serves the password and mock modes, Provider the oauth mode; either may be nil.
type AuthServiceOptions struct {
	Credentials ports.CredentialAuthenticator
	Provider    ports.AuthProvider
	Sessions    *SessionService
	Logger      *slog.Logger
}

// AuthService orchestrates sign-in, sign-up, and sign-out by coordinating the configured
// authenticator with the session container.
type AuthService struct {
	credentials ports.CredentialAuthenticator
	provider    ports.AuthProvider
	sessions    *SessionService
	logger      *slog.Logger
}

// ErrModeUnsupported is returned when a flow is not available in the configured auth mode.
var ErrModeUnsupported = errors.New("sign-in flow not available in this auth mode")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		credentials: opts.Credentials,
		provider:    opts.Provider,
		sessions:    opts.Sessions,
		logger:      logger,
	}
}

// SupportsCredentials reports whether the password form flow is available.
func (s *AuthService) SupportsCredentials() bool { return s.credentials != nil }

// SupportsRedirect reports whether the redirect (IdP) flow is available.
func (s *AuthService) SupportsRedirect() bool { return s.provider != nil }

// SignIn exchanges credentials for a token and records the login. The profile is
// fetched lazily by the guard on the next request.
func (s *AuthService) SignIn(ctx context.Context, in ports.SignInInput) (domainauth.TokenGrant, error) {
	if s.credentials == nil {
		return domainauth.TokenGrant{}, ErrModeUnsupported
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return domainauth.TokenGrant{}, apperrors.ValidationField("email", "email is required")
	}
	if in.Password == "" {
		return domainauth.TokenGrant{}, apperrors.ValidationField("password", "password is required")
	}

	grant, err := s.credentials.SignIn(ctx, in)
	if err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("sign in: %w", err)
	}
	return s.recordLogin(ctx, grant)
}

// SignUp registers a new account and records the login for the returned token.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (domainauth.TokenGrant, error) {
	if s.credentials == nil {
		return domainauth.TokenGrant{}, ErrModeUnsupported
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Name == "":
		return domainauth.TokenGrant{}, apperrors.ValidationField("name", "name is required")
	case in.Email == "":
		return domainauth.TokenGrant{}, apperrors.ValidationField("email", "email is required")
	case in.Password == "":
		return domainauth.TokenGrant{}, apperrors.ValidationField("password", "password is required")
	}

	grant, err := s.credentials.SignUp(ctx, in)
	if err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("sign up: %w", err)
	}
	return s.recordLogin(ctx, grant)
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a redirect flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrModeUnsupported
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the authorization code for a bearer token and records the login.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (domainauth.TokenGrant, error) {
	if s.provider == nil {
		return domainauth.TokenGrant{}, ErrModeUnsupported
	}
	if input.Code == "" {
		return domainauth.TokenGrant{}, errors.New("authorization code is required")
	}
	if input.State == "" {
		return domainauth.TokenGrant{}, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return domainauth.TokenGrant{}, errors.New("nonce parameter is required")
	}

	grant, err := s.provider.Exchange(ctx, ports.ExchangeInput(input))
	if err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	return s.recordLogin(ctx, grant)
}

// Logout clears the session held for token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Logout(ctx, token)
}

func (s *AuthService) recordLogin(ctx context.Context, grant domainauth.TokenGrant) (domainauth.TokenGrant, error) {
	if grant.Token == "" {
		return domainauth.TokenGrant{}, errors.New("authenticator returned an empty token")
	}
	if err := s.sessions.LoginSuccess(ctx, grant.Token, nil); err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("record login: %w", err)
	}
	s.logger.InfoContext(ctx, "login succeeded")
	return grant, nil
}
