package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/adapters/authroles"
	"github.com/target/storefront-admin/internal/adapters/backendapi"
	"github.com/target/storefront-admin/internal/adapters/devauth"
	"github.com/target/storefront-admin/internal/adapters/oidc"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/service"
)

// AuthConfig contains configuration for the auth adapters.
type AuthConfig struct {
	Auth     config.AuthConfig
	API      config.APIConfig
	Sessions *service.SessionService
	Logger   *slog.Logger
}

// AuthBundle is the sign-in service plus the profile source the guard reconciles against.
type AuthBundle struct {
	Service  *service.AuthService
	Profiles ports.ProfileFetcher
}

// BuildAuth wires the adapters for the configured auth mode:
//   - password: the backend API issues tokens and serves profiles.
//   - oauth: an OIDC provider issues tokens; the backend API serves profiles.
//   - mock: a local dev provider does both.
func BuildAuth(cfg AuthConfig) (AuthBundle, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuth(cfg)
	case config.AuthModeOAuth:
		return buildOAuth(cfg)
	case config.AuthModePassword:
		return buildPasswordAuth(cfg)
	default:
		return AuthBundle{}, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func newBackendClient(api config.APIConfig) (*backendapi.Client, error) {
	client, err := backendapi.NewClient(backendapi.Config{
		BaseURL:     api.BaseURL,
		ProfilePath: api.ProfilePath,
		SignInPath:  api.SignInPath,
		SignUpPath:  api.SignUpPath,
		Timeout:     api.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("backend api client: %w", err)
	}
	return client, nil
}

func buildPasswordAuth(cfg AuthConfig) (AuthBundle, error) {
	client, err := newBackendClient(cfg.API)
	if err != nil {
		return AuthBundle{}, err
	}
	return AuthBundle{
		Service: service.NewAuthService(service.AuthServiceOptions{
			Credentials: client,
			Sessions:    cfg.Sessions,
			Logger:      cfg.Logger,
		}),
		Profiles: client,
	}, nil
}

func buildOAuth(cfg AuthConfig) (AuthBundle, error) {
	client, err := newBackendClient(cfg.API)
	if err != nil {
		return AuthBundle{}, err
	}

	oauth := cfg.Auth.OAuth
	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		return AuthBundle{}, fmt.Errorf("oidc provider: %w", err)
	}

	return AuthBundle{
		Service: service.NewAuthService(service.AuthServiceOptions{
			Provider: prov,
			Sessions: cfg.Sessions,
			Logger:   cfg.Logger,
		}),
		Profiles: client,
	}, nil
}

func buildDevAuth(cfg AuthConfig) (AuthBundle, error) {
	dev := cfg.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: dev.UserID,
		Name:   dev.Name,
		Email:  dev.Email,
		Groups: dev.Groups,
		Roles: authroles.StaticRoleMapper{
			SuperAdminGroup: cfg.Auth.SuperAdminGroup,
			AdminGroup:      cfg.Auth.AdminGroup,
			UserGroup:       cfg.Auth.UserGroup,
		},
		Permissions:   dev.Permissions,
		TokenDuration: cfg.Auth.TokenTTL,
	})
	if err != nil {
		return AuthBundle{}, fmt.Errorf("dev auth provider: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("dev auth enabled; any credentials sign in as the configured identity",
			"user_id", dev.UserID,
			"email", dev.Email,
		)
	}

	return AuthBundle{
		Service: service.NewAuthService(service.AuthServiceOptions{
			Credentials: prov,
			Provider:    prov,
			Sessions:    cfg.Sessions,
			Logger:      cfg.Logger,
		}),
		Profiles: prov,
	}, nil
}
