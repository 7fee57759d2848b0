package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/auth/guard"
	"github.com/target/storefront-admin/internal/auth/tokenstore"
	"github.com/target/storefront-admin/internal/auth/vault"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/observability/statsd"
	"github.com/target/storefront-admin/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Sessions    *service.SessionService
	Guard       *guard.Guard
	Tokens      tokenstore.Store
	Remember    *service.RememberMe
	Preferences *service.Preferences
	Messages    *apperrors.MessageExtractor
	Stores      Stores
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// NewServices wires stores, auth adapters, and the session guard.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stores, err := BuildStores(StoreDeps{
		Storage:     cfg.Storage,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	messages, err := apperrors.NewMessageExtractor(cfg.API.MessagePaths)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("API_MESSAGE_PATHS: %w", err)
	}

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Store:  stores.Sessions,
		TTL:    cfg.Auth.SessionTTL,
		Logger: logger,
	})

	auth, err := BuildAuth(AuthConfig{Auth: cfg.Auth, API: cfg.API, Sessions: sessions, Logger: logger})
	if err != nil {
		return ServiceContainer{}, err
	}

	profiles := service.NewProfileReconciler(service.ProfileReconcilerOptions{
		Fetcher: auth.Profiles,
		Timeout: cfg.Auth.ProfileTimeout,
		Logger:  logger,
		Metrics: deps.Metrics,
	})

	remember, err := newRememberMe(cfg, stores, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth:     auth.Service,
		Sessions: sessions,
		Guard: guard.New(guard.Options{
			Sessions: sessions,
			Profiles: profiles,
			Messages: messages,
			Logger:   logger,
			Metrics:  deps.Metrics,
		}),
		Tokens:      tokenstore.Store{Domain: cfg.HTTP.CookieDomain},
		Remember:    remember,
		Preferences: service.NewPreferences(vault.NewPlainStorage(stores.LocalStorage, logger)),
		Messages:    messages,
		Stores:      stores,
	}, nil
}

// newRememberMe returns a disabled RememberMe unless the feature is switched on,
// in which case credentials go through the vault.
func newRememberMe(cfg *config.AppConfig, stores Stores, logger *slog.Logger) (*service.RememberMe, error) {
	if !cfg.Auth.RememberMeEnabled {
		return service.NewRememberMe(nil, false), nil
	}
	v, err := vault.New(cfg.Storage.VaultSecret)
	if err != nil {
		return nil, fmt.Errorf("credential vault: %w", err)
	}
	return service.NewRememberMe(vault.NewSecureStorage(v, stores.LocalStorage, logger), true), nil
}
