package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and session configuration
//   - api.go: Backend API client configuration
//   - database.go: Database and Redis configuration
//   - storage.go: Session and local storage backends
//   - http.go: HTTP server configuration
//   - metrics.go: StatsD metrics
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, insecure defaults).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Backend API configuration
	API APIConfig `envPrefix:"API_"`

	// Storage backends
	Storage StorageConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// StatsD metrics
	Metrics MetricsConfig `envPrefix:"STATSD_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.API.Sanitize()
	c.Storage.Sanitize(c.IsDev)
	c.Metrics.Sanitize()
}

// Validate reports configuration combinations the application cannot start with.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.HTTP.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.Mode != AuthModeMock && c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL is required when AUTH_MODE=%s", c.Auth.Mode))
	}
	if c.Auth.Mode == AuthModeOAuth && c.Auth.OAuth.DiscoveryURL == "" {
		errs = append(errs, errors.New("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth"))
	}
	if c.Auth.RememberMeEnabled && c.Storage.VaultSecret == "" {
		errs = append(errs, errors.New("VAULT_SECRET is required when AUTH_REMEMBER_ME_ENABLED=true"))
	}
	return errors.Join(errs...)
}

// NeedsPostgres reports whether any configured backend stores data in Postgres.
func (c *AppConfig) NeedsPostgres() bool {
	return c.Storage.LocalStorage == StoreBackendPostgres
}

// NeedsRedis reports whether any configured backend stores data in Redis.
func (c *AppConfig) NeedsRedis() bool {
	return c.Storage.Sessions == StoreBackendRedis || c.Storage.LocalStorage == StoreBackendRedis
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
