package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword signs users in with email and password against the backend API.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"storefront-admin"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string   `env:"USER_ID"     envDefault:"dev-user"`
	Name        string   `env:"NAME"        envDefault:"Dev User"`
	Email       string   `env:"EMAIL"       envDefault:"dev@example.com"`
	Groups      []string `env:"GROUPS"      envDefault:"admins"          envSeparator:";"`
	Permissions []string `env:"PERMISSIONS"                               envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// SessionTTL bounds how long a session container outlives its last write.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"8h"`

	// TokenTTL is the token cookie lifetime when the sign-in response carries no expiry.
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`

	// RememberMeEnabled shows the remember-me checkbox on the sign-in form.
	RememberMeEnabled bool `env:"AUTH_REMEMBER_ME_ENABLED" envDefault:"false"`

	// ProfileTimeout bounds a single profile fetch.
	ProfileTimeout time.Duration `env:"AUTH_PROFILE_TIMEOUT" envDefault:"10s"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Group names mapped to roles for the dev identity.
	SuperAdminGroup string `env:"SUPERADMIN_GROUP" envDefault:"superadmins"`
	AdminGroup      string `env:"ADMIN_GROUP"      envDefault:"admins"`
	UserGroup       string `env:"USER_GROUP"       envDefault:"users"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModePassword
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.TokenTTL <= 0 {
		a.TokenTTL = 24 * time.Hour
	}
	if a.ProfileTimeout <= 0 {
		a.ProfileTimeout = 10 * time.Second
	}
}
