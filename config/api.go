package config

import (
	"strings"
	"time"
)

// APIConfig configures the backend API client.
type APIConfig struct {
	// BaseURL is the backend API root, e.g. "https://api.example.com/v1/".
	BaseURL     string        `env:"BASE_URL"`
	Timeout     time.Duration `env:"TIMEOUT"      envDefault:"10s"`
	ProfilePath string        `env:"PROFILE_PATH" envDefault:"profile"`
	SignInPath  string        `env:"SIGNIN_PATH"  envDefault:"auth/login"`
	SignUpPath  string        `env:"SIGNUP_PATH"  envDefault:"auth/register"`

	// MessagePaths are JMESPath expressions tried in order to pull a user-facing
	// message out of an error payload. Empty means the built-in defaults.
	MessagePaths []string `env:"MESSAGE_PATHS" envSeparator:";"`
}

// Sanitize trims values and restores defaults for blank paths.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimSpace(a.BaseURL)
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Second
	}
	a.ProfilePath = defaultIfBlank(a.ProfilePath, "profile")
	a.SignInPath = defaultIfBlank(a.SignInPath, "auth/login")
	a.SignUpPath = defaultIfBlank(a.SignUpPath, "auth/register")

	paths := a.MessagePaths[:0]
	for _, p := range a.MessagePaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	a.MessagePaths = paths
}

func defaultIfBlank(v, def string) string {
	if v = strings.Trim(strings.TrimSpace(v), "/"); v == "" {
		return def
	}
	return v
}
