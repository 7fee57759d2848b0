package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public base URL of the application (e.g., "https://admin.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for the token and client id cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.BaseURL = strings.TrimRight(strings.TrimSpace(h.BaseURL), "/")
	h.CookieDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")
}

// Validate rejects cookie domains that browsers would refuse or that would leak the
// token to unrelated sites.
func (h *HTTPConfig) Validate() error {
	if h.BaseURL != "" {
		u, err := url.Parse(h.BaseURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("APP_BASE_URL %q is not an absolute URL", h.BaseURL)
		}
	}
	if h.CookieDomain == "" || h.CookieDomain == "localhost" {
		return nil
	}
	if suffix, _ := publicsuffix.PublicSuffix(h.CookieDomain); suffix == h.CookieDomain {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", h.CookieDomain)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(h.CookieDomain); err != nil {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q: %w", h.CookieDomain, err)
	}
	return nil
}
