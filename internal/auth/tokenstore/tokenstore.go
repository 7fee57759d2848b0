// Package tokenstore reads, writes, and clears the bearer token cookie.
package tokenstore

import (
	"net/http"
	"regexp"
	"strings"
	"time"
)

// CookieName is the name of the bearer token cookie.
const CookieName = "token"

// tokenPattern matches a cookie named token whose value runs until the next ';' or end of string.
var tokenPattern = regexp.MustCompile(`(?:^|;\s*)` + CookieName + `=([^;]*)`)

// ParseToken extracts the token from a raw Cookie header.
// It returns false when the cookie is absent or empty.
func ParseToken(cookieHeader string) (string, bool) {
	m := tokenPattern.FindStringSubmatch(cookieHeader)
	if len(m) != 2 {
		return "", false
	}
	token := strings.TrimSpace(m[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// Store manages the token cookie for a single cookie domain.
type Store struct {
	// Domain is the cookie domain; empty means the request host.
	Domain string
}

// Read returns the token carried by r. A nil request has no token.
func (s Store) Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, h := range r.Header.Values("Cookie") {
		if token, ok := ParseToken(h); ok {
			return token, true
		}
	}
	return "", false
}

// Write sets the token cookie with the given lifetime. Only sign-in flows call it.
func (s Store) Write(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   s.Domain,
		HttpOnly: true,
		Secure:   RequestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// Clear expires the token cookie at the Unix epoch so the browser drops it.
// Attributes mirror Write so browsers match the cookie being deleted.
func (s Store) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.Domain,
		HttpOnly: true,
		Secure:   RequestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// RequestIsSecure reports whether r arrived over TLS, directly or through a proxy.
// A comma-separated X-Forwarded-Proto counts as secure when any hop is https.
func RequestIsSecure(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
