package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/target/storefront-admin/internal/auth/tokenstore"
)

const (
	// CSRFCookieName is the double-submit cookie and form field name.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName carries the token on htmx/AJAX requests (canonical form).
	CSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
)

type csrfTokenKey struct{}

// CSRFProtection returns a middleware implementing the double-submit cookie pattern.
// Sign-in, sign-up, sign-out, and preference forms all post through it.
// GET, HEAD, OPTIONS, and TRACE requests are exempt from validation.
func CSRFProtection(cookieDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CSRFCookieName); err == nil {
				token = c.Value
			}

			if token == "" {
				var err error
				if token, err = generateCSRFToken(); err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Domain:   cookieDomain,
					HttpOnly: false, // readable so htmx can echo it in the header
					Secure:   tokenstore.RequestIsSecure(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   3600 * 12,
				})
				// A fresh token cannot match anything the client submitted.
				if requiresCSRFValidation(r.Method) {
					http.Error(w, "CSRF token validation failed", http.StatusForbidden)
					return
				}
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if requiresCSRFValidation(r.Method) && !validCSRFToken(r, token) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token for templates, or "" when the middleware did not run.
func CSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// generateCSRFToken fails closed rather than falling back to a predictable token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// validCSRFToken compares the header or form token with the cookie in constant time.
func validCSRFToken(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}

	if headerToken := r.Header.Get(CSRFHeaderName); headerToken != "" {
		return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/x-www-form-urlencoded") &&
		!strings.HasPrefix(contentType, "multipart/form-data") {
		return false
	}
	if err := r.ParseForm(); err != nil {
		return false
	}
	formToken := r.PostFormValue(CSRFCookieName)
	return formToken != "" && subtle.ConstantTimeCompare([]byte(formToken), []byte(cookieToken)) == 1
}
