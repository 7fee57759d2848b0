package httpx

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/target/storefront-admin/internal/auth/tokenstore"
)

// clientIDMaxAge keeps the namespace stable for a year of inactivity.
const clientIDMaxAge = 365 * 24 * 60 * 60

// ClientID returns a middleware that assigns every browser a stable random id. The id names
// the browser's local storage namespace. Missing or malformed ids are replaced.
func ClientID(cookieDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(ClientIDCookieName); err == nil {
				if parsed, parseErr := uuid.Parse(c.Value); parseErr == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientIDCookieName,
					Value:    id,
					Path:     "/",
					Domain:   cookieDomain,
					HttpOnly: true,
					Secure:   tokenstore.RequestIsSecure(r),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   clientIDMaxAge,
				})
			}
			next.ServeHTTP(w, r.WithContext(SetClientID(r.Context(), id)))
		})
	}
}
