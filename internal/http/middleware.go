package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"
	"unicode"

	"github.com/target/storefront-admin/internal/auth/guard"
	"github.com/target/storefront-admin/internal/auth/route"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RetryParam is the query parameter a user sets to load the profile again after a failure.
const RetryParam = "retry"

// SessionGuard evaluates the session for one request.
type SessionGuard interface {
	Evaluate(ctx context.Context, req guard.Request) (guard.Result, error)
}

// TokenCookies reads and clears the browser's token cookie.
type TokenCookies interface {
	Read(r *http.Request) (string, bool)
	Write(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration)
	Clear(w http.ResponseWriter, r *http.Request)
}

// SessionMiddlewareOptions groups dependencies for RequireSession.
type SessionMiddlewareOptions struct {
	Guard  SessionGuard
	Tokens TokenCookies
	// OnFailure renders protected pages whose profile fetch failed for a reason other than 401.
	// Defaults to a plain-text 502 carrying the user-facing message.
	OnFailure func(w http.ResponseWriter, r *http.Request, res guard.Result)
	Logger    *slog.Logger
}

// RequireSession runs the auth guard for every request it wraps.
//
// The guard's redirect decision is applied here: browsers get a 303 (or Hx-Redirect for
// htmx), API callers get a 401 JSON body. When the guard asks for the token to be dropped
// the cookie is cleared before anything else is written. Requests that pass carry the
// guard.Result in their context.
func RequireSession(opts SessionMiddlewareOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	onFailure := opts.OnFailure
	if onFailure == nil {
		onFailure = func(w http.ResponseWriter, _ *http.Request, res guard.Result) {
			http.Error(w, res.Message, http.StatusBadGateway)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := opts.Tokens.Read(r)
			res, err := opts.Guard.Evaluate(r.Context(), guard.Request{
				Token: token,
				Path:  r.URL.Path,
				Retry: r.URL.Query().Get(RetryParam) == "1",
			})
			if err != nil {
				if errors.Is(err, guard.ErrDiscarded) {
					logger.DebugContext(r.Context(), "request canceled during session check", "path", r.URL.Path)
					return
				}
				logger.ErrorContext(r.Context(), "session check failed", "path", r.URL.Path, "error", err)
				WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "session_check_failed", Err: err})
				return
			}

			if res.ClearToken {
				opts.Tokens.Clear(w, r)
			}

			if res.Redirect != "" {
				applyRedirect(w, r, res.Redirect)
				return
			}

			if res.Err != nil && res.Class == route.Protected && !res.Authenticated() {
				if isAPIRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusBadGateway,
						ErrCode: "profile_unavailable",
						Err:     errors.New(res.Message),
					})
					return
				}
				onFailure(w, r, res)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetGuardResult(r.Context(), res)))
		})
	}
}

func applyRedirect(w http.ResponseWriter, r *http.Request, target string) {
	if target == route.SignInPath {
		if isAPIRequest(r) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
			return
		}
		target = signInURL(redirectPathForRequest(r))
	}

	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// signInURL returns the sign-in page, carrying the page to return to unless that is the root.
func signInURL(returnTo string) string {
	if returnTo == "" || returnTo == route.RootPath {
		return route.SignInPath
	}
	q := url.Values{}
	q.Set("redirect_uri", returnTo)
	return route.SignInPath + "?" + q.Encode()
}

// isAPIRequest reports whether r targets the JSON API rather than a page.
func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// For absolute URLs, use just the path/query portion to keep redirects within the app.
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
// Backslashes and control characters are refused; browsers may treat "/\host" as "//host".
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	if strings.ContainsFunc(candidate, func(r rune) bool { return r == '\\' || unicode.IsControl(r) }) {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
