package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	storefront "github.com/target/storefront-admin"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth        AuthServiceInterface
	Guard       SessionGuard
	Tokens      TokenCookies
	Remember    *service.RememberMe
	Preferences *service.Preferences
	Messages    *apperrors.MessageExtractor
	// TokenTTL is the token cookie lifetime when the backend grant carries no expiry.
	TokenTTL     time.Duration
	CookieDomain string
	// TemplateFS overrides template discovery (tests). When nil, templates come from disk in
	// dev mode and from the embedded FS otherwise.
	TemplateFS fs.FS
	// Health lists the store backends /healthz reports on.
	Health []HealthCheck
	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router.
//
// Layout:
//   - /static/, /healthz, /auth/login, /auth/callback and POST /signout bypass the session guard.
//   - Every other path, known or not, passes through RequireSession so unknown paths are
//     treated as protected.
//
// The whole tree is wrapped in ClientID and CSRFProtection.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Guard == nil || services.Tokens == nil || services.Auth == nil {
		return nil, errors.New("router requires auth, guard, and token services")
	}

	tr, err := setupTemplates(services)
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{T: tr, Preferences: services.Preferences, Logger: services.Logger}
	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Tokens:       services.Tokens,
		Remember:     services.Remember,
		T:            tr,
		Messages:     services.Messages,
		TokenTTL:     services.TokenTTL,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}

	pages := http.NewServeMux()
	registerPageRoutes(pages, ui)
	registerAuthPageRoutes(pages, authHandlers)
	pages.HandleFunc("GET /api/session", sessionHandler)

	guarded := RequireSession(SessionMiddlewareOptions{
		Guard:     services.Guard,
		Tokens:    services.Tokens,
		OnFailure: ui.ProfileUnavailable,
		Logger:    services.Logger,
	})(&notFoundHandler{mux: pages, ui: ui})

	mux := http.NewServeMux()
	mux.Handle("GET /static/", staticHandler(services.IsDev))
	health := &healthHandler{checks: services.Health, logger: services.Logger}
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	registerAuthFlowRoutes(mux, authHandlers)
	mux.Handle("/", guarded)

	handler := CSRFProtection(services.CookieDomain)(mux)
	return ClientID(services.CookieDomain)(handler), nil
}

func registerPageRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /customer-list", h.CustomerList)
	mux.HandleFunc("GET /products", h.Products)
	mux.HandleFunc("GET /images", h.Images)
}

// registerAuthPageRoutes registers the sign-in and sign-up pages. They are AuthOnly paths, so the
// guard sends authenticated users away before these handlers run.
func registerAuthPageRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /signin", h.SignInPage)
	mux.HandleFunc("POST /signin", h.SignIn)
	mux.HandleFunc("GET /signup", h.SignUpPage)
	mux.HandleFunc("POST /signup", h.SignUp)
}

func registerAuthFlowRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /signout", h.SignOut)
}

// setupTemplates creates the template renderer.
// In dev mode (services.IsDev=true), templates are loaded from disk for hot reloading.
// In production mode (services.IsDev=false), templates are loaded from embedded FS.
func setupTemplates(services RouterServices) (*TemplateRenderer, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(storefront.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, fmt.Errorf("template sub-filesystem: %w", err)
			}
			templateFS = sub
		}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: services.Logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}
	return tr, nil
}

// staticHandler serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}

	staticSub, err := fs.Sub(storefront.StaticFS, StaticPathFromRoot)
	if err != nil {
		slog.Default().Error("failed to create sub-filesystem for static assets", "error", err)
		// Fallback to disk serving if embed fails
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// hashedFilePattern matches content-hashed filenames including optional .map (e.g. app.abc12345.css).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && !cw.wrote404Body() {
		if isAPIRequest(r) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("not found")})
			return
		}
		h.ui.NotFound(w, r)
		return
	}

	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

// wrote404Body reports whether a handler rendered its own 404 page rather than the mux default.
func (c *captureWriter) wrote404Body() bool {
	return strings.HasPrefix(c.header.Get("Content-Type"), "text/html")
}

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Debug("failed to write captured response", "error", err)
	}
}
