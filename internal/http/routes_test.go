package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront-admin/internal/auth/guard"
	"github.com/target/storefront-admin/internal/auth/tokenstore"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	mockauth "github.com/target/storefront-admin/internal/mocks/auth"
	"github.com/target/storefront-admin/internal/service"
)

type routerFixture struct {
	handler http.Handler
	fetcher *mockauth.StubProfileFetcher
	auth    *mockAuthService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	SkipIfNoTemplates(t)

	messages, err := apperrors.NewMessageExtractor(nil)
	require.NoError(t, err)

	fetcher := &mockauth.StubProfileFetcher{Profile: domainauth.Profile{
		ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", Role: domainauth.RoleAdmin,
	}}
	sessions := service.NewSessionService(service.SessionServiceOptions{Store: mockauth.NewMemorySessionStore()})
	g := guard.New(guard.Options{
		Sessions: sessions,
		Profiles: service.NewProfileReconciler(service.ProfileReconcilerOptions{Fetcher: fetcher, Timeout: time.Second}),
		Messages: messages,
	})
	items := newMemoryItems()
	auth := &mockAuthService{credentials: true}

	h, err := NewRouter(RouterServices{
		Auth:        auth,
		Guard:       g,
		Tokens:      tokenstore.Store{},
		Remember:    service.NewRememberMe(items, false),
		Preferences: service.NewPreferences(items),
		Messages:    messages,
		TokenTTL:    time.Hour,
		TemplateFS:  os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)
	return &routerFixture{handler: h, fetcher: fetcher, auth: auth}
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: tokenstore.CookieName, Value: token})
	return req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	assert.Error(t, err)
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodHead, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_StaticAssets(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Zero(t, f.fetcher.Calls())
}

func TestRouter_ProtectedWithoutToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/products", "/customer-list", "/does-not-exist"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/signin?redirect_uri="+url.QueryEscape(path), rec.Header().Get("Location"))
			assert.NotNil(t, findCookie(rec, ClientIDCookieName))
			assert.NotNil(t, findCookie(rec, CSRFCookieName))
		})
	}
	assert.Zero(t, f.fetcher.Calls())
}

func TestRouter_PublicPagesWithoutToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/", "/signin", "/signup"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
	assert.Zero(t, f.fetcher.Calls())
}

func TestRouter_TokenFetchesProfileOnce(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(withToken(httptest.NewRequest(http.MethodGet, "/products", nil), "tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You can edit product details.")

	rec = f.do(withToken(httptest.NewRequest(http.MethodGet, "/images", nil), "tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload: yes")

	assert.Equal(t, 1, f.fetcher.Calls())
}

func TestRouter_AuthenticatedLeavesSignIn(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(withToken(httptest.NewRequest(http.MethodGet, "/signin", nil), "tok-1"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRouter_UnauthorizedProfileClearsToken(t *testing.T) {
	f := newRouterFixture(t)
	f.fetcher.Err = &apperrors.APIError{Status: http.StatusUnauthorized}

	rec := f.do(withToken(httptest.NewRequest(http.MethodGet, "/products", nil), "expired"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/signin"))
	c := findCookie(rec, tokenstore.CookieName)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestRouter_ProfileFailureRendersErrorPage(t *testing.T) {
	f := newRouterFixture(t)
	f.fetcher.Err = &apperrors.APIError{
		Status:  http.StatusInternalServerError,
		Payload: []byte(`{"message":"profile service exploded"}`),
	}

	rec := f.do(withToken(httptest.NewRequest(http.MethodGet, "/products", nil), "tok-1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile service exploded")

	// The public root still renders, with the message as a banner.
	rec = f.do(withToken(httptest.NewRequest(http.MethodGet, "/", nil), "tok-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile service exploded")
	assert.Equal(t, 1, f.fetcher.Calls())
}

func TestRouter_ProfileFailureRetry(t *testing.T) {
	f := newRouterFixture(t)
	f.fetcher.Err = &apperrors.APIError{Status: http.StatusServiceUnavailable}

	rec := f.do(withToken(httptest.NewRequest(http.MethodGet, "/products", nil), "tok-1"))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	// The backend recovers, but a plain reload keeps showing the recorded failure.
	f.fetcher.Err = nil
	rec = f.do(withToken(httptest.NewRequest(http.MethodGet, "/products", nil), "tok-1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 1, f.fetcher.Calls())

	rec = f.do(withToken(httptest.NewRequest(http.MethodGet, "/products?retry=1", nil), "tok-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, f.fetcher.Calls())
}

func TestRouter_SessionAPI(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(withToken(httptest.NewRequest(http.MethodGet, "/api/session", nil), "tok-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Authenticated bool   `json:"authenticated"`
		State         string `json:"state"`
		User          struct {
			Email string `json:"email"`
		} `json:"user"`
		Capabilities struct {
			IsAdmin         bool `json:"is_admin"`
			CanDeleteImages bool `json:"can_delete_images"`
		} `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	assert.Equal(t, "authenticated", body.State)
	assert.Equal(t, "ada@example.com", body.User.Email)
	assert.True(t, body.Capabilities.IsAdmin)
	assert.False(t, body.Capabilities.CanDeleteImages)
}

func TestRouter_NotFound(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(withToken(httptest.NewRequest(http.MethodGet, "/nope", nil), "tok-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = f.do(withToken(httptest.NewRequest(http.MethodGet, "/api/nope", nil), "tok-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestRouter_SignInRequiresCSRF(t *testing.T) {
	f := newRouterFixture(t)
	form := url.Values{"email": {"ada@example.com"}, "password": {"pw"}}

	req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	form.Set(CSRFCookieName, "csrf-123")
	req = httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "csrf-123"})
	rec = f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	c := findCookie(rec, tokenstore.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, "signed-in-token", c.Value)
	assert.Equal(t, int(time.Hour.Seconds()), c.MaxAge)
}

func TestRouter_SignOut(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/signout", strings.NewReader(CSRFCookieName+"=c1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "c1"})
	req = withToken(req, "tok-1")
	rec := f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
	assert.Equal(t, "tok-1", f.auth.loggedOutWith)
}
