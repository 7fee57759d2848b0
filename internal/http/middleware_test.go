package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront-admin/internal/auth/guard"
	"github.com/target/storefront-admin/internal/auth/permission"
	"github.com/target/storefront-admin/internal/auth/route"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession_PassesResultToHandler(t *testing.T) {
	user := &domainauth.Profile{ID: "u1", Name: "Ada", Role: domainauth.RoleAdmin}
	g := &fakeGuard{result: guard.Result{
		State:        guard.StateAuthenticated,
		Class:        route.Protected,
		User:         user,
		Capabilities: permission.For(user),
	}}
	tokens := &fakeTokens{token: "tok"}

	var got guard.Result
	h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: tokens})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := GuardResultFromContext(r.Context())
			require.True(t, ok)
			got = res
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Authenticated())
	assert.True(t, got.Capabilities.CanUploadImages)
	require.Len(t, g.requests(), 1)
	assert.Equal(t, guard.Request{Token: "tok", Path: "/products"}, g.requests()[0])
}

func TestRequireSession_RedirectsToSignIn(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		htmx         bool
		wantCode     int
		wantLocation string
		wantHX       string
	}{
		{
			name:         "browser carries return path",
			target:       "/customer-list?limit=25",
			wantCode:     http.StatusSeeOther,
			wantLocation: "/signin?redirect_uri=%2Fcustomer-list%3Flimit%3D25",
		},
		{
			name:     "htmx gets header redirect",
			target:   "/products",
			htmx:     true,
			wantCode: http.StatusOK,
			wantHX:   "/signin?redirect_uri=%2Fproducts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGuard{result: guard.Result{
				State:    guard.StateUnauthenticated,
				Class:    route.Protected,
				Redirect: route.SignInPath,
			}}
			called := false
			h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: &fakeTokens{}})(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Equal(t, tt.wantHX, rec.Header().Get("Hx-Redirect"))
		})
	}
}

func TestRequireSession_APIRequestGets401(t *testing.T) {
	g := &fakeGuard{result: guard.Result{
		State:    guard.StateUnauthenticated,
		Class:    route.Protected,
		Redirect: route.SignInPath,
	}}
	called := false
	h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: &fakeTokens{}})(okHandler(&called))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "authentication_required", body["error"])
}

func TestRequireSession_ClearsTokenOnUnauthorized(t *testing.T) {
	g := &fakeGuard{result: guard.Result{
		State:      guard.StateUnauthenticated,
		Class:      route.Protected,
		Redirect:   route.SignInPath,
		ClearToken: true,
	}}
	tokens := &fakeTokens{token: "stale"}
	called := false
	h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: tokens})(okHandler(&called))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images", nil))

	assert.True(t, tokens.cleared)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRequireSession_SignInClearWithoutRedirectRendersPage(t *testing.T) {
	g := &fakeGuard{result: guard.Result{
		State:      guard.StateUnauthenticated,
		Class:      route.AuthOnly,
		ClearToken: true,
	}}
	tokens := &fakeTokens{token: "stale"}
	called := false
	h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: tokens})(okHandler(&called))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signin", nil))

	assert.True(t, tokens.cleared)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSession_AuthenticatedLeavesSignIn(t *testing.T) {
	g := &fakeGuard{result: guard.Result{
		State:    guard.StateAuthenticated,
		Class:    route.AuthOnly,
		User:     &domainauth.Profile{ID: "u1"},
		Redirect: route.RootPath,
	}}
	called := false
	h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: &fakeTokens{token: "tok"}})(okHandler(&called))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signin", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireSession_PassesRetry(t *testing.T) {
	g := &fakeGuard{result: guard.Result{State: guard.StateUnauthenticated, Class: route.Public}}
	called := false
	h := RequireSession(SessionMiddlewareOptions{Guard: g, Tokens: &fakeTokens{token: "tok"}})(okHandler(&called))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products?retry=1", nil))

	require.Len(t, g.seen, 2)
	assert.False(t, g.seen[0].Retry)
	assert.True(t, g.seen[1].Retry)
	assert.Equal(t, "/products", g.seen[1].Path)
	assert.Equal(t, "tok", g.seen[1].Token)
}

func TestRequireSession_ProfileFailure(t *testing.T) {
	failure := guard.Result{
		State:   guard.StateUnknown,
		Class:   route.Protected,
		Err:     errors.New("backend down"),
		Message: "Service temporarily unavailable",
	}

	t.Run("page uses OnFailure", func(t *testing.T) {
		var seen guard.Result
		called := false
		h := RequireSession(SessionMiddlewareOptions{
			Guard:  &fakeGuard{result: failure},
			Tokens: &fakeTokens{token: "tok"},
			OnFailure: func(w http.ResponseWriter, _ *http.Request, res guard.Result) {
				seen = res
				w.WriteHeader(http.StatusBadGateway)
			},
		})(okHandler(&called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Service temporarily unavailable", seen.Message)
	})

	t.Run("api gets json", func(t *testing.T) {
		called := false
		h := RequireSession(SessionMiddlewareOptions{
			Guard:  &fakeGuard{result: failure},
			Tokens: &fakeTokens{token: "tok"},
		})(okHandler(&called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "profile_unavailable")
	})

	t.Run("public page continues", func(t *testing.T) {
		public := failure
		public.Class = route.Public
		called := false
		h := RequireSession(SessionMiddlewareOptions{
			Guard:  &fakeGuard{result: public},
			Tokens: &fakeTokens{token: "tok"},
		})(okHandler(&called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireSession_DiscardedWritesNothing(t *testing.T) {
	called := false
	h := RequireSession(SessionMiddlewareOptions{
		Guard:  &fakeGuard{err: guard.ErrDiscarded},
		Tokens: &fakeTokens{token: "tok"},
	})(okHandler(&called))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil).WithContext(ctx))

	assert.False(t, called)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header())
}

func TestRequireSession_GuardErrorIs500(t *testing.T) {
	called := false
	h := RequireSession(SessionMiddlewareOptions{
		Guard:  &fakeGuard{err: errors.New("boom")},
		Tokens: &fakeTokens{},
	})(okHandler(&called))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/customer-list", "/customer-list"},
		{"/products?page=2", "/products?page=2"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com", "/"},
		{"relative/path", "/"},
		{"/\\evil.example", "/"},
		{"\\\\evil.example", "/"},
		{"/products\\..\\admin", "/"},
		{"/\t/evil.example", "/"},
		{"/%5Cencoded", "/%5Cencoded"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.in))
		})
	}
}

func TestRedirectPathForRequest_HTMXUsesCurrentURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/partial", nil)
	req.Header.Set("Hx-Request", "true")
	req.Header.Set("Hx-Current-Url", "https://admin.example.com/products?page=3")

	assert.Equal(t, "/products?page=3", redirectPathForRequest(req))
}

func TestRecover_Returns500(t *testing.T) {
	h := Recover(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
