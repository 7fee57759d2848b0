package backendapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/api/v1", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorContains(t, err, "base url is required")

	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	assert.ErrorContains(t, err, "must be http(s)")
}

func TestClient_FetchProfile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/profile", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"profile":{"id":"u-1","name":"Ada","email":"ada@example.com","role":"Admin","permissions":["images:view"]}}`))
	}))

	p, err := c.FetchProfile(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.Profile{
		ID:          "u-1",
		Name:        "Ada",
		Email:       "ada@example.com",
		Role:        domainauth.RoleAdmin,
		Permissions: []string{"images:view"},
	}, p)
}

func TestClient_FetchProfile_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))

	_, err := c.FetchProfile(context.Background(), "tok-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	apiErr, ok := apperrors.AsAPIError(err)
	require.True(t, ok)
	assert.JSONEq(t, `{"message":"token expired"}`, string(apiErr.Payload))
}

func TestClient_FetchProfile_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.FetchProfile(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindTransport, apperrors.Classify(err))
	assert.False(t, apperrors.IsUnauthorized(err))
}

func TestClient_FetchProfile_MalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user":{}}`))
	}))

	_, err := c.FetchProfile(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLocal, apperrors.Classify(err))
}

func TestClient_FetchProfile_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close()

	_, err = c.FetchProfile(context.Background(), "tok-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLocal, apperrors.Classify(err))
}

func TestClient_SignIn(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "pw", body["password"])

		_, _ = w.Write([]byte(`{"token":"tok-9","expires_in":3600}`))
	}))

	grant, err := c.SignIn(context.Background(), ports.SignInInput{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-9", grant.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), grant.ExpiresAt, time.Minute)
}

func TestClient_SignUp_AccessTokenField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		_, _ = w.Write([]byte(`{"access_token":"tok-10"}`))
	}))

	grant, err := c.SignUp(context.Background(), ports.SignUpInput{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-10", grant.Token)
	assert.True(t, grant.ExpiresAt.IsZero())
}

func TestClient_SignIn_Rejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"message":"email already taken"}]}`))
	}))

	_, err := c.SignUp(context.Background(), ports.SignUpInput{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	require.Error(t, err)

	messages, mErr := apperrors.NewMessageExtractor(nil)
	require.NoError(t, mErr)
	assert.Equal(t, "email already taken", messages.Message(err))
}

func TestClient_SignIn_MissingToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.SignIn(context.Background(), ports.SignInInput{Email: "a", Password: "b"})
	assert.ErrorContains(t, err, "missing token")
}
