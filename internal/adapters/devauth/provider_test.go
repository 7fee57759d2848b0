package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/adapters/authroles"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	prov, err := NewProvider(Config{
		UserID:      "dev-user",
		Email:       "dev@example.com",
		Groups:      []string{"admins"},
		Roles:       authroles.StaticRoleMapper{AdminGroup: "admins"},
		Permissions: []string{"images:view"},
	})
	require.NoError(t, err)
	return prov
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	assert.ErrorContains(t, err, "UserID is required")

	_, err = NewProvider(Config{UserID: "dev-user"})
	assert.ErrorContains(t, err, "Email is required")
}

func TestProvider_BeginAndExchange(t *testing.T) {
	prov := newTestProvider(t)

	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/auth/callback?"), "unexpected authURL: %s", url)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)

	grant, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(grant.Token, TokenPrefix))
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), grant.ExpiresAt, time.Minute)
}

func TestProvider_SignInSignUp(t *testing.T) {
	prov := newTestProvider(t)
	ctx := context.Background()

	grant, err := prov.SignIn(ctx, ports.SignInInput{Email: "anyone@example.com", Password: "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(grant.Token, TokenPrefix))

	_, err = prov.SignIn(ctx, ports.SignInInput{Email: "anyone@example.com"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = prov.SignUp(ctx, ports.SignUpInput{Name: "A", Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = prov.SignUp(ctx, ports.SignUpInput{Email: "a@example.com", Password: "x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestProvider_FetchProfile(t *testing.T) {
	prov := newTestProvider(t)
	ctx := context.Background()

	grant, err := prov.SignIn(ctx, ports.SignInInput{Email: "a@example.com", Password: "x"})
	require.NoError(t, err)

	profile, err := prov.FetchProfile(ctx, grant.Token)
	require.NoError(t, err)
	assert.Equal(t, "dev-user", profile.ID)
	assert.Equal(t, "dev-user", profile.Name)
	assert.Equal(t, domainauth.RoleAdmin, profile.Role)
	assert.Equal(t, []string{"images:view"}, profile.Permissions)

	_, err = prov.FetchProfile(ctx, "foreign-token")
	assert.True(t, apperrors.IsUnauthorized(err))
}
