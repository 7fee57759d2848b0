package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/target/storefront-admin/internal/auth/guard"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/service"
)

// fakeGuard returns a canned result and records the requests it saw.
type fakeGuard struct {
	mu     sync.Mutex
	result guard.Result
	err    error
	seen   []guard.Request
}

func (f *fakeGuard) Evaluate(_ context.Context, req guard.Request) (guard.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, req)
	return f.result, f.err
}

func (f *fakeGuard) requests() []guard.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]guard.Request(nil), f.seen...)
}

// fakeTokens is an in-memory TokenCookies.
type fakeTokens struct {
	token    string
	written  string
	ttl      time.Duration
	cleared  bool
	writeCnt int
}

func (f *fakeTokens) Read(_ *http.Request) (string, bool) {
	return f.token, f.token != ""
}

func (f *fakeTokens) Write(_ http.ResponseWriter, _ *http.Request, token string, ttl time.Duration) {
	f.written = token
	f.ttl = ttl
	f.writeCnt++
}

func (f *fakeTokens) Clear(_ http.ResponseWriter, _ *http.Request) {
	f.cleared = true
}

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	credentials   bool
	redirect      bool
	signInFunc    func(ctx context.Context, in ports.SignInInput) (domainauth.TokenGrant, error)
	signUpFunc    func(ctx context.Context, in ports.SignUpInput) (domainauth.TokenGrant, error)
	beginFunc     func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeFunc  func(ctx context.Context, in service.CompleteLoginInput) (domainauth.TokenGrant, error)
	logoutFunc    func(ctx context.Context, token string) error
	loggedOutWith string
}

func (m *mockAuthService) SupportsCredentials() bool { return m.credentials }
func (m *mockAuthService) SupportsRedirect() bool    { return m.redirect }

func (m *mockAuthService) SignIn(ctx context.Context, in ports.SignInInput) (domainauth.TokenGrant, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, in)
	}
	return domainauth.TokenGrant{Token: "signed-in-token"}, nil
}

func (m *mockAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (domainauth.TokenGrant, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, in)
	}
	return domainauth.TokenGrant{Token: "signed-up-token"}, nil
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginFunc != nil {
		return m.beginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?state=test-state&nonce=test-nonce",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	in service.CompleteLoginInput,
) (domainauth.TokenGrant, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, in)
	}
	return domainauth.TokenGrant{Token: "oidc-token"}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	m.loggedOutWith = token
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}

// memoryItems is a map-backed service.ItemStorage.
type memoryItems struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryItems() *memoryItems {
	return &memoryItems{items: map[string]string{}}
}

func (m *memoryItems) SetItem(_ context.Context, namespace, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[namespace+"/"+key] = value
}

func (m *memoryItems) GetItem(_ context.Context, namespace, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[namespace+"/"+key]
	return v, ok
}

func (m *memoryItems) RemoveItem(_ context.Context, namespace, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, namespace+"/"+key)
}

var (
	_ SessionGuard         = (*fakeGuard)(nil)
	_ TokenCookies         = (*fakeTokens)(nil)
	_ AuthServiceInterface = (*mockAuthService)(nil)
	_ service.ItemStorage  = (*memoryItems)(nil)
)
