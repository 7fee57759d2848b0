// Package mocks provides mock implementations of the ports used by storefront-admin.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockKVStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "ns", "key").Return("value", nil)
package mocks

// Generate mock for KVStore interface from internal/ports package.
// This creates MockKVStore with methods: Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=kv_store_mock.go github.com/target/storefront-admin/internal/ports KVStore

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/storefront-admin/internal/ports SessionStore

// Generate mock for ProfileFetcher interface from internal/ports package.
// This creates MockProfileFetcher with methods: FetchProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_fetcher_mock.go github.com/target/storefront-admin/internal/ports ProfileFetcher

// Generate mock for CredentialAuthenticator interface from internal/ports package.
// This creates MockCredentialAuthenticator with methods: SignIn, SignUp
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_authenticator_mock.go github.com/target/storefront-admin/internal/ports CredentialAuthenticator
