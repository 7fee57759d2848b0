package ports_test

import (
	"testing"

	"github.com/target/storefront-admin/internal/adapters/devauth"
	"github.com/target/storefront-admin/internal/mocks"
	mockauth "github.com/target/storefront-admin/internal/mocks/auth"
	"github.com/target/storefront-admin/internal/ports"
)

// This test only verifies that our mocks and dev adapters conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mockauth.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mockauth.MemorySessionStore)(nil)
	var _ ports.ProfileFetcher = (*mockauth.StubProfileFetcher)(nil)

	var _ ports.KVStore = (*mocks.MockKVStore)(nil)
	var _ ports.SessionStore = (*mocks.MockSessionStore)(nil)
	var _ ports.ProfileFetcher = (*mocks.MockProfileFetcher)(nil)
	var _ ports.CredentialAuthenticator = (*mocks.MockCredentialAuthenticator)(nil)

	var _ ports.CredentialAuthenticator = (*devauth.Provider)(nil)
}
