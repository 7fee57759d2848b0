package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"Admin", RoleAdmin, true},
		{" SUPERADMIN ", RoleSuperAdmin, true},
		{"", "", false},
		{"guest", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
	assert.False(t, Role("").AtLeast(RoleUser))
	assert.False(t, Role("root").AtLeast(RoleUser))
}

func TestProfile_Normalize(t *testing.T) {
	perms := []string{"orders:read"}
	p := Profile{ID: "1", Role: "Admin", Permissions: perms}.Normalize()
	assert.Equal(t, RoleAdmin, p.Role)

	perms[0] = "changed"
	assert.Equal(t, "orders:read", p.Permissions[0])
}

func TestSession_Empty(t *testing.T) {
	assert.True(t, Session{}.Empty())
	assert.False(t, Session{User: &Profile{ID: "1"}, IsAuthenticated: true}.Empty())
	assert.False(t, Session{Rejected: true}.Empty())
	assert.False(t, Session{FetchError: "down"}.Empty())
}

func TestSession_Settled(t *testing.T) {
	assert.False(t, Session{}.Settled())
	assert.True(t, Session{User: &Profile{ID: "1"}, IsAuthenticated: true}.Settled())
	assert.True(t, Session{Rejected: true}.Settled())
	assert.True(t, Session{FetchError: "down"}.Settled())
}

func TestTokenGrant_TTL(t *testing.T) {
	now := time.Now()
	assert.Equal(t, time.Hour, TokenGrant{Token: "t"}.TTL(now, time.Hour))
	assert.Equal(t, 30*time.Minute, TokenGrant{Token: "t", ExpiresAt: now.Add(30 * time.Minute)}.TTL(now, time.Hour))
}
