package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// roleRank orders roles for privilege checks: user < admin < superadmin.
var roleRank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// ParseRole canonicalizes a role string (case-insensitive, surrounding space ignored).
// The boolean is false when the value is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRank[r]; !ok {
		return "", false
	}
	return r, true
}

// Rank returns the privilege level of the role, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether r is a known role at or above min.
func (r Role) AtLeast(min Role) bool {
	rank := r.Rank()
	return rank > 0 && rank >= min.Rank()
}

// Profile is the authenticated user's identity and authorization data as returned
// by the backend profile endpoint. It is replaced wholesale on every fetch.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// Normalize returns a copy of p with the role canonicalized and permissions copied.
func (p Profile) Normalize() Profile {
	if r, ok := ParseRole(string(p.Role)); ok {
		p.Role = r
	}
	p.Permissions = append([]string(nil), p.Permissions...)
	return p
}

// Session is the authentication state held for one browser token.
// IsAuthenticated implies User != nil.
type Session struct {
	User            *Profile `json:"user,omitempty"`
	IsAuthenticated bool     `json:"is_authenticated"`
	// Rejected marks a token the backend answered with 401. It is never fetched for again.
	Rejected bool `json:"rejected,omitempty"`
	// FetchError holds the user-facing message of the last failed profile fetch.
	// It stays until the user retries or signs in again.
	FetchError string    `json:"fetch_error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Empty reports whether the session carries no state at all.
func (s Session) Empty() bool {
	return s.User == nil && !s.IsAuthenticated && !s.Rejected && s.FetchError == ""
}

// Settled reports whether the token's profile fetch has already resolved, successfully or not.
func (s Session) Settled() bool {
	return s.IsAuthenticated || s.Rejected || s.FetchError != ""
}

// TokenGrant is a bearer token obtained from a sign-in flow together with its expiry.
type TokenGrant struct {
	Token     string
	ExpiresAt time.Time
}

// TTL returns the remaining lifetime of the grant relative to now.
// A zero ExpiresAt yields fallback.
func (g TokenGrant) TTL(now time.Time, fallback time.Duration) time.Duration {
	if g.ExpiresAt.IsZero() {
		return fallback
	}
	return g.ExpiresAt.Sub(now)
}
