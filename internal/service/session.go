package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Store  ports.SessionStore
	TTL    time.Duration
	Logger *slog.Logger
	Now    func() time.Time
}

// SessionService owns the session container for each token. All writes go through
// LoginSuccess, Populate, Reject, RecordFailure, and Logout; reads go through Current.
type SessionService struct {
	store  ports.SessionStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

var errNilProfile = errors.New("profile is required for an authenticated session")

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{store: opts.Store, ttl: ttl, logger: logger, now: now}
}

// SessionKey derives the store key for a token. Raw tokens are never used as keys.
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Current returns the session for token. An empty token or a store failure yields an
// empty session; store failures are logged.
func (s *SessionService) Current(ctx context.Context, token string) domainauth.Session {
	if token == "" {
		return domainauth.Session{}
	}
	sess, err := s.store.Get(ctx, SessionKey(token))
	if err != nil {
		s.logger.WarnContext(ctx, "read session failed", "error", err)
		return domainauth.Session{}
	}
	if sess.IsAuthenticated && sess.User == nil {
		return domainauth.Session{}
	}
	return sess
}

// LoginSuccess records a freshly issued token. With a profile the session is authenticated
// immediately; without one any stale state for the token is dropped so the guard fetches.
func (s *SessionService) LoginSuccess(ctx context.Context, token string, profile *domainauth.Profile) error {
	if token == "" {
		return errors.New("token is required")
	}
	if profile == nil {
		if err := s.store.Delete(ctx, SessionKey(token)); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
		return nil
	}
	return s.Populate(ctx, token, *profile)
}

// Populate replaces the session for token with an authenticated one for profile.
func (s *SessionService) Populate(ctx context.Context, token string, profile domainauth.Profile) error {
	if token == "" {
		return errors.New("token is required")
	}
	if profile.ID == "" && profile.Email == "" {
		return errNilProfile
	}
	p := profile.Normalize()
	sess := domainauth.Session{
		User:            &p,
		IsAuthenticated: true,
		UpdatedAt:       s.now(),
	}
	if err := s.store.Save(ctx, SessionKey(token), sess, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Reject records that the backend refused token. The marker keeps later passes from
// fetching for the same token again.
func (s *SessionService) Reject(ctx context.Context, token string) error {
	return s.saveMarker(ctx, token, domainauth.Session{Rejected: true})
}

// RecordFailure records a failed profile fetch for token together with its user-facing
// message. A later fetch only happens on an explicit retry or with a new token.
func (s *SessionService) RecordFailure(ctx context.Context, token, message string) error {
	if message == "" {
		return errors.New("failure message is required")
	}
	return s.saveMarker(ctx, token, domainauth.Session{FetchError: message})
}

func (s *SessionService) saveMarker(ctx context.Context, token string, sess domainauth.Session) error {
	if token == "" {
		return errors.New("token is required")
	}
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, SessionKey(token), sess, s.ttl); err != nil {
		return fmt.Errorf("save session marker: %w", err)
	}
	return nil
}

// Logout clears the session for token. An empty token is a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, SessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
