package service

import (
	"context"
	"strings"
)

// Local storage keys written by the remember-me flow.
const (
	RememberEmailKey    = "remember-email"
	RememberPasswordKey = "remember-password"
)

// ItemStorage is the never-fail local storage contract shared by the secure and plain stores.
type ItemStorage interface {
	SetItem(ctx context.Context, namespace, key, value string)
	GetItem(ctx context.Context, namespace, key string) (string, bool)
	RemoveItem(ctx context.Context, namespace, key string)
}

// RememberedCredentials are the sign-in form values saved for a browser.
type RememberedCredentials struct {
	Email    string
	Password string
}

// RememberMe persists sign-in credentials in a browser's vaulted local storage.
// A disabled RememberMe reads nothing and writes nothing.
type RememberMe struct {
	storage ItemStorage
	enabled bool
}

// NewRememberMe constructs a RememberMe over storage.
func NewRememberMe(storage ItemStorage, enabled bool) *RememberMe {
	return &RememberMe{storage: storage, enabled: enabled && storage != nil}
}

// Enabled reports whether the remember-me flow is active.
func (r *RememberMe) Enabled() bool { return r != nil && r.enabled }

// Save stores creds when remember is set and removes any stored credentials otherwise.
func (r *RememberMe) Save(ctx context.Context, clientID string, remember bool, creds RememberedCredentials) {
	if !r.Enabled() || clientID == "" {
		return
	}
	if !remember {
		r.Forget(ctx, clientID)
		return
	}
	r.storage.SetItem(ctx, clientID, RememberEmailKey, strings.TrimSpace(creds.Email))
	r.storage.SetItem(ctx, clientID, RememberPasswordKey, creds.Password)
}

// Load returns the stored credentials. Both values must be present.
func (r *RememberMe) Load(ctx context.Context, clientID string) (RememberedCredentials, bool) {
	if !r.Enabled() || clientID == "" {
		return RememberedCredentials{}, false
	}
	email, ok := r.storage.GetItem(ctx, clientID, RememberEmailKey)
	if !ok {
		return RememberedCredentials{}, false
	}
	password, ok := r.storage.GetItem(ctx, clientID, RememberPasswordKey)
	if !ok {
		return RememberedCredentials{}, false
	}
	return RememberedCredentials{Email: email, Password: password}, true
}

// Forget removes stored credentials.
func (r *RememberMe) Forget(ctx context.Context, clientID string) {
	if !r.Enabled() || clientID == "" {
		return
	}
	r.storage.RemoveItem(ctx, clientID, RememberEmailKey)
	r.storage.RemoveItem(ctx, clientID, RememberPasswordKey)
}
