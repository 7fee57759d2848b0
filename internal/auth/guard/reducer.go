// Package guard decides, for every page request, whether the browser's token has a known
// profile, whether one must be fetched, and where (if anywhere) the request is redirected.
//
// The decision itself is the pure function Reduce; Guard wires it to the session container
// and the profile reconciler.
package guard

import (
	"github.com/target/storefront-admin/internal/auth/route"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/service"
)

// State is the guard's view of the current token.
type State int

const (
	// StateUnknown means no decision was made, e.g. after a failed fetch that was not a 401.
	StateUnknown State = iota
	// StateAwaitingProfile means a token is present and its profile must be fetched.
	StateAwaitingProfile
	// StateAuthenticated means the session holds a profile for the token.
	StateAuthenticated
	// StateUnauthenticated means there is no token, or the backend rejected it.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAwaitingProfile:
		return "awaiting_profile"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "invalid"
	}
}

// Mutation names the session transition a Decision asks for.
type Mutation int

const (
	MutationNone Mutation = iota
	MutationPopulate
	// MutationReject records that the backend refused the token.
	MutationReject
	// MutationFail records a failed fetch and its message.
	MutationFail
)

// Outcome is the resolution of a profile fetch. Message is the user-facing text for Err.
type Outcome struct {
	Profile *domainauth.Profile
	Err     error
	Message string
}

// Input is everything Reduce looks at. Outcome is nil unless a fetch just resolved.
// Retry asks for a new fetch after an earlier failure for the same token.
type Input struct {
	Token   string
	Session domainauth.Session
	Path    string
	Retry   bool
	Outcome *Outcome
}

// Decision is the result of one reconciliation pass.
type Decision struct {
	State State
	// Session is the session after applying Mutation.
	Session    domainauth.Session
	Mutation   Mutation
	Redirect   string
	Fetch      bool
	ClearToken bool
	// Err is a fetch failure to display. Unauthorized failures are never reported here.
	Err error
}

// Reduce computes the next guard decision. It has no side effects.
func Reduce(in Input) Decision {
	d := Decision{Session: in.Session}
	token := in.Token

	if in.Outcome != nil {
		switch {
		case in.Outcome.Err == nil && in.Outcome.Profile != nil:
			p := in.Outcome.Profile.Normalize()
			d.Session = domainauth.Session{User: &p, IsAuthenticated: true, UpdatedAt: in.Session.UpdatedAt}
			d.Mutation = MutationPopulate
			d.State = StateAuthenticated
		case apperrors.IsUnauthorized(in.Outcome.Err):
			d.Session = domainauth.Session{Rejected: true}
			d.Mutation = MutationReject
			d.ClearToken = true
			d.State = StateUnauthenticated
			if in.Path != route.SignInPath {
				d.Redirect = route.SignInPath
			}
			return d
		default:
			msg := in.Outcome.Message
			if msg == "" {
				msg = apperrors.UnknownErrorMessage
			}
			d.Session = domainauth.Session{FetchError: msg}
			d.Mutation = MutationFail
			d.Err = in.Outcome.Err
			d.State = StateUnknown
		}
	} else if in.Retry && token != "" && in.Session.FetchError != "" && !in.Session.Rejected {
		d.State = StateAwaitingProfile
		d.Fetch = true
		return d
	} else if service.ShouldFetch(in.Session, token) {
		d.State = StateAwaitingProfile
		d.Fetch = true
		return d
	} else if in.Session.IsAuthenticated {
		d.State = StateAuthenticated
	} else if token != "" && in.Session.Rejected {
		// A rejected token counts as no token. The cookie is dropped again if the browser
		// still sends it.
		d.State = StateUnauthenticated
		d.ClearToken = true
		token = ""
	} else if token != "" && in.Session.FetchError != "" {
		d.State = StateUnknown
		d.Err = &apperrors.AppError{Code: apperrors.ErrCodeInternal, Message: in.Session.FetchError}
	} else {
		d.State = StateUnauthenticated
	}

	d.Redirect = redirectFor(route.Classify(in.Path), token, d.Session)
	return d
}

func redirectFor(class route.Class, token string, sess domainauth.Session) string {
	switch class {
	case route.AuthOnly:
		if sess.IsAuthenticated && token != "" {
			return route.RootPath
		}
	case route.Protected:
		if token == "" && !sess.IsAuthenticated {
			return route.SignInPath
		}
	case route.Public:
	}
	return ""
}
