// Package route classifies navigable paths into access-control classes.
// Classification is pure: no network, storage, or request access, so it is safe to call
// for every request including ones rendered before any session is known.
package route

const (
	// RootPath is the application root.
	RootPath = "/"
	// SignInPath is the sign-in entry point and the target of auth redirects.
	SignInPath = "/signin"
	// SignUpPath is the registration entry point.
	SignUpPath = "/signup"
)

// Class is the access-control category of a path.
type Class int

const (
	// Protected paths require a token or an authenticated session.
	Protected Class = iota
	// Public paths render regardless of session state.
	Public
	// AuthOnly paths are the sign-in and sign-up entry points; authenticated users are sent away.
	AuthOnly
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case AuthOnly:
		return "auth_only"
	case Protected:
		return "protected"
	default:
		return "unknown"
	}
}

var authOnlyPaths = map[string]struct{}{
	SignInPath: {},
	SignUpPath: {},
}

// Classify maps a path to its Class. Matching is exact.
func Classify(path string) Class {
	if _, ok := authOnlyPaths[path]; ok {
		return AuthOnly
	}
	if path == RootPath {
		return Public
	}
	return Protected
}
