package httpx

import (
	"context"

	"github.com/target/storefront-admin/internal/auth/guard"
)

// Unexported context key types to avoid collisions across packages.
type (
	guardResultKey struct{}
	clientIDKey    struct{}
)

// SetGuardResult returns a child context that carries the guard result for the request.
func SetGuardResult(ctx context.Context, res guard.Result) context.Context {
	return context.WithValue(ctx, guardResultKey{}, res)
}

// GuardResultFromContext returns the guard result and whether the guard ran for this request.
func GuardResultFromContext(ctx context.Context) (guard.Result, bool) {
	res, ok := ctx.Value(guardResultKey{}).(guard.Result)
	return res, ok
}

// SetClientID returns a child context that carries the browser's local storage namespace.
func SetClientID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFromContext returns the client id or "" when ClientID middleware did not run.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}
