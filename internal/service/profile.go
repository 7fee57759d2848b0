package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/observability/metrics"
	"github.com/target/storefront-admin/internal/observability/statsd"
	"github.com/target/storefront-admin/internal/ports"
	"golang.org/x/sync/singleflight"
)

// ShouldFetch reports whether a profile fetch is needed: a token is present and no fetch
// for it has settled yet. Rejected and failed tokens are not fetched again.
func ShouldFetch(sess domainauth.Session, token string) bool {
	return token != "" && !sess.Settled()
}

// ProfileReconcilerOptions groups dependencies for ProfileReconciler.
type ProfileReconcilerOptions struct {
	Fetcher ports.ProfileFetcher
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// ProfileReconciler issues profile fetches with at most one request in flight per token.
type ProfileReconciler struct {
	fetcher ports.ProfileFetcher
	timeout time.Duration
	logger  *slog.Logger
	metrics statsd.Sink
	group   singleflight.Group
}

// NewProfileReconciler constructs a new ProfileReconciler.
func NewProfileReconciler(opts ProfileReconcilerOptions) *ProfileReconciler {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileReconciler{fetcher: opts.Fetcher, timeout: timeout, logger: logger, metrics: opts.Metrics}
}

// Fetch returns the profile for token. Concurrent calls for the same token share one
// request. The shared request is detached from any single caller's cancellation; a caller
// whose ctx ends first gets ctx.Err() and the eventual result is discarded for it.
func (p *ProfileReconciler) Fetch(ctx context.Context, token string) (domainauth.Profile, error) {
	if token == "" {
		return domainauth.Profile{}, errors.New("token is required")
	}

	ch := p.group.DoChan(SessionKey(token), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		start := time.Now()
		profile, err := p.fetcher.FetchProfile(fetchCtx, token)
		metrics.EmitProfileFetch(p.metrics, metrics.ProfileFetch{Duration: time.Since(start), Err: err})
		if err != nil {
			return nil, err
		}
		return profile, nil
	})

	select {
	case <-ctx.Done():
		return domainauth.Profile{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domainauth.Profile{}, fmt.Errorf("fetch profile: %w", res.Err)
		}
		profile, ok := res.Val.(domainauth.Profile)
		if !ok {
			return domainauth.Profile{}, errors.New("fetch profile: unexpected result type")
		}
		if res.Shared {
			p.logger.DebugContext(ctx, "profile fetch shared with concurrent request")
		}
		return profile.Normalize(), nil
	}
}
