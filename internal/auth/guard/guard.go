package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/storefront-admin/internal/auth/permission"
	"github.com/target/storefront-admin/internal/auth/route"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/observability/metrics"
	"github.com/target/storefront-admin/internal/observability/statsd"
)

// ErrDiscarded is returned when the caller went away before the profile fetch resolved.
// Nothing was mutated.
var ErrDiscarded = errors.New("profile result discarded: request canceled")

// Sessions is the session container the guard reads and writes.
type Sessions interface {
	Current(ctx context.Context, token string) domainauth.Session
	Populate(ctx context.Context, token string, profile domainauth.Profile) error
	Reject(ctx context.Context, token string) error
	RecordFailure(ctx context.Context, token, message string) error
}

// Profiles fetches the profile for a token.
type Profiles interface {
	Fetch(ctx context.Context, token string) (domainauth.Profile, error)
}

// Options groups dependencies for Guard.
type Options struct {
	Sessions Sessions
	Profiles Profiles
	Messages *apperrors.MessageExtractor
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// Guard runs reconciliation passes for incoming requests.
type Guard struct {
	sessions Sessions
	profiles Profiles
	messages *apperrors.MessageExtractor
	metrics  statsd.Sink
	Logger   *slog.Logger
}

// New constructs a Guard.
func New(opts Options) *Guard {
	return &Guard{
		sessions: opts.Sessions,
		profiles: opts.Profiles,
		messages: opts.Messages,
		metrics:  opts.Metrics,
		Logger:   opts.Logger,
	}
}

func (g *Guard) logger() *slog.Logger {
	if g != nil && g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// Request identifies one evaluation. Retry is set when the user asked to try loading the
// profile again after a failure.
type Request struct {
	Token string
	Path  string
	Retry bool
}

// Result is the settled outcome of Evaluate.
type Result struct {
	State        State
	Class        route.Class
	User         *domainauth.Profile
	Capabilities permission.Capabilities
	Redirect     string
	ClearToken   bool
	Fetched      bool
	Err          error
	// Message is the user-facing text for Err.
	Message string
}

// Authenticated reports whether the request carries a known profile.
func (r Result) Authenticated() bool { return r.State == StateAuthenticated && r.User != nil }

// Evaluate reads the session for req.Token, fetches the profile when needed, applies the
// resulting session transition, and returns the redirect decision.
func (g *Guard) Evaluate(ctx context.Context, req Request) (Result, error) {
	sess := g.sessions.Current(ctx, req.Token)
	d := Reduce(Input{Token: req.Token, Session: sess, Path: req.Path, Retry: req.Retry})

	fetched := false
	if d.Fetch {
		fetched = true
		profile, err := g.profiles.Fetch(ctx, req.Token)
		if ctx.Err() != nil {
			return Result{}, ErrDiscarded
		}
		outcome := Outcome{Err: err}
		if err == nil {
			outcome.Profile = &profile
		} else {
			outcome.Message = g.message(err)
		}
		// Re-read: a concurrent request may have settled the session meanwhile.
		sess = g.sessions.Current(ctx, req.Token)
		d = Reduce(Input{Token: req.Token, Session: sess, Path: req.Path, Outcome: &outcome})
	}

	if err := g.apply(ctx, req.Token, d); err != nil {
		g.logger().WarnContext(ctx, "apply session transition failed", "state", d.State.String(), "error", err)
	}

	res := Result{
		State:      d.State,
		Class:      route.Classify(req.Path),
		User:       d.Session.User,
		Redirect:   d.Redirect,
		ClearToken: d.ClearToken,
		Fetched:    fetched,
		Err:        d.Err,
	}
	if !d.Session.IsAuthenticated {
		res.User = nil
	}
	res.Capabilities = permission.For(res.User)
	if d.Err != nil {
		res.Message = g.message(d.Err)
		if fetched {
			g.logger().WarnContext(ctx, "profile fetch failed", "error", d.Err)
		}
	}
	metrics.EmitGuardEvaluation(g.metrics, metrics.GuardEvaluation{
		State:      res.State.String(),
		RouteClass: res.Class.String(),
		Fetched:    res.Fetched,
		Redirected: res.Redirect != "",
		Err:        res.Err,
	})
	return res, nil
}

func (g *Guard) apply(ctx context.Context, token string, d Decision) error {
	switch d.Mutation {
	case MutationPopulate:
		if d.Session.User == nil {
			return errors.New("populate without profile")
		}
		if err := g.sessions.Populate(ctx, token, *d.Session.User); err != nil {
			return fmt.Errorf("populate session: %w", err)
		}
	case MutationReject:
		if err := g.sessions.Reject(ctx, token); err != nil {
			return fmt.Errorf("reject session: %w", err)
		}
	case MutationFail:
		if err := g.sessions.RecordFailure(ctx, token, d.Session.FetchError); err != nil {
			return fmt.Errorf("record fetch failure: %w", err)
		}
	case MutationNone:
	}
	return nil
}

func (g *Guard) message(err error) string {
	if g.messages != nil {
		return g.messages.Message(err)
	}
	return apperrors.UnknownErrorMessage
}
