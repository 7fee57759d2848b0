// Package metrics emits the standard auth metrics to a StatsD sink.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// GuardEvaluation describes one settled guard pass.
type GuardEvaluation struct {
	State      string
	RouteClass string
	Fetched    bool
	Redirected bool
	Err        error
}

// EmitGuardEvaluation counts a guard pass tagged by outcome.
func EmitGuardEvaluation(sink statsd.Sink, in GuardEvaluation) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"state":       in.State,
		"route_class": in.RouteClass,
		"fetched":     strconv.FormatBool(in.Fetched),
		"redirected":  strconv.FormatBool(in.Redirected),
	}
	if in.Err != nil {
		tags["error_class"] = ErrorClass(in.Err)
	}
	sink.Count("guard.evaluate", 1, tags)
}

// ProfileFetch describes one upstream profile request.
type ProfileFetch struct {
	Duration time.Duration
	Err      error
}

// EmitProfileFetch records the fetch latency and its result.
func EmitProfileFetch(sink statsd.Sink, in ProfileFetch) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": ResultSuccess}
	if in.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = ErrorClass(in.Err)
	}
	sink.Count("profile.fetch", 1, tags)
	if in.Duration > 0 {
		sink.Timing("profile.fetch.duration", in.Duration, tags)
	}
}

// ErrorClass maps an error to a low-cardinality tag value.
func ErrorClass(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	apiErr, ok := apperrors.AsAPIError(err)
	if !ok {
		return apperrors.KindLocal.String()
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return "unauthorized"
	case apiErr.Status >= 400 && apiErr.Status < 500:
		return "client_error"
	case apiErr.Status >= 500:
		return "server_error"
	default:
		return apperrors.KindTransport.String()
	}
}
