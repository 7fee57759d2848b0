package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports on one storage backend. Ping is nil for in-process backends, which
// are always reachable.
type HealthCheck struct {
	Name    string
	Backend string
	Ping    func(ctx context.Context) error
}

type storeHealth struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
}

type healthReport struct {
	Status string                 `json:"status"`
	Stores map[string]storeHealth `json:"stores,omitempty"`
}

// healthHandler answers readiness and liveness probes. It pings every configured store
// backend and returns 503 when any of them is unreachable.
type healthHandler struct {
	checks []HealthCheck
	logger *slog.Logger
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "ok"}
	if len(h.checks) > 0 {
		report.Stores = make(map[string]storeHealth, len(h.checks))
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()
	for _, c := range h.checks {
		status := "ok"
		if c.Ping != nil {
			if err := c.Ping(ctx); err != nil {
				status = "unreachable"
				report.Status = "degraded"
				if h.logger != nil {
					h.logger.WarnContext(ctx, "health check failed", "store", c.Name, "backend", c.Backend, "error", err)
				}
			}
		}
		report.Stores[c.Name] = storeHealth{Backend: c.Backend, Status: status}
	}

	code := http.StatusOK
	if report.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, report)
}
