package httpx

import (
	"net/http"

	"github.com/target/storefront-admin/internal/auth/permission"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

type sessionResponse struct {
	Authenticated bool                    `json:"authenticated"`
	State         string                  `json:"state"`
	User          *domainauth.Profile     `json:"user"`
	Capabilities  permission.Capabilities `json:"capabilities"`
	Message       string                  `json:"message,omitempty"`
}

// sessionHandler reports the guard's view of the caller.
// GET /api/session.
func sessionHandler(w http.ResponseWriter, r *http.Request) {
	res, ok := GuardResultFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, sessionResponse{State: "unknown"})
		return
	}

	body := sessionResponse{
		Authenticated: res.Authenticated(),
		State:         res.State.String(),
		Message:       res.Message,
	}
	if body.Authenticated {
		body.User = res.User
		body.Capabilities = res.Capabilities
	}
	WriteJSON(w, http.StatusOK, body)
}
