package httpx

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/target/storefront-admin/internal/auth/guard"
	"github.com/target/storefront-admin/internal/service"
)

// customerListLimitOptions are the page sizes offered on the customer list.
//
//nolint:gochecknoglobals // static read-only options
var customerListLimitOptions = []int{10, 25, 50, 100}

// UIHandlers serves browser-facing pages.
type UIHandlers struct {
	T           *TemplateRenderer
	Preferences *service.Preferences
	Logger      *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Home renders the public landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, http.StatusOK, NewTemplateData(r, PageMeta{Title: "Home", CurrentPage: PageHome}).Build())
}

// CustomerList renders the customer list; ?limit=N updates the stored page size.
func (h *UIHandlers) CustomerList(w http.ResponseWriter, r *http.Request) {
	clientID := ClientIDFromContext(r.Context())

	limit := service.DefaultCustomerListLimit
	if h.Preferences != nil {
		limit = h.Preferences.CustomerListLimit(r.Context(), clientID)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = h.Preferences.SetCustomerListLimit(r.Context(), clientID, n)
			}
		}
	}

	data := NewTemplateData(r, PageMeta{Title: "Customers", CurrentPage: PageCustomerList}).
		With("Limit", limit).
		With("LimitOptions", limitOptions(limit)).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// Products renders the product catalogue page.
func (h *UIHandlers) Products(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, NewTemplateData(r, PageMeta{Title: "Products", CurrentPage: PageProducts}).Build())
}

// Images renders the image library with the caller's capabilities.
func (h *UIHandlers) Images(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, NewTemplateData(r, PageMeta{Title: "Images", CurrentPage: PageImages}).Build())
}

// NotFound renders the 404 page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, errorPage{Status: http.StatusNotFound, Title: "Page not found",
		Message: "The page you are looking for does not exist."})
}

// ProfileUnavailable renders the page shown when a protected page cannot load the profile.
func (h *UIHandlers) ProfileUnavailable(w http.ResponseWriter, r *http.Request, res guard.Result) {
	h.renderError(w, r, errorPage{
		Status:   http.StatusBadGateway,
		Title:    "Something went wrong",
		Message:  res.Message,
		RetryURL: r.URL.Path + "?" + RetryParam + "=1",
	})
}

type errorPage struct {
	Status   int
	Title    string
	Message  string
	RetryURL string
}

func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, p errorPage) {
	if h.T == nil {
		http.Error(w, p.Message, p.Status)
		return
	}
	data := map[string]any{"Title": p.Title, "ErrorMessage": p.Message, "RetryURL": p.RetryURL}
	if err := h.T.RenderError(w, p.Status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render error page failed", "error", err)
		http.Error(w, p.Message, p.Status)
	}
}

func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, status, data)
	} else {
		err = h.T.RenderFull(w, status, data)
	}
	if err != nil {
		h.logger().ErrorContext(r.Context(), "render page failed",
			"page", data["CurrentPage"],
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// limitOptions returns the offered page sizes, including a stored value outside the defaults.
func limitOptions(current int) []int {
	if slices.Contains(customerListLimitOptions, current) {
		return customerListLimitOptions
	}
	out := append(slices.Clone(customerListLimitOptions), current)
	slices.Sort(out)
	return out
}
