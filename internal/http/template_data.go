package httpx

import (
	"net/http"

	"github.com/target/storefront-admin/internal/auth/permission"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// basePageData fills the layout fields from the guard result in the request context.
// Every key templates read is present so missing values render empty.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	var (
		user   *domainauth.Profile
		caps   permission.Capabilities
		banner string
	)
	if res, ok := GuardResultFromContext(r.Context()); ok {
		if res.Authenticated() {
			user = res.User
			caps = res.Capabilities
		}
		if res.Err != nil {
			banner = res.Message
		}
	}

	return map[string]any{
		"Title":         meta.Title,
		"CurrentPage":   meta.CurrentPage,
		"Authenticated": user != nil,
		"User":          user,
		"Capabilities":  caps,
		"Banner":        banner,
		"CSRFToken":     CSRFToken(r),
		"ErrorMessage":  "",
		"Errors":        map[string]string{},
	}
}
