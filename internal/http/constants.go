package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageHome         = "home"
	PageSignIn       = "signin"
	PageSignUp       = "signup"
	PageCustomerList = "customer-list"
	PageProducts     = "products"
	PageImages       = "images"
)

// Template paths used for loading templates in dev mode and tests.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// Cookie names set by this package besides the token cookie.
const (
	ClientIDCookieName          = "client_id"
	OAuthStateCookieName        = "oauth_state"
	OAuthNonceCookieName        = "oauth_nonce"
	PostLoginRedirectCookieName = "post_login_redirect"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:         "home-content",
	PageSignIn:       "signin-content",
	PageSignUp:       "signup-content",
	PageCustomerList: "customer-list-content",
	PageProducts:     "products-content",
	PageImages:       "images-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "home-content"
}
