package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/storefront-admin/internal/auth/route"
	"github.com/target/storefront-admin/internal/auth/tokenstore"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
	"github.com/target/storefront-admin/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SupportsCredentials() bool
	SupportsRedirect() bool
	SignIn(ctx context.Context, in ports.SignInInput) (domainauth.TokenGrant, error)
	SignUp(ctx context.Context, in ports.SignUpInput) (domainauth.TokenGrant, error)
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (domainauth.TokenGrant, error)
	Logout(ctx context.Context, token string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// oauthCookieMaxAge bounds how long a redirect login may take.
const oauthCookieMaxAge = 600

// AuthHandlers provides HTTP handlers for sign-in, sign-up, and sign-out.
type AuthHandlers struct {
	Svc      AuthServiceInterface
	Tokens   TokenCookies
	Remember *service.RememberMe
	T        *TemplateRenderer
	Messages *apperrors.MessageExtractor
	// TokenTTL is the cookie lifetime when a grant carries no expiry.
	TokenTTL     time.Duration
	CookieDomain string
	Now          func() time.Time
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type signInForm struct {
	Email       string
	Password    string
	Remember    bool
	RedirectURI string
}

// SignInPage renders the sign-in form, pre-filled with remembered credentials.
// GET /signin.
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	form := signInForm{RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri"))}
	if creds, ok := h.Remember.Load(r.Context(), ClientIDFromContext(r.Context())); ok {
		form.Email = creds.Email
		form.Password = creds.Password
		form.Remember = true
	}
	h.renderSignIn(w, r, http.StatusOK, form, nil)
}

// SignIn handles the credential form.
// POST /signin.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	form := signInForm{
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
		Remember:    r.PostFormValue("remember") != "",
		RedirectURI: safeRedirectPath(r.PostFormValue("redirect_uri")),
	}

	grant, err := h.Svc.SignIn(r.Context(), ports.SignInInput{Email: form.Email, Password: form.Password})
	if err != nil {
		h.logger().InfoContext(r.Context(), "sign in rejected", "error", err)
		form.Password = ""
		h.renderSignIn(w, r, statusForAuthError(err), form, err)
		return
	}

	h.writeToken(w, r, grant)
	h.Remember.Save(r.Context(), ClientIDFromContext(r.Context()), form.Remember, service.RememberedCredentials{
		Email:    form.Email,
		Password: form.Password,
	})
	h.redirect(w, r, form.RedirectURI)
}

// SignUpPage renders the registration form.
// GET /signup.
func (h *AuthHandlers) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderSignUp(w, r, http.StatusOK, ports.SignUpInput{}, nil)
}

// SignUp handles the registration form.
// POST /signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	in := ports.SignUpInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	grant, err := h.Svc.SignUp(r.Context(), in)
	if err != nil {
		h.logger().InfoContext(r.Context(), "sign up rejected", "error", err)
		h.renderSignUp(w, r, statusForAuthError(err), in, err)
		return
	}

	h.writeToken(w, r, grant)
	h.redirect(w, r, route.RootPath)
}

// SignOut clears the session and the token cookie.
// POST /signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.Tokens.Read(r); ok {
		if err := h.Svc.Logout(r.Context(), token); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Tokens.Clear(w, r)
	h.redirect(w, r, route.SignInPath)
}

// Login starts the redirect flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrModeUnsupported) {
			code = http.StatusNotFound
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: "login_failed", Err: err})
		return
	}

	h.setShortCookie(w, r, OAuthStateCookieName, result.State)
	h.setShortCookie(w, r, OAuthNonceCookieName, result.Nonce)
	h.setShortCookie(w, r, PostLoginRedirectCookieName, redirectURI)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the redirect flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}

	stateCookie, err := r.Cookie(OAuthStateCookieName)
	if err != nil || state == "" || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(OAuthNonceCookieName)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	grant, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "login_completion_failed",
			Err:     errors.New(h.message(err)),
		})
		return
	}

	h.writeToken(w, r, grant)
	h.clearCookie(w, r, OAuthStateCookieName)
	h.clearCookie(w, r, OAuthNonceCookieName)

	redirectURI := route.RootPath
	if c, cookieErr := r.Cookie(PostLoginRedirectCookieName); cookieErr == nil {
		redirectURI = safeRedirectPath(c.Value)
		h.clearCookie(w, r, PostLoginRedirectCookieName)
	}
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

func (h *AuthHandlers) writeToken(w http.ResponseWriter, r *http.Request, grant domainauth.TokenGrant) {
	ttl := grant.TTL(h.now(), h.TokenTTL)
	if ttl <= 0 {
		ttl = h.TokenTTL
	}
	h.Tokens.Write(w, r, grant.Token, ttl)
}

// redirect sends a 303 so the browser follows with GET; htmx gets Hx-Redirect instead.
func (h *AuthHandlers) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandlers) renderSignIn(w http.ResponseWriter, r *http.Request, status int, form signInForm, err error) {
	b := NewTemplateData(r, PageMeta{Title: "Sign in", CurrentPage: PageSignIn}).
		With("Email", form.Email).
		With("Password", form.Password).
		With("Remember", form.Remember).
		With("RedirectURI", form.RedirectURI).
		With("RememberMeEnabled", h.Remember.Enabled()).
		With("SupportsCredentials", h.Svc.SupportsCredentials()).
		With("SupportsRedirect", h.Svc.SupportsRedirect())
	h.withFormError(b, err)
	h.render(w, r, status, b.Build())
}

func (h *AuthHandlers) renderSignUp(w http.ResponseWriter, r *http.Request, status int, in ports.SignUpInput, err error) {
	b := NewTemplateData(r, PageMeta{Title: "Sign up", CurrentPage: PageSignUp}).
		With("Name", in.Name).
		With("Email", in.Email)
	h.withFormError(b, err)
	h.render(w, r, status, b.Build())
}

// withFormError maps a validation error onto its field and anything else onto the form banner.
func (h *AuthHandlers) withFormError(b *TemplateDataBuilder, err error) {
	if err == nil {
		return
	}
	if field := apperrors.GetField(err); field != "" && apperrors.IsValidation(err) {
		b.WithFieldErrors(map[string]string{field: h.message(err)})
		return
	}
	b.WithError(h.message(err))
}

func (h *AuthHandlers) message(err error) string {
	if errors.Is(err, service.ErrModeUnsupported) {
		return "This sign-in method is not available."
	}
	if h.Messages != nil {
		return h.Messages.Message(err)
	}
	return apperrors.UnknownErrorMessage
}

func (h *AuthHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, status, data)
	} else {
		err = h.T.RenderFull(w, status, data)
	}
	if err != nil {
		h.logger().ErrorContext(r.Context(), "render auth page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// statusForAuthError picks the response status for a failed sign-in or sign-up form.
func statusForAuthError(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrModeUnsupported):
		return http.StatusNotFound
	}
	if apiErr, ok := apperrors.AsAPIError(err); ok && apiErr.Status >= 400 && apiErr.Status < 500 {
		if apiErr.Status == http.StatusUnauthorized {
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (h *AuthHandlers) setShortCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   tokenstore.RequestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   oauthCookieMaxAge,
	})
}

// clearCookie mirrors the attributes used when setting so browsers match the cookie.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   tokenstore.RequestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
