// Package backendapi is the typed client for the storefront backend API. Every non-2xx
// response is returned as *errors.APIError; this is the only place responses are classified.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
	"golang.org/x/oauth2"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// Config captures the backend endpoints and transport settings.
type Config struct {
	BaseURL     string
	ProfilePath string
	SignInPath  string
	SignUpPath  string
	Timeout     time.Duration
	Client      *http.Client
}

// Client talks to the backend API.
type Client struct {
	base        *url.URL
	profilePath string
	signInPath  string
	signUpPath  string
	client      *http.Client
}

var (
	_ ports.ProfileFetcher          = (*Client)(nil)
	_ ports.CredentialAuthenticator = (*Client)(nil)
)

// NewClient builds a backend API client. Paths are resolved relative to BaseURL.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend api base url is required")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend api base url must be http(s), got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:        base,
		profilePath: fallbackString(cfg.ProfilePath, "profile"),
		signInPath:  fallbackString(cfg.SignInPath, "auth/login"),
		signUpPath:  fallbackString(cfg.SignUpPath, "auth/register"),
		client:      hc,
	}, nil
}

type profileEnvelope struct {
	Profile *domainauth.Profile `json:"profile"`
}

// FetchProfile performs GET profile with token as the bearer credential.
func (c *Client) FetchProfile(ctx context.Context, token string) (domainauth.Profile, error) {
	if token == "" {
		return domainauth.Profile{}, errors.New("token is required")
	}
	body, err := c.do(ctx, request{method: http.MethodGet, path: c.profilePath, token: token})
	if err != nil {
		return domainauth.Profile{}, err
	}

	var env profileEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domainauth.Profile{}, fmt.Errorf("decode profile response: %w", err)
	}
	if env.Profile == nil {
		return domainauth.Profile{}, errors.New("decode profile response: missing profile")
	}
	return env.Profile.Normalize(), nil
}

type tokenResponse struct {
	Token       string    `json:"token"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (t tokenResponse) grant(now time.Time) domainauth.TokenGrant {
	g := domainauth.TokenGrant{Token: fallbackString(t.Token, t.AccessToken), ExpiresAt: t.ExpiresAt}
	if g.ExpiresAt.IsZero() && t.ExpiresIn > 0 {
		g.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return g
}

// SignIn performs POST auth/login and returns the issued token.
func (c *Client) SignIn(ctx context.Context, in ports.SignInInput) (domainauth.TokenGrant, error) {
	payload := map[string]string{"email": in.Email, "password": in.Password}
	return c.issueToken(ctx, c.signInPath, payload)
}

// SignUp performs POST auth/register and returns the issued token.
func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (domainauth.TokenGrant, error) {
	payload := map[string]string{"name": in.Name, "email": in.Email, "password": in.Password}
	return c.issueToken(ctx, c.signUpPath, payload)
}

func (c *Client) issueToken(ctx context.Context, path string, payload any) (domainauth.TokenGrant, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("encode request: %w", err)
	}
	body, err := c.do(ctx, request{method: http.MethodPost, path: path, body: reqBody})
	if err != nil {
		return domainauth.TokenGrant{}, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return domainauth.TokenGrant{}, fmt.Errorf("decode token response: %w", err)
	}
	g := tr.grant(time.Now())
	if g.Token == "" {
		return domainauth.TokenGrant{}, errors.New("decode token response: missing token")
	}
	return g, nil
}

type request struct {
	method string
	path   string
	token  string
	body   []byte
}

func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	target, err := c.base.Parse(strings.TrimPrefix(r.path, "/"))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", r.path, err)
	}

	var reader io.Reader
	if r.body != nil {
		reader = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(r.token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	body, err := readBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.APIError{Status: resp.StatusCode, Payload: body, Cause: err}
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// httpClient returns a client that attaches token as a bearer credential.
func (c *Client) httpClient(token string) *http.Client {
	if token == "" {
		return c.client
	}
	base := c.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout:       c.client.Timeout,
		CheckRedirect: c.client.CheckRedirect,
		Jar:           c.client.Jar,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		},
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	closeErr := resp.Body.Close()
	switch {
	case readErr != nil && closeErr != nil:
		return body, errors.Join(
			fmt.Errorf("read response body: %w", readErr),
			fmt.Errorf("close response body: %w", closeErr),
		)
	case readErr != nil:
		return body, fmt.Errorf("read response body: %w", readErr)
	case closeErr != nil:
		return body, fmt.Errorf("close response body: %w", closeErr)
	}
	return body, nil
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
