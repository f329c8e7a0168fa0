// Package api is the client for the YYC Track REST API. It covers the
// authentication surface (user and admin realms), email verification, and
// profile management. All methods convert transport and status failures into
// typed errors; none panic or leak raw response bodies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Client talks to the YYC Track API at a configured base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for the API rooted at baseURL (e.g.
// "http://localhost:5000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a JSON request. token, body, and out may be empty/nil. Responses
// are decoded into the standard envelope; non-2xx statuses become
// StatusError, and 2xx envelopes with success=false become RequestError.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (*envelope, error) {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("api request rejected", "method", method, "path", path,
			"request_id", requestID, "status", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s %s: decode response: %w", method, path, decodeErr)
	}
	if !env.Success {
		return nil, &RequestError{Message: env.Message}
	}
	return &env, nil
}

// Me resolves a user bearer token into its identity via GET /auth/me.
func (c *Client) Me(ctx context.Context, token string) (*Identity, error) {
	return c.whoAmI(ctx, "/auth/me", token)
}

// AdminMe resolves an admin bearer token into its identity via GET /auth/admin/me.
func (c *Client) AdminMe(ctx context.Context, token string) (*Identity, error) {
	return c.whoAmI(ctx, "/auth/admin/me", token)
}

func (c *Client) whoAmI(ctx context.Context, path, token string) (*Identity, error) {
	env, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("GET %s: response missing user payload", path)
	}
	return env.User, nil
}

// Login exchanges user credentials for a bearer token via POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	return c.login(ctx, "/auth/login", email, password)
}

// AdminLogin exchanges admin credentials for a bearer token via POST /auth/admin/login.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*Credentials, error) {
	return c.login(ctx, "/auth/admin/login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, fmt.Errorf("POST %s: response missing token", path)
	}
	return &Credentials{Token: env.Token, Identity: env.User}, nil
}

// Register creates a new account via POST /auth/register. The returned token
// is valid but the account remains unverified until VerifyEmail succeeds.
func (c *Client) Register(ctx context.Context, profile RegistrationProfile) (*Credentials, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/register", "", profile)
	if err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, fmt.Errorf("POST /auth/register: response missing token")
	}
	return &Credentials{Token: env.Token, Identity: env.User}, nil
}

// VerifyEmail submits the emailed verification code via POST /auth/verify-email.
func (c *Client) VerifyEmail(ctx context.Context, token, code string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/verify-email", token, map[string]string{"code": code})
	return err
}

// ResendVerification requests a fresh verification code via POST /auth/resend-verification.
func (c *Client) ResendVerification(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/resend-verification", token, nil)
	return err
}

// UpdateProfile updates profile fields via PUT /users/profile and returns the
// identity as echoed by the backend.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*Identity, error) {
	env, err := c.do(ctx, http.MethodPut, "/users/profile", token, update)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// ChangePassword rotates the account password via PUT /users/password.
func (c *Client) ChangePassword(ctx context.Context, token, current, next string) error {
	payload := map[string]string{"currentPassword": current, "newPassword": next}
	_, err := c.do(ctx, http.MethodPut, "/users/password", token, payload)
	return err
}

// CompleteProfile supplies the postal code missing after an OAuth sign-up via
// PUT /auth/complete-profile.
func (c *Client) CompleteProfile(ctx context.Context, token, postalCode string) (*Identity, error) {
	env, err := c.do(ctx, http.MethodPut, "/auth/complete-profile", token, map[string]string{"postalCode": postalCode})
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// ForgotPassword starts a password reset via POST /auth/forgot-password.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": email})
	return err
}

// ResetPassword completes a password reset via PUT /auth/reset-password/:token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	path := "/auth/reset-password/" + url.PathEscape(resetToken)
	_, err := c.do(ctx, http.MethodPut, path, "", map[string]string{"newPassword": newPassword})
	return err
}
