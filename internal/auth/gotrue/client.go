// Package gotrue implements the authenticator against the hosted auth
// service's GoTrue-style HTTP API, the same backend that fronts the remote
// data store.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"helpy/internal/auth"
	dErrors "helpy/pkg/domain-errors"
)

const defaultTimeout = 10 * time.Second

// Client is the remote auth client. It implements auth.Authenticator.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Default is 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the auth service at baseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

type sessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

func (u userResponse) principal() auth.Principal {
	return auth.Principal{ID: u.ID, Email: u.Email, Name: u.UserMetadata.Name}
}

// SignUp creates an account on the auth service.
func (c *Client) SignUp(ctx context.Context, creds auth.Credentials) (auth.Session, error) {
	body := map[string]any{
		"email":    creds.Email,
		"password": creds.Password,
	}
	if creds.Name != "" {
		body["data"] = map[string]string{"name": creds.Name}
	}
	return c.postSession(ctx, "/auth/v1/signup", body)
}

// SignIn opens a session with the password grant.
func (c *Client) SignIn(ctx context.Context, creds auth.Credentials) (auth.Session, error) {
	return c.postSession(ctx, "/auth/v1/token?grant_type=password", map[string]any{
		"email":    creds.Email,
		"password": creds.Password,
	})
}

// Verify asks the auth service who owns the token.
func (c *Client) Verify(ctx context.Context, token string) (auth.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return auth.Principal{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create auth request")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.Principal{}, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return auth.Principal{}, statusError(resp)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return auth.Principal{}, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "malformed auth response")
	}
	return user.principal(), nil
}

func (c *Client) postSession(ctx context.Context, path string, body any) (auth.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return auth.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode auth request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return auth.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create auth request")
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.Session{}, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return auth.Session{}, statusError(resp)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return auth.Session{}, dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "malformed auth response")
	}
	return auth.Session{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresIn:   session.ExpiresIn,
		Principal:   session.User.principal(),
	}, nil
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "auth service timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeRemoteUnavailable, "failed to call auth service")
}

// statusError maps auth service status codes to domain errors. The service
// reports its own reason in {"msg": ...} or {"error_description": ...}.
func statusError(resp *http.Response) error {
	msg := serviceMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = "invalid credentials"
		}
		return dErrors.New(dErrors.CodeUnauthorized, msg)
	case http.StatusConflict:
		if msg == "" {
			msg = "account already exists"
		}
		return dErrors.New(dErrors.CodeConflict, msg)
	case http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "invalid signup payload"
		}
		return dErrors.New(dErrors.CodeValidation, msg)
	default:
		return dErrors.New(dErrors.CodeRemoteUnavailable,
			fmt.Sprintf("auth service returned status %d", resp.StatusCode))
	}
}

func serviceMessage(body io.Reader) string {
	var payload struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Msg != "" {
		return payload.Msg
	}
	return payload.ErrorDescription
}

var _ auth.Authenticator = (*Client)(nil)
