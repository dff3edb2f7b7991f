// Package authclient is the HTTP boundary to the authentication service.
// It marshals requests and hands responses back verbatim; interpreting
// success:false is left to the caller.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	"github.com/google/uuid"
)

const (
	LoginPath         = "/api/auth/login"
	RegisterPath      = "/api/auth/register"
	ResetPasswordPath = "/api/auth/reset-password"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// ErrTransport marks failures to obtain a well-formed response.
var ErrTransport = errors.New("auth service unreachable")

// TransportError records which call failed and why. It matches ErrTransport
// under errors.Is.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Client talks to a single auth service. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. hc is never modified.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets a per-request timeout. It applies to this Client only,
// whatever HTTP client it ends up with.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// New returns a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.post(ctx, "login", LoginPath, email, models.LoginRequest{Email: email, Password: password})
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return c.post(ctx, "register", RegisterPath, req.Email, req)
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) (*models.AuthResponse, error) {
	return c.post(ctx, "reset-password", ResetPasswordPath, email, models.ResetPasswordRequest{
		Email:           email,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	})
}

func (c *Client) post(ctx context.Context, op, path, email string, payload any) (*models.AuthResponse, error) {
	start := time.Now()
	emailHash := utils.HashEmail(email)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		logging.WarnLog("Auth %s failed: transport error [%s] req=%s: %v", op, emailHash, requestID, err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logging.WarnLog("Auth %s failed: reading body [%s] req=%s: %v", op, emailHash, requestID, err)
		return nil, &TransportError{Op: op, Err: err}
	}

	var out models.AuthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		logging.WarnLog("Auth %s failed: malformed response status=%d [%s] req=%s: %v",
			op, resp.StatusCode, emailHash, requestID, err)
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}

	logging.InfoLog("Auth %s completed success=%t status=%d [%s] req=%s %v",
		op, out.Success, resp.StatusCode, emailHash, requestID, time.Since(start))
	return &out, nil
}
