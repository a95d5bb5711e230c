package restapi

// Package restapi implements ports.Authority against the car4rent backend's
// /auth endpoints. The backend is the single source of truth for credentials
// and token validity; this client only moves JSON.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

// StatusError reports a non-2xx authority response, carrying the
// server-provided message when the body had one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authority returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("authority returned status %d: %s", e.StatusCode, e.Message)
}

// ServerMessage returns the user-displayable text the server sent, if any.
func (e *StatusError) ServerMessage() string { return e.Message }

// Config captures how to reach the authority.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// Client is an HTTP implementation of ports.Authority.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.Authority = (*Client)(nil)

// NewClient builds an authority client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("authority base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{baseURL: baseURL, client: hc, logger: logger}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string   `json:"token"`
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// Login exchanges credentials for a token and resolved identity.
func (c *Client) Login(ctx context.Context, username, password string) (ports.LoginResult, error) {
	body, err := c.post(ctx, "/auth/login", loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return ports.LoginResult{}, err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ports.LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return ports.LoginResult{}, errors.New("login response missing token")
	}

	return ports.LoginResult{
		Token: resp.Token,
		Identity: domainauth.Identity{
			UserID:   resp.UserID,
			Username: resp.Username,
			Email:    resp.Email,
			Roles:    c.parseRoles(ctx, resp.Roles),
		},
	}, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	Message string `json:"message"`
}

// Register creates an account and returns the server's confirmation message.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	req := registerRequest{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     string(in.Role),
	}
	body, err := c.post(ctx, "/auth/register", req, "")
	if err != nil {
		return "", err
	}

	var resp registerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode register response: %w", err)
	}
	if resp.Message == "" {
		return "registration successful", nil
	}
	return resp.Message, nil
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// Validate asks whether the token is currently good.
func (c *Client) Validate(ctx context.Context, tok string) (bool, error) {
	body, err := c.post(ctx, "/auth/validate", struct{}{}, tok)
	if err != nil {
		return false, err
	}

	var resp validateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("decode validate response: %w", err)
	}
	return resp.Valid, nil
}

// post sends a JSON request and returns the raw 2xx body. Non-2xx responses
// become a *StatusError carrying the server's {error} message when present.
func (c *Client) post(ctx context.Context, path string, payload any, bearer string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WarnContext(ctx, "close response body failed", "path", path, "error", cerr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage pulls the {error} field out of a failure body, if any.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error)
}

// parseRoles maps the wire role strings onto the closed enum, dropping
// anything unknown so a newer backend cannot wedge an older client.
func (c *Client) parseRoles(ctx context.Context, raw []string) []domainauth.Role {
	roles := make([]domainauth.Role, 0, len(raw))
	for _, r := range raw {
		role, err := domainauth.ParseRole(r)
		if err != nil {
			c.logger.WarnContext(ctx, "ignoring unknown role from authority", "role", r)
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
