package service

// Package service orchestrates the session lifecycle: login and registration
// round trips, local session state, validation, and the queries UI callers
// gate on. It is the only entry point UI code should use.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/observability/statsd"
	"github.com/car4rent/authkit/internal/ports"
	"github.com/car4rent/authkit/internal/token"
)

// Sentinel errors callers branch on with errors.Is. The wrapped chain keeps
// the server-provided detail for display.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")
)

// serverMessenger is implemented by authority errors carrying a
// server-provided, user-displayable message.
type serverMessenger interface {
	ServerMessage() string
}

// UserMessage extracts the best displayable text from a Login or Register
// error: the server's own message when present, a generic fallback otherwise.
func UserMessage(err error) string {
	var m serverMessenger
	if errors.As(err, &m) && m.ServerMessage() != "" {
		return m.ServerMessage()
	}
	if errors.Is(err, ErrRegistrationFailed) {
		return "registration failed"
	}
	return "invalid credentials"
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Authority ports.Authority
	Sessions  ports.SessionStore
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// AuthService composes the authority client, session store, and validator
// into the session facade.
type AuthService struct {
	authority ports.Authority
	sessions  ports.SessionStore
	validator *Validator
	metrics   statsd.Sink
	logger    *slog.Logger

	// verified tracks whether the authority confirmed the held token in
	// this process. It is per-process state: a rehydrated token starts
	// unverified even though it was verified in an earlier run.
	mu       sync.Mutex
	verified bool
}

// NewAuthService constructs the facade.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authority: opts.Authority,
		sessions:  opts.Sessions,
		validator: NewValidator(ValidatorOptions{
			Authority: opts.Authority,
			Sessions:  opts.Sessions,
			Metrics:   opts.Metrics,
			Logger:    logger,
		}),
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Login exchanges credentials for a session. On success the session is
// saved before the identity is returned, and the session counts as
// verified: login is the one path that resolves an identity without a
// separate validate round trip.
func (s *AuthService) Login(ctx context.Context, username, password string) (domainauth.Identity, error) {
	if username == "" {
		return domainauth.Identity{}, errors.New("username is required")
	}
	if password == "" {
		return domainauth.Identity{}, errors.New("password is required")
	}

	res, err := s.authority.Login(ctx, username, password)
	if err != nil {
		s.count("auth.login.failure")
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	id := res.Identity
	if saveErr := s.sessions.Save(ctx, domainauth.Session{Token: res.Token, Identity: &id}); saveErr != nil {
		return domainauth.Identity{}, fmt.Errorf("save session: %w", saveErr)
	}

	s.setVerified(true)
	s.count("auth.login.success")
	return id, nil
}

// Register creates an account and returns the server's message. It never
// touches the session: registering does not log the account in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	if in.Username == "" {
		return "", errors.New("username is required")
	}
	if _, err := domainauth.ParseRole(string(in.Role)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	msg, err := s.authority.Register(ctx, in)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	return msg, nil
}

// Logout clears the local session. It is a local operation only: validity
// is derived from the locally held token, so no server round trip is
// needed, and any navigation is the caller's concern.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.setVerified(false)
	s.count("auth.logout")
	return nil
}

// IsAuthenticated reports whether a token is held. This is a local,
// optimistic check; callers needing a server-side guarantee use EnsureValid.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	_, err := s.sessions.Token(ctx)
	return err == nil
}

// EnsureValid confirms the held token with the authority. A false result
// means the session has been cleared and the user is logged out.
func (s *AuthService) EnsureValid(ctx context.Context) bool {
	ok := s.validator.Validate(ctx)
	s.setVerified(ok)
	return ok
}

// CurrentIdentity returns the cached identity without validating it.
func (s *AuthService) CurrentIdentity(ctx context.Context) (domainauth.Identity, bool) {
	id, err := s.sessions.Identity(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSession) {
			s.logger.WarnContext(ctx, "session identity read failed", "error", err)
		}
		return domainauth.Identity{}, false
	}
	return id, true
}

// IdentityHint decodes the held token's claims without verification, for
// prefilling forms before a validate round trip completes. The hint is
// never authoritative; absence of a token or an undecodable payload yields
// no hint.
func (s *AuthService) IdentityHint(ctx context.Context) (domainauth.Claims, bool) {
	tok, err := s.sessions.Token(ctx)
	if err != nil {
		return domainauth.Claims{}, false
	}

	claims := token.Decode(tok)
	if claims.IsZero() {
		return domainauth.Claims{}, false
	}
	return claims, true
}

// State reports where the session sits in its lifecycle.
func (s *AuthService) State(ctx context.Context) domainauth.SessionState {
	if !s.IsAuthenticated(ctx) {
		return domainauth.StateLoggedOut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verified {
		return domainauth.StateVerified
	}
	return domainauth.StateTokenUnverified
}

func (s *AuthService) setVerified(v bool) {
	s.mu.Lock()
	s.verified = v
	s.mu.Unlock()
}

func (s *AuthService) count(name string) {
	if s.metrics != nil {
		s.metrics.Count(name, 1, nil)
	}
}
