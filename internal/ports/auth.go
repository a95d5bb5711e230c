package ports

// Package ports defines interfaces (hexagonal ports) for session and
// authority behavior. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
)

// ErrNoSession is returned by session store reads when no session (or no
// resolved identity) is held. Callers treat it as "absent", not a failure.
var ErrNoSession error = noSessionError{}

type noSessionError struct{}

func (noSessionError) Error() string { return "no session" }

// SessionStore persists the local session record: one bearer token plus the
// identity cached for it. Save replaces both values together so a reader
// never observes a token paired with a stale identity. Clear is idempotent.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error

	// Token returns the held bearer token, or ErrNoSession.
	Token(ctx context.Context) (string, error)

	// Identity returns the cached identity, or ErrNoSession when either
	// no session exists or the identity has not been resolved yet.
	// It never contacts the network.
	Identity(ctx context.Context) (domainauth.Identity, error)

	Clear(ctx context.Context) error
}

// LoginResult is the authority's answer to a successful credential check.
type LoginResult struct {
	Token    string
	Identity domainauth.Identity
}

// RegisterInput groups the registration payload fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domainauth.Role
}

// Authority is the external backend that owns the truth about credentials,
// token validity, and role assignments.
type Authority interface {
	// Login exchanges credentials for a token and a resolved identity.
	Login(ctx context.Context, username, password string) (LoginResult, error)

	// Register creates an account and returns the server's message.
	// It does not log the account in.
	Register(ctx context.Context, in RegisterInput) (string, error)

	// Validate asks whether the given token is currently good.
	// The boolean is only meaningful when err is nil.
	Validate(ctx context.Context, token string) (bool, error)
}
