package auth

// Package auth contains simple hand-written test doubles for the auth
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authority    = (*StubAuthority)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// StubAuthority simulates the backend oracle. Each method uses its Func
// override when set, otherwise a deterministic default, and counts calls
// so tests can assert "no network round trip happened".
type StubAuthority struct {
	LoginFunc    func(ctx context.Context, username, password string) (ports.LoginResult, error)
	RegisterFunc func(ctx context.Context, in ports.RegisterInput) (string, error)
	ValidateFunc func(ctx context.Context, token string) (bool, error)

	// Defaults used when the Func fields are nil.
	Token    string
	Identity domainauth.Identity
	Valid    bool

	LoginCalls    int
	RegisterCalls int
	ValidateCalls int
}

// NewStubAuthority returns a stub that accepts any credentials as an admin.
func NewStubAuthority() *StubAuthority {
	return &StubAuthority{
		Token: "stub-token",
		Identity: domainauth.Identity{
			UserID:   "stub-user-1",
			Username: "admin",
			Email:    "admin@car4rent.com",
			Roles:    []domainauth.Role{domainauth.RoleAdmin},
		},
		Valid: true,
	}
}

func (s *StubAuthority) Login(ctx context.Context, username, password string) (ports.LoginResult, error) {
	s.LoginCalls++
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, username, password)
	}
	return ports.LoginResult{Token: s.Token, Identity: s.Identity}, nil
}

func (s *StubAuthority) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	s.RegisterCalls++
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, in)
	}
	return "user registered", nil
}

func (s *StubAuthority) Validate(ctx context.Context, token string) (bool, error) {
	s.ValidateCalls++
	if s.ValidateFunc != nil {
		return s.ValidateFunc(ctx, token)
	}
	return s.Valid, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu   sync.Mutex
	sess *domainauth.Session

	// FailSaves makes Save return an error, for exercising failure paths.
	FailSaves bool
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.FailSaves {
		return errors.New("save disabled")
	}
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := sess
	if sess.Identity != nil {
		id := *sess.Identity
		copied.Identity = &id
	}
	m.sess = &copied
	return nil
}

func (m *MemorySessionStore) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil || m.sess.Token == "" {
		return "", ports.ErrNoSession
	}
	return m.sess.Token, nil
}

func (m *MemorySessionStore) Identity(context.Context) (domainauth.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil || m.sess.Identity == nil {
		return domainauth.Identity{}, ports.ErrNoSession
	}
	return *m.sess.Identity, nil
}

func (m *MemorySessionStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}
