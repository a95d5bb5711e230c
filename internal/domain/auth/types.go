package auth

// Package auth contains domain-level types for sessions and authorization.
// It is pure and free of transport/storage concerns.

import "fmt"

// Role represents a permission category a user account may hold.
// Accounts can hold several roles at once. Kept in string form for
// easy persistence and wire transfer; valid values are the constants below.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
	RoleRenter     Role = "RENTER"
	RoleAccountant Role = "ACCOUNTANT"
)

// ParseRole converts a raw string into a Role, rejecting anything outside
// the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RoleRenter, RoleAccountant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Identity is the server-confirmed representation of who is logged in.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
}

// HasRoles reports whether the identity carries at least one role.
// An identity with zero roles is still "logged in" but fails every
// capability check.
func (i Identity) HasRoles() bool { return len(i.Roles) > 0 }

// Claims is the raw, unverified payload extracted from a bearer token.
// Only the subject and email are meaningful to this module; everything
// else in the token is the backend's business. Claims are a hint, never
// an authority.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// IsZero reports whether no claim fields were recovered from the token.
func (c Claims) IsZero() bool { return c == Claims{} }

// Session pairs a bearer token with its (possibly not-yet-verified)
// identity. Identity is nil between a rehydration from storage and the
// first successful validation round trip.
type Session struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"identity,omitempty"`
}

// SessionState describes where a session sits in its lifecycle.
type SessionState int

const (
	// StateLoggedOut means no token is held. Also the initial state.
	StateLoggedOut SessionState = iota
	// StateTokenUnverified means a token is held but the external
	// authority has not confirmed it in this process yet.
	StateTokenUnverified
	// StateVerified means the authority confirmed the held token.
	StateVerified
)

func (s SessionState) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateTokenUnverified:
		return "token_unverified"
	case StateVerified:
		return "verified"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}
