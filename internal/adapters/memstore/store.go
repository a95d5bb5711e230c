package memstore

// Package memstore keeps the session record in process memory. Useful for
// demos and throwaway environments; everything is lost on exit.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

// Store is an in-memory ports.SessionStore.
type Store struct {
	mu   sync.RWMutex
	sess *domainauth.Session
}

var _ ports.SessionStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store { return &Store{} }

func (s *Store) Save(_ context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	copied := sess
	if sess.Identity != nil {
		id := *sess.Identity
		copied.Identity = &id
	}

	s.mu.Lock()
	s.sess = &copied
	s.mu.Unlock()
	return nil
}

func (s *Store) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return "", ports.ErrNoSession
	}
	return s.sess.Token, nil
}

func (s *Store) Identity(context.Context) (domainauth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil || s.sess.Identity == nil {
		return domainauth.Identity{}, ports.ErrNoSession
	}
	return *s.sess.Identity, nil
}

func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()
	return nil
}
