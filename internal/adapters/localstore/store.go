package localstore

// Package localstore persists the session record as a single JSON file in
// the host profile, the durable equivalent of the browser tab's key/value
// storage. One record keeps the token and cached identity atomic: a reader
// never sees a token paired with someone else's identity.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

const sessionFileName = "session.json"

// Config controls where the session record lives.
type Config struct {
	// Dir is the directory holding the session file, e.g. ~/.car4rent.
	Dir    string
	Logger *slog.Logger
}

// Store is a file-backed ports.SessionStore. There is one logical writer
// per profile; the mutex only guards against accidental in-process sharing.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ ports.SessionStore = (*Store)(nil)

// New builds a file-backed store rooted at cfg.Dir.
func New(cfg Config) (*Store, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("session store directory is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{path: filepath.Join(dir, sessionFileName), logger: logger}, nil
}

// Save replaces the session record. The record is written to a temp file and
// renamed into place so a crash mid-write cannot leave a torn record.
func (s *Store) Save(_ context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, sessionFileName+".*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Token returns the held bearer token, or ports.ErrNoSession.
func (s *Store) Token(ctx context.Context) (string, error) {
	sess, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	if sess.Token == "" {
		return "", ports.ErrNoSession
	}
	return sess.Token, nil
}

// Identity returns the cached identity, or ports.ErrNoSession when the
// session is absent or its identity is still unresolved.
func (s *Store) Identity(ctx context.Context) (domainauth.Identity, error) {
	sess, err := s.load(ctx)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if sess.Identity == nil {
		return domainauth.Identity{}, ports.ErrNoSession
	}
	return *sess.Identity, nil
}

// Clear removes the session record. Clearing an already-empty store is a no-op.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// load reads the record. Any unreadable or corrupt state degrades to
// "absent": the caller's only recourse either way is a fresh login, and a
// read from an unusable environment must not surface as a failure.
func (s *Store) load(ctx context.Context) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "session file unreadable, treating as absent",
				"path", s.path, "error", err)
		}
		return domainauth.Session{}, ports.ErrNoSession
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.WarnContext(ctx, "session file corrupt, treating as absent",
			"path", s.path, "error", err)
		return domainauth.Session{}, ports.ErrNoSession
	}
	return sess, nil
}
