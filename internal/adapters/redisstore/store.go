package redisstore

// Package redisstore keeps the session record in Redis, for kiosk fleets
// where several terminals share one rental-desk profile. Last writer wins;
// concurrent terminals are not a race this store defends against.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

// Config controls the Redis session record.
type Config struct {
	Client redis.UniversalClient

	// Profile names the desk/terminal profile owning the record.
	Profile string

	// Prefix namespaces the key. Defaults to "authkit:session:".
	Prefix string

	// TTL expires an untouched record. Zero keeps it until Clear.
	TTL time.Duration
}

// Store is a Redis-backed ports.SessionStore.
type Store struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ ports.SessionStore = (*Store)(nil)

// New builds a Redis store for one profile.
func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}

	profile := strings.TrimSpace(cfg.Profile)
	if profile == "" {
		return nil, errors.New("session profile is required")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "authkit:session:"
	}

	return &Store{client: cfg.Client, key: prefix + profile, ttl: cfg.TTL}, nil
}

// Save replaces the session record in a single SET, so token and identity
// change together.
func (s *Store) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
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

// Identity returns the cached identity, or ports.ErrNoSession.
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

// Clear removes the record. Safe to call repeatedly.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) (domainauth.Session, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrNoSession
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}
