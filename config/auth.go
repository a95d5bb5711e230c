package config

import (
	"fmt"
	"strings"
	"time"
)

// StoreBackend selects where the session record is persisted.
type StoreBackend string

const (
	// StoreFile keeps the session in a JSON file under the user profile.
	StoreFile StoreBackend = "file"
	// StoreRedis keeps the session in Redis, for shared desk profiles.
	StoreRedis StoreBackend = "redis"
	// StoreMemory keeps the session in process memory only (tests, demos).
	StoreMemory StoreBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "file", "redis", "memory":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: file, redis, memory)", v)
	}
}

// AuthorityConfig describes how to reach the backend auth endpoints.
type AuthorityConfig struct {
	// BaseURL is the backend root; /auth/login etc. are appended to it.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Timeout bounds each auth round trip.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to authority settings.
func (c *AuthorityConfig) Sanitize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	// Backend selects the session store implementation.
	Backend StoreBackend `env:"BACKEND" envDefault:"file"`

	// Dir is the directory for the file backend. Defaults to
	// ~/.car4rent when empty.
	Dir string `env:"DIR"`

	// Profile names the desk/terminal profile for the redis backend.
	Profile string `env:"PROFILE" envDefault:"default"`

	// TTL expires an untouched redis record. Zero keeps it until logout.
	TTL time.Duration `env:"TTL" envDefault:"0"`
}

// Sanitize applies guardrails to session settings.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StoreFile
	}
	c.Profile = strings.TrimSpace(c.Profile)
	if c.Profile == "" {
		c.Profile = "default"
	}
	if c.TTL < 0 {
		c.TTL = 0
	}
}
