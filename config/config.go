package config

import (
	"os"
	"strings"
)

// AppConfig is the main configuration struct, composed from the
// domain-specific files in this package.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library:
//   - auth.go: authority endpoint and session persistence
//   - observability.go: metrics sink
type AppConfig struct {
	// IsDev relaxes defaults for local development.
	// Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authority is the backend that owns credentials and token validity.
	Authority AuthorityConfig `envPrefix:"AUTHORITY_"`

	// Session controls where the local session record lives.
	Session SessionConfig `envPrefix:"SESSION_"`

	// Redis connection settings, used when Session.Backend is "redis".
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Statsd metrics sink settings.
	Statsd StatsdConfig `envPrefix:"STATSD_"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call after env parsing.
func (c *AppConfig) Sanitize() {
	c.Authority.Sanitize()
	c.Session.Sanitize()
	c.Statsd.Sanitize()
	c.detectDevMode()
}

// detectDevMode also honors APP_ENV, common in deploy tooling.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
