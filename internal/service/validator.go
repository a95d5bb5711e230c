package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/car4rent/authkit/internal/observability/statsd"
	"github.com/car4rent/authkit/internal/ports"
)

// ValidatorOptions groups dependencies for Validator.
type ValidatorOptions struct {
	Authority ports.Authority
	Sessions  ports.SessionStore
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// Validator is the only component allowed to assert that a held token is
// currently authoritative. It never returns an error: every failure mode
// collapses to false plus a cleared session, because the only thing a
// caller can do about "not valid" is treat the user as logged out.
type Validator struct {
	authority ports.Authority
	sessions  ports.SessionStore
	metrics   statsd.Sink
	logger    *slog.Logger
	group     singleflight.Group
}

// NewValidator constructs a Validator.
func NewValidator(opts ValidatorOptions) *Validator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		authority: opts.Authority,
		sessions:  opts.Sessions,
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// Validate checks the held token against the authority. With no token held
// it returns false without any network call. Transport failures, non-success
// responses, and explicit "invalid" answers all clear the session and return
// false; "valid" returns true and leaves the cached identity untouched.
// Concurrent calls for the same token share one round trip.
func (v *Validator) Validate(ctx context.Context) bool {
	tok, err := v.sessions.Token(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSession) {
			v.logger.WarnContext(ctx, "session token read failed", "error", err)
		}
		return false
	}

	result, _, _ := v.group.Do(tok, func() (any, error) {
		return v.check(ctx, tok), nil
	})
	ok, _ := result.(bool)
	return ok
}

func (v *Validator) check(ctx context.Context, tok string) bool {
	valid, err := v.authority.Validate(ctx, tok)
	if err != nil {
		v.logger.WarnContext(ctx, "token validation round trip failed, clearing session", "error", err)
		v.count("auth.validate.error")
		v.clear(ctx)
		return false
	}
	if !valid {
		v.count("auth.validate.invalid")
		v.clear(ctx)
		return false
	}

	v.count("auth.validate.ok")
	return true
}

func (v *Validator) clear(ctx context.Context) {
	if err := v.sessions.Clear(ctx); err != nil {
		v.logger.ErrorContext(ctx, "clear session failed", "error", err)
	}
}

func (v *Validator) count(name string) {
	if v.metrics != nil {
		v.metrics.Count(name, 1, nil)
	}
}
