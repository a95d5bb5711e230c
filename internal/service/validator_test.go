package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	mocks "github.com/car4rent/authkit/internal/mocks/auth"
	"github.com/car4rent/authkit/internal/ports"
)

func savedSession(t *testing.T, store *mocks.MemorySessionStore) domainauth.Identity {
	t.Helper()

	id := domainauth.Identity{
		UserID:   "u-1",
		Username: "jan",
		Email:    "jan@car4rent.com",
		Roles:    []domainauth.Role{domainauth.RoleRenter},
	}
	err := store.Save(context.Background(), domainauth.Session{Token: "tok-1", Identity: &id})
	require.NoError(t, err)
	return id
}

func TestValidate_NoToken_NoNetworkCall(t *testing.T) {
	authority := mocks.NewStubAuthority()
	sessions := mocks.NewMemorySessionStore()
	v := NewValidator(ValidatorOptions{Authority: authority, Sessions: sessions})

	assert.False(t, v.Validate(context.Background()))
	assert.Zero(t, authority.ValidateCalls)
}

func TestValidate_ValidToken_IdentityUntouched(t *testing.T) {
	authority := mocks.NewStubAuthority()
	sessions := mocks.NewMemorySessionStore()
	want := savedSession(t, sessions)

	v := NewValidator(ValidatorOptions{Authority: authority, Sessions: sessions})
	ctx := context.Background()

	assert.True(t, v.Validate(ctx))

	got, err := sessions.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidate_InvalidToken_ClearsSession(t *testing.T) {
	authority := mocks.NewStubAuthority()
	authority.Valid = false
	sessions := mocks.NewMemorySessionStore()
	savedSession(t, sessions)

	v := NewValidator(ValidatorOptions{Authority: authority, Sessions: sessions})
	ctx := context.Background()

	assert.False(t, v.Validate(ctx))

	_, err := sessions.Token(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestValidate_TransportFailure_ClearsSession(t *testing.T) {
	authority := mocks.NewStubAuthority()
	authority.ValidateFunc = func(context.Context, string) (bool, error) {
		return false, errors.New("connection refused")
	}
	sessions := mocks.NewMemorySessionStore()
	savedSession(t, sessions)

	v := NewValidator(ValidatorOptions{Authority: authority, Sessions: sessions})
	ctx := context.Background()

	assert.False(t, v.Validate(ctx))

	_, err := sessions.Token(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestValidate_ConcurrentCallsShareRoundTrip(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	savedSession(t, sessions)

	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	authority := mocks.NewStubAuthority()
	authority.ValidateFunc = func(context.Context, string) (bool, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return true, nil
	}

	v := NewValidator(ValidatorOptions{Authority: authority, Sessions: sessions})
	ctx := context.Background()

	const callers = 5
	var wg sync.WaitGroup
	results := make([]bool, callers)
	start := make(chan struct{})
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = v.Validate(ctx)
		}()
	}
	close(start)
	// Give the goroutines a chance to pile onto the in-flight call.
	close(release)
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "caller %d", i)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, callers)
	assert.GreaterOrEqual(t, calls, 1)
}
