package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

func TestRoundTripAndClear(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)

	id := domainauth.Identity{UserID: "u-1", Roles: []domainauth.Role{domainauth.RoleAccountant}}
	require.NoError(t, store.Save(ctx, domainauth.Session{Token: "tok", Identity: &id}))

	tok, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	got, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Identity(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	assert.Error(t, New().Save(context.Background(), domainauth.Session{}))
}

func TestIdentityUnresolved(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{Token: "tok"}))

	_, err := store.Identity(ctx)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}
