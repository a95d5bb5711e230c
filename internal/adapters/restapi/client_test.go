package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when base URL missing")
	}
	if _, err := NewClient(Config{BaseURL: "   "}); err == nil {
		t.Fatal("expected error when base URL blank")
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req["username"])
		assert.Equal(t, "admin123", req["password"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    "tok-1",
			"userId":   "u-1",
			"username": "admin",
			"email":    "admin@car4rent.com",
			"roles":    []string{"ADMIN"},
		})
	})

	res, err := client.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "u-1", res.Identity.UserID)
	assert.Equal(t, []domainauth.Role{domainauth.RoleAdmin}, res.Identity.Roles)
}

func TestLogin_UnknownRolesDropped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"roles": []string{"OWNER", "SUPERVISOR"},
		})
	})

	res, err := client.Login(context.Background(), "x", "y")
	require.NoError(t, err)
	assert.Equal(t, []domainauth.Role{domainauth.RoleOwner}, res.Identity.Roles)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
	})

	_, err := client.Login(context.Background(), "admin", "wrong")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "bad credentials", statusErr.Message)
}

func TestLogin_MissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"userId": "u-1"})
	})

	_, err := client.Login(context.Background(), "admin", "admin123")
	assert.Error(t, err)
}

func TestRegister_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "OWNER", req["role"])

		_ = json.NewEncoder(w).Encode(map[string]string{"message": "user registered"})
	})

	msg, err := client.Register(context.Background(), ports.RegisterInput{
		Username: "jan",
		Email:    "jan@car4rent.com",
		Password: "secret",
		Role:     domainauth.RoleOwner,
	})
	require.NoError(t, err)
	assert.Equal(t, "user registered", msg)
}

func TestRegister_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "username taken"})
	})

	_, err := client.Register(context.Background(), ports.RegisterInput{Username: "jan"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "username taken", statusErr.Message)
}

func TestValidate(t *testing.T) {
	var gotAuth string
	valid := true
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/validate", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
	})

	ok, err := client.Validate(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bearer tok-1", gotAuth)

	valid = false
	ok, err = client.Validate(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Validate(context.Background(), "tok-1")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestValidate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close()

	_, err = client.Validate(context.Background(), "tok-1")
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures are not status errors")
}
