package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
)

// makeToken builds a compact, unsigned token with the given payload.
func makeToken(t *testing.T, payload map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]any{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(body) + "."
}

func TestDecode_WellFormed(t *testing.T) {
	tok := makeToken(t, map[string]any{
		"sub":   "jan",
		"email": "jan@car4rent.com",
		"exp":   4102444800,
	})

	claims := Decode(tok)
	assert.Equal(t, "jan", claims.Subject)
	assert.Equal(t, "jan@car4rent.com", claims.Email)
}

func TestDecode_MissingFields(t *testing.T) {
	tok := makeToken(t, map[string]any{"iss": "car4rent"})

	claims := Decode(tok)
	assert.True(t, claims.IsZero())
}

func TestDecode_NonStringFields(t *testing.T) {
	tok := makeToken(t, map[string]any{"sub": 42, "email": true})

	claims := Decode(tok)
	assert.True(t, claims.IsZero())
}

func TestDecode_MalformedInputs(t *testing.T) {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"none"}`))

	malformed := map[string]string{
		"empty":            "",
		"no delimiter":     "nota-token",
		"two segments":     header + "." + enc.EncodeToString([]byte(`{}`)),
		"bad base64":       header + ".%%%%.",
		"non-JSON payload": header + "." + enc.EncodeToString([]byte("plain text")) + ".",
		"garbage":          "a.b.c.d.e",
	}

	for name, tok := range malformed {
		claims := Decode(tok)
		assert.True(t, claims.IsZero(), "case %q should decode to zero claims", name)
	}
}

// Decode output must stay assignable to the domain Claims hint type.
func TestDecode_ReturnsDomainClaims(t *testing.T) {
	var _ domainauth.Claims = Decode("")
}
