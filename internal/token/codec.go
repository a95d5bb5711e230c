package token

// Package token extracts claims from a bearer token without verifying it.
// Verification belongs to the external authority; this codec exists so UI
// code can show a non-authoritative hint before a validate round trip.

import (
	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/car4rent/authkit/internal/domain/auth"
)

// Decode parses the payload segment of a compact token and returns the
// claims this module cares about. It is fail-soft: any malformed input
// (wrong segment count, bad base64, bad JSON) yields zero-value Claims
// rather than an error, so a decode failure can never break a render.
// No signature or expiry checking happens here.
func Decode(token string) domainauth.Claims {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	payload := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, payload); err != nil {
		return domainauth.Claims{}
	}

	return domainauth.Claims{
		Subject: stringClaim(payload, "sub"),
		Email:   stringClaim(payload, "email"),
	}
}

func stringClaim(payload jwt.MapClaims, key string) string {
	v, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return v
}
