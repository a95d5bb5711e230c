// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the auth ports. Hand-written doubles live in internal/mocks/auth;
// the generated mocks are used where tests need strict call expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for the Authority interface from internal/ports.
// This creates MockAuthority with Login, Register, and Validate methods.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authority_mock.go github.com/car4rent/authkit/internal/ports Authority
