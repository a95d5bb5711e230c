package ports_test

import (
	"testing"

	mocks "github.com/car4rent/authkit/internal/mocks/auth"
	"github.com/car4rent/authkit/internal/ports"
)

// This test only verifies that our doubles conform to the ports at compile time.
func TestDoublesImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.Authority = (*mocks.StubAuthority)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
}
