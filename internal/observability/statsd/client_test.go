package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClientIsNoOp(t *testing.T) {
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// Must not panic.
	client.Count("auth.login.success", 1, nil)
	require.NoError(t, client.Close())
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	assert.False(t, client.Enabled())
	client.Count("auth.login.success", 1, nil)
	assert.NoError(t, client.Close())
}

func TestCountEmitsLine(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Prefix:  "authkit.",
	})
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.Enabled())

	client.Count("auth.validate.ok", 1, map[string]string{"backend": "file"})

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	assert.Equal(t, "authkit.auth.validate.ok:1|c|#backend:file", string(buf[:n]))
}

func TestEmptyMetricNameDropped(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	client, err := NewClient(Config{Enabled: true, Address: pc.LocalAddr().String()})
	require.NoError(t, err)
	defer client.Close()

	client.Count("   ", 1, nil)
	client.Count("auth.logout", 1, nil)

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 512)
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	// The blank metric is dropped, so the first packet is the logout count.
	assert.Equal(t, "auth.logout:1|c", string(buf[:n]))
}
