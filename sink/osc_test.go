package sink

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOSCSinkRejectsBadAddress(t *testing.T) {
	t.Parallel()

	_, err := NewOSCSink("not-an-address")
	assert.Error(t, err)

	_, err = NewOSCSink("127.0.0.1:not-a-port")
	assert.Error(t, err)
}

func TestOSCSinkSendsBeatMessages(t *testing.T) {
	t.Parallel()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	s, err := NewOSCSink(conn.LocalAddr().String())
	require.NoError(t, err)
	require.True(t, s.Healthy())

	require.NoError(t, s.PlayBeat())

	buf := make([]byte, 1024)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(buf[:n]), BeatAddress))
}
