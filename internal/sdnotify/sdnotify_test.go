package sdnotify

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotifyIsNoopWithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	require.NoError(t, Watchdog())
}

func TestNotifySendsStateToSocket(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "notify.sock")

	addr, err := net.ResolveUnixAddr("unixgram", sockPath)
	require.NoError(t, err)
	conn, err := net.ListenUnixgram("unixgram", addr)
	require.NoError(t, err)
	defer conn.Close()

	t.Setenv("NOTIFY_SOCKET", sockPath)

	errCh := make(chan error, 1)
	go func() { errCh <- Watchdog() }()

	buf := make([]byte, 64)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)
	require.Equal(t, "WATCHDOG=1", string(buf[:n]))
	require.NoError(t, <-errCh)
}
