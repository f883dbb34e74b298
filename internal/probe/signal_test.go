package probe

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

const wirelessFixture = `Inter-|sta-|   Quality        |   Discarded packets               | Missed | WE
 face |tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
wlan0: 0000   63.  -47.  -256      0      0      0      0      0        0
`

func TestReadSignalParsesConfiguredInterface(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wireless")
	require.NoError(t, os.WriteFile(path, []byte(wirelessFixture), 0644))

	link := readSignal(path, "wlan0")

	require.NotNil(t, link.RSSI)
	require.Equal(t, -47, *link.RSSI)
	require.Nil(t, link.Bitrate)
}

func TestReadSignalMissingInterfaceReturnsAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wireless")
	require.NoError(t, os.WriteFile(path, []byte(wirelessFixture), 0644))

	link := readSignal(path, "eth0")

	require.Nil(t, link.RSSI)
}

func TestReadSignalMissingFileReturnsAbsent(t *testing.T) {
	link := readSignal("/nonexistent/path/to/wireless", "wlan0")
	require.Nil(t, link.RSSI)
}

func TestPingArgsLinuxUsesDashW(t *testing.T) {
	args := pingArgs("1.1.1.1", 4, 2_000_000_000)
	require.Contains(t, args, "1.1.1.1")
	require.Contains(t, args, "4")
	if runtime.GOOS != "darwin" {
		require.Contains(t, args, "-w")
	}
}
