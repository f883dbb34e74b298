package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkwatchd/linkwatchd/internal/logging"
	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

type recordingRecorder struct {
	tier    string
	success bool
	err     error
	calls   int
}

func (r *recordingRecorder) RecordAction(tier string, success bool, err error) {
	r.tier = tier
	r.success = success
	r.err = err
	r.calls++
}

func testLogger() *logging.Logger {
	devNull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	return logging.New(logging.Config{Output: devNull})
}

func TestDispatchDryRunSkipsRealAction(t *testing.T) {
	recorder := &recordingRecorder{}
	d := NewDispatch(testLogger(), recorder, true)

	err := d.Execute(watchdog.TierSpec{Name: "reboot"})

	require.NoError(t, err)
	require.True(t, recorder.success)
	require.Equal(t, 1, recorder.calls)
}

func TestDispatchUnknownTierIsRejected(t *testing.T) {
	recorder := &recordingRecorder{}
	d := NewDispatch(testLogger(), recorder, false)

	err := d.Execute(watchdog.TierSpec{Name: "not_a_real_tier"})

	require.Error(t, err)
	require.False(t, recorder.success)
}

func TestDispatchRebootUsesInjectedRebootFunc(t *testing.T) {
	called := false
	d := NewDispatch(testLogger(), nil, false)
	d.RebootFunc = func(ctx context.Context) error {
		called = true
		return nil
	}

	err := d.Execute(watchdog.TierSpec{Name: "reboot"})

	require.NoError(t, err)
	require.True(t, called)
}

func TestRefreshDHCPMissingInterfaceIsRejected(t *testing.T) {
	err := refreshDHCP(context.Background(), "")
	require.Error(t, err)
}

func TestRestartServicesMissingListIsRejected(t *testing.T) {
	err := restartServices(context.Background(), nil)
	require.Error(t, err)
}

func TestUSBSysfsRebindWritesUnbindThenBind(t *testing.T) {
	dir := t.TempDir()
	oldPath := usbSysfsPath
	usbSysfsPath = dir
	defer func() { usbSysfsPath = oldPath }()

	err := usbSysfsRebind("1-3")
	require.NoError(t, err)

	unbound, err := os.ReadFile(filepath.Join(dir, "unbind"))
	require.NoError(t, err)
	require.Equal(t, "1-3", string(unbound))

	bound, err := os.ReadFile(filepath.Join(dir, "bind"))
	require.NoError(t, err)
	require.Equal(t, "1-3", string(bound))
}

func TestPowerCycleHubMissingConfigIsRejected(t *testing.T) {
	err := powerCycleHub(context.Background(), "", 0)
	require.Error(t, err)
}
