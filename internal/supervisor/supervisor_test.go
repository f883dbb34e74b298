package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkwatchd/linkwatchd/internal/logging"
	"github.com/linkwatchd/linkwatchd/internal/probe"
	"github.com/linkwatchd/linkwatchd/internal/statuspub"
	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

type fakeExecutor struct {
	calls []string
}

func (f *fakeExecutor) Execute(tier watchdog.TierSpec) error {
	f.calls = append(f.calls, tier.Name)
	return nil
}

func testLogger() *logging.Logger {
	devnull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	return logging.New(logging.Config{Output: devnull})
}

func testWatchdogConfig() watchdog.Config {
	return watchdog.Config{
		HistorySize: 5,
		Thresholds: watchdog.Thresholds{
			DegradedFailRatio:   0.3,
			LostFailRatio:       0.7,
			DegradedConsecutive: 2,
			LostConsecutive:     4,
		},
		Signal: watchdog.SignalThresholds{RSSIDegraded: -75, RSSILost: -85},
		Escalation: watchdog.EscalationConfig{
			HealthyResetConsecutive: 2,
			Tiers: []watchdog.TierSpec{
				{Name: "restart_network_services", Enabled: true, Services: []string{"NetworkManager"}},
			},
		},
		Limits: watchdog.Limits{MaxRebootsPerDay: 1, MinUptimeBeforeReboot: 0, MinSecondsBetweenReboots: 0},
	}
}

func newTestSupervisor(t *testing.T, snapshots []watchdog.ConnectivitySnapshot) (*Supervisor, *fakeExecutor, string) {
	t.Helper()
	dir := t.TempDir()
	wcfg := testWatchdogConfig()

	exec := &fakeExecutor{}
	store := &watchdog.MemoryRebootStateStore{}
	escalation := watchdog.NewEscalationManager(wcfg, store, watchdog.ProcUptimeReader{}, &watchdog.SystemClock{})

	statusPath := filepath.Join(dir, "status.json")

	sup := &Supervisor{
		Log:            testLogger(),
		Probe:          &probe.Fixture{Snapshots: snapshots},
		Executor:       exec,
		Escalation:     escalation,
		Window:         watchdog.NewWindow(wcfg.HistorySize),
		WatchdogCfg:    wcfg,
		StatusPath:     statusPath,
		Prom:           statuspub.NewPrometheusWriter(),
		History:        &statuspub.History{Path: filepath.Join(dir, "history.jsonl")},
		Interval:       NewIntervalController(0, 0, 0),
		Notifier:       func() error { return nil },
	}
	return sup, exec, statusPath
}

func healthySnapshot() watchdog.ConnectivitySnapshot {
	return watchdog.ConnectivitySnapshot{
		Pings:       []watchdog.PingOutcome{{Host: "1.1.1.1", Success: true}},
		DNSSuccess:  true,
		HasDNS:      true,
		HTTPSuccess: true,
		HasHTTP:     true,
	}
}

func failedSnapshot() watchdog.ConnectivitySnapshot {
	return watchdog.ConnectivitySnapshot{
		Pings:      []watchdog.PingOutcome{{Host: "1.1.1.1", Success: false}},
		DNSSuccess: false,
		HasDNS:     true,
	}
}

func TestRunCycleWritesStatusFileOnHealthyCycle(t *testing.T) {
	sup, exec, statusPath := newTestSupervisor(t, []watchdog.ConnectivitySnapshot{healthySnapshot()})

	result := sup.runCycle(context.Background())
	require.Equal(t, watchdog.Healthy, result.State)
	require.Empty(t, exec.calls)

	status, err := statuspub.ReadJSON(statusPath)
	require.NoError(t, err)
	require.Equal(t, watchdog.Healthy, status.State)
}

// The only tier has no cool-down, so it sits at the ladder's terminus and is
// re-invoked on every LOST cycle (the first failing cycle is already LOST by
// fail ratio 1.0).
func TestRunCycleInvokesExecutorOnEveryLostCycleWithoutCooldown(t *testing.T) {
	snaps := []watchdog.ConnectivitySnapshot{
		failedSnapshot(), failedSnapshot(), failedSnapshot(), failedSnapshot(),
	}
	sup, exec, _ := newTestSupervisor(t, snaps)

	var last watchdog.ClassificationResult
	for range snaps {
		last = sup.runCycle(context.Background())
	}

	require.Equal(t, watchdog.Lost, last.State)
	require.Equal(t, []string{
		"restart_network_services", "restart_network_services",
		"restart_network_services", "restart_network_services",
	}, exec.calls)
}

func TestRunCycleNeverPanicsOnProbeFailureSnapshot(t *testing.T) {
	sup, _, _ := newTestSupervisor(t, nil) // Fixture with no snapshots returns the zero value
	require.NotPanics(t, func() {
		sup.runCycle(context.Background())
	})
}
