package watchdog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		HistorySize: 5,
		Thresholds: Thresholds{
			DegradedFailRatio:   0.3,
			LostFailRatio:       0.7,
			DegradedConsecutive: 2,
			LostConsecutive:     4,
		},
		Signal: SignalThresholds{
			RSSIDegraded: -75,
			RSSILost:     -85,
		},
		Escalation: EscalationConfig{
			HealthyResetConsecutive: 3,
			Tiers: []TierSpec{
				{Name: "restart_network_services", Enabled: true},
			},
		},
		Limits: Limits{
			MaxRebootsPerDay:         2,
			MinUptimeBeforeReboot:    300,
			MinSecondsBetweenReboots: 600,
		},
	}
}

func allHealthySnapshot() ConnectivitySnapshot {
	return ConnectivitySnapshot{
		Pings: []PingOutcome{
			{Host: "1.1.1.1", Success: true},
			{Host: "8.8.8.8", Success: true},
		},
		DNSSuccess: true,
		HasDNS:     true,
	}
}

func allFailedSnapshot() ConnectivitySnapshot {
	return ConnectivitySnapshot{
		Pings: []PingOutcome{
			{Host: "1.1.1.1", Success: false},
			{Host: "8.8.8.8", Success: false},
		},
		DNSSuccess: false,
		HasDNS:     true,
	}
}

func TestClassifyHealthyWhenAllProbesSucceed(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)

	result := Classify(cfg, allHealthySnapshot(), w)

	require.Equal(t, Healthy, result.State)
	require.Zero(t, result.FailRatio)
	require.Zero(t, result.ConsecutiveUnhealthy)
}

func TestClassifyEmptyPingsCountsAsFullFailure(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)

	result := Classify(cfg, ConnectivitySnapshot{}, w)

	require.NotEqual(t, Healthy, result.State)
}

func TestClassifyDegradedOnFailRatioThreshold(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)

	// Three healthy cycles then two failing ones fill the window of 5, so
	// the fail ratio (taken over the current window length) is 2/5 = 0.4:
	// over the 0.3 degraded threshold, under the 0.7 lost one. The
	// two-cycle degraded-consecutive rule also fires here (a tail of 2 is
	// still under lost_consecutive 4), which is fine: either cascade
	// reaching DEGRADED is a pass for this case.
	Classify(cfg, allHealthySnapshot(), w)
	Classify(cfg, allHealthySnapshot(), w)
	Classify(cfg, allHealthySnapshot(), w)
	Classify(cfg, allFailedSnapshot(), w)
	result := Classify(cfg, allFailedSnapshot(), w)

	require.Equal(t, Degraded, result.State)
}

func TestClassifyLostOnConsecutiveThreshold(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)

	var result ClassificationResult
	for i := 0; i < cfg.Thresholds.LostConsecutive; i++ {
		result = Classify(cfg, allFailedSnapshot(), w)
	}

	require.Equal(t, Lost, result.State)
	require.Equal(t, cfg.Thresholds.LostConsecutive, result.ConsecutiveUnhealthy)
}

func TestClassifyLostOnRSSIFloor(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)
	snap := allHealthySnapshot()
	snap.Link.RSSI = intPtr(-90)

	result := Classify(cfg, snap, w)

	require.Equal(t, Lost, result.State)
	require.NotNil(t, result.RSSI)
	require.Equal(t, -90, *result.RSSI)
}

func TestClassifyDegradedOnRSSIFloor(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)
	snap := allHealthySnapshot()
	snap.Link.RSSI = intPtr(-80)

	result := Classify(cfg, snap, w)

	require.Equal(t, Degraded, result.State)
}

func TestClassifyOneHealthyCycleResetsTailButNotWindowFailRatio(t *testing.T) {
	cfg := testConfig()
	w := NewWindow(cfg.HistorySize)

	Classify(cfg, allFailedSnapshot(), w)
	Classify(cfg, allFailedSnapshot(), w)
	result := Classify(cfg, allHealthySnapshot(), w)

	// The healthy cycle ends the unhealthy tail, but both failing cycles
	// are still in the window: fail ratio 2/3 stays over the 0.3 degraded
	// threshold.
	require.Equal(t, 0, result.ConsecutiveUnhealthy)
	require.Equal(t, Degraded, result.State)
}
