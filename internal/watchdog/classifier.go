package watchdog

// Classify fuses one ConnectivitySnapshot into one ClassificationResult,
// appending a derived WindowEntry to window as a side effect. Apart from
// that append it holds no state of its own and is deterministic given
// (cfg, snapshot, the window's prior contents).
//
// Algorithm, in order (spec §4.2):
//  1. success_ratio from snapshot pings, no pings => 0.0
//  2. append WindowEntry{success_ratio, rssi} to window
//  3. fail_ratio = window.FailRatio()
//  4. consecutive = window.ConsecutiveUnhealthyTail()
//  5. rssi = snapshot.Link.RSSI (may be absent)
//  6. LOST first, then DEGRADED, else HEALTHY
func Classify(cfg Config, snapshot ConnectivitySnapshot, window *Window) ClassificationResult {
	successRatio := snapshot.SuccessRatio()
	rssi := snapshot.Link.RSSI

	window.Add(WindowEntry{SuccessRatio: successRatio, RSSI: rssi})

	failRatio := window.FailRatio()
	consecutive := window.ConsecutiveUnhealthyTail()

	state := classifyState(cfg, failRatio, consecutive, rssi)

	return ClassificationResult{
		State:                state,
		FailRatio:            failRatio,
		ConsecutiveUnhealthy: consecutive,
		RSSI:                 rssi,
	}
}

func classifyState(cfg Config, failRatio float64, consecutive int, rssi *int) HealthState {
	if failRatio >= cfg.Thresholds.LostFailRatio ||
		consecutive >= cfg.Thresholds.LostConsecutive ||
		(rssi != nil && *rssi <= cfg.Signal.RSSILost) {
		return Lost
	}
	if failRatio >= cfg.Thresholds.DegradedFailRatio ||
		consecutive >= cfg.Thresholds.DegradedConsecutive ||
		(rssi != nil && *rssi <= cfg.Signal.RSSIDegraded) {
		return Degraded
	}
	return Healthy
}
