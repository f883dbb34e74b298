// Package probe produces the ConnectivitySnapshot the classifier consumes
// each cycle: ping, DNS, optional HTTP, and wireless signal sub-probes run
// concurrently and are fused into one snapshot.
package probe

import (
	"context"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// Source produces one ConnectivitySnapshot per cycle. The only real
// implementation is Multi; tests use Fixture.
type Source interface {
	Probe(ctx context.Context) watchdog.ConnectivitySnapshot
}

// Fixture is a Source test double that returns Snapshots in order, one per
// call, repeating the last one once the list is used up (or the zero-value
// snapshot if none was set), letting supervisor and classifier tests drive
// specific sequences of cycles without real network I/O.
type Fixture struct {
	Snapshots []watchdog.ConnectivitySnapshot
	calls     int
}

func (f *Fixture) Probe(_ context.Context) watchdog.ConnectivitySnapshot {
	if len(f.Snapshots) == 0 {
		return watchdog.ConnectivitySnapshot{}
	}
	idx := f.calls
	if idx >= len(f.Snapshots) {
		idx = len(f.Snapshots) - 1
	}
	f.calls++
	return f.Snapshots[idx]
}
