package probe

import (
	"context"
	"sync"
	"time"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// MultiConfig configures Multi's sub-probes.
type MultiConfig struct {
	Interface    string
	PingHosts    []string
	PingCount    int
	PingTimeout  time.Duration
	DNSResolvers []string
	DNSQueryName string
	HTTPProbeURL string // empty disables the HTTP sub-probe
	HTTPTimeout  time.Duration
	// WirelessPath overrides /proc/net/wireless, for tests.
	WirelessPath string
}

// Multi is the real Source: it runs the ping, DNS, optional HTTP, and
// wireless-signal sub-probes concurrently within one cycle (spec §5) and
// fuses their results into one ConnectivitySnapshot.
type Multi struct {
	cfg      MultiConfig
	resolver *HealthAwareResolver
}

// NewMulti builds a Multi Source and starts its DNS resolver's background
// health monitor. Callers must call Close when the supervisor shuts down.
func NewMulti(cfg MultiConfig) (*Multi, error) {
	resolver, err := NewHealthAwareResolver(cfg.DNSResolvers, cfg.DNSQueryName)
	if err != nil {
		return nil, err
	}
	return &Multi{cfg: cfg, resolver: resolver}, nil
}

// Close stops the DNS resolver's health monitor.
func (m *Multi) Close() error {
	return m.resolver.Close()
}

// Probe fans out every sub-probe into its own goroutine and waits for all
// of them, so one slow sub-probe (typically DNS, bounded by its own
// timeout) never serializes behind the others.
func (m *Multi) Probe(ctx context.Context) watchdog.ConnectivitySnapshot {
	var (
		snap watchdog.ConnectivitySnapshot
		mu   sync.Mutex
		wg   sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		pings := pingAll(ctx, m.cfg.PingHosts, m.cfg.PingCount, m.cfg.PingTimeout)
		mu.Lock()
		snap.Pings = pings
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		success, _ := m.resolver.Check(ctx)
		mu.Lock()
		snap.HasDNS = true
		snap.DNSSuccess = success
		mu.Unlock()
	}()

	if m.cfg.HTTPProbeURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			success := checkHTTP(ctx, m.cfg.HTTPProbeURL, m.cfg.HTTPTimeout)
			mu.Lock()
			snap.HasHTTP = true
			snap.HTTPSuccess = success
			mu.Unlock()
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		link := readSignal(m.cfg.WirelessPath, m.cfg.Interface)
		mu.Lock()
		snap.Link = link
		mu.Unlock()
	}()

	wg.Wait()
	return snap
}
