package probe

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/AdguardTeam/dnsproxy/upstream"
	"github.com/miekg/dns"
)

const (
	dnsHealthCheckInterval      = 10 * time.Second
	dnsUnhealthyRecheckInterval = 30 * time.Second
	dnsProbeTimeout             = 3 * time.Second
	dnsFailureThreshold         = 3
	dnsLatencyAlpha             = 0.3
)

// resolverState tracks the health and performance of a single configured
// DNS resolver, the same bookkeeping the teacher's dnsproxy package keeps
// per upstream.
type resolverState struct {
	upstream   upstream.Upstream
	address    string
	healthy    bool
	avgLatency time.Duration
	failures   int
	mu         sync.RWMutex
}

// HealthAwareResolver queries the fastest healthy configured resolver first,
// falling back sequentially to the rest, and to every resolver if all are
// currently marked unhealthy. It is the Probe Source's DNS sub-probe,
// adapted from the teacher's HealthAwareUpstream (which served the same
// role fronting a SOCKS DNS tunnel) to front plain one-shot health checks
// instead.
type HealthAwareResolver struct {
	states []*resolverState
	query  string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
}

// NewHealthAwareResolver builds a HealthAwareResolver querying queryName
// (e.g. ".") against each address in resolverAddrs ("host:port" form), and
// starts its background health monitor. Callers must call Close when done.
func NewHealthAwareResolver(resolverAddrs []string, queryName string) (*HealthAwareResolver, error) {
	states := make([]*resolverState, 0, len(resolverAddrs))
	for _, addr := range resolverAddrs {
		u, err := upstream.AddressToUpstream(addr, &upstream.Options{Timeout: dnsProbeTimeout})
		if err != nil {
			return nil, fmt.Errorf("configure dns resolver %s: %w", addr, err)
		}
		states = append(states, &resolverState{upstream: u, address: addr, healthy: true})
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &HealthAwareResolver{
		states: states,
		query:  queryName,
		ctx:    ctx,
		cancel: cancel,
	}

	h.wg.Add(1)
	go h.monitorLoop()

	return h, nil
}

// Check performs one DNS query against the healthiest resolver, falling
// back through the rest in health/latency order, and reports success and
// the latency of whichever attempt succeeded.
func (h *HealthAwareResolver) Check(ctx context.Context) (success bool, latency time.Duration) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(h.query), dns.TypeNS)

	ordered := h.orderedHealthyStates()
	if len(ordered) == 0 {
		ordered = h.allStates()
	}

	for _, s := range ordered {
		start := time.Now()
		_, err := s.upstream.Exchange(msg)
		elapsed := time.Since(start)
		if err == nil {
			return true, elapsed
		}
	}
	return false, 0
}

// Close stops the health monitor and the underlying resolver connections.
func (h *HealthAwareResolver) Close() error {
	h.cancel()
	h.wg.Wait()

	var firstErr error
	for _, s := range h.states {
		if err := s.upstream.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *HealthAwareResolver) orderedHealthyStates() []*resolverState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var result []*resolverState
	for _, s := range h.states {
		s.mu.RLock()
		healthy := s.healthy
		s.mu.RUnlock()
		if healthy {
			result = append(result, s)
		}
	}

	slices.SortStableFunc(result, func(a, b *resolverState) int {
		a.mu.RLock()
		la := a.avgLatency
		a.mu.RUnlock()
		b.mu.RLock()
		lb := b.avgLatency
		b.mu.RUnlock()
		switch {
		case la == 0 && lb == 0:
			return 0
		case la == 0:
			return 1
		case lb == 0:
			return -1
		default:
			return cmp.Compare(la, lb)
		}
	})

	return result
}

func (h *HealthAwareResolver) allStates() []*resolverState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]*resolverState, len(h.states))
	copy(result, h.states)
	return result
}

func (h *HealthAwareResolver) monitorLoop() {
	defer h.wg.Done()

	healthyTicker := time.NewTicker(dnsHealthCheckInterval)
	unhealthyTicker := time.NewTicker(dnsUnhealthyRecheckInterval)
	defer healthyTicker.Stop()
	defer unhealthyTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-healthyTicker.C:
			h.probeResolvers(true)
		case <-unhealthyTicker.C:
			h.probeResolvers(false)
		}
	}
}

func (h *HealthAwareResolver) probeResolvers(healthyOnly bool) {
	h.mu.RLock()
	states := make([]*resolverState, len(h.states))
	copy(states, h.states)
	h.mu.RUnlock()

	for _, s := range states {
		s.mu.RLock()
		isHealthy := s.healthy
		s.mu.RUnlock()

		if healthyOnly != isHealthy {
			continue
		}
		go h.probeOne(s)
	}
}

func (h *HealthAwareResolver) probeOne(s *resolverState) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(h.query), dns.TypeNS)

	start := time.Now()
	ctx, cancel := context.WithTimeout(h.ctx, dnsProbeTimeout)
	defer cancel()

	type result struct{ err error }
	ch := make(chan result, 1)
	go func() {
		_, err := s.upstream.Exchange(msg)
		ch <- result{err: err}
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case r := <-ch:
		err = r.err
	}

	latency := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.failures++
		if s.failures >= dnsFailureThreshold {
			s.healthy = false
		}
		return
	}

	if s.avgLatency == 0 {
		s.avgLatency = latency
	} else {
		s.avgLatency = time.Duration(
			float64(s.avgLatency)*(1-dnsLatencyAlpha) + float64(latency)*dnsLatencyAlpha,
		)
	}
	s.failures = 0
	s.healthy = true
}
