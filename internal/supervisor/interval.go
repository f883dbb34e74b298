// Package supervisor runs the watchdog's main cycle: probe, classify,
// escalate, publish, sleep — repeated until shutdown.
package supervisor

import (
	"math/rand"
	"time"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// minSleepFloor is the absolute shortest sleep the controller will ever
// return, regardless of jitter, so a badly configured min_interval can't
// spin the cycle loop.
const minSleepFloor = 500 * time.Millisecond

// IntervalController adapts the inter-cycle sleep to classification state:
// it halves toward cfg min_interval on DEGRADED/LOST so an incident gets
// re-probed sooner, and doubles back toward base_interval once HEALTHY
// again, always clamped to [min_interval, max_interval]. Supplements the
// distilled spec with the original implementation's
// update_adaptive_interval(), generalized from its fixed backoff_factor
// into a state-driven halve/double.
type IntervalController struct {
	base, min, max time.Duration
	current        time.Duration
	jitter         func() float64 // returns a value in [-1, 1]; overridden in tests
}

// NewIntervalController builds a controller starting at base, which must be
// within [min, max] for sane behavior — callers validate cycle config
// before wiring this.
func NewIntervalController(base, min, max time.Duration) *IntervalController {
	return &IntervalController{
		base:    base,
		min:     min,
		max:     max,
		current: base,
		jitter:  func() float64 { return rand.Float64()*2 - 1 },
	}
}

// Next advances the controller's internal interval for state and returns
// the jittered sleep duration to use before the following cycle.
func (c *IntervalController) Next(state watchdog.HealthState) time.Duration {
	switch state {
	case watchdog.Healthy:
		c.current *= 2
		if c.current > c.base {
			c.current = c.base
		}
	default:
		c.current /= 2
	}

	if c.current < c.min {
		c.current = c.min
	}
	if c.current > c.max {
		c.current = c.max
	}

	return c.jittered()
}

func (c *IntervalController) jittered() time.Duration {
	delta := time.Duration(float64(c.current) * 0.1 * c.jitter())
	d := c.current + delta
	if d < minSleepFloor {
		d = minSleepFloor
	}
	return d
}
