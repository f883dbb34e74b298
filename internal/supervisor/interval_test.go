package supervisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

func noJitter(c *IntervalController) { c.jitter = func() float64 { return 0 } }

func TestIntervalControllerStaysAtBaseWhileHealthy(t *testing.T) {
	c := NewIntervalController(15*time.Second, 5*time.Second, 60*time.Second)
	noJitter(c)

	require.Equal(t, 15*time.Second, c.Next(watchdog.Healthy))
	require.Equal(t, 15*time.Second, c.Next(watchdog.Healthy))
}

func TestIntervalControllerHalvesOnDegradedDownToMin(t *testing.T) {
	c := NewIntervalController(16*time.Second, 2*time.Second, 60*time.Second)
	noJitter(c)

	require.Equal(t, 8*time.Second, c.Next(watchdog.Degraded))
	require.Equal(t, 4*time.Second, c.Next(watchdog.Lost))
	require.Equal(t, 2*time.Second, c.Next(watchdog.Degraded))
	require.Equal(t, 2*time.Second, c.Next(watchdog.Degraded)) // floored at min
}

func TestIntervalControllerDoublesBackTowardBaseOnRecovery(t *testing.T) {
	c := NewIntervalController(16*time.Second, 2*time.Second, 60*time.Second)
	noJitter(c)

	c.Next(watchdog.Lost)                                       // 8s
	c.Next(watchdog.Lost)                                       // 4s
	require.Equal(t, 8*time.Second, c.Next(watchdog.Healthy))    // recovering
	require.Equal(t, 16*time.Second, c.Next(watchdog.Healthy))   // back to base
	require.Equal(t, 16*time.Second, c.Next(watchdog.Healthy))   // capped at base
}

func TestIntervalControllerClampsToMaxInterval(t *testing.T) {
	c := NewIntervalController(10*time.Second, 1*time.Second, 12*time.Second)
	noJitter(c)
	c.base = 100 * time.Second // force an over-max base to exercise the max clamp
	c.current = 100 * time.Second

	require.Equal(t, 12*time.Second, c.Next(watchdog.Healthy))
}

func TestIntervalControllerJitterStaysWithinTenPercent(t *testing.T) {
	c := NewIntervalController(10*time.Second, 1*time.Second, 60*time.Second)
	c.jitter = func() float64 { return 1 } // max positive jitter

	got := c.Next(watchdog.Healthy)
	require.Equal(t, 11*time.Second, got)
}

func TestIntervalControllerNeverSleepsBelowFloor(t *testing.T) {
	c := NewIntervalController(1*time.Second, 1*time.Millisecond, 1*time.Second)
	c.jitter = func() float64 { return -1 }

	got := c.Next(watchdog.Degraded)
	require.Equal(t, minSleepFloor, got)
}
