package watchdog

import (
	"fmt"
	"time"
)

// Executor invokes the side effect bound to one escalation tier (restart a
// service, cycle an interface, reboot the host, ...). It knows nothing about
// the ladder, quotas, or cool-downs — the Escalation Manager owns all of
// that and calls Execute only once a tier has cleared every guard.
type Executor interface {
	Execute(tier TierSpec) error
}

// Invocation describes one completed MaybeEscalate call, returned so the
// supervisor can log and publish status without the Escalation Manager
// depending on a logger or status publisher itself.
type Invocation struct {
	Tier       string
	Attempted  bool // false when the tier was disabled or still cooling down
	Executed   bool // true only when Executor.Execute was actually called
	Err        error
	PersistErr error // non-nil if a successful reboot's quota failed to persist
}

type tierCooldown struct {
	lastInvoked time.Duration
	seen        bool
}

// EscalationManager is the stateful ladder described in spec §4.3: given a
// sequence of ClassificationResult values, it decides when to climb the
// tier ladder, when a climb is blocked by a per-tier cool-down, and — for
// the reboot tier specifically — whether the reboot safety guards (daily
// quota, minimum uptime, minimum spacing) allow the action through.
//
// One EscalationManager is constructed per running process and lives for
// the process's lifetime; it is not safe for concurrent use, matching the
// single-cycle-goroutine assumption the supervisor makes everywhere else.
type EscalationManager struct {
	tiers                   []TierSpec
	healthyResetConsecutive int

	currentIndex  int
	healthyStreak int

	cooldowns map[string]*tierCooldown

	store        RebootStateStore
	uptimeReader UptimeReader
	clock        Clock
	limits       Limits

	rebootState     RebootState
	lastRebootMono  time.Duration
	haveLastRebootM bool
}

// NewEscalationManager constructs the manager from cfg's escalation ladder
// and reboot limits. It loads any persisted reboot quota via store,
// tolerating a missing or corrupt file exactly as spec §3/§7 require: a
// cold start simply begins the day's count at zero.
func NewEscalationManager(cfg Config, store RebootStateStore, uptimeReader UptimeReader, clock Clock) *EscalationManager {
	m := &EscalationManager{
		tiers:                   cfg.Escalation.Tiers,
		healthyResetConsecutive: cfg.Escalation.HealthyResetConsecutive,
		cooldowns:               make(map[string]*tierCooldown, len(cfg.Escalation.Tiers)),
		store:                   store,
		uptimeReader:            uptimeReader,
		clock:                   clock,
		limits:                  cfg.Limits,
	}
	for _, t := range cfg.Escalation.Tiers {
		m.cooldowns[t.Name] = &tierCooldown{}
	}

	today := clock.WallDate()
	if state, ok := store.Read(); ok && state.Date == today {
		m.rebootState = state
	} else {
		m.rebootState = RebootState{Date: today, Count: 0}
	}
	return m
}

// RecordHealth feeds one classification into the healthy-streak counter
// that resets the ladder. A HEALTHY result extends the streak; anything
// else breaks it. Once the streak reaches HealthyResetConsecutive the
// ladder index drops back to its first tier (spec §4.3, "ladder reset").
func (m *EscalationManager) RecordHealth(result ClassificationResult) {
	if result.State != Healthy {
		m.healthyStreak = 0
		return
	}
	m.healthyStreak++
	if m.healthyResetConsecutive > 0 && m.healthyStreak >= m.healthyResetConsecutive {
		m.currentIndex = 0
	}
}

// MaybeEscalate is called once per cycle with the cycle's classification.
// A HEALTHY result never escalates. Otherwise the tier at the current
// ladder position (clamped to the last tier once the ladder runs off the
// end — the "terminus re-invokes last tier" rule) is considered:
//
//   - a disabled tier is not invoked, with no cool-down update and no
//     ladder advance: the ladder stays paused on it, and later tiers are
//     not tried in its place;
//   - a tier still inside its MinIntervalSeconds cool-down is skipped the
//     same way;
//   - a reboot tier denied by allowReboot (quota, uptime, or spacing guard)
//     is also treated as not invoked: no cool-down update, no ladder
//     advance, so the same tier is retried next cycle (spec §4.3 step 4,
//     §7 kind 5, §8 scenario 4);
//   - otherwise the tier is "attempted": its cool-down timer resets, and
//     the ladder advances to the next tier regardless of what happens
//     next — a failing Executor.Execute still counts as an attempt and
//     still advances the ladder (spec §4.3, §9 open question 1).
func (m *EscalationManager) MaybeEscalate(result ClassificationResult, executor Executor) Invocation {
	if result.State == Healthy || len(m.tiers) == 0 {
		return Invocation{}
	}

	idx := m.currentIndex
	if idx > len(m.tiers)-1 {
		idx = len(m.tiers) - 1
	}
	tier := m.tiers[idx]

	if !tier.Enabled {
		return Invocation{Tier: tier.Name}
	}

	cd := m.cooldowns[tier.Name]
	if cd == nil {
		cd = &tierCooldown{}
		m.cooldowns[tier.Name] = cd
	}
	now := m.clock.Monotonic()
	if cd.seen && tier.MinIntervalSeconds > 0 {
		elapsed := now - cd.lastInvoked
		if elapsed < time.Duration(tier.MinIntervalSeconds)*time.Second {
			return Invocation{Tier: tier.Name}
		}
	}

	if tier.Name == rebootTierName && !m.allowReboot() {
		// A denied reboot is treated as not invoked at all (spec §4.3 step 4,
		// §7 kind 5, §8 scenario 4): no cool-down update, no ladder advance,
		// so the next cycle retries the same tier instead of skipping past
		// it to whatever comes next on the ladder.
		return Invocation{Tier: tier.Name, Attempted: true}
	}

	cd.lastInvoked = now
	cd.seen = true
	m.currentIndex = idx + 1

	err := executor.Execute(tier)
	inv := Invocation{Tier: tier.Name, Attempted: true, Executed: true, Err: err}

	if tier.Name == rebootTierName && err == nil {
		inv.PersistErr = m.recordReboot(now)
	}
	return inv
}

const rebootTierName = "reboot"

// allowReboot implements the three independent reboot safety guards from
// spec §4.3 step 3 / §3 Limits. All three must pass. An uptime reader error
// means uptime is not checkable; the uptime guard then does not deny, and
// the quota and spacing guards still apply.
func (m *EscalationManager) allowReboot() bool {
	today := m.clock.WallDate()
	if m.rebootState.Date != today {
		m.rebootState = RebootState{Date: today, Count: 0}
	}
	if m.rebootState.Count >= m.limits.MaxRebootsPerDay {
		return false
	}

	if m.limits.MinUptimeBeforeReboot > 0 {
		uptime, err := m.uptimeReader.Uptime()
		if err == nil && uptime < time.Duration(m.limits.MinUptimeBeforeReboot)*time.Second {
			return false
		}
	}

	if m.limits.MinSecondsBetweenReboots > 0 && m.haveLastRebootM {
		elapsed := m.clock.Monotonic() - m.lastRebootMono
		if elapsed < time.Duration(m.limits.MinSecondsBetweenReboots)*time.Second {
			return false
		}
	}

	return true
}

// recordReboot updates the in-memory spacing guard and the persisted daily
// quota after a reboot tier executes successfully. The spacing guard
// (lastRebootMono) is intentionally process-local only — spec §9 open
// question 2 resolves this as a known gap rather than widening the
// persisted file format, so a process restart forgets any spacing already
// observed this calendar day.
func (m *EscalationManager) recordReboot(now time.Duration) error {
	m.lastRebootMono = now
	m.haveLastRebootM = true

	m.rebootState.Count++
	if err := m.store.Write(m.rebootState); err != nil {
		// Persistence failure must not block the reboot that already
		// happened; the caller logs PersistErr, see supervisor cycle
		// handling.
		return fmt.Errorf("persist reboot state: %w", err)
	}
	return nil
}

// CurrentTier reports the name of the tier the ladder currently points at,
// clamped to the last tier, or "" if the ladder has no tiers configured.
// Intended for status reporting, not for decision-making.
func (m *EscalationManager) CurrentTier() string {
	if len(m.tiers) == 0 {
		return ""
	}
	idx := m.currentIndex
	if idx > len(m.tiers)-1 {
		idx = len(m.tiers) - 1
	}
	return m.tiers[idx].Name
}

// RebootsToday reports the reboot count persisted/tracked for the current
// calendar date, for status reporting.
func (m *EscalationManager) RebootsToday() int {
	return m.rebootState.Count
}
