package supervisor

import (
	"context"
	"time"

	"github.com/linkwatchd/linkwatchd/internal/config"
	"github.com/linkwatchd/linkwatchd/internal/executor"
	"github.com/linkwatchd/linkwatchd/internal/logging"
	"github.com/linkwatchd/linkwatchd/internal/probe"
	"github.com/linkwatchd/linkwatchd/internal/sdnotify"
	"github.com/linkwatchd/linkwatchd/internal/statuspub"
	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// Supervisor owns the one goroutine that drives the watchdog core each
// cycle: probe, classify, record_health, maybe_escalate, publish, sleep.
// The core components it wires (Window, EscalationManager) are documented
// as not re-entrant, so nothing else may call into them concurrently.
type Supervisor struct {
	Log         *logging.Logger
	Probe       probe.Source
	Executor    watchdog.Executor
	Escalation  *watchdog.EscalationManager
	Window      *watchdog.Window
	WatchdogCfg watchdog.Config

	StatusPath     string
	PrometheusPath string
	Prom           *statuspub.PrometheusWriter
	History        *statuspub.History

	Interval *IntervalController

	// Notifier sends systemd watchdog keepalives; defaults to sdnotify.Watchdog
	// but is a field so tests can observe or suppress it.
	Notifier func() error
}

// New builds a Supervisor from a loaded config, wiring every domain-stack
// collaborator (probe source, executor, status publisher) for the real
// daemon; cmd/run.go calls it.
func New(cfg *config.Config, log *logging.Logger) (*Supervisor, error) {
	wcfg := cfg.ToWatchdogConfig()

	multi, err := probe.NewMulti(probe.MultiConfig{
		Interface:    cfg.Probe.Interface,
		PingHosts:    cfg.Probe.PingHosts,
		PingCount:    cfg.Probe.PingCount,
		PingTimeout:  cfg.Probe.PingTimeout,
		DNSResolvers: cfg.Probe.DNSResolvers,
		DNSQueryName: cfg.Probe.DNSQueryName,
		HTTPProbeURL: cfg.Probe.HTTPProbeURL,
		HTTPTimeout:  cfg.Probe.HTTPTimeout,
	})
	if err != nil {
		return nil, err
	}

	historyPath := cfg.Status.HistoryPath
	if historyPath == "" {
		historyPath = config.ActionHistoryPath()
	}
	history := &statuspub.History{Path: historyPath}
	dispatch := executor.NewDispatch(log, history, cfg.DryRun)

	store := &watchdog.FileRebootStateStore{Path: cfg.State.RebootStatePath}
	escalation := watchdog.NewEscalationManager(wcfg, store, watchdog.ProcUptimeReader{}, watchdog.NewSystemClock())

	return &Supervisor{
		Log:            log,
		Probe:          multi,
		Executor:       dispatch,
		Escalation:     escalation,
		Window:         watchdog.NewWindow(wcfg.HistorySize),
		WatchdogCfg:    wcfg,
		StatusPath:     cfg.Status.JSONPath,
		PrometheusPath: cfg.Status.PrometheusTextfilePath,
		Prom:           statuspub.NewPrometheusWriter(),
		History:        history,
		Interval:       NewIntervalController(cfg.Cycle.BaseInterval, cfg.Cycle.MinInterval, cfg.Cycle.MaxInterval),
		Notifier:       sdnotify.Watchdog,
	}, nil
}

// Run loops cycles until ctx is cancelled. A single cycle's error never
// stops the loop — it is logged and the next cycle proceeds, matching the
// original implementation's cycle_error handling, since a daemon that
// exits on a transient probe or publish failure defeats its own purpose.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := s.runCycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Interval.Next(result.State)):
		}
	}
}

func (s *Supervisor) runCycle(ctx context.Context) watchdog.ClassificationResult {
	defer func() {
		if r := recover(); r != nil {
			s.Log.WithField("panic", r).Error("cycle panicked, recovering")
		}
	}()

	snapshot := s.Probe.Probe(ctx)
	result := watchdog.Classify(s.WatchdogCfg, snapshot, s.Window)
	s.Escalation.RecordHealth(result)
	inv := s.Escalation.MaybeEscalate(result, s.Executor)

	s.logCycle(result, inv)
	s.publish(result, inv)

	if s.Notifier != nil {
		if err := s.Notifier(); err != nil {
			s.Log.ErrorErr("sd_notify watchdog keepalive failed", err)
		}
	}

	return result
}

func (s *Supervisor) logCycle(result watchdog.ClassificationResult, inv watchdog.Invocation) {
	entry := s.Log.WithFields(map[string]interface{}{
		"state":                 result.State.String(),
		"fail_ratio":            result.FailRatio,
		"consecutive_unhealthy": result.ConsecutiveUnhealthy,
		"current_tier":          s.Escalation.CurrentTier(),
	})
	if inv.Attempted {
		entry = entry.WithFields(map[string]interface{}{
			"escalation_tier":     inv.Tier,
			"escalation_executed": inv.Executed,
		})
		if inv.Err != nil {
			entry.ErrorErr("cycle complete, recovery action failed", inv.Err)
			return
		}
	}
	entry.Info("cycle complete")
}

func (s *Supervisor) publish(result watchdog.ClassificationResult, inv watchdog.Invocation) {
	status := statuspub.FromClassification(time.Now(), result, s.Escalation.CurrentTier(), s.Escalation.RebootsToday())

	if s.StatusPath != "" {
		if err := statuspub.WriteJSON(s.StatusPath, status); err != nil {
			s.Log.ErrorErr("failed to write status file", err)
		}
	}

	if s.PrometheusPath != "" {
		s.Prom.Observe(status)
		if err := s.Prom.WriteTextfile(s.PrometheusPath); err != nil {
			s.Log.ErrorErr("failed to write prometheus textfile", err)
		}
	}

	if inv.PersistErr != nil {
		s.Log.ErrorErr("failed to persist reboot quota state", inv.PersistErr)
	}
}
