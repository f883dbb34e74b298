// Package config loads and validates the YAML configuration that feeds the
// watchdog core, the probe source, the recovery executor, and the status
// publisher.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// LogConfig configures the logger (internal/logging).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// ThresholdsConfig mirrors watchdog.Thresholds in its YAML form.
type ThresholdsConfig struct {
	DegradedFailRatio   float64 `yaml:"degraded_fail_ratio"`
	LostFailRatio       float64 `yaml:"lost_fail_ratio"`
	DegradedConsecutive int     `yaml:"degraded_consecutive"`
	LostConsecutive     int     `yaml:"lost_consecutive"`
}

// SignalConfig mirrors watchdog.SignalThresholds.
type SignalConfig struct {
	RSSIDegraded int `yaml:"rssi_degraded"`
	RSSILost     int `yaml:"rssi_lost"`
}

// TierConfig mirrors one watchdog.TierSpec.
type TierConfig struct {
	Name               string   `yaml:"name"`
	Enabled            bool     `yaml:"enabled"`
	MinIntervalSeconds int      `yaml:"min_interval_seconds"`
	Services           []string `yaml:"services,omitempty"`
	Interface          string   `yaml:"interface,omitempty"`
	USBBusDevice       string   `yaml:"usb_bus_device,omitempty"`
	HubLocation        string   `yaml:"hub_location,omitempty"`
	Port               int      `yaml:"port,omitempty"`
}

// EscalationConfig mirrors watchdog.EscalationConfig.
type EscalationConfig struct {
	HealthyResetConsecutive int          `yaml:"healthy_reset_consecutive"`
	Tiers                   []TierConfig `yaml:"tiers"`
}

// LimitsConfig mirrors watchdog.Limits, in seconds.
type LimitsConfig struct {
	MaxRebootsPerDay         int `yaml:"max_reboots_per_day"`
	MinUptimeBeforeReboot    int `yaml:"min_uptime_before_reboot"`
	MinSecondsBetweenReboots int `yaml:"min_seconds_between_reboots"`
}

// ProbeConfig configures the Probe Source (internal/probe).
type ProbeConfig struct {
	Interface    string        `yaml:"interface"`
	PingHosts    []string      `yaml:"ping_hosts"`
	PingCount    int           `yaml:"ping_count"`
	PingTimeout  time.Duration `yaml:"ping_timeout"`
	DNSResolvers []string      `yaml:"dns_resolvers"`
	DNSQueryName string        `yaml:"dns_query_name"`
	HTTPProbeURL string        `yaml:"http_probe_url,omitempty"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
}

// CycleConfig configures the Supervisor's adaptive inter-cycle timing.
type CycleConfig struct {
	BaseInterval time.Duration `yaml:"base_interval"`
	MinInterval  time.Duration `yaml:"min_interval"`
	MaxInterval  time.Duration `yaml:"max_interval"`
}

// StatusConfig configures the Status Publisher's output paths.
type StatusConfig struct {
	JSONPath               string `yaml:"json_path"`
	PrometheusTextfilePath string `yaml:"prometheus_textfile_path,omitempty"`
	HistoryPath            string `yaml:"history_path,omitempty"`
}

// StateConfig configures where the escalation manager persists the reboot
// quota.
type StateConfig struct {
	RebootStatePath string `yaml:"reboot_state_path"`
}

// Config is the root of the on-disk YAML document. Fields that belong to
// the watchdog core are converted into watchdog.Config by ToWatchdogConfig;
// the rest configure the ambient and domain-stack collaborators.
type Config struct {
	Log         LogConfig        `yaml:"log"`
	HistorySize int              `yaml:"history_size"`
	Thresholds  ThresholdsConfig `yaml:"thresholds"`
	Signal      SignalConfig     `yaml:"signal"`
	Escalation  EscalationConfig `yaml:"escalation"`
	Limits      LimitsConfig     `yaml:"limits"`
	Probe       ProbeConfig      `yaml:"probe"`
	Cycle       CycleConfig      `yaml:"cycle"`
	Status      StatusConfig     `yaml:"status"`
	State       StateConfig      `yaml:"state"`
	// DryRun, when true, makes the Recovery Executor log every action
	// instead of performing it. Supplements the distilled spec with the
	// original implementation's dry-run mode.
	DryRun bool `yaml:"dry_run,omitempty"`
}

// Load reads and parses the YAML file at path. Environment variables of the
// form ${VAR} are expanded first, matching the pack's config-loading
// convention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if present, or returns Default() if the file
// does not exist. Any other read/parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}

// ToWatchdogConfig projects the fields owned by the watchdog core into a
// watchdog.Config. Callers should validate the result (or call Config's own
// Validate, which covers both) before constructing the core.
func (c *Config) ToWatchdogConfig() watchdog.Config {
	tiers := make([]watchdog.TierSpec, 0, len(c.Escalation.Tiers))
	for _, t := range c.Escalation.Tiers {
		tiers = append(tiers, watchdog.TierSpec{
			Name:               t.Name,
			Enabled:            t.Enabled,
			MinIntervalSeconds: t.MinIntervalSeconds,
			Services:           t.Services,
			Interface:          t.Interface,
			USBBusDevice:       t.USBBusDevice,
			HubLocation:        t.HubLocation,
			HubPort:            t.Port,
		})
	}

	return watchdog.Config{
		HistorySize: c.HistorySize,
		Thresholds: watchdog.Thresholds{
			DegradedFailRatio:   c.Thresholds.DegradedFailRatio,
			LostFailRatio:       c.Thresholds.LostFailRatio,
			DegradedConsecutive: c.Thresholds.DegradedConsecutive,
			LostConsecutive:     c.Thresholds.LostConsecutive,
		},
		Signal: watchdog.SignalThresholds{
			RSSIDegraded: c.Signal.RSSIDegraded,
			RSSILost:     c.Signal.RSSILost,
		},
		Escalation: watchdog.EscalationConfig{
			HealthyResetConsecutive: c.Escalation.HealthyResetConsecutive,
			Tiers:                   tiers,
		},
		Limits: watchdog.Limits{
			MaxRebootsPerDay:         c.Limits.MaxRebootsPerDay,
			MinUptimeBeforeReboot:    c.Limits.MinUptimeBeforeReboot,
			MinSecondsBetweenReboots: c.Limits.MinSecondsBetweenReboots,
		},
	}
}

// GetFormattedConfig returns cfg as a YAML string, for `linkwatchd validate
// -v` and similar diagnostic output.
func (c *Config) GetFormattedConfig() string {
	data, _ := yaml.Marshal(c)
	return string(data)
}
