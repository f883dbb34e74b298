package config

import "time"

// Default returns a complete configuration usable as-is: a reasonable
// single-SSID watchdog deployment for a wlan0-class interface.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		HistorySize: 10,
		Thresholds: ThresholdsConfig{
			DegradedFailRatio:   0.4,
			LostFailRatio:       0.8,
			DegradedConsecutive: 3,
			LostConsecutive:     6,
		},
		Signal: SignalConfig{
			RSSIDegraded: -70,
			RSSILost:     -85,
		},
		Escalation: EscalationConfig{
			HealthyResetConsecutive: 2,
			Tiers: []TierConfig{
				{Name: "refresh_dhcp", Enabled: true, MinIntervalSeconds: 60},
				{Name: "restart_network_services", Enabled: true, MinIntervalSeconds: 120, Services: []string{"wpa_supplicant", "dhcpcd"}},
				{Name: "cycle_interface", Enabled: true, MinIntervalSeconds: 180, Interface: "wlan0"},
				{Name: "reset_usb_device", Enabled: false, MinIntervalSeconds: 300},
				{Name: "power_cycle_hub", Enabled: false, MinIntervalSeconds: 300},
				{Name: "reboot", Enabled: true, MinIntervalSeconds: 0},
			},
		},
		Limits: LimitsConfig{
			MaxRebootsPerDay:         2,
			MinUptimeBeforeReboot:    300,
			MinSecondsBetweenReboots: 1800,
		},
		Probe: ProbeConfig{
			Interface:    "wlan0",
			PingHosts:    []string{"1.1.1.1", "8.8.8.8"},
			PingCount:    4,
			PingTimeout:  2 * time.Second,
			DNSResolvers: []string{"1.1.1.1:53", "8.8.8.8:53"},
			DNSQueryName: ".",
			HTTPTimeout:  5 * time.Second,
		},
		Cycle: CycleConfig{
			BaseInterval: 15 * time.Second,
			MinInterval:  5 * time.Second,
			MaxInterval:  60 * time.Second,
		},
		Status: StatusConfig{
			JSONPath: "/var/lib/linkwatchd/status.json",
		},
		State: StateConfig{
			RebootStatePath: "/var/lib/linkwatchd/reboot_state",
		},
	}
}

// ApplyDefaults fills in any fields a partially-specified YAML document left
// zero-valued, so a minimal user config only needs to override what it
// cares about.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.HistorySize == 0 {
		c.HistorySize = d.HistorySize
	}
	if c.Thresholds == (ThresholdsConfig{}) {
		c.Thresholds = d.Thresholds
	}
	if c.Signal == (SignalConfig{}) {
		c.Signal = d.Signal
	}
	if c.Escalation.HealthyResetConsecutive == 0 {
		c.Escalation.HealthyResetConsecutive = d.Escalation.HealthyResetConsecutive
	}
	if len(c.Escalation.Tiers) == 0 {
		c.Escalation.Tiers = d.Escalation.Tiers
	}
	if c.Limits == (LimitsConfig{}) {
		c.Limits = d.Limits
	}
	if len(c.Probe.PingHosts) == 0 {
		c.Probe.PingHosts = d.Probe.PingHosts
	}
	if c.Probe.PingCount == 0 {
		c.Probe.PingCount = d.Probe.PingCount
	}
	if c.Probe.PingTimeout == 0 {
		c.Probe.PingTimeout = d.Probe.PingTimeout
	}
	if len(c.Probe.DNSResolvers) == 0 {
		c.Probe.DNSResolvers = d.Probe.DNSResolvers
	}
	if c.Probe.DNSQueryName == "" {
		c.Probe.DNSQueryName = d.Probe.DNSQueryName
	}
	if c.Probe.HTTPTimeout == 0 {
		c.Probe.HTTPTimeout = d.Probe.HTTPTimeout
	}
	if c.Cycle.BaseInterval == 0 {
		c.Cycle.BaseInterval = d.Cycle.BaseInterval
	}
	if c.Cycle.MinInterval == 0 {
		c.Cycle.MinInterval = d.Cycle.MinInterval
	}
	if c.Cycle.MaxInterval == 0 {
		c.Cycle.MaxInterval = d.Cycle.MaxInterval
	}
	if c.Status.JSONPath == "" {
		c.Status.JSONPath = d.Status.JSONPath
	}
	if c.State.RebootStatePath == "" {
		c.State.RebootStatePath = d.State.RebootStatePath
	}
}
