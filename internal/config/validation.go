package config

import "fmt"

// Validate checks the configuration for errors, in the same validate-cascade
// shape the original tunnel config used: one helper per section, first
// failure wins. This is the Configuration error of spec.md §7 kind 1 — a
// fatal error raised before the watchdog core or any collaborator is
// constructed.
func (c *Config) Validate() error {
	if err := c.ToWatchdogConfig().Validate(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateCycle(); err != nil {
		return err
	}
	if err := c.validateStatusAndState(); err != nil {
		return err
	}
	if err := c.validateLog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.Interface == "" {
		return fmt.Errorf("probe.interface is required")
	}
	if len(c.Probe.PingHosts) == 0 {
		return fmt.Errorf("probe.ping_hosts must not be empty")
	}
	if c.Probe.PingCount < 1 {
		return fmt.Errorf("probe.ping_count must be >= 1, got %d", c.Probe.PingCount)
	}
	if c.Probe.PingTimeout <= 0 {
		return fmt.Errorf("probe.ping_timeout must be > 0, got %v", c.Probe.PingTimeout)
	}
	if len(c.Probe.DNSResolvers) == 0 {
		return fmt.Errorf("probe.dns_resolvers must not be empty")
	}
	if c.Probe.HTTPProbeURL != "" && c.Probe.HTTPTimeout <= 0 {
		return fmt.Errorf("probe.http_timeout must be > 0 when probe.http_probe_url is set")
	}
	return nil
}

func (c *Config) validateCycle() error {
	if c.Cycle.BaseInterval <= 0 {
		return fmt.Errorf("cycle.base_interval must be > 0, got %v", c.Cycle.BaseInterval)
	}
	if c.Cycle.MinInterval <= 0 {
		return fmt.Errorf("cycle.min_interval must be > 0, got %v", c.Cycle.MinInterval)
	}
	if c.Cycle.MaxInterval < c.Cycle.MinInterval {
		return fmt.Errorf("cycle.max_interval must be >= cycle.min_interval, got %v < %v", c.Cycle.MaxInterval, c.Cycle.MinInterval)
	}
	if c.Cycle.BaseInterval < c.Cycle.MinInterval || c.Cycle.BaseInterval > c.Cycle.MaxInterval {
		return fmt.Errorf("cycle.base_interval must be within [min_interval, max_interval]")
	}
	return nil
}

func (c *Config) validateStatusAndState() error {
	if c.Status.JSONPath == "" {
		return fmt.Errorf("status.json_path is required")
	}
	if c.State.RebootStatePath == "" {
		return fmt.Errorf("state.reboot_state_path is required")
	}
	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}
