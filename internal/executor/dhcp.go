package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// refreshDHCP releases and renews the DHCP lease on iface, preferring
// dhclient and falling back to dhcpcd if dhclient isn't installed — the
// two common Linux DHCP clients, covering both Debian/Raspberry Pi OS
// (dhcpcd) and most other distributions (dhclient).
func refreshDHCP(ctx context.Context, iface string) error {
	if iface == "" {
		return errors.New("refresh_dhcp: tier has no interface configured")
	}

	if _, err := exec.LookPath("dhclient"); err == nil {
		if err := runCommand(ctx, "dhclient", "-r", iface); err != nil {
			return err
		}
		return runCommand(ctx, "dhclient", iface)
	}

	if _, err := exec.LookPath("dhcpcd"); err == nil {
		return runCommand(ctx, "dhcpcd", "-n", iface)
	}

	return fmt.Errorf("refresh_dhcp: neither dhclient nor dhcpcd found on PATH")
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v: %w: %s", name, args, err, output)
	}
	return nil
}
