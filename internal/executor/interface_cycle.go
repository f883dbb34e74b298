package executor

import (
	"context"
	"errors"
)

// cycleInterface brings iface down and back up via `ip link set`, forcing
// the kernel driver and the wireless supplicant to renegotiate association
// from scratch.
func cycleInterface(ctx context.Context, iface string) error {
	if iface == "" {
		return errors.New("cycle_interface: tier has no interface configured")
	}
	if err := runCommand(ctx, "ip", "link", "set", iface, "down"); err != nil {
		return err
	}
	return runCommand(ctx, "ip", "link", "set", iface, "up")
}
