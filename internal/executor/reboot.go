package executor

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
)

// rebootSyscall issues a real, immediate reboot via unix.Reboot. It only
// returns on failure — success means the kernel has already begun shutting
// the machine down, so the call should never have a meaningful chance to
// return nil in production. Tests always swap Dispatch.RebootFunc for a
// recording no-op instead of calling this.
func rebootSyscall(ctx context.Context) error {
	if err := unix.Sync(); err != nil {
		return fmt.Errorf("reboot: sync before restart: %w", err)
	}
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}
	return nil
}
