package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// usbSysfsPath is a package variable (rather than a constant) so tests can
// point it at a scratch directory instead of the real /sys tree.
var usbSysfsPath = "/sys/bus/usb/drivers/usb"

// resetUSBDevice resets the USB device at busDevice (e.g. "1-3") using
// whichever of two strategies is available, supplementing the distilled
// spec with the original implementation's dual-strategy USB reset:
//
//  1. the usbreset binary, if installed — a single ioctl-based reset that
//     doesn't require re-enumeration;
//  2. sysfs unbind/bind, which forces the kernel to fully detach and
//     re-probe the device — slower, but needs no extra binary.
func resetUSBDevice(ctx context.Context, busDevice string) error {
	if busDevice == "" {
		return errors.New("reset_usb_device: tier has no usb_bus_device configured")
	}

	if _, err := exec.LookPath("usbreset"); err == nil {
		if err := runCommand(ctx, "usbreset", busDevice); err == nil {
			return nil
		}
		// Fall through to the sysfs strategy if usbreset itself failed —
		// some kernels reject the ioctl for hub-internal devices.
	}

	return usbSysfsRebind(busDevice)
}

func usbSysfsRebind(busDevice string) error {
	unbindPath := filepath.Join(usbSysfsPath, "unbind")
	bindPath := filepath.Join(usbSysfsPath, "bind")

	if err := os.WriteFile(unbindPath, []byte(busDevice), 0200); err != nil {
		return fmt.Errorf("reset_usb_device: unbind %s: %w", busDevice, err)
	}
	if err := os.WriteFile(bindPath, []byte(busDevice), 0200); err != nil {
		return fmt.Errorf("reset_usb_device: bind %s: %w", busDevice, err)
	}
	return nil
}
