// Package executor implements the Recovery Executor: one dispatch function
// per escalation tier name, invoked by the watchdog.EscalationManager once
// a tier has cleared its cool-down (and, for reboot, its safety guards).
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/linkwatchd/linkwatchd/internal/logging"
	"github.com/linkwatchd/linkwatchd/internal/watchdog"
)

// actionTimeout bounds every exec.Command the executor runs. The executor
// never retries and never blocks past this, per spec.
const actionTimeout = 20 * time.Second

// Recorder observes every action the Dispatch executes, independent of
// whether it succeeded, so a status publisher (internal/statuspub.History)
// can keep an audit trail. A nil Recorder is fine; Dispatch skips it.
type Recorder interface {
	RecordAction(tier string, success bool, err error)
}

// Dispatch implements watchdog.Executor by looking the tier name up in a
// fixed table of six recovery actions (spec §6). Unknown tier names are
// rejected with an error (and logged) rather than silently ignored.
// Config.Validate only checks that tier names are non-empty and unique, not
// that they appear in this table, so an unknown name is first caught here,
// when its tier is executed.
type Dispatch struct {
	Log      *logging.Logger
	Recorder Recorder
	// DryRun, when true, logs the action that would be taken and returns
	// success without touching the system. Supplements the distilled spec
	// with the original implementation's dry-run mode.
	DryRun bool
	// RebootFunc performs the actual reboot tier action; defaults to
	// rebootSyscall. Swapped out in tests.
	RebootFunc func(ctx context.Context) error
}

// NewDispatch builds a Dispatch ready to use; RebootFunc defaults to the
// real syscall-backed reboot.
func NewDispatch(log *logging.Logger, recorder Recorder, dryRun bool) *Dispatch {
	return &Dispatch{
		Log:        log,
		Recorder:   recorder,
		DryRun:     dryRun,
		RebootFunc: rebootSyscall,
	}
}

// Execute implements watchdog.Executor.
func (d *Dispatch) Execute(tier watchdog.TierSpec) error {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	if d.DryRun {
		d.Log.WithField("tier", tier.Name).Info("dry-run: skipping recovery action")
		d.record(tier.Name, true, nil)
		return nil
	}

	var err error
	switch tier.Name {
	case "refresh_dhcp":
		err = refreshDHCP(ctx, tier.Interface)
	case "restart_network_services":
		err = restartServices(ctx, tier.Services)
	case "cycle_interface":
		err = cycleInterface(ctx, tier.Interface)
	case "reset_usb_device":
		err = resetUSBDevice(ctx, tier.USBBusDevice)
	case "power_cycle_hub":
		err = powerCycleHub(ctx, tier.HubLocation, tier.HubPort)
	case "reboot":
		err = d.RebootFunc(ctx)
	default:
		err = fmt.Errorf("unknown recovery tier %q", tier.Name)
	}

	if err != nil {
		d.Log.WithField("tier", tier.Name).ErrorErr("recovery action failed", err)
	} else {
		d.Log.WithField("tier", tier.Name).Info("recovery action succeeded")
	}
	d.record(tier.Name, err == nil, err)
	return err
}

func (d *Dispatch) record(tier string, success bool, err error) {
	if d.Recorder != nil {
		d.Recorder.RecordAction(tier, success, err)
	}
}
