package executor

import (
	"context"
	"errors"
	"fmt"
)

// restartServices restarts each configured systemd unit in turn via
// `systemctl restart <service>`, in the style of the teacher's
// runSystemctl helper. The first failure stops the loop and is returned;
// earlier successful restarts are not rolled back.
func restartServices(ctx context.Context, services []string) error {
	if len(services) == 0 {
		return errors.New("restart_network_services: tier has no services configured")
	}
	for _, svc := range services {
		if err := runCommand(ctx, "systemctl", "restart", svc); err != nil {
			return fmt.Errorf("restart service %s: %w", svc, err)
		}
	}
	return nil
}
