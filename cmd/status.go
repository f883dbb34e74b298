package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkwatchd/linkwatchd/internal/config"
	"github.com/linkwatchd/linkwatchd/internal/statuspub"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last-published watchdog status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(resolveConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		status, err := statuspub.ReadJSON(cfg.Status.JSONPath)
		if err != nil {
			return fmt.Errorf("no status available at %s (is the watchdog running?): %w", cfg.Status.JSONPath, err)
		}

		fmt.Printf("State:                %s\n", status.State)
		fmt.Printf("Fail ratio:           %.2f\n", status.FailRatio)
		fmt.Printf("Consecutive failures: %d\n", status.ConsecutiveFailPackets)
		if status.RSSI != nil {
			fmt.Printf("RSSI:                 %d dBm\n", *status.RSSI)
		} else {
			fmt.Printf("RSSI:                 unavailable\n")
		}
		fmt.Printf("Escalation tier:      %s\n", status.CurrentTier)
		fmt.Printf("Reboots today:        %d\n", status.RebootsToday)
		fmt.Printf("As of:                %s\n", status.Timestamp.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
