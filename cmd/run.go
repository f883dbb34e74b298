package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linkwatchd/linkwatchd/internal/config"
	"github.com/linkwatchd/linkwatchd/internal/logging"
	"github.com/linkwatchd/linkwatchd/internal/sdnotify"
	"github.com/linkwatchd/linkwatchd/internal/supervisor"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the watchdog in the foreground",
	Long:  "Run the watchdog's probe/classify/escalate cycle in the foreground until interrupted. This is what the systemd unit installed by 'linkwatchd service install' invokes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(resolveConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to create state directories: %w", err)
		}

		log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

		sup, err := supervisor.New(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to build supervisor: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := sdnotify.Ready(); err != nil {
			log.ErrorErr("sd_notify READY failed", err)
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sig
			log.Info("shutdown signal received")
			_ = sdnotify.Stopping()
			cancel()
		}()

		log.Info("watchdog starting")
		sup.Run(ctx)
		log.Info("watchdog stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
