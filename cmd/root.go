// Package cmd provides the Cobra CLI for linkwatchd.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/linkwatchd/linkwatchd/internal/config"
)

// Version and BuildTime are set at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// configPath holds the --config flag shared by every subcommand that loads
// configuration; it defaults to config.Path() at Execute time.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "linkwatchd",
	Short: "Network link watchdog",
	Long:  "linkwatchd watches a host's network link and escalates through a recovery ladder — service restarts, interface cycling, USB/hub resets, and finally reboot — when it stays unhealthy.",
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: "+config.Path()+")")
}

// resolveConfigPath returns the --config flag value, or config.Path() if unset.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersionInfo sets version information for the CLI.
func SetVersionInfo(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version + " (built " + buildTime + ")"
}
