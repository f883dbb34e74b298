package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkwatchd/linkwatchd/internal/config"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the watchdog configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config %s is invalid: %w", path, err)
		}

		fmt.Printf("%s is valid.\n", path)
		if validateVerbose {
			fmt.Println(cfg.GetFormattedConfig())
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "print the fully-resolved config")
	rootCmd.AddCommand(validateCmd)
}
