package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helios-hq/triton/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "triton",
	Short: "Triton - schema-driven data validation engine",
	Long: `Triton validates JSON documents against schema classes.

Schemas declare classes, slots, enums, and inheritance; Triton resolves
inheritance, compiles each class into a flat instruction program, and
executes the program against data:
  - Inheritance resolution (is_a chains, mixins, slot_usage overrides)
  - Pattern, range, length, type, and enum constraints
  - Class-level if/then/else rules
  - Structured validation reports with stable issue codes`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadCLIConfig loads the configured file, or defaults when no file was
// given. The --verbose flag forces debug logging either way.
func loadCLIConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
