package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sahayata-hq/ceres/pkg/config"
	"sahayata-hq/ceres/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ceres",
	Short: "Ceres - scheme eligibility rule engine",
	Long: `Ceres compiles government benefit scheme definitions into immutable
rule programs and evaluates applicant facts against them.

It provides:
  - Declarative scheme definitions in YAML with natural-language criteria
  - Deterministic compilation with content-addressed program versions
  - Strict and weighted eligibility evaluation with explanations
  - A conversational collector for gathering applicant facts
  - Hot reload of scheme definitions and a decision audit trail`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file, falling back to defaults
// when the file does not exist and was not explicitly requested.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// buildLogger builds the service logger from configuration, raising
// the level to debug when --verbose is set.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg, os.Stderr)
}
