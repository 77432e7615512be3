package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/horusproj/horus/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a horus configuration file without starting the server.

This command parses the YAML, expands environment variables, and
validates all fields. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  horus validate -c config.yaml
  horus validate --config /etc/horus/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	staticRoutes := 0
	for _, rc := range cfg.Routes {
		if rc.File != "" {
			staticRoutes++
		}
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Address:      %s:%d\n", cfg.Host, cfg.Port)
	fmt.Printf("  Read timeout: %s\n", cfg.ReadTimeout.Duration())
	fmt.Printf("  Routes:       %d total, %d with static files\n",
		len(cfg.Routes), staticRoutes)

	return nil
}
