// Package main is the entry point for the horus CLI.
//
// Horus can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	horus serve -c config.yaml    # Start the server
//	horus validate -c config.yaml # Validate configuration
//	horus version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "horus",
	Short: "A minimal concurrent HTTP/1.1 server over raw TCP",
	Long: `Horus is a minimal concurrent HTTP/1.1 server built directly on TCP.

It serves statically-registered routes with exact path matching, one
goroutine per connection, and graceful drain on shutdown. Each route
serves an inline body or an on-disk file.

Quick start:
  1. Create a config file (horus.yaml)
  2. Run: horus serve -c horus.yaml
  3. curl http://localhost:8080/

Example config:
  host: localhost
  port: 8080
  routes:
    - path: /
      body: "hello"
    - path: /index
      body: "index fallback"
      file: ./public/index.html

Note: the default port is 80, which requires elevated privileges on
most systems.`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this horus binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("horus %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
