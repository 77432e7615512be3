package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/horusproj/horus"
	"github.com/horusproj/horus/config"
)

const shutdownTimeout = 10 * time.Second

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// serveCmd starts the horus server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	Long: `Start the horus server.

The server will:
  - Load configuration from the specified YAML file
  - Bind the configured host and port
  - Serve the configured routes, one goroutine per connection

The server runs until interrupted (Ctrl+C) or receives SIGTERM, then
drains: new connections get a service-unavailable response while
in-flight ones finish.

Example:
  horus serve -c config.yaml
  horus serve --config /etc/horus/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"routes", len(cfg.Routes),
		"addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	)

	routes, err := config.BuildRoutes(cfg)
	if err != nil {
		return fmt.Errorf("failed to build routes: %w", err)
	}

	opts := config.BuildOptions(cfg)
	opts = append(opts,
		horus.WithRoutes(routes...),
		horus.WithLogger(logger),
	)

	srv, err := horus.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// bind failures (privileged port, address in use) are fatal
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	<-ctx.Done()
	// stop handling signals so a second interrupt forces the default exit
	stop()

	// Start's context hook already triggered Stop; run it again from
	// here to block until the drain finishes (Stop is idempotent),
	// with the spinner showing progress on the terminal.
	done := make(chan struct{})
	go func() {
		srv.Stop()
		close(done)
	}()

	fmt.Fprint(os.Stdout, "Closing server\t")
	newSpinner(os.Stdout).run(wrapWithTimeout(done, shutdownTimeout, logger))
	fmt.Fprintln(os.Stdout, "[done]")

	logger.Info("shutdown complete")
	return nil
}

// wrapWithTimeout returns a channel that closes when done closes or
// the timeout elapses, whichever comes first.
func wrapWithTimeout(done <-chan struct{}, timeout time.Duration, logger *slog.Logger) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-done:
		case <-time.After(timeout):
			logger.Warn("shutdown timed out",
				"timeout", timeout.String(),
				"action", "forcing exit",
			)
		}
	}()
	return out
}
