package horus

import (
	"errors"
	"log/slog"
	"time"
)

// serverConfig holds mutable state during Server construction.
type serverConfig struct {
	host            string
	port            int
	serverName      string
	readTimeout     time.Duration
	maxRequestBytes int
	logger          *slog.Logger
	routes          []Route
}

// Option is a function that configures a [Server] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithHost], [WithPort], [WithRoute], [WithRoutes],
// [WithReadTimeout], [WithMaxRequestBytes], [WithServerName],
// [WithLogger].
type Option func(*serverConfig) error

// WithHost sets the host or interface the server binds to.
//
// Defaults to "localhost" if not specified.
//
// Example:
//
//	srv, err := horus.New(
//	    horus.WithHost("0.0.0.0"),
//	    horus.WithPort(8080),
//	)
//
// Returns an error if the host is empty.
func WithHost(host string) Option {
	return func(cfg *serverConfig) error {
		if host == "" {
			return errors.New("host cannot be empty")
		}
		cfg.host = host
		return nil
	}
}

// WithPort sets the TCP port the server listens on.
//
// Defaults to 80, which requires elevated privileges on most systems.
// Port 0 asks the kernel for a free port; the bound address is then
// available via [Server.Addr].
//
// Returns an error if the port is outside the range 0-65535.
func WithPort(port int) Option {
	return func(cfg *serverConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithRoute adds a single [Route] to the server's table.
//
// Can be called multiple times. Routes may also be added after
// construction with [Server.Register], up until [Server.Start].
func WithRoute(route Route) Option {
	return func(cfg *serverConfig) error {
		cfg.routes = append(cfg.routes, route)
		return nil
	}
}

// WithRoutes adds multiple [Route] values to the server's table.
//
// This is a convenience function equivalent to calling [WithRoute]
// multiple times.
func WithRoutes(routes ...Route) Option {
	return func(cfg *serverConfig) error {
		cfg.routes = append(cfg.routes, routes...)
		return nil
	}
}

// WithReadTimeout sets the deadline for reading a request's header
// block.
//
// Without a deadline a slow or silent peer would hold its connection
// worker indefinitely. Defaults to 5 seconds. A zero duration disables
// the deadline, restoring the unbounded-wait behavior.
//
// Returns an error if the duration is negative.
func WithReadTimeout(d time.Duration) Option {
	return func(cfg *serverConfig) error {
		if d < 0 {
			return errors.New("read timeout cannot be negative")
		}
		cfg.readTimeout = d
		return nil
	}
}

// WithMaxRequestBytes caps how many bytes the server buffers while
// waiting for a request's header block.
//
// A request whose header block has not appeared within the cap is
// answered with a generic failure response. Defaults to 20 KiB.
//
// Returns an error if the value is zero or negative.
func WithMaxRequestBytes(n int) Option {
	return func(cfg *serverConfig) error {
		if n <= 0 {
			return errors.New("max request bytes must be positive")
		}
		cfg.maxRequestBytes = n
		return nil
	}
}

// WithServerName sets the value of the identifying server header sent
// on every response.
//
// Defaults to "Horus" if not specified.
//
// Returns an error if the name is empty.
func WithServerName(name string) Option {
	return func(cfg *serverConfig) error {
		if name == "" {
			return errors.New("server name cannot be empty")
		}
		cfg.serverName = name
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the server.
//
// This allows SDK consumers to control where logs are written and in
// what format. If not specified, [slog.Default] is used.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	srv, err := horus.New(
//	    horus.WithRoute(route),
//	    horus.WithLogger(logger),
//	)
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serverConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
