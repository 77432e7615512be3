package horus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/horusproj/horus/internal/serve"
)

const (
	defaultHost            = "localhost"
	defaultPort            = 80
	defaultServerName      = "Horus"
	defaultReadTimeout     = 5 * time.Second
	defaultMaxRequestBytes = 20 * 1024
)

// ErrConnectionInit indicates that the listening socket could not be
// bound, for example a privileged port without permission or an
// address already in use. It is fatal for the whole server; callers
// are expected to log it and exit non-zero.
var ErrConnectionInit = errors.New("connection init failed")

// ErrAlreadyStarted is returned by [Server.Start] and
// [Server.Register] once the server has started accepting.
var ErrAlreadyStarted = errors.New("server already started")

// ErrServerClosed is returned by [Server.Start] after [Server.Stop]
// has been called. A stopped server cannot be restarted.
var ErrServerClosed = errors.New("server closed")

// Server is the lifecycle orchestrator: it binds the listening socket,
// owns the route table, starts and stops the accept loop and
// coordinates graceful shutdown.
//
// The typical lifecycle is:
//
//	srv, err := horus.New(horus.WithRoute(route))
//	if err != nil {
//	    slog.Error("failed to create server", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil { ... }
//	<-ctx.Done()
//	srv.Stop()
//
// Start binds and spawns the accept loop without blocking; Stop drains
// and waits. Both are safe to call from any goroutine.
type Server struct {
	host            string
	port            int
	serverName      string
	readTimeout     time.Duration
	maxRequestBytes int
	logger          *slog.Logger

	// draining is the shared shutdown flag: written once by Stop,
	// read by the accept loop and every connection worker.
	draining atomic.Bool

	mu      sync.Mutex
	routes  []Route
	started bool
	stopped bool
	ln      net.Listener
	loop    *serve.Loop
}

// New creates a new [Server] with the given options.
//
// Defaults:
//   - Host: localhost
//   - Port: 80 (requires elevated privileges on most systems)
//   - Read timeout: 5 seconds
//   - Max request size: 20 KiB
//   - Server header: "Horus"
//
// Routes may be supplied here via [WithRoute] or [WithRoutes], or
// registered afterwards with [Server.Register] before [Server.Start].
// Returns an error if any option is invalid or two routes share a
// path.
func New(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		host:            defaultHost,
		port:            defaultPort,
		serverName:      defaultServerName,
		readTimeout:     defaultReadTimeout,
		maxRequestBytes: defaultMaxRequestBytes,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// route paths must be unique (dispatch is an exact-match table)
	seen := make(map[string]bool, len(cfg.routes))
	for _, route := range cfg.routes {
		if seen[route.path] {
			return nil, fmt.Errorf("duplicate route path: %q", route.path)
		}
		seen[route.path] = true
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		host:            cfg.host,
		port:            cfg.port,
		serverName:      cfg.serverName,
		readTimeout:     cfg.readTimeout,
		maxRequestBytes: cfg.maxRequestBytes,
		logger:          logger,
		routes:          cfg.routes,
	}, nil
}

// Register adds a route to the server's table.
//
// Registration must complete before [Server.Start]; once the server
// accepts connections the table is read-only. Returns
// [ErrAlreadyStarted] if called after Start, or an error if the path
// duplicates an existing route.
func (s *Server) Register(route Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	for _, existing := range s.routes {
		if existing.path == route.path {
			return fmt.Errorf("duplicate route path: %q", route.path)
		}
	}
	s.routes = append(s.routes, route)
	return nil
}

// Start binds the listening socket and begins accepting connections.
//
// Start is non-blocking: it returns once the socket is bound and the
// accept loop is running. If ctx is cancellable, its cancellation
// triggers [Server.Stop] in the background; callers that want to block
// should wait on the context themselves.
//
// Returns an error wrapping [ErrConnectionInit] if the address cannot
// be bound, [ErrAlreadyStarted] on a second call, or [ErrServerClosed]
// after Stop.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if s.stopped {
		s.mu.Unlock()
		return ErrServerClosed
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: bind %s: %v", ErrConnectionInit, addr, err)
	}

	registry := serve.NewRegistry(s.toRouteInfos())
	handler := serve.NewConnHandler(registry, &s.draining, s.serverName, s.readTimeout, s.maxRequestBytes, s.logger)

	s.ln = ln
	s.loop = serve.NewLoop(ln, handler, s.logger)
	s.loop.Start()
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server listening",
		"addr", ln.Addr().String(),
		"routes", registry.Len(),
	)

	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			s.Stop()
		}()
	}
	return nil
}

// Stop shuts the server down gracefully.
//
// Stop sets the shared drain flag, closes the listening socket to
// unblock the accept loop, and waits for the loop and all in-flight
// connection workers to finish. Workers already past the drain check
// complete their dispatch normally; workers that reach dispatch after
// the flag is set answer with the service-unavailable response.
//
// Stop is idempotent and safe to call before Start or before any
// connection has been accepted.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	loop := s.loop
	s.mu.Unlock()

	s.draining.Store(true)
	if loop == nil {
		// stopped before Start; nothing was bound
		return
	}

	s.logger.Info("server draining")
	loop.Stop()
	s.logger.Info("server stopped")
}

// Addr returns the bound listen address, or the empty string before
// [Server.Start]. Useful when the server was configured with port 0
// to let the kernel pick a free port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Host returns the configured bind host.
func (s *Server) Host() string {
	return s.host
}

// Port returns the configured listen port. For the actual bound port
// when configured with port 0, use [Server.Addr].
func (s *Server) Port() int {
	return s.port
}

// Routes returns a copy of the registered routes.
//
// The returned slice is a copy; modifying it does not affect the
// server. Each [Route] in the slice is immutable.
func (s *Server) Routes() []Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Route, len(s.routes))
	copy(cp, s.routes)
	return cp
}

// Draining reports whether shutdown has begun.
func (s *Server) Draining() bool {
	return s.draining.Load()
}

// toRouteInfos converts the Route slice to serve.RouteInfo values.
// Callers must hold s.mu.
func (s *Server) toRouteInfos() []serve.RouteInfo {
	infos := make([]serve.RouteInfo, len(s.routes))
	for i, route := range s.routes {
		handler := route.handler
		infos[i] = serve.RouteInfo{
			Path:       route.path,
			Handler:    func() []byte { return handler() },
			StaticFile: route.staticFile,
		}
	}
	return infos
}
