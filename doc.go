// Package horus provides a minimal concurrent HTTP/1.1 server built
// directly on TCP: it accepts connections, parses a simplified request,
// dispatches it against a statically-registered route table, writes a
// response and closes the connection.
//
// Horus is designed as an SDK-first library: routes and server settings
// are configured programmatically via the functional options pattern,
// and the caller owns the lifecycle. The deliberately small protocol
// surface (no keep-alive, no chunked transfer, no TLS, GET-style
// dispatch only) keeps the full connection lifecycle (accept, read,
// parse, dispatch, respond, close) visible and testable.
//
// # Quick Start
//
// Register a route and run the server until interrupted:
//
//	route, _ := horus.NewRoute("/", func() []byte { return []byte("hello") })
//	srv, _ := horus.New(
//	    horus.WithPort(8080),
//	    horus.WithRoute(route),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	if err := srv.Start(ctx); err != nil {
//	    slog.Error("failed to start server", "error", err)
//	    os.Exit(1)
//	}
//	<-ctx.Done()
//	srv.Stop()
//
// # Configuration
//
// Horus uses the functional options pattern for configuration:
//
//	srv, err := horus.New(
//	    horus.WithHost("0.0.0.0"),
//	    horus.WithPort(8080),
//	    horus.WithRoutes(r1, r2),
//	    horus.WithReadTimeout(5 * time.Second),
//	    horus.WithMaxRequestBytes(20 * 1024),
//	)
//
// Routes can also be configured with options:
//
//	route, err := horus.NewRoute("/index", handler,
//	    horus.WithStaticFile("./public/index.html"),
//	)
//
// When a static file is configured and exists at request time, its
// bytes are served verbatim and the handler is not invoked.
//
// # Shutdown
//
// [Server.Stop] sets a shared drain flag, closes the listening socket
// to unblock the accept loop, and waits for in-flight connections.
// Connections that reach dispatch after the flag is set receive a
// service-unavailable response even for registered paths. Stop is
// idempotent.
//
// # Architecture
//
// Horus consists of internal packages (under internal/):
//
//   - internal/proto: Request parsing and response framing
//   - internal/serve: Route registry, per-connection state machine,
//     and the accept loop
//
// The internal packages are not part of the public API and may change
// without notice. The default listen address is localhost:80; binding
// port 80 requires elevated privileges on most systems, which is an
// operational prerequisite rather than a bug.
package horus
