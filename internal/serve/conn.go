package serve

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/horusproj/horus/internal/proto"
)

// readChunkSize is the size of each read from the peer while looking
// for the end of the header block.
const readChunkSize = 4096

// ConnHandler handles one accepted connection and closes it when done.
//
// The accept loop calls Handle from a dedicated goroutine per
// connection. Implementations must be safe for concurrent use; the
// interface exists so a bounded worker-pool or event-loop variant can
// replace the default one-goroutine-per-connection handler without
// touching the protocol logic.
type ConnHandler interface {
	Handle(conn net.Conn)
}

// connHandler is the default [ConnHandler]. It runs each connection
// through a small state machine: read until the header block is
// complete, parse, dispatch against the registry, respond, close.
type connHandler struct {
	registry        *Registry
	draining        *atomic.Bool
	serverName      string
	readTimeout     time.Duration
	maxRequestBytes int
	logger          *slog.Logger
}

// NewConnHandler creates the default [ConnHandler].
//
// Parameters:
//   - registry: Read-only route table consulted during dispatch
//   - draining: Shared shutdown flag; once set, every connection that
//     reaches dispatch is answered with the unavailable response
//   - serverName: Value of the identifying server header
//   - readTimeout: Deadline applied to the header-block read; zero
//     disables the deadline
//   - maxRequestBytes: Upper bound on buffered request bytes before
//     the connection is answered with a failure response
//   - logger: Logger for per-connection events
func NewConnHandler(registry *Registry, draining *atomic.Bool, serverName string, readTimeout time.Duration, maxRequestBytes int, logger *slog.Logger) ConnHandler {
	return &connHandler{
		registry:        registry,
		draining:        draining,
		serverName:      serverName,
		readTimeout:     readTimeout,
		maxRequestBytes: maxRequestBytes,
		logger:          logger,
	}
}

// worker carries the per-connection state through the state machine.
type worker struct {
	h      *connHandler
	conn   net.Conn
	connID string
	raw    []byte
	req    *proto.Request
	res    *proto.Response
}

type stateFunc func(*worker) stateFunc

// Handle runs the connection through the state machine. A failure in
// one connection never affects another; every exit path closes the
// socket.
func (h *connHandler) Handle(conn net.Conn) {
	w := &worker{h: h, conn: conn, connID: uuid.NewString()}
	for state := readRequest; state != nil; {
		state = state(w)
	}
}

// readRequest reads from the peer until the blank-line delimiter is
// buffered, the size cap is exceeded, or the read deadline fires.
func readRequest(w *worker) stateFunc {
	if w.h.readTimeout > 0 {
		if err := w.conn.SetReadDeadline(time.Now().Add(w.h.readTimeout)); err != nil {
			w.h.logger.Warn("read deadline not supported", "conn_id", w.connID, "error", err)
		}
	}

	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	for {
		n, err := w.conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if bytes.Contains(buf, []byte("\r\n\r\n")) {
			break
		}
		if err != nil {
			w.h.logger.Warn("connection ended before header block",
				"conn_id", w.connID,
				"bytes", len(buf),
				"error", err,
			)
			w.res = proto.NotFound(w.h.serverName)
			return respond
		}
		if len(buf) > w.h.maxRequestBytes {
			w.h.logger.Warn("request exceeds size cap",
				"conn_id", w.connID,
				"bytes", len(buf),
				"cap", w.h.maxRequestBytes,
			)
			w.res = proto.NotFound(w.h.serverName)
			return respond
		}
	}

	w.raw = buf
	return parseRequest
}

// parseRequest turns the buffered bytes into a request. Malformed
// input is answered with the generic failure response and never
// crashes the worker.
func parseRequest(w *worker) stateFunc {
	req, err := proto.ParseRequest(w.raw)
	if err != nil {
		w.h.logger.Warn("malformed request", "conn_id", w.connID, "error", err)
		w.res = proto.NotFound(w.h.serverName)
		return respond
	}
	w.req = req
	return dispatch
}

// dispatch resolves the response for a parsed request. The drain check
// comes first: once shutdown has begun the registry is bypassed
// entirely, even for registered paths.
func dispatch(w *worker) stateFunc {
	if w.h.draining.Load() {
		w.h.logger.Debug("draining, refusing dispatch", "conn_id", w.connID, "target", w.req.Target)
		w.res = proto.Unavailable(w.h.serverName)
		return respond
	}

	route, ok := w.h.registry.Lookup(w.req.Target)
	if !ok {
		w.h.logger.Debug("route not found", "conn_id", w.connID, "target", w.req.Target)
		w.res = proto.NotFound(w.h.serverName)
		return respond
	}

	body, err := w.resolveBody(route)
	if err != nil {
		w.res = proto.NotFound(w.h.serverName)
		return respond
	}

	res := proto.NewResponse()
	res.SetStatus(proto.StatusOK)
	res.SetHeaders(map[string]string{proto.ServerHeader: w.h.serverName})
	res.SetBody(body)
	w.res = res
	return respond
}

// resolveBody produces the response body for a matched route. A
// configured static file that exists at request time is served
// verbatim and the handler is not invoked; a missing or unreadable
// file falls through to the handler.
func (w *worker) resolveBody(route RouteInfo) ([]byte, error) {
	if route.StaticFile != "" {
		content, err := os.ReadFile(route.StaticFile)
		if err == nil {
			return content, nil
		}
		w.h.logger.Debug("static file unavailable, invoking handler",
			"conn_id", w.connID,
			"path", route.Path,
			"file", route.StaticFile,
			"error", err,
		)
	}
	return w.invokeHandler(route)
}

// invokeHandler calls the route handler with panic recovery. A panic
// is logged with a correlation ID and full stack trace server-side;
// the connection gets the generic failure response.
func (w *worker) invokeHandler(route RouteInfo) (body []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			w.h.logger.Error("handler panic",
				"correlation_id", correlationID,
				"conn_id", w.connID,
				"path", route.Path,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			body = nil
			err = fmt.Errorf("handler panic (correlation_id: %s)", correlationID)
		}
	}()
	return route.Handler(), nil
}

// respond serializes the response, writes it and moves to close. The
// connection is closed unconditionally afterwards; there is no
// keep-alive.
func respond(w *worker) stateFunc {
	data, err := w.res.Bytes()
	if err != nil {
		w.h.logger.Error("response not serializable", "conn_id", w.connID, "error", err)
		return finish
	}
	if _, err := w.conn.Write(data); err != nil {
		w.h.logger.Warn("response write failed", "conn_id", w.connID, "error", err)
	}
	return finish
}

func finish(w *worker) stateFunc {
	if err := w.conn.Close(); err != nil {
		w.h.logger.Debug("connection close failed", "conn_id", w.connID, "error", err)
	}
	return nil
}
