package serve

import (
	"errors"
	"log/slog"
	"net"
	"sync"
)

// Loop accepts connections on a listening socket and hands each one to
// a [ConnHandler] in its own goroutine.
//
// Concurrency is unbounded: one goroutine per accepted connection with
// no queueing or admission control. This is a documented limitation of
// the baseline design; a bounded variant can be substituted by
// providing a different [ConnHandler].
//
// All lifecycle methods are safe for concurrent use.
type Loop struct {
	ln      net.Listener
	handler ConnHandler
	logger  *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewLoop creates a [Loop] over an already-listening socket. The loop
// does not accept until [Loop.Start] is called.
func NewLoop(ln net.Listener, handler ConnHandler, logger *slog.Logger) *Loop {
	return &Loop{
		ln:      ln,
		handler: handler,
		logger:  logger,
	}
}

// Start begins accepting connections in a background goroutine.
//
// Start is non-blocking and idempotent; calls after the first, or
// after [Loop.Stop], are no-ops.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		l.acceptLoop()
	}()
}

func (l *Loop) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			// Stop closes the listener to force the blocked Accept
			// to return instead of waiting for one more connection.
			if l.closing() || errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Warn("accept failed", "error", err)
			continue
		}

		l.logger.Debug("connection accepted", "remote_addr", conn.RemoteAddr().String())
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.handler.Handle(conn)
		}()
	}
}

func (l *Loop) closing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Stop closes the listening socket and waits for the accept goroutine
// and all in-flight connection workers to finish.
//
// Stop does not abort workers mid-read; they run to completion under
// their read deadlines. Stop is idempotent and safe to call before
// Start or before any connection has been accepted.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		if err := l.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			l.logger.Warn("listener close failed", "error", err)
		}
	}
	l.mu.Unlock()

	l.wg.Wait()
}
