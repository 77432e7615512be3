package serve

import (
	"net"
	"sync/atomic"
	"testing"
	"time"
)

// countingHandler closes each connection and counts Handle calls.
type countingHandler struct {
	calls atomic.Int64
}

func (c *countingHandler) Handle(conn net.Conn) {
	c.calls.Add(1)
	_ = conn.Close()
}

func newTestLoop(t *testing.T, handler ConnHandler) (*Loop, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return NewLoop(ln, handler, testLogger()), ln.Addr().String()
}

func TestLoop_DispatchesConnections(t *testing.T) {
	handler := &countingHandler{}
	loop, addr := newTestLoop(t, handler)
	loop.Start()
	defer loop.Stop()

	const connections = 5
	for i := 0; i < connections; i++ {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		_ = conn.Close()
	}

	deadline := time.Now().Add(2 * time.Second)
	for handler.calls.Load() < connections {
		if time.Now().After(deadline) {
			t.Fatalf("Handle calls = %d, want %d", handler.calls.Load(), connections)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoop_StopUnblocksAccept(t *testing.T) {
	loop, _ := newTestLoop(t, &countingHandler{})
	loop.Start()

	// no connection ever arrives; Stop must still return promptly
	// because it closes the listener under the blocked Accept
	done := make(chan struct{})
	go func() {
		loop.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not unblock the accept loop")
	}
}

func TestLoop_StopRefusesNewConnections(t *testing.T) {
	loop, addr := newTestLoop(t, &countingHandler{})
	loop.Start()
	loop.Stop()

	if _, err := net.Dial("tcp", addr); err == nil {
		t.Error("dial succeeded after Stop, want refusal")
	}
}

func TestLoop_StopIdempotent(t *testing.T) {
	loop, _ := newTestLoop(t, &countingHandler{})
	loop.Start()
	loop.Stop()
	loop.Stop() // must not panic or block
}

func TestLoop_StopBeforeStart(t *testing.T) {
	loop, _ := newTestLoop(t, &countingHandler{})
	loop.Stop() // must not panic or block

	// Start after Stop is a no-op
	loop.Start()
}

func TestLoop_StartIdempotent(t *testing.T) {
	handler := &countingHandler{}
	loop, addr := newTestLoop(t, handler)
	loop.Start()
	loop.Start()
	defer loop.Stop()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for handler.calls.Load() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("connection never handled")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
