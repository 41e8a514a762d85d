package client

import (
	"errors"
	"io"
	"testing"

	"github.com/sony/gobreaker"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// stubConn fails or succeeds on demand
type stubConn struct {
	err   error
	calls int
}

func (s *stubConn) Send(op protocol.OpCode, req protocol.Writable) error {
	s.calls++
	return s.err
}

func (s *stubConn) SendAndRead(op protocol.OpCode, req protocol.Writable, parse func(io.Reader) error) error {
	s.calls++
	return s.err
}

func (s *stubConn) Close() error { return nil }

// TestBreakerOpensOnIOFailures tests that repeated I/O failures open the
// breaker and short-circuit further requests
func TestBreakerOpensOnIOFailures(t *testing.T) {
	stub := &stubConn{err: errors.New("connection reset")}
	conn := NewBreakerConn(stub, BreakerConfig{ConsecutiveFailures: 3})

	for i := 0; i < 3; i++ {
		if err := conn.Send(protocol.OpCachePut, emptyReq{}); err == nil {
			t.Fatal("expected failure")
		}
	}

	err := conn.Send(protocol.OpCachePut, emptyReq{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("underlying connection saw %d calls, want 3", stub.calls)
	}
}

// TestBreakerIgnoresServerErrors tests that in-protocol server errors do
// not trip the breaker
func TestBreakerIgnoresServerErrors(t *testing.T) {
	stub := &stubConn{err: &ServerError{Status: 1, Message: "no such cache"}}
	conn := NewBreakerConn(stub, BreakerConfig{ConsecutiveFailures: 2})

	for i := 0; i < 10; i++ {
		err := conn.Send(protocol.OpCacheGet, emptyReq{})
		if !IsServerError(err) {
			t.Fatalf("call %d: expected ServerError, got %v", i, err)
		}
	}
	if stub.calls != 10 {
		t.Errorf("underlying connection saw %d calls, want 10", stub.calls)
	}
}
