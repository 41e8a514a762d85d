package client

import (
	"io"
	"time"

	"github.com/sony/gobreaker"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// BreakerConfig tunes the circuit breaker in front of a connection.
// Zero values select gobreaker's defaults.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open
	MaxRequests uint32

	// Interval over which failure counts are accumulated while closed
	Interval time.Duration

	// Timeout before an open breaker transitions to half-open
	Timeout time.Duration

	// ConsecutiveFailures that trip the breaker (0 selects 6)
	ConsecutiveFailures uint32
}

// BreakerConn decorates a Conn with a circuit breaker. Server errors
// count as successes: the server answered in protocol, so the
// connection is healthy. I/O failures trip the breaker and further
// requests fail immediately until the timeout elapses.
type BreakerConn struct {
	inner   Conn
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerConn wraps conn.
func NewBreakerConn(conn Conn, cfg BreakerConfig) *BreakerConn {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 6
	}
	return &BreakerConn{
		inner: conn,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ignite",
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warningf("breaker %s: %s -> %s", name, from, to)
			},
			IsSuccessful: func(err error) bool {
				return err == nil || IsServerError(err)
			},
		}),
	}
}

// Send implements Conn.
func (c *BreakerConn) Send(op protocol.OpCode, req protocol.Writable) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.inner.Send(op, req)
	})
	return err
}

// SendAndRead implements Conn.
func (c *BreakerConn) SendAndRead(op protocol.OpCode, req protocol.Writable, parse func(io.Reader) error) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.inner.SendAndRead(op, req, parse)
	})
	return err
}

// Close implements Conn.
func (c *BreakerConn) Close() error {
	return c.inner.Close()
}
