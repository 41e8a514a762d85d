package transport

import (
	"net"
	"time"
)

// deadlineConn pushes the configured deadline before every read and write.
// The protocol layer above has no notion of timeouts; a deadline expiry
// surfaces there as a plain I/O error.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

// WithDeadlines wraps conn so that every Read/Write carries the timeout.
// A zero timeout returns conn unchanged.
func WithDeadlines(conn net.Conn, timeout time.Duration) net.Conn {
	if timeout <= 0 {
		return conn
	}
	return &deadlineConn{Conn: conn, timeout: timeout}
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
