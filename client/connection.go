package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/VictoriaMetrics/metrics"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// ----------------------------------------------------------------------------
// Interface
// ----------------------------------------------------------------------------

// Conn is the request/response surface of a connection. Exactly one
// round trip is in flight at a time; callers are serialized internally.
type Conn interface {
	// Send performs a round trip whose response carries no payload
	// beyond the status.
	Send(op protocol.OpCode, req protocol.Writable) error

	// SendAndRead performs a round trip and hands the response payload
	// to parse. parse must not retain the reader. Any payload bytes
	// parse leaves unread are discarded before the next request.
	SendAndRead(op protocol.OpCode, req protocol.Writable, parse func(io.Reader) error) error

	// Close terminates the underlying connection.
	Close() error
}

// ----------------------------------------------------------------------------
// Implementation
// ----------------------------------------------------------------------------

// Connection is a single handshaked server connection. Requests carry no
// correlation id, so responses are matched to requests purely by order;
// the mutex is held across the full write+read of each round trip to
// keep that order intact.
type Connection struct {
	mu      sync.Mutex
	rw      *bufio.ReadWriter
	raw     net.Conn
	faulted error
}

// respHeaderTail is the part of a response counted by its length field
// that precedes the payload (request id and status).
const respHeaderTail = 12

// newConnection wraps an already-handshaked network connection.
func newConnection(conn net.Conn, cfg *ClientConfig) *Connection {
	return &Connection{
		rw: bufio.NewReadWriter(
			bufio.NewReaderSize(conn, cfg.readBufferSize()),
			bufio.NewWriterSize(conn, cfg.writeBufferSize()),
		),
		raw: conn,
	}
}

// Send implements Conn.
func (c *Connection) Send(op protocol.OpCode, req protocol.Writable) error {
	return c.SendAndRead(op, req, nil)
}

// SendAndRead implements Conn.
func (c *Connection) SendAndRead(op protocol.OpCode, req protocol.Writable, parse func(io.Reader) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.faulted != nil {
		return fmt.Errorf("%w: %v", ErrConnectionPoisoned, c.faulted)
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`ignite_requests_total{op=%q}`, op.String())).Inc()

	if err := c.roundTrip(op, req, parse); err != nil {
		if IsServerError(err) {
			// The server answered in protocol; the stream is still aligned.
			return err
		}
		c.faulted = err
		log.Errorf("connection to %s faulted on %s: %v", c.raw.RemoteAddr(), op, err)
		metrics.GetOrCreateCounter(`ignite_connection_faults_total`).Inc()
		return err
	}
	return nil
}

func (c *Connection) roundTrip(op protocol.OpCode, req protocol.Writable, parse func(io.Reader) error) error {
	if err := protocol.WriteRequestHeader(c.rw, req.Size(), op); err != nil {
		return fmt.Errorf("write %s header: %w", op, err)
	}
	if err := req.Write(c.rw); err != nil {
		return fmt.Errorf("write %s request: %w", op, err)
	}
	if err := c.rw.Flush(); err != nil {
		return fmt.Errorf("flush %s request: %w", op, err)
	}
	metrics.GetOrCreateCounter(`ignite_bytes_written_total`).Add(int(req.Size()) + protocol.ReqHeaderSize)

	hdr, err := protocol.ReadResponseHeader(c.rw)
	if err != nil {
		return fmt.Errorf("read %s response header: %w", op, err)
	}
	metrics.GetOrCreateCounter(`ignite_bytes_read_total`).Add(int(hdr.Length) + 4)
	if hdr.Length < respHeaderTail {
		return fmt.Errorf("read %s response: length %d below header size", op, hdr.Length)
	}
	payload := io.LimitReader(c.rw, int64(hdr.Length-respHeaderTail))

	if hdr.Status != protocol.StatusSuccess {
		msg, err := protocol.ReadTypedString(payload)
		if err != nil {
			return fmt.Errorf("read %s error message: %w", op, err)
		}
		if _, err := io.Copy(io.Discard, payload); err != nil {
			return fmt.Errorf("drain %s response: %w", op, err)
		}
		serr := &ServerError{Status: hdr.Status}
		if msg != nil {
			serr.Message = *msg
		}
		return serr
	}

	if parse != nil {
		if err := parse(payload); err != nil {
			return fmt.Errorf("parse %s response: %w", op, err)
		}
	}
	if _, err := io.Copy(io.Discard, payload); err != nil {
		return fmt.Errorf("drain %s response: %w", op, err)
	}
	return nil
}

// Close implements Conn.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.faulted == nil {
		c.faulted = fmt.Errorf("connection closed")
	}
	return c.raw.Close()
}
