package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Connector interface
// --------------------------------------------------------------------------

// IConnector defines transport-specific connection operations. The protocol
// core only requires a duplex byte stream; connectors establish it and apply
// socket-level tuning.
type IConnector interface {
	// Connect establishes a single connection to the endpoint
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "tcp", "tls")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config Config) error
}

// --------------------------------------------------------------------------
// Transport configuration
// --------------------------------------------------------------------------

// Config holds socket-level tuning for a connection. Timeouts apply per
// read/write; zero disables them.
type Config struct {
	// TCP settings
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int

	// Socket buffer sizes in bytes (0 keeps the OS default)
	ReadBufferSize  int
	WriteBufferSize int

	// Read/write deadline applied to every stream operation
	Timeout time.Duration
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("\nTRANSPORT\n")
	addField("TCP NoDelay", strconv.FormatBool(c.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", c.TCPLingerSec))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.ReadBufferSize))
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.WriteBufferSize))
	addField("Timeout", c.Timeout.String())

	return sb.String()
}

// applySocketConfig applies the shared TCP tuning to conn. Connectors call
// this from UpgradeConnection once they have unwrapped a *net.TCPConn.
func applySocketConfig(conn *net.TCPConn, config Config) error {
	if err := conn.SetNoDelay(config.TCPNoDelay); err != nil {
		return fmt.Errorf("set nodelay: %w", err)
	}
	if config.TCPKeepAliveSec > 0 {
		if err := conn.SetKeepAlive(true); err != nil {
			return fmt.Errorf("enable keepalive: %w", err)
		}
		period := time.Duration(config.TCPKeepAliveSec) * time.Second
		if err := conn.SetKeepAlivePeriod(period); err != nil {
			return fmt.Errorf("set keepalive period: %w", err)
		}
	}
	if config.TCPLingerSec > 0 {
		if err := conn.SetLinger(config.TCPLingerSec); err != nil {
			return fmt.Errorf("set linger: %w", err)
		}
	}
	if config.ReadBufferSize > 0 {
		if err := conn.SetReadBuffer(config.ReadBufferSize); err != nil {
			return fmt.Errorf("set read buffer: %w", err)
		}
	}
	if config.WriteBufferSize > 0 {
		if err := conn.SetWriteBuffer(config.WriteBufferSize); err != nil {
			return fmt.Errorf("set write buffer: %w", err)
		}
	}
	return nil
}
