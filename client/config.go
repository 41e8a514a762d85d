package client

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/spaceandtimelabs/ignite-go/transport"
)

const (
	defaultReadBufferSize  = 1024
	defaultWriteBufferSize = 1024
)

// ClientConfig holds all configuration parameters for one connection to a
// cluster node.
type ClientConfig struct {
	// Address of the node, host:port
	Addr string

	// Optional handshake credentials
	Username string
	Password string

	// TLS enables the secure transport when non-nil
	TLS *tls.Config

	// Stream buffer sizes in bytes (0 selects the defaults)
	ReadBufferSize  int
	WriteBufferSize int

	// Socket tuning, delegated to the transport layer
	Transport transport.Config

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration.
// The password is never printed.
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Node")
	addField("Address", c.Addr)
	addField("TLS", fmt.Sprintf("%t", c.TLS != nil))
	if c.Username != "" {
		addField("Username", c.Username)
	}

	addSection("Buffers")
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.readBufferSize()))
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.writeBufferSize()))

	sb.WriteString(c.Transport.String())

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

func (c *ClientConfig) readBufferSize() int {
	if c.ReadBufferSize > 0 {
		return c.ReadBufferSize
	}
	return defaultReadBufferSize
}

func (c *ClientConfig) writeBufferSize() int {
	if c.WriteBufferSize > 0 {
		return c.WriteBufferSize
	}
	return defaultWriteBufferSize
}

// connector selects the transport connector matching the configuration.
func (c *ClientConfig) connector() transport.IConnector {
	if c.TLS != nil {
		return transport.NewTLSConnector(c.TLS)
	}
	return transport.NewTCPConnector()
}
