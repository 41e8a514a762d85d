package transport

import (
	"crypto/tls"
	"net"
)

// tlsConnector implements the IConnector interface for TLS-wrapped TCP
// sockets. It provides the same stream contract as the plain connector.
type tlsConnector struct {
	conf *tls.Config
}

// NewTLSConnector creates a connector that performs a TLS handshake on top
// of every established TCP connection.
func NewTLSConnector(conf *tls.Config) IConnector {
	return &tlsConnector{conf: conf}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IConnector)
// --------------------------------------------------------------------------

func (c *tlsConnector) GetName() string {
	return "tls"
}

func (c *tlsConnector) Connect(endpoint string) (net.Conn, error) {
	return tls.Dial("tcp", endpoint, c.conf)
}

func (c *tlsConnector) UpgradeConnection(conn net.Conn, config Config) error {
	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return nil
	}
	tcpConn, ok := tlsConn.NetConn().(*net.TCPConn)
	if !ok {
		return nil
	}
	return applySocketConfig(tcpConn, config)
}
