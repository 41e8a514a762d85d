package transport

import (
	"net"
)

// tcpConnector implements the IConnector interface for plain TCP sockets
type tcpConnector struct{}

// NewTCPConnector creates a new plain TCP connector
func NewTCPConnector() IConnector {
	return &tcpConnector{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IConnector)
// --------------------------------------------------------------------------

func (c *tcpConnector) GetName() string {
	return "tcp"
}

func (c *tcpConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("tcp", endpoint)
}

func (c *tcpConnector) UpgradeConnection(conn net.Conn, config Config) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	return applySocketConfig(tcpConn, config)
}
