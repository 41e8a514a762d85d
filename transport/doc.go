// Package transport provides the network layer below the protocol core
// with pluggable connectors (TCP, TLS).
//
// The package is organized around the IConnector interface: a connector
// establishes a duplex byte stream to an endpoint and applies socket-level
// tuning (TCP_NODELAY, keepalive, linger, buffer sizes) described by a
// Config. The protocol layer above only ever sees a net.Conn.
//
// WithDeadlines optionally wraps a connection so that every read and write
// carries a deadline; an expiry surfaces in the protocol layer as a plain
// I/O error and poisons the session there.
package transport
