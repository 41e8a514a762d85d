package client

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// Protocol version negotiated during the handshake.
const (
	versionMajor int16 = 1
	versionMinor int16 = 2
	versionPatch int16 = 0

	handshakeCode uint8 = 1
	clientCode    uint8 = 2

	handshakeAccepted uint8 = 1
)

// performHandshake runs the connection handshake on a fresh connection.
// A rejected handshake is fatal for the connection; the returned error
// carries the server's version and message.
func performHandshake(rw *bufio.ReadWriter, username, password string) error {
	var payload bytes.Buffer
	if err := protocol.WriteUint8(&payload, handshakeCode); err != nil {
		return err
	}
	for _, v := range []int16{versionMajor, versionMinor, versionPatch} {
		if err := protocol.WriteInt16(&payload, v); err != nil {
			return err
		}
	}
	if err := protocol.WriteUint8(&payload, clientCode); err != nil {
		return err
	}
	if username != "" {
		if err := protocol.WriteTypedString(&payload, username); err != nil {
			return err
		}
		if err := protocol.WriteTypedString(&payload, password); err != nil {
			return err
		}
	}

	if err := protocol.WriteInt32(rw, int32(payload.Len())); err != nil {
		return fmt.Errorf("handshake write: %w", err)
	}
	if _, err := rw.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("handshake write: %w", err)
	}
	if err := rw.Flush(); err != nil {
		return fmt.Errorf("handshake write: %w", err)
	}

	if _, err := protocol.ReadInt32(rw); err != nil {
		return fmt.Errorf("handshake read: %w", err)
	}
	flag, err := protocol.ReadUint8(rw)
	if err != nil {
		return fmt.Errorf("handshake read: %w", err)
	}
	if flag == handshakeAccepted {
		return nil
	}

	// Rejection carries the server's protocol version and a typed message.
	var version [3]int16
	for i := range version {
		if version[i], err = protocol.ReadInt16(rw); err != nil {
			return fmt.Errorf("handshake rejected, malformed response: %w", err)
		}
	}
	msg, err := protocol.ReadTypedString(rw)
	if err != nil {
		return fmt.Errorf("handshake rejected, malformed response: %w", err)
	}
	reason := "no reason given"
	if msg != nil {
		reason = *msg
	}
	return fmt.Errorf("handshake rejected by server (version %d.%d.%d): %s",
		version[0], version[1], version[2], reason)
}
