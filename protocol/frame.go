package protocol

import (
	"fmt"
	"io"
)

// WriteRequestHeader writes the common request frame header. The request id
// is always transmitted as zero: responses are matched by FIFO order on the
// stream, never by id.
func WriteRequestHeader(w io.Writer, payloadLen int, op OpCode) error {
	if err := WriteInt32(w, int32(payloadLen)+ReqHeaderSize); err != nil {
		return err
	}
	if err := WriteInt16(w, int16(op)); err != nil {
		return err
	}
	return WriteInt64(w, 0)
}

// RespHeader is the fixed part of every response frame.
type RespHeader struct {
	Length    int32
	RequestID int64
	Status    int32
}

// ReadResponseHeader reads the fixed response header. The caller is expected
// to consume the server error message when Status is nonzero.
func ReadResponseHeader(r io.Reader) (RespHeader, error) {
	var h RespHeader
	var err error
	if h.Length, err = ReadInt32(r); err != nil {
		return h, fmt.Errorf("read response length: %w", err)
	}
	if h.RequestID, err = ReadInt64(r); err != nil {
		return h, fmt.Errorf("read response request id: %w", err)
	}
	if h.Status, err = ReadInt32(r); err != nil {
		return h, fmt.Errorf("read response status: %w", err)
	}
	return h, nil
}
