package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// The thin client protocol transmits every multi-byte field in
// little endian order.
var endian = binary.LittleEndian

// Writable is the capability every request body and wire value implements.
// Size must return the exact number of bytes Write emits: the frame length
// header is computed from Size before the payload is serialized, so any
// divergence corrupts framing for every later exchange on the connection.
type Writable interface {
	Write(w io.Writer) error
	Size() int
}

// --------------------------------------------------------------------------
// Write primitives
// --------------------------------------------------------------------------

// WriteUint8 writes a single byte.
func WriteUint8(w io.Writer, v uint8) error {
	if _, err := w.Write([]byte{v}); err != nil {
		return fmt.Errorf("write u8: %w", err)
	}
	return nil
}

// WriteInt8 writes a single signed byte.
func WriteInt8(w io.Writer, v int8) error {
	return WriteUint8(w, uint8(v))
}

// WriteInt16 writes a 16-bit signed integer.
func WriteInt16(w io.Writer, v int16) error {
	var buf [2]byte
	endian.PutUint16(buf[:], uint16(v))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write i16: %w", err)
	}
	return nil
}

// WriteInt32 writes a 32-bit signed integer.
func WriteInt32(w io.Writer, v int32) error {
	var buf [4]byte
	endian.PutUint32(buf[:], uint32(v))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write i32: %w", err)
	}
	return nil
}

// WriteInt64 writes a 64-bit signed integer.
func WriteInt64(w io.Writer, v int64) error {
	var buf [8]byte
	endian.PutUint64(buf[:], uint64(v))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write i64: %w", err)
	}
	return nil
}

// WriteFloat32 writes an IEEE 754 single-precision float.
func WriteFloat32(w io.Writer, v float32) error {
	var buf [4]byte
	endian.PutUint32(buf[:], math.Float32bits(v))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write f32: %w", err)
	}
	return nil
}

// WriteFloat64 writes an IEEE 754 double-precision float.
func WriteFloat64(w io.Writer, v float64) error {
	var buf [8]byte
	endian.PutUint64(buf[:], math.Float64bits(v))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write f64: %w", err)
	}
	return nil
}

// WriteBool writes a boolean as one byte (0 or 1).
func WriteBool(w io.Writer, v bool) error {
	b := uint8(0)
	if v {
		b = 1
	}
	return WriteUint8(w, b)
}

// WriteString writes the raw string payload: 4-byte length followed by the
// UTF-8 bytes. The type code is not included; use WriteTypedString for the
// full typed form.
func WriteString(w io.Writer, s string) error {
	if err := WriteInt32(w, int32(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write string payload: %w", err)
	}
	return nil
}

// WriteTypedString writes the string type code followed by the string payload.
func WriteTypedString(w io.Writer, s string) error {
	if err := WriteUint8(w, uint8(TypeString)); err != nil {
		return err
	}
	return WriteString(w, s)
}

// WriteNull writes the null marker type code.
func WriteNull(w io.Writer) error {
	return WriteUint8(w, uint8(TypeNull))
}

// TypedStringSize returns the encoded size of a typed string
// (type code, length prefix, UTF-8 bytes).
func TypedStringSize(s string) int {
	return 1 + 4 + len(s)
}

// --------------------------------------------------------------------------
// Read primitives
// --------------------------------------------------------------------------

// ReadUint8 reads a single byte.
func ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u8: %w", err)
	}
	return buf[0], nil
}

// ReadInt16 reads a 16-bit signed integer.
func ReadInt16(r io.Reader) (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read i16: %w", err)
	}
	return int16(endian.Uint16(buf[:])), nil
}

// ReadInt32 reads a 32-bit signed integer.
func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read i32: %w", err)
	}
	return int32(endian.Uint32(buf[:])), nil
}

// ReadInt64 reads a 64-bit signed integer.
func ReadInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read i64: %w", err)
	}
	return int64(endian.Uint64(buf[:])), nil
}

// ReadFloat32 reads an IEEE 754 single-precision float.
func ReadFloat32(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read f32: %w", err)
	}
	return math.Float32frombits(endian.Uint32(buf[:])), nil
}

// ReadFloat64 reads an IEEE 754 double-precision float.
func ReadFloat64(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read f64: %w", err)
	}
	return math.Float64frombits(endian.Uint64(buf[:])), nil
}

// ReadBool reads a boolean encoded as one byte.
func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadUint8(r)
	if err != nil {
		return false, fmt.Errorf("read bool: %w", err)
	}
	return b != 0, nil
}

// ReadString reads the raw string payload (length prefix plus UTF-8 bytes).
// The type code must already have been consumed.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadInt32(r)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("read string: negative length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string payload: %w", err)
	}
	return string(buf), nil
}

// ReadTypedString reads a typed string. It returns (nil, nil) when the null
// marker is found instead of a string.
func ReadTypedString(r io.Reader) (*string, error) {
	code, err := ReadUint8(r)
	if err != nil {
		return nil, err
	}
	switch TypeCode(code) {
	case TypeNull:
		return nil, nil
	case TypeString:
		s, err := ReadString(r)
		if err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("read string: unexpected type code %d", code)
	}
}
