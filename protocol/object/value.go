package object

import (
	"fmt"
	"io"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// Value is a single protocol value: it writes itself prefixed by its wire
// type code and reports its exact encoded size in advance. A nil Value
// stands for the protocol null marker.
type Value interface {
	protocol.Writable
}

// WriteValue writes v, or the null marker when v is nil.
func WriteValue(w io.Writer, v Value) error {
	if v == nil {
		return protocol.WriteNull(w)
	}
	return v.Write(w)
}

// ValueSize returns the encoded size of v, or of the null marker when v is nil.
func ValueSize(v Value) int {
	if v == nil {
		return 1
	}
	return v.Size()
}

// --------------------------------------------------------------------------
// Built-in value types
// --------------------------------------------------------------------------

// Byte is a typed wire value (type code 1).
type Byte int8

func (v Byte) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeByte)); err != nil {
		return err
	}
	return protocol.WriteInt8(w, int8(v))
}

func (v Byte) Size() int { return 1 + 1 }

// Short is a typed wire value (type code 2).
type Short int16

func (v Short) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeShort)); err != nil {
		return err
	}
	return protocol.WriteInt16(w, int16(v))
}

func (v Short) Size() int { return 1 + 2 }

// Int is a typed wire value (type code 3).
type Int int32

func (v Int) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeInt)); err != nil {
		return err
	}
	return protocol.WriteInt32(w, int32(v))
}

func (v Int) Size() int { return 1 + 4 }

// Long is a typed wire value (type code 4).
type Long int64

func (v Long) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeLong)); err != nil {
		return err
	}
	return protocol.WriteInt64(w, int64(v))
}

func (v Long) Size() int { return 1 + 8 }

// Float is a typed wire value (type code 5).
type Float float32

func (v Float) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeFloat)); err != nil {
		return err
	}
	return protocol.WriteFloat32(w, float32(v))
}

func (v Float) Size() int { return 1 + 4 }

// Double is a typed wire value (type code 6).
type Double float64

func (v Double) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeDouble)); err != nil {
		return err
	}
	return protocol.WriteFloat64(w, float64(v))
}

func (v Double) Size() int { return 1 + 8 }

// Bool is a typed wire value (type code 8).
type Bool bool

func (v Bool) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, uint8(protocol.TypeBool)); err != nil {
		return err
	}
	return protocol.WriteBool(w, bool(v))
}

func (v Bool) Size() int { return 1 + 1 }

// String is a typed wire value (type code 9).
type String string

func (v String) Write(w io.Writer) error {
	return protocol.WriteTypedString(w, string(v))
}

func (v String) Size() int { return protocol.TypedStringSize(string(v)) }

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// Read decodes the next self-describing value. It returns (nil, nil) when the
// null marker is found. Complex records are not self-describing; use
// ReadWithSchema for them.
func Read(r io.Reader) (Value, error) {
	code, err := protocol.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	return readBody(r, protocol.TypeCode(code))
}

func readBody(r io.Reader, code protocol.TypeCode) (Value, error) {
	switch code {
	case protocol.TypeNull:
		return nil, nil
	case protocol.TypeByte:
		b, err := protocol.ReadUint8(r)
		if err != nil {
			return nil, err
		}
		return Byte(int8(b)), nil
	case protocol.TypeShort:
		v, err := protocol.ReadInt16(r)
		if err != nil {
			return nil, err
		}
		return Short(v), nil
	case protocol.TypeInt:
		v, err := protocol.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case protocol.TypeLong:
		v, err := protocol.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return Long(v), nil
	case protocol.TypeFloat:
		v, err := protocol.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		return Float(v), nil
	case protocol.TypeDouble:
		v, err := protocol.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		return Double(v), nil
	case protocol.TypeBool:
		v, err := protocol.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return Bool(v), nil
	case protocol.TypeString:
		s, err := protocol.ReadString(r)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	default:
		return nil, fmt.Errorf("decode value: unrecognized type code %d", code)
	}
}

// ReadWithSchema decodes the next value. When schema is nil the value must be
// a self-describing primitive; otherwise it must be a schema record (or null).
func ReadWithSchema(r io.Reader, schema *Schema) (Value, error) {
	if schema == nil {
		return Read(r)
	}
	code, err := protocol.ReadUint8(r)
	if err != nil {
		return nil, err
	}
	switch protocol.TypeCode(code) {
	case protocol.TypeNull:
		return nil, nil
	case protocol.TypeComplex:
		return readComplexBody(r, schema)
	default:
		return nil, fmt.Errorf("decode record: unexpected type code %d, want %d",
			code, protocol.TypeComplex)
	}
}
