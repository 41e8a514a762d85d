package object

import (
	"fmt"
	"io"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// Complex is a schema-described dynamic record: an ordered list of
// heterogeneous field values serialized according to a runtime-supplied
// schema. On the wire it is the complex-object type code followed by each
// field as a typed value, in declaration order; no field names or counts
// are transmitted.
type Complex struct {
	Schema *Schema
	Values []Value
}

// NewComplex builds a record for the given schema.
func NewComplex(schema *Schema, values ...Value) *Complex {
	return &Complex{Schema: schema, Values: values}
}

func (c *Complex) Write(w io.Writer) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := protocol.WriteUint8(w, uint8(protocol.TypeComplex)); err != nil {
		return err
	}
	for i, v := range c.Values {
		if v != nil && wireType(v) != c.Schema.Fields[i].Type {
			return fmt.Errorf("record field %q: value type %d does not match declared type %d",
				c.Schema.Fields[i].Name, wireType(v), c.Schema.Fields[i].Type)
		}
		if err := WriteValue(w, v); err != nil {
			return fmt.Errorf("record field %q: %w", c.Schema.Fields[i].Name, err)
		}
	}
	return nil
}

func (c *Complex) Size() int {
	n := 1
	for _, v := range c.Values {
		n += ValueSize(v)
	}
	return n
}

func (c *Complex) check() error {
	if c.Schema == nil {
		return fmt.Errorf("record has no schema")
	}
	if len(c.Values) != len(c.Schema.Fields) {
		return fmt.Errorf("record has %d values, schema %q declares %d fields",
			len(c.Values), c.Schema.TypeName, len(c.Schema.Fields))
	}
	return nil
}

// readComplexBody decodes the record fields after the complex-object type
// code has been consumed. Each field must carry the declared type code or
// the null marker.
func readComplexBody(r io.Reader, schema *Schema) (*Complex, error) {
	values := make([]Value, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		v, err := Read(r)
		if err != nil {
			return nil, fmt.Errorf("record field %q: %w", f.Name, err)
		}
		if v != nil && wireType(v) != f.Type {
			return nil, fmt.Errorf("record field %q: got type %d, schema declares %d",
				f.Name, wireType(v), f.Type)
		}
		values = append(values, v)
	}
	return &Complex{Schema: schema, Values: values}, nil
}

// wireType reports the type code a built-in value writes.
func wireType(v Value) protocol.TypeCode {
	switch v.(type) {
	case Byte:
		return protocol.TypeByte
	case Short:
		return protocol.TypeShort
	case Int:
		return protocol.TypeInt
	case Long:
		return protocol.TypeLong
	case Float:
		return protocol.TypeFloat
	case Double:
		return protocol.TypeDouble
	case Bool:
		return protocol.TypeBool
	case String:
		return protocol.TypeString
	case *Complex:
		return protocol.TypeComplex
	default:
		return 0
	}
}
