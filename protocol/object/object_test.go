package object

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// testValues is a set of wire values of every primitive type
var testValues = map[string]Value{
	"Byte":        Byte(-5),
	"Short":       Short(1000),
	"Int":         Int(-123456),
	"Long":        Long(1 << 40),
	"Float":       Float(1.5),
	"Double":      Double(-3.25),
	"BoolTrue":    Bool(true),
	"BoolFalse":   Bool(false),
	"String":      String("hello"),
	"EmptyString": String(""),
}

// TestValueRoundTrip tests that every value survives a write/read cycle and
// that Size agrees with the bytes written
func TestValueRoundTrip(t *testing.T) {
	for name, v := range testValues {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteValue(&buf, v); err != nil {
				t.Fatalf("write: %v", err)
			}
			if buf.Len() != v.Size() {
				t.Errorf("wrote %d bytes, Size says %d", buf.Len(), v.Size())
			}

			got, err := Read(&buf)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !reflect.DeepEqual(got, v) {
				t.Errorf("got %#v, want %#v", got, v)
			}
		})
	}
}

// TestNullValue tests that nil values write the null marker and read back as nil
func TestNullValue(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteValue(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != 1 || ValueSize(nil) != 1 {
		t.Errorf("null marker should be one byte, wrote %d, size %d", buf.Len(), ValueSize(nil))
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Errorf("got %#v, want nil", got)
	}
}

// TestReadUnknownCode tests that an unknown type code is an error, not a guess
func TestReadUnknownCode(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x42})
	if _, err := Read(buf); err == nil {
		t.Error("expected error for unknown type code")
	}
}

func personSchema() *Schema {
	return &Schema{
		TypeName: "Person",
		Fields: []Field{
			{Name: "name", Type: protocol.TypeString},
			{Name: "age", Type: protocol.TypeInt},
			{Name: "active", Type: protocol.TypeBool},
		},
	}
}

// TestComplexRoundTrip tests that schema-described records survive a
// write/read cycle, including null fields
func TestComplexRoundTrip(t *testing.T) {
	schema := personSchema()

	cases := map[string]*Complex{
		"AllSet":    NewComplex(schema, String("alice"), Int(30), Bool(true)),
		"NullField": NewComplex(schema, String("bob"), nil, Bool(false)),
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := c.Write(&buf); err != nil {
				t.Fatalf("write: %v", err)
			}
			if buf.Len() != c.Size() {
				t.Errorf("wrote %d bytes, Size says %d", buf.Len(), c.Size())
			}

			got, err := ReadWithSchema(&buf, schema)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !reflect.DeepEqual(got, c) {
				t.Errorf("got %#v, want %#v", got, c)
			}
		})
	}
}

// TestComplexNull tests that a null record reads back as nil
func TestComplexNull(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteValue(&buf, nil); err != nil {
		t.Fatal(err)
	}
	got, err := ReadWithSchema(&buf, personSchema())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Errorf("got %#v, want nil", got)
	}
}

// TestComplexTypeMismatch tests that writing a record with a field that
// does not match its schema type fails
func TestComplexTypeMismatch(t *testing.T) {
	schema := personSchema()
	c := NewComplex(schema, Int(1), Int(30), Bool(true)) // name must be a string

	var buf bytes.Buffer
	if err := c.Write(&buf); err == nil {
		t.Error("expected error for field type mismatch")
	}
}

// TestComplexFieldCount tests that a record with the wrong number of
// fields fails to write
func TestComplexFieldCount(t *testing.T) {
	c := NewComplex(personSchema(), String("alice"))

	var buf bytes.Buffer
	if err := c.Write(&buf); err == nil {
		t.Error("expected error for field count mismatch")
	}
}

// TestTypeFromJava tests the java type name mapping
func TestTypeFromJava(t *testing.T) {
	cases := map[string]protocol.TypeCode{
		"java.lang.String":  protocol.TypeString,
		"java.lang.Integer": protocol.TypeInt,
		"java.lang.Long":    protocol.TypeLong,
		"java.lang.Boolean": protocol.TypeBool,
		"java.lang.Double":  protocol.TypeDouble,
	}
	for name, want := range cases {
		got, err := TypeFromJava(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %d, want %d", name, got, want)
		}
	}

	if _, err := TypeFromJava("java.util.HashMap"); err == nil {
		t.Error("expected error for unsupported type name")
	}
}
