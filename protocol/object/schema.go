package object

import (
	"fmt"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// Field is one declared record field: a name (never transmitted) and the
// wire type its values must carry.
type Field struct {
	Name string
	Type protocol.TypeCode
}

// Schema is the ordered field layout of a record type. It is established
// out of band (typically from a cache's query entity) and is required to
// decode records, since no field names or counts are transmitted.
type Schema struct {
	TypeName string
	Fields   []Field
}

// TypeFromJava maps a Java type name, as it appears in query entity
// metadata, to its wire type code.
func TypeFromJava(name string) (protocol.TypeCode, error) {
	switch name {
	case "java.lang.Byte":
		return protocol.TypeByte, nil
	case "java.lang.Short":
		return protocol.TypeShort, nil
	case "java.lang.Integer", "int":
		return protocol.TypeInt, nil
	case "java.lang.Long", "long":
		return protocol.TypeLong, nil
	case "java.lang.Float":
		return protocol.TypeFloat, nil
	case "java.lang.Double":
		return protocol.TypeDouble, nil
	case "java.lang.Boolean", "boolean":
		return protocol.TypeBool, nil
	case "java.lang.String":
		return protocol.TypeString, nil
	default:
		return 0, fmt.Errorf("no wire type for java type %q", name)
	}
}
