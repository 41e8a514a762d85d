// Package object implements the typed value system of the binary client
// protocol. Every value on the wire is self-describing: a one-byte type
// code followed by the payload in little-endian order.
//
// Key components:
//
//   - Value: The interface implemented by all wire value types. A nil Value
//     stands for the null marker. The primitive types (Byte, Short, Int,
//     Long, Float, Double, Bool, String) are thin wrappers over Go's
//     built-in types.
//
//   - Complex: A record value whose fields are described by a Schema. The
//     wire carries only the field values in schema order; names and types
//     live client-side in the Schema.
//
//   - Read / ReadWithSchema: Decoders for self-describing values. Plain
//     Read handles all primitive codes; ReadWithSchema additionally decodes
//     record values against a known Schema.
//
// Size and Write of every Value agree exactly: Size reports the number of
// bytes Write emits, including the type code. Frame lengths are computed
// from Size before any byte is written, so a mismatch corrupts the stream.
package object
