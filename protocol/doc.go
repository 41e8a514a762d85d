// Package protocol implements the primitive layer of the binary client
// protocol: little-endian codecs for fixed-width integers, floats, booleans
// and strings, the type and operation code tables, and the request/response
// frame headers.
//
// Everything sent on the wire is built from these primitives. Higher layers
// (see the object and client packages) compose them into typed values and
// complete operations.
package protocol
