package client

// HashCode computes the Java-compatible string hashcode of a cache name
// (h = 31*h + c over the characters of the name). The protocol addresses caches
// by this 32-bit id instead of the name in most operation bodies, so the
// same name must always yield the same id, within and across connections.
func HashCode(name string) int32 {
	var h int32
	for _, r := range name {
		h = 31*h + int32(r)
	}
	return h
}
