// Package client implements a thin client for the binary cache protocol
// of cluster nodes. It connects to a single node, performs the protocol
// handshake and exposes cache administration, key-value, query and
// transaction operations.
//
// Key components:
//
//   - Client: A handshaked connection to one node. Created with Connect,
//     it provides cache administration (CacheNames, DestroyCache,
//     CacheConfiguration) and transactions. All cache handles created from
//     one Client share its connection.
//
//   - Cache: A typed, generic handle on one cache. The type parameters are
//     the wire value types of keys and values (see the protocol/object
//     package); record types use *object.Complex together with WithSchemas.
//     Handles are created with GetCache, CreateCache, GetOrCreateCache and
//     the configuration-based variants.
//
//   - Conn: The request/response interface of a connection. The concrete
//     Connection serializes round trips with a single lock held across
//     write and read, because the protocol matches responses to requests
//     purely by order. BreakerConn decorates any Conn with a circuit
//     breaker that fails fast while the node is unreachable.
//
// Error handling is flat: operations return wrapped errors. A *ServerError
// means the node rejected the operation in protocol and the connection
// stays usable; any I/O or decode failure poisons the connection and all
// further operations return ErrConnectionPoisoned.
package client
