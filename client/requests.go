package client

import (
	"io"

	"github.com/spaceandtimelabs/ignite-go/protocol"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

// Every cache operation request starts with the cache id and a flag
// byte. The flag is zero except for scan queries, which set it to keep
// values in binary form.
const (
	flagDefault    uint8 = 0
	flagKeepBinary uint8 = 1

	cachePrefixSize = 5
)

func writeCachePrefix(w io.Writer, cacheID int32, flag uint8) error {
	if err := protocol.WriteInt32(w, cacheID); err != nil {
		return err
	}
	return protocol.WriteUint8(w, flag)
}

// ----------------------------------------------------------------------------
// Key/value requests
// ----------------------------------------------------------------------------

// cacheOnlyReq addresses a cache without further arguments (clear,
// remove-all).
type cacheOnlyReq struct {
	cacheID int32
}

func (r cacheOnlyReq) Size() int { return cachePrefixSize }

func (r cacheOnlyReq) Write(w io.Writer) error {
	return writeCachePrefix(w, r.cacheID, flagDefault)
}

// cacheKeyReq carries a single key (get, contains-key, clear-key,
// remove-key, get-and-remove).
type cacheKeyReq struct {
	cacheID int32
	key     object.Value
}

func (r cacheKeyReq) Size() int { return cachePrefixSize + object.ValueSize(r.key) }

func (r cacheKeyReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	return object.WriteValue(w, r.key)
}

// cacheKeysReq carries a counted key list (get-all, contains-keys,
// clear-keys, remove-keys).
type cacheKeysReq struct {
	cacheID int32
	keys    []object.Value
}

func (r cacheKeysReq) Size() int {
	n := cachePrefixSize + 4
	for _, k := range r.keys {
		n += object.ValueSize(k)
	}
	return n
}

func (r cacheKeysReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, int32(len(r.keys))); err != nil {
		return err
	}
	for _, k := range r.keys {
		if err := object.WriteValue(w, k); err != nil {
			return err
		}
	}
	return nil
}

// cacheKeyValReq carries a key and a value (put, put-if-absent, replace,
// get-and-put and friends, remove-if-equals).
type cacheKeyValReq struct {
	cacheID int32
	key     object.Value
	value   object.Value
}

func (r cacheKeyValReq) Size() int {
	return cachePrefixSize + object.ValueSize(r.key) + object.ValueSize(r.value)
}

func (r cacheKeyValReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := object.WriteValue(w, r.key); err != nil {
		return err
	}
	return object.WriteValue(w, r.value)
}

// cachePairsReq carries a counted list of key/value pairs (put-all).
type cachePairsReq struct {
	cacheID int32
	pairs   []kvPair
}

type kvPair struct {
	key   object.Value
	value object.Value
}

func (r cachePairsReq) Size() int {
	n := cachePrefixSize + 4
	for _, p := range r.pairs {
		n += object.ValueSize(p.key) + object.ValueSize(p.value)
	}
	return n
}

func (r cachePairsReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, int32(len(r.pairs))); err != nil {
		return err
	}
	for _, p := range r.pairs {
		if err := object.WriteValue(w, p.key); err != nil {
			return err
		}
		if err := object.WriteValue(w, p.value); err != nil {
			return err
		}
	}
	return nil
}

// cacheCASReq carries a key with a compare value and a new value
// (replace-if-equals).
type cacheCASReq struct {
	cacheID int32
	key     object.Value
	compare object.Value
	value   object.Value
}

func (r cacheCASReq) Size() int {
	return cachePrefixSize + object.ValueSize(r.key) +
		object.ValueSize(r.compare) + object.ValueSize(r.value)
}

func (r cacheCASReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := object.WriteValue(w, r.key); err != nil {
		return err
	}
	if err := object.WriteValue(w, r.compare); err != nil {
		return err
	}
	return object.WriteValue(w, r.value)
}

// cacheSizeReq carries the peek modes to count over. No modes means all.
type cacheSizeReq struct {
	cacheID int32
	modes   []CachePeekMode
}

func (r cacheSizeReq) Size() int { return cachePrefixSize + 4 + len(r.modes) }

func (r cacheSizeReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, int32(len(r.modes))); err != nil {
		return err
	}
	for _, m := range r.modes {
		if err := protocol.WriteUint8(w, uint8(m)); err != nil {
			return err
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Query requests
// ----------------------------------------------------------------------------

const queryTimeoutMs int64 = 10_000

// scanReq starts a scan query over the whole cache: no filter, all
// partitions, not local.
type scanReq struct {
	cacheID  int32
	pageSize int32
}

func (r scanReq) Size() int { return cachePrefixSize + 1 + 4 + 4 + 1 }

func (r scanReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagKeepBinary); err != nil {
		return err
	}
	if err := protocol.WriteNull(w); err != nil { // filter object
		return err
	}
	if err := protocol.WriteInt32(w, r.pageSize); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, -1); err != nil { // partitions
		return err
	}
	return protocol.WriteBool(w, false) // local only
}

// sqlReq starts an SQL query against one table, no arguments.
type sqlReq struct {
	cacheID  int32
	table    string
	sql      string
	pageSize int32
}

func (r sqlReq) Size() int {
	return cachePrefixSize +
		protocol.TypedStringSize(r.table) +
		protocol.TypedStringSize(r.sql) +
		4 + 3 + 4 + 8
}

func (r sqlReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := protocol.WriteTypedString(w, r.table); err != nil {
		return err
	}
	if err := protocol.WriteTypedString(w, r.sql); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, 0); err != nil { // argument count
		return err
	}
	// distributed joins, local only, replicated only
	for i := 0; i < 3; i++ {
		if err := protocol.WriteBool(w, false); err != nil {
			return err
		}
	}
	if err := protocol.WriteInt32(w, r.pageSize); err != nil {
		return err
	}
	return protocol.WriteInt64(w, queryTimeoutMs)
}

// sqlFieldsReq starts an SQL fields query, no arguments, default schema.
type sqlFieldsReq struct {
	cacheID  int32
	sql      string
	pageSize int32
}

const sqlStatementSelect int8 = 1

func (r sqlFieldsReq) Size() int {
	return cachePrefixSize + 1 + 4 + 4 +
		protocol.TypedStringSize(r.sql) +
		4 + 1 + 6 + 8 + 1
}

func (r sqlFieldsReq) Write(w io.Writer) error {
	if err := writeCachePrefix(w, r.cacheID, flagDefault); err != nil {
		return err
	}
	if err := protocol.WriteNull(w); err != nil { // schema
		return err
	}
	if err := protocol.WriteInt32(w, r.pageSize); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, r.pageSize); err != nil { // max rows
		return err
	}
	if err := protocol.WriteTypedString(w, r.sql); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, 0); err != nil { // argument count
		return err
	}
	if err := protocol.WriteInt8(w, sqlStatementSelect); err != nil {
		return err
	}
	// distributed joins, local only, replicated only, enforce join order,
	// collocated, lazy
	for i := 0; i < 6; i++ {
		if err := protocol.WriteBool(w, false); err != nil {
			return err
		}
	}
	if err := protocol.WriteInt64(w, queryTimeoutMs); err != nil {
		return err
	}
	return protocol.WriteBool(w, false) // include field names
}

// cursorPageReq fetches the next page of an open query cursor.
type cursorPageReq struct {
	cursorID int64
}

func (r cursorPageReq) Size() int { return 8 }

func (r cursorPageReq) Write(w io.Writer) error {
	return protocol.WriteInt64(w, r.cursorID)
}

// ----------------------------------------------------------------------------
// Cache administration requests
// ----------------------------------------------------------------------------

// cacheNameReq creates or resolves a cache by its name.
type cacheNameReq struct {
	name string
}

func (r cacheNameReq) Size() int { return protocol.TypedStringSize(r.name) }

func (r cacheNameReq) Write(w io.Writer) error {
	return protocol.WriteTypedString(w, r.name)
}

// cacheIDReq addresses a cache by id alone (destroy).
type cacheIDReq struct {
	cacheID int32
}

func (r cacheIDReq) Size() int { return 4 }

func (r cacheIDReq) Write(w io.Writer) error {
	return protocol.WriteInt32(w, r.cacheID)
}

// cacheGetConfigReq fetches the configuration of a cache.
type cacheGetConfigReq struct {
	cacheID int32
}

func (r cacheGetConfigReq) Size() int { return cachePrefixSize }

func (r cacheGetConfigReq) Write(w io.Writer) error {
	return writeCachePrefix(w, r.cacheID, flagDefault)
}

// cacheConfigReq carries a pre-encoded configuration blob.
type cacheConfigReq struct {
	blob []byte
}

func (r cacheConfigReq) Size() int { return len(r.blob) }

func (r cacheConfigReq) Write(w io.Writer) error {
	_, err := w.Write(r.blob)
	return err
}

// emptyReq has no body (cache names).
type emptyReq struct{}

func (emptyReq) Size() int { return 0 }

func (emptyReq) Write(io.Writer) error { return nil }

// ----------------------------------------------------------------------------
// Transaction requests
// ----------------------------------------------------------------------------

// txStartReq opens a transaction with pessimistic concurrency,
// repeatable-read isolation and the default timeout, no label.
type txStartReq struct{}

func (txStartReq) Size() int { return 1 + 1 + 8 + 1 }

func (txStartReq) Write(w io.Writer) error {
	if err := protocol.WriteUint8(w, 0); err != nil { // concurrency
		return err
	}
	if err := protocol.WriteUint8(w, 0); err != nil { // isolation
		return err
	}
	if err := protocol.WriteInt64(w, queryTimeoutMs); err != nil {
		return err
	}
	return protocol.WriteNull(w) // label
}

// txEndReq commits or rolls back an open transaction.
type txEndReq struct {
	txID   int32
	commit bool
}

func (r txEndReq) Size() int { return 4 + 1 }

func (r txEndReq) Write(w io.Writer) error {
	if err := protocol.WriteInt32(w, r.txID); err != nil {
		return err
	}
	return protocol.WriteBool(w, r.commit)
}
