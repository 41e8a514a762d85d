package client

import (
	"fmt"
	"io"

	"github.com/spaceandtimelabs/ignite-go/protocol"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

// ----------------------------------------------------------------------------
// Cache handle
// ----------------------------------------------------------------------------

// Cache is a typed handle on one cache. K and V are the wire value
// types of keys and values; for record types use *object.Complex and
// attach schemas with WithSchemas. Handles are cheap and stateless
// beyond the precomputed cache id.
type Cache[K, V object.Value] struct {
	client      *Client
	name        string
	id          int32
	keySchema   *object.Schema
	valueSchema *object.Schema
}

// Pair is one key/value pair of a cache.
type Pair[K, V object.Value] struct {
	Key   K
	Value V
}

func newCache[K, V object.Value](c *Client, name string) *Cache[K, V] {
	return &Cache[K, V]{client: c, name: name, id: HashCode(name)}
}

// Name returns the cache name.
func (c *Cache[K, V]) Name() string { return c.name }

// WithSchemas returns a handle that decodes record keys and values
// against the given schemas. Primitive sides pass nil.
func (c *Cache[K, V]) WithSchemas(key, value *object.Schema) *Cache[K, V] {
	clone := *c
	clone.keySchema = key
	clone.valueSchema = value
	return &clone
}

// decodeAs narrows a decoded wire value to the handle's type parameter.
// A nil value reports absent.
func decodeAs[T object.Value](v object.Value) (T, bool, error) {
	var zero T
	if v == nil {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, fmt.Errorf("unexpected value type %T", v)
	}
	return t, true, nil
}

func (c *Cache[K, V]) decodePair(p rawPair) (Pair[K, V], error) {
	key, hasKey, err := decodeAs[K](p.key)
	if err != nil {
		return Pair[K, V]{}, fmt.Errorf("cache %q key: %w", c.name, err)
	}
	if !hasKey {
		return Pair[K, V]{}, fmt.Errorf("cache %q: null key in pair", c.name)
	}
	value, _, err := decodeAs[V](p.value)
	if err != nil {
		return Pair[K, V]{}, fmt.Errorf("cache %q value: %w", c.name, err)
	}
	return Pair[K, V]{Key: key, Value: value}, nil
}

func (c *Cache[K, V]) decodePairs(raw []rawPair) ([]Pair[K, V], error) {
	pairs := make([]Pair[K, V], 0, len(raw))
	for _, rp := range raw {
		p, err := c.decodePair(rp)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// valueRoundTrip runs an operation whose response is a single optional
// value decoded against the handle's value schema.
func (c *Cache[K, V]) valueRoundTrip(op protocol.OpCode, req protocol.Writable) (V, bool, error) {
	var raw object.Value
	if err := c.client.conn.SendAndRead(op, req, readValueResp(c.valueSchema, &raw)); err != nil {
		var zero V
		return zero, false, err
	}
	return decodeAs[V](raw)
}

func (c *Cache[K, V]) boolRoundTrip(op protocol.OpCode, req protocol.Writable) (bool, error) {
	var v bool
	err := c.client.conn.SendAndRead(op, req, readBoolResp(&v))
	return v, err
}

func values[T object.Value](items []T) []object.Value {
	out := make([]object.Value, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

// ----------------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------------

// Get returns the value for key. The second return is false when the
// key is absent.
func (c *Cache[K, V]) Get(key K) (V, bool, error) {
	return c.valueRoundTrip(protocol.OpCacheGet, cacheKeyReq{cacheID: c.id, key: key})
}

// GetAll returns the pairs for all present keys. Absent keys are left
// out of the result.
func (c *Cache[K, V]) GetAll(keys ...K) ([]Pair[K, V], error) {
	var raw []rawPair
	err := c.client.conn.SendAndRead(protocol.OpCacheGetAll,
		cacheKeysReq{cacheID: c.id, keys: values(keys)},
		readPairsResp(c.keySchema, c.valueSchema, &raw))
	if err != nil {
		return nil, err
	}
	return c.decodePairs(raw)
}

// ContainsKey reports whether key is present.
func (c *Cache[K, V]) ContainsKey(key K) (bool, error) {
	return c.boolRoundTrip(protocol.OpCacheContainsKey, cacheKeyReq{cacheID: c.id, key: key})
}

// ContainsKeys reports whether all keys are present.
func (c *Cache[K, V]) ContainsKeys(keys ...K) (bool, error) {
	return c.boolRoundTrip(protocol.OpCacheContainsKeys,
		cacheKeysReq{cacheID: c.id, keys: values(keys)})
}

// Size returns the number of entries visible in the given peek modes.
// Without modes all entries are counted.
func (c *Cache[K, V]) Size(modes ...CachePeekMode) (int64, error) {
	var n int64
	err := c.client.conn.SendAndRead(protocol.OpCacheGetSize,
		cacheSizeReq{cacheID: c.id, modes: modes}, readLongResp(&n))
	return n, err
}

// ----------------------------------------------------------------------------
// Writes
// ----------------------------------------------------------------------------

// Put stores value under key, overwriting any previous value.
func (c *Cache[K, V]) Put(key K, value V) error {
	return c.client.conn.Send(protocol.OpCachePut,
		cacheKeyValReq{cacheID: c.id, key: key, value: value})
}

// PutAll stores all pairs in one round trip.
func (c *Cache[K, V]) PutAll(pairs ...Pair[K, V]) error {
	req := cachePairsReq{cacheID: c.id, pairs: make([]kvPair, len(pairs))}
	for i, p := range pairs {
		req.pairs[i] = kvPair{key: p.Key, value: p.Value}
	}
	return c.client.conn.Send(protocol.OpCachePutAll, req)
}

// PutIfAbsent stores value only when key has no value yet and reports
// whether it did.
func (c *Cache[K, V]) PutIfAbsent(key K, value V) (bool, error) {
	return c.boolRoundTrip(protocol.OpCachePutIfAbsent,
		cacheKeyValReq{cacheID: c.id, key: key, value: value})
}

// GetAndPut stores value and returns the previous value, if any.
func (c *Cache[K, V]) GetAndPut(key K, value V) (V, bool, error) {
	return c.valueRoundTrip(protocol.OpCacheGetAndPut,
		cacheKeyValReq{cacheID: c.id, key: key, value: value})
}

// GetAndPutIfAbsent stores value only when key is absent and returns
// the previous value, if any.
func (c *Cache[K, V]) GetAndPutIfAbsent(key K, value V) (V, bool, error) {
	return c.valueRoundTrip(protocol.OpCacheGetAndPutIfAbsent,
		cacheKeyValReq{cacheID: c.id, key: key, value: value})
}

// Replace stores value only when key already has one and reports
// whether it did.
func (c *Cache[K, V]) Replace(key K, value V) (bool, error) {
	return c.boolRoundTrip(protocol.OpCacheReplace,
		cacheKeyValReq{cacheID: c.id, key: key, value: value})
}

// ReplaceIfEquals stores value only when the current value equals
// compare and reports whether it did.
func (c *Cache[K, V]) ReplaceIfEquals(key K, compare, value V) (bool, error) {
	return c.boolRoundTrip(protocol.OpCacheReplaceIfEquals,
		cacheCASReq{cacheID: c.id, key: key, compare: compare, value: value})
}

// GetAndReplace stores value only when key already has one and returns
// the previous value, if any.
func (c *Cache[K, V]) GetAndReplace(key K, value V) (V, bool, error) {
	return c.valueRoundTrip(protocol.OpCacheGetAndReplace,
		cacheKeyValReq{cacheID: c.id, key: key, value: value})
}

// ----------------------------------------------------------------------------
// Removal
// ----------------------------------------------------------------------------

// Clear removes all entries without notifying listeners or cache
// writers.
func (c *Cache[K, V]) Clear() error {
	return c.client.conn.Send(protocol.OpCacheClear, cacheOnlyReq{cacheID: c.id})
}

// ClearKey removes the entry for key without notifying listeners or
// cache writers.
func (c *Cache[K, V]) ClearKey(key K) error {
	return c.client.conn.Send(protocol.OpCacheClearKey, cacheKeyReq{cacheID: c.id, key: key})
}

// ClearKeys is ClearKey for multiple keys.
func (c *Cache[K, V]) ClearKeys(keys ...K) error {
	return c.client.conn.Send(protocol.OpCacheClearKeys,
		cacheKeysReq{cacheID: c.id, keys: values(keys)})
}

// RemoveKey removes the entry for key and reports whether one existed.
func (c *Cache[K, V]) RemoveKey(key K) (bool, error) {
	return c.boolRoundTrip(protocol.OpCacheRemoveKey, cacheKeyReq{cacheID: c.id, key: key})
}

// GetAndRemove removes the entry for key and returns its value, if any.
func (c *Cache[K, V]) GetAndRemove(key K) (V, bool, error) {
	return c.valueRoundTrip(protocol.OpCacheGetAndRemove, cacheKeyReq{cacheID: c.id, key: key})
}

// RemoveIfEquals removes the entry only when its value equals compare
// and reports whether it did.
func (c *Cache[K, V]) RemoveIfEquals(key K, compare V) (bool, error) {
	return c.boolRoundTrip(protocol.OpCacheRemoveIfEquals,
		cacheKeyValReq{cacheID: c.id, key: key, value: compare})
}

// RemoveKeys removes the entries for all keys.
func (c *Cache[K, V]) RemoveKeys(keys ...K) error {
	return c.client.conn.Send(protocol.OpCacheRemoveKeys,
		cacheKeysReq{cacheID: c.id, keys: values(keys)})
}

// RemoveAll removes all entries, notifying listeners and cache writers.
func (c *Cache[K, V]) RemoveAll() error {
	return c.client.conn.Send(protocol.OpCacheRemoveAll, cacheOnlyReq{cacheID: c.id})
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// QueryScan returns all entries of the cache, fetching pages of
// pageSize entries until the cursor is drained.
func (c *Cache[K, V]) QueryScan(pageSize int32) ([]Pair[K, V], error) {
	var all []Pair[K, V]
	err := c.QueryScanFunc(pageSize, func(p Pair[K, V]) (bool, error) {
		all = append(all, p)
		return true, nil
	})
	return all, err
}

// QueryScanFunc streams all entries of the cache through fn, fetching
// further pages as needed. fn returning false stops the iteration
// early; remaining cursor pages are left unfetched.
func (c *Cache[K, V]) QueryScanFunc(pageSize int32, fn func(Pair[K, V]) (bool, error)) error {
	var page queryPage
	err := c.client.conn.SendAndRead(protocol.OpQueryScan,
		scanReq{cacheID: c.id, pageSize: pageSize},
		readQueryResp(c.keySchema, c.valueSchema, &page))
	if err != nil {
		return err
	}
	return c.drainCursor(&page, protocol.OpQueryScanCursorPage, fn)
}

// QuerySQL runs an SQL query against table and returns the matching
// entries.
func (c *Cache[K, V]) QuerySQL(table, sql string, pageSize int32) ([]Pair[K, V], error) {
	var page queryPage
	err := c.client.conn.SendAndRead(protocol.OpQuerySQL,
		sqlReq{cacheID: c.id, table: table, sql: sql, pageSize: pageSize},
		readQueryResp(c.keySchema, c.valueSchema, &page))
	if err != nil {
		return nil, err
	}
	var all []Pair[K, V]
	err = c.drainCursor(&page, protocol.OpQuerySQLCursorPage, func(p Pair[K, V]) (bool, error) {
		all = append(all, p)
		return true, nil
	})
	return all, err
}

// QuerySQLFields runs an SQL fields query. The row layout depends on
// the statement, so the rows of the first page are handed to cb raw,
// together with the row count. The return reports whether further
// pages remained on the server; fetch them with QueryCursorPage.
func (c *Cache[K, V]) QuerySQLFields(sql string, pageSize int32, cb func(r io.Reader, rows int32) error) (cursorID int64, more bool, err error) {
	err = c.client.conn.SendAndRead(protocol.OpQuerySQLFields,
		sqlFieldsReq{cacheID: c.id, sql: sql, pageSize: pageSize},
		func(r io.Reader) error {
			var err error
			if cursorID, err = protocol.ReadInt64(r); err != nil {
				return err
			}
			rows, err := protocol.ReadInt32(r)
			if err != nil {
				return err
			}
			if err := cb(r, rows); err != nil {
				return err
			}
			more, err = protocol.ReadBool(r)
			return err
		})
	return cursorID, more, err
}

// QueryCursorPage fetches the next page of an SQL fields cursor and
// hands its rows to cb raw.
func (c *Cache[K, V]) QueryCursorPage(cursorID int64, cb func(r io.Reader, rows int32) error) (more bool, err error) {
	err = c.client.conn.SendAndRead(protocol.OpQuerySQLFieldsCursPage,
		cursorPageReq{cursorID: cursorID},
		func(r io.Reader) error {
			rows, err := protocol.ReadInt32(r)
			if err != nil {
				return err
			}
			if err := cb(r, rows); err != nil {
				return err
			}
			more, err = protocol.ReadBool(r)
			return err
		})
	return more, err
}

func (c *Cache[K, V]) drainCursor(page *queryPage, pageOp protocol.OpCode, fn func(Pair[K, V]) (bool, error)) error {
	for {
		for _, rp := range page.pairs {
			p, err := c.decodePair(rp)
			if err != nil {
				return err
			}
			cont, err := fn(p)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		if !page.more {
			return nil
		}
		err := c.client.conn.SendAndRead(pageOp,
			cursorPageReq{cursorID: page.cursorID},
			readCursorPageResp(c.keySchema, c.valueSchema, page))
		if err != nil {
			return err
		}
	}
}
