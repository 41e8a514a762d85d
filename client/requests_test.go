package client

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/spaceandtimelabs/ignite-go/protocol"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

// writeAndCheckSize writes a request and fails the test unless Size
// reports exactly the written byte count
func writeAndCheckSize(t *testing.T, req protocol.Writable) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := req.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != req.Size() {
		t.Fatalf("wrote %d bytes, Size says %d", buf.Len(), req.Size())
	}
	return buf.Bytes()
}

// TestRequestSizeAgreement tests that Size and Write agree for every
// request shape
func TestRequestSizeAgreement(t *testing.T) {
	key := object.String("k")
	value := object.String("value")

	reqs := map[string]protocol.Writable{
		"cacheOnly":   cacheOnlyReq{cacheID: 1},
		"cacheKey":    cacheKeyReq{cacheID: 1, key: key},
		"cacheKeys":   cacheKeysReq{cacheID: 1, keys: []object.Value{key, value}},
		"cacheKeyVal": cacheKeyValReq{cacheID: 1, key: key, value: value},
		"cachePairs": cachePairsReq{cacheID: 1, pairs: []kvPair{
			{key: key, value: value},
			{key: value, value: key},
		}},
		"cacheCAS":       cacheCASReq{cacheID: 1, key: key, compare: value, value: key},
		"cacheSize":      cacheSizeReq{cacheID: 1, modes: []CachePeekMode{PeekPrimary, PeekBackup}},
		"cacheSizeEmpty": cacheSizeReq{cacheID: 1},
		"scan":           scanReq{cacheID: 1, pageSize: 100},
		"sql":            sqlReq{cacheID: 1, table: "T", sql: "SELECT * FROM T", pageSize: 10},
		"sqlFields":      sqlFieldsReq{cacheID: 1, sql: "SELECT 1", pageSize: 10},
		"cursorPage":     cursorPageReq{cursorID: 77},
		"cacheName":      cacheNameReq{name: "default"},
		"cacheID":        cacheIDReq{cacheID: 42},
		"cacheGetConfig": cacheGetConfigReq{cacheID: 42},
		"empty":          emptyReq{},
		"txStart":        txStartReq{},
		"txEnd":          txEndReq{txID: 3, commit: true},
	}

	for name, req := range reqs {
		t.Run(name, func(t *testing.T) {
			writeAndCheckSize(t, req)
		})
	}
}

// TestCachePrefixLayout tests that key-value requests start with the
// 4-byte cache id and the flag byte
func TestCachePrefixLayout(t *testing.T) {
	id := HashCode("abc")
	got := writeAndCheckSize(t, cacheKeyReq{cacheID: id, key: object.String("k")})

	if len(got) < cachePrefixSize {
		t.Fatalf("request is %d bytes, shorter than the prefix", len(got))
	}
	if gotID := int32(binary.LittleEndian.Uint32(got[:4])); gotID != id {
		t.Errorf("cache id = %d, want %d", gotID, id)
	}
	if got[4] != flagDefault {
		t.Errorf("flag byte = %d, want %d", got[4], flagDefault)
	}
}

// TestDestroyRequestLayout tests that destroy carries only the cache id
func TestDestroyRequestLayout(t *testing.T) {
	got := writeAndCheckSize(t, cacheIDReq{cacheID: 96354})
	want := []byte{0x62, 0x78, 0x01, 0x00} // 96354 little-endian
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

// TestScanRequestLayout tests the exact scan request body: prefix with
// keep-binary flag, null filter, page size, all partitions, not local
func TestScanRequestLayout(t *testing.T) {
	got := writeAndCheckSize(t, scanReq{cacheID: 7, pageSize: 100})

	var want bytes.Buffer
	_ = protocol.WriteInt32(&want, 7)
	_ = protocol.WriteUint8(&want, flagKeepBinary)
	_ = protocol.WriteNull(&want)
	_ = protocol.WriteInt32(&want, 100)
	_ = protocol.WriteInt32(&want, -1)
	_ = protocol.WriteBool(&want, false)

	if !bytes.Equal(got, want.Bytes()) {
		t.Errorf("got % x, want % x", got, want.Bytes())
	}
}

// TestTxStartRequestLayout tests the transaction start body
func TestTxStartRequestLayout(t *testing.T) {
	got := writeAndCheckSize(t, txStartReq{})

	var want bytes.Buffer
	_ = protocol.WriteUint8(&want, 0)
	_ = protocol.WriteUint8(&want, 0)
	_ = protocol.WriteInt64(&want, 10000)
	_ = protocol.WriteNull(&want)

	if !bytes.Equal(got, want.Bytes()) {
		t.Errorf("got % x, want % x", got, want.Bytes())
	}
}

// TestCacheNameRequestLayout tests that create-by-name writes a typed string
func TestCacheNameRequestLayout(t *testing.T) {
	got := writeAndCheckSize(t, cacheNameReq{name: "abc"})

	var want bytes.Buffer
	_ = protocol.WriteTypedString(&want, "abc")
	if !bytes.Equal(got, want.Bytes()) {
		t.Errorf("got % x, want % x", got, want.Bytes())
	}
}
