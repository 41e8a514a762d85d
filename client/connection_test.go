package client

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/spaceandtimelabs/ignite-go/protocol"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

// fakeHandler produces the response for one request: a status code and
// the payload following it
type fakeHandler func(op protocol.OpCode, body []byte) (int32, []byte)

// serveFake runs the server side of the protocol on conn: it accepts the
// handshake and then answers every request frame via handler
func serveFake(conn net.Conn, handler fakeHandler) {
	go func() {
		defer conn.Close()
		r := bufio.NewReader(conn)
		w := bufio.NewWriter(conn)

		// handshake
		n, err := protocol.ReadInt32(r)
		if err != nil {
			return
		}
		if _, err := io.ReadFull(r, make([]byte, n)); err != nil {
			return
		}
		_ = protocol.WriteInt32(w, 1)
		_ = protocol.WriteUint8(w, handshakeAccepted)
		if err := w.Flush(); err != nil {
			return
		}

		// request loop
		for {
			n, err := protocol.ReadInt32(r)
			if err != nil {
				return
			}
			frame := make([]byte, n)
			if _, err := io.ReadFull(r, frame); err != nil {
				return
			}
			op := protocol.OpCode(int16(binary.LittleEndian.Uint16(frame[:2])))

			status, payload := handler(op, frame[protocol.ReqHeaderSize:])
			_ = protocol.WriteInt32(w, int32(respHeaderTail+len(payload)))
			_ = protocol.WriteInt64(w, 0)
			_ = protocol.WriteInt32(w, status)
			_, _ = w.Write(payload)
			if err := w.Flush(); err != nil {
				return
			}
		}
	}()
}

// newTestClient wires a Client to an in-memory fake server
func newTestClient(t *testing.T, handler fakeHandler) *Client {
	t.Helper()
	clientEnd, serverEnd := net.Pipe()
	serveFake(serverEnd, handler)

	cfg := &ClientConfig{Addr: "pipe"}
	session := newConnection(clientEnd, cfg)
	if err := performHandshake(session.rw, "", ""); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	c := &Client{
		conn:    session,
		session: session,
		cfg:     cfg,
		configs: xsync.NewMapOf[string, *CacheConfiguration](),
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func successPayload(vs ...object.Value) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		_ = object.WriteValue(&buf, v)
	}
	return buf.Bytes()
}

// TestHandshakeRejected tests that a rejection is fatal and carries the
// server's version and message
func TestHandshakeRejected(t *testing.T) {
	clientEnd, serverEnd := net.Pipe()
	defer clientEnd.Close()

	go func() {
		defer serverEnd.Close()
		r := bufio.NewReader(serverEnd)
		w := bufio.NewWriter(serverEnd)
		n, err := protocol.ReadInt32(r)
		if err != nil {
			return
		}
		if _, err := io.ReadFull(r, make([]byte, n)); err != nil {
			return
		}
		_ = protocol.WriteInt32(w, 0)
		_ = protocol.WriteUint8(w, 0) // rejected
		_ = protocol.WriteInt16(w, 1)
		_ = protocol.WriteInt16(w, 0)
		_ = protocol.WriteInt16(w, 0)
		_ = protocol.WriteTypedString(w, "unsupported version")
		_ = w.Flush()
	}()

	session := newConnection(clientEnd, &ClientConfig{Addr: "pipe"})
	err := performHandshake(session.rw, "", "")
	if err == nil {
		t.Fatal("expected handshake rejection")
	}
	if want := "unsupported version"; !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Errorf("error %q does not mention %q", err, want)
	}
}

// TestPutGet tests a put followed by a get returning the stored value
func TestPutGet(t *testing.T) {
	stored := map[string]string{}
	var mu sync.Mutex

	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		mu.Lock()
		defer mu.Unlock()
		r := bytes.NewReader(body[cachePrefixSize:])
		switch op {
		case protocol.OpCachePut:
			key, _ := object.Read(r)
			value, _ := object.Read(r)
			stored[string(key.(object.String))] = string(value.(object.String))
			return 0, nil
		case protocol.OpCacheGet:
			key, _ := object.Read(r)
			if v, ok := stored[string(key.(object.String))]; ok {
				var buf bytes.Buffer
				_ = object.WriteValue(&buf, object.String(v))
				return 0, buf.Bytes()
			}
			return 0, []byte{byte(protocol.TypeNull)}
		}
		return 0, nil
	})

	cache := GetCache[object.String, object.String](c, "testcache")

	if err := cache.Put("k1", "v1"); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := cache.Get("k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || got != "v1" {
		t.Errorf("got %q (found=%v), want v1", got, found)
	}

	_, found, err = cache.Get("missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

// TestServerErrorKeepsConnection tests that a status error surfaces as a
// ServerError and leaves the connection usable
func TestServerErrorKeepsConnection(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		calls++
		if calls == 1 {
			var buf bytes.Buffer
			_ = protocol.WriteTypedString(&buf, "cache does not exist")
			return 1, buf.Bytes()
		}
		return 0, successPayload(object.Bool(true))
	})

	cache := GetCache[object.String, object.String](c, "nope")

	_, err := cache.ContainsKey("k")
	if !IsServerError(err) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	var serr *ServerError
	if !errors.As(err, &serr) || serr.Status != 1 || serr.Message != "cache does not exist" {
		t.Errorf("unexpected server error: %+v", serr)
	}

	// connection still usable
	ok, err := cache.ContainsKey("k")
	if err != nil {
		t.Fatalf("second request after server error: %v", err)
	}
	if !ok {
		t.Error("second request returned false")
	}
}

// TestPoisonedConnection tests that an I/O failure mid-response makes every
// further operation fail fast
func TestPoisonedConnection(t *testing.T) {
	clientEnd, serverEnd := net.Pipe()

	go func() {
		r := bufio.NewReader(serverEnd)
		w := bufio.NewWriter(serverEnd)
		n, _ := protocol.ReadInt32(r)
		_, _ = io.ReadFull(r, make([]byte, n))
		_ = protocol.WriteInt32(w, 1)
		_ = protocol.WriteUint8(w, handshakeAccepted)
		_ = w.Flush()

		// read one request, then drop the connection mid-response
		n, _ = protocol.ReadInt32(r)
		_, _ = io.ReadFull(r, make([]byte, n))
		_ = protocol.WriteInt32(w, 100)
		_ = w.Flush()
		_ = serverEnd.Close()
	}()

	cfg := &ClientConfig{Addr: "pipe"}
	session := newConnection(clientEnd, cfg)
	if err := performHandshake(session.rw, "", ""); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	err := session.Send(protocol.OpCacheClear, cacheOnlyReq{cacheID: 1})
	if err == nil {
		t.Fatal("expected error from dropped connection")
	}
	if errors.Is(err, ErrConnectionPoisoned) {
		t.Fatal("first failure should carry the I/O error, not the poisoned marker")
	}

	err = session.Send(protocol.OpCacheClear, cacheOnlyReq{cacheID: 1})
	if !errors.Is(err, ErrConnectionPoisoned) {
		t.Errorf("expected ErrConnectionPoisoned, got %v", err)
	}
}

// TestResponseOrdering tests that concurrent operations stay matched to
// their responses through the serialized round trips
func TestResponseOrdering(t *testing.T) {
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		// echo the key back as the value
		r := bytes.NewReader(body[cachePrefixSize:])
		key, _ := object.Read(r)
		var buf bytes.Buffer
		_ = object.WriteValue(&buf, key)
		return 0, buf.Bytes()
	})

	cache := GetCache[object.String, object.String](c, "echo")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := object.String(fmt.Sprintf("key-%d", i))
			for j := 0; j < 10; j++ {
				got, found, err := cache.Get(key)
				if err != nil {
					t.Errorf("get %s: %v", key, err)
					return
				}
				if !found || got != key {
					t.Errorf("get %s returned %q (found=%v)", key, got, found)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

// TestReplaceIfEquals tests the compare-and-swap body: key, compare
// value and new value in order, answered by a bool
func TestReplaceIfEquals(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		if op != protocol.OpCacheReplaceIfEquals {
			return 1, nil
		}
		r := bytes.NewReader(body[cachePrefixSize:])
		for i := 0; i < 3; i++ {
			v, err := object.Read(r)
			if err != nil {
				return 1, nil
			}
			seen = append(seen, string(v.(object.String)))
		}
		return 0, successPayload(object.Bool(true))
	})

	cache := GetCache[object.String, object.String](c, "cas")

	ok, err := cache.ReplaceIfEquals("k", "old", "new")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !ok {
		t.Error("replace reported false")
	}
	want := []string{"k", "old", "new"}
	if len(seen) != 3 || seen[0] != want[0] || seen[1] != want[1] || seen[2] != want[2] {
		t.Errorf("request carried %v, want %v", seen, want)
	}
}

// TestScanPagination tests that a scan follows the more-flag across
// cursor pages
func TestScanPagination(t *testing.T) {
	pagePayload := func(more bool, withCursor bool, pairs ...string) []byte {
		var buf bytes.Buffer
		if withCursor {
			_ = protocol.WriteInt64(&buf, 42)
		}
		_ = protocol.WriteInt32(&buf, int32(len(pairs)))
		for _, p := range pairs {
			_ = object.WriteValue(&buf, object.String(p))
			_ = object.WriteValue(&buf, object.String(p+"-value"))
		}
		_ = protocol.WriteBool(&buf, more)
		return buf.Bytes()
	}

	var pageReqs []int64
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		switch op {
		case protocol.OpQueryScan:
			return 0, pagePayload(true, true, "a", "b")
		case protocol.OpQueryScanCursorPage:
			cursorID := int64(binary.LittleEndian.Uint64(body[:8]))
			pageReqs = append(pageReqs, cursorID)
			return 0, pagePayload(false, false, "c")
		}
		return 1, nil
	})

	cache := GetCache[object.String, object.String](c, "scan")

	pairs, err := cache.QueryScan(2)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if string(pairs[i].Key) != want || string(pairs[i].Value) != want+"-value" {
			t.Errorf("pair %d = %s/%s", i, pairs[i].Key, pairs[i].Value)
		}
	}
	if len(pageReqs) != 1 || pageReqs[0] != 42 {
		t.Errorf("cursor page requests = %v, want one request for cursor 42", pageReqs)
	}
}

// TestScanEarlyStop tests that the streaming callback can stop before all
// pages are fetched
func TestScanEarlyStop(t *testing.T) {
	pageFetches := 0
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		var buf bytes.Buffer
		switch op {
		case protocol.OpQueryScan:
			_ = protocol.WriteInt64(&buf, 1)
			_ = protocol.WriteInt32(&buf, 1)
			_ = object.WriteValue(&buf, object.String("a"))
			_ = object.WriteValue(&buf, object.String("b"))
			_ = protocol.WriteBool(&buf, true)
		case protocol.OpQueryScanCursorPage:
			pageFetches++
			_ = protocol.WriteInt32(&buf, 0)
			_ = protocol.WriteBool(&buf, false)
		}
		return 0, buf.Bytes()
	})

	cache := GetCache[object.String, object.String](c, "scan")

	err := cache.QueryScanFunc(1, func(p Pair[object.String, object.String]) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if pageFetches != 0 {
		t.Errorf("%d cursor pages fetched after early stop, want 0", pageFetches)
	}
}

// TestTransactionLifecycle tests start/commit and that a completed
// transaction cannot end twice
func TestTransactionLifecycle(t *testing.T) {
	var ended []bool
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		switch op {
		case protocol.OpTxStart:
			var buf bytes.Buffer
			_ = protocol.WriteInt32(&buf, 7)
			return 0, buf.Bytes()
		case protocol.OpTxEnd:
			ended = append(ended, body[4] == 1)
			return 0, nil
		}
		return 1, nil
	})

	tx, err := c.StartTransaction()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if tx.id != 7 {
		t.Errorf("transaction id = %d, want 7", tx.id)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := tx.Commit(); err == nil {
		t.Error("expected error on double commit")
	}
	if len(ended) != 1 || !ended[0] {
		t.Errorf("end requests = %v, want one commit", ended)
	}
}

// TestCacheNames tests name list decoding
func TestCacheNames(t *testing.T) {
	c := newTestClient(t, func(op protocol.OpCode, body []byte) (int32, []byte) {
		var buf bytes.Buffer
		_ = protocol.WriteInt32(&buf, 2)
		_ = protocol.WriteTypedString(&buf, "alpha")
		_ = protocol.WriteTypedString(&buf, "beta")
		return 0, buf.Bytes()
	})

	names, err := c.CacheNames()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	want := []string{"alpha", "beta"}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("got %v, want %v", names, want)
	}
}
