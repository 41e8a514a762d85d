package client

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// writeFixedOrderConfig serializes cfg in the field order of a
// get-configuration response
func writeFixedOrderConfig(t *testing.T, w io.Writer, cfg *CacheConfiguration) {
	t.Helper()
	name := cfg.Name
	steps := []error{
		protocol.WriteInt32(w, int32(cfg.AtomicityMode)),
		protocol.WriteInt32(w, cfg.Backups),
		protocol.WriteInt32(w, int32(cfg.CacheMode)),
		protocol.WriteBool(w, cfg.CopyOnRead),
		writeNullableString(w, cfg.DataRegionName),
		protocol.WriteBool(w, cfg.EagerTTL),
		protocol.WriteBool(w, cfg.StatisticsEnabled),
		writeNullableString(w, cfg.GroupName),
		protocol.WriteInt64(w, cfg.DefaultLockTimeoutMs),
		protocol.WriteInt32(w, cfg.MaxConcurrentAsyncOps),
		protocol.WriteInt32(w, cfg.MaxQueryIterators),
		writeNullableString(w, &name),
		protocol.WriteBool(w, cfg.OnheapCacheEnabled),
		protocol.WriteInt32(w, int32(cfg.PartitionLossPolicy)),
		protocol.WriteInt32(w, cfg.QueryDetailMetricsSize),
		protocol.WriteInt32(w, cfg.QueryParallelism),
		protocol.WriteBool(w, cfg.ReadFromBackup),
		protocol.WriteInt32(w, cfg.RebalanceBatchSize),
		protocol.WriteInt64(w, cfg.RebalanceBatchesPrefetch),
		protocol.WriteInt64(w, cfg.RebalanceDelayMs),
		protocol.WriteInt32(w, int32(cfg.RebalanceMode)),
		protocol.WriteInt32(w, cfg.RebalanceOrder),
		protocol.WriteInt64(w, cfg.RebalanceThrottleMs),
		protocol.WriteInt64(w, cfg.RebalanceTimeoutMs),
		protocol.WriteBool(w, cfg.SQLEscapeAll),
		protocol.WriteInt32(w, cfg.SQLIndexMaxInlineSize),
		writeNullableString(w, cfg.SQLSchema),
		protocol.WriteInt32(w, int32(cfg.WriteSynchronizationMode)),
		writeCacheKeyConfigurations(w, cfg.CacheKeyConfigurations),
		writeQueryEntities(w, cfg.QueryEntities),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("fixture step %d: %v", i, err)
		}
	}
}

// TestReadCacheConfiguration tests the fixed-order decode against an
// encoded fixture
func TestReadCacheConfiguration(t *testing.T) {
	region := "myRegion"
	want := NewCacheConfiguration("testcache")
	want.Backups = 2
	want.DataRegionName = &region
	want.CacheKeyConfigurations = []CacheKeyConfiguration{
		{TypeName: "Person", AffinityKeyFieldName: "orgId"},
	}
	want.QueryEntities = []QueryEntity{{
		KeyType:    "java.lang.Long",
		ValueType:  "Person",
		Table:      "PERSON",
		KeyField:   "id",
		ValueField: "",
		QueryFields: []QueryField{
			{Name: "id", TypeName: "java.lang.Long", IsKeyField: true},
			{Name: "name", TypeName: "java.lang.String", NotNullConstraint: true, Precision: 64},
		},
		FieldAliases: []FieldAlias{{Name: "name", Alias: "NAME"}},
		QueryIndexes: []QueryIndex{{
			Name:       "PERSON_NAME_IDX",
			Type:       IndexSorted,
			InlineSize: -1,
			Fields:     []IndexField{{Name: "name", IsDescending: false}},
		}},
	}}

	var buf bytes.Buffer
	writeFixedOrderConfig(t, &buf, want)

	got, err := readCacheConfiguration(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes left unread", buf.Len())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("configuration mismatch (-want +got):\n%s", diff)
	}
}

// TestReadCacheConfigurationBadEnum tests that out-of-range enum values fail
func TestReadCacheConfigurationBadEnum(t *testing.T) {
	var buf bytes.Buffer
	if err := protocol.WriteInt32(&buf, 99); err != nil { // atomicity mode
		t.Fatal(err)
	}
	if _, err := readCacheConfiguration(&buf); err == nil {
		t.Error("expected error for unknown atomicity mode")
	}
}

// TestEncodeCacheConfiguration tests the property-coded blob invariants:
// leading length covers count and properties, and the count matches the
// encoded property set
func TestEncodeCacheConfiguration(t *testing.T) {
	cfg := NewCacheConfiguration("blobcache")

	blob, err := encodeCacheConfiguration(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(blob) < 6 {
		t.Fatalf("blob is only %d bytes", len(blob))
	}

	length := int32(binary.LittleEndian.Uint32(blob[:4]))
	if int(length) != len(blob)-4 {
		t.Errorf("length field = %d, want %d", length, len(blob)-4)
	}

	count := int16(binary.LittleEndian.Uint16(blob[4:6]))
	if count != 28 {
		t.Errorf("property count = %d, want 28", count)
	}

	// with key configurations and query entities two more properties appear
	cfg.CacheKeyConfigurations = []CacheKeyConfiguration{{TypeName: "T", AffinityKeyFieldName: "a"}}
	cfg.QueryEntities = []QueryEntity{{KeyType: "java.lang.Long", ValueType: "T", Table: "T"}}
	blob, err = encodeCacheConfiguration(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	count = int16(binary.LittleEndian.Uint16(blob[4:6]))
	if count != 30 {
		t.Errorf("property count = %d, want 30", count)
	}
}

// TestQueryEntitySchemas tests key/value schema derivation from an entity
func TestQueryEntitySchemas(t *testing.T) {
	e := QueryEntity{
		KeyType:   "java.lang.Long",
		ValueType: "Person",
		QueryFields: []QueryField{
			{Name: "id", TypeName: "java.lang.Long", IsKeyField: true},
			{Name: "name", TypeName: "java.lang.String"},
			{Name: "age", TypeName: "java.lang.Integer"},
		},
	}

	keySchema, valueSchema, err := e.Schemas()
	if err != nil {
		t.Fatalf("schemas: %v", err)
	}

	if len(keySchema.Fields) != 1 || keySchema.Fields[0].Name != "id" {
		t.Errorf("key schema = %+v", keySchema)
	}
	if len(valueSchema.Fields) != 2 {
		t.Fatalf("value schema = %+v", valueSchema)
	}
	if valueSchema.Fields[0].Name != "name" || valueSchema.Fields[1].Name != "age" {
		t.Errorf("value field order = %+v", valueSchema.Fields)
	}
	if valueSchema.Fields[0].Type != protocol.TypeString || valueSchema.Fields[1].Type != protocol.TypeInt {
		t.Errorf("value field types = %+v", valueSchema.Fields)
	}

	// unsupported field types surface as errors
	e.QueryFields = append(e.QueryFields, QueryField{Name: "blob", TypeName: "java.util.UUID"})
	if _, _, err := e.Schemas(); err == nil {
		t.Error("expected error for unsupported field type")
	}
}
