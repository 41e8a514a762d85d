package client

import (
	"fmt"

	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

// --------------------------------------------------------------------------
// Enumerations
// --------------------------------------------------------------------------

// AtomicityMode controls write atomicity of a cache.
type AtomicityMode int32

const (
	AtomicityTransactional AtomicityMode = 0
	AtomicityAtomic        AtomicityMode = 1
)

func atomicityModeFromWire(v int32) (AtomicityMode, error) {
	switch AtomicityMode(v) {
	case AtomicityTransactional, AtomicityAtomic:
		return AtomicityMode(v), nil
	default:
		return 0, fmt.Errorf("cannot read atomicity mode %d", v)
	}
}

// CacheMode controls data distribution of a cache.
type CacheMode int32

const (
	CacheModeLocal       CacheMode = 0
	CacheModeReplicated  CacheMode = 1
	CacheModePartitioned CacheMode = 2
)

func cacheModeFromWire(v int32) (CacheMode, error) {
	switch CacheMode(v) {
	case CacheModeLocal, CacheModeReplicated, CacheModePartitioned:
		return CacheMode(v), nil
	default:
		return 0, fmt.Errorf("cannot read cache mode %d", v)
	}
}

// PartitionLossPolicy controls behavior when partitions are lost.
type PartitionLossPolicy int32

const (
	PartitionLossReadOnlySafe  PartitionLossPolicy = 0
	PartitionLossReadOnlyAll   PartitionLossPolicy = 1
	PartitionLossReadWriteSafe PartitionLossPolicy = 2
	PartitionLossReadWriteAll  PartitionLossPolicy = 3
	PartitionLossIgnore        PartitionLossPolicy = 4
)

func partitionLossPolicyFromWire(v int32) (PartitionLossPolicy, error) {
	if v < 0 || v > 4 {
		return 0, fmt.Errorf("cannot read partition loss policy %d", v)
	}
	return PartitionLossPolicy(v), nil
}

// RebalanceMode controls how rebalancing is performed.
type RebalanceMode int32

const (
	RebalanceSync  RebalanceMode = 0
	RebalanceAsync RebalanceMode = 1
	RebalanceNone  RebalanceMode = 2
)

func rebalanceModeFromWire(v int32) (RebalanceMode, error) {
	switch RebalanceMode(v) {
	case RebalanceSync, RebalanceAsync, RebalanceNone:
		return RebalanceMode(v), nil
	default:
		return 0, fmt.Errorf("cannot read rebalance mode %d", v)
	}
}

// WriteSynchronizationMode controls when writes are acknowledged.
type WriteSynchronizationMode int32

const (
	WriteSyncFullSync    WriteSynchronizationMode = 0
	WriteSyncFullAsync   WriteSynchronizationMode = 1
	WriteSyncPrimarySync WriteSynchronizationMode = 2
)

func writeSyncModeFromWire(v int32) (WriteSynchronizationMode, error) {
	switch WriteSynchronizationMode(v) {
	case WriteSyncFullSync, WriteSyncFullAsync, WriteSyncPrimarySync:
		return WriteSynchronizationMode(v), nil
	default:
		return 0, fmt.Errorf("cannot read write synchronization mode %d", v)
	}
}

// CachePeekMode selects which partition replicas contribute to a size
// computation.
type CachePeekMode uint8

const (
	PeekAll     CachePeekMode = 0
	PeekNear    CachePeekMode = 1
	PeekPrimary CachePeekMode = 2
	PeekBackup  CachePeekMode = 3
)

// IndexType is the kind of a query index.
type IndexType uint8

const (
	IndexSorted     IndexType = 0
	IndexFulltext   IndexType = 1
	IndexGeoSpatial IndexType = 2
)

func indexTypeFromWire(v uint8) (IndexType, error) {
	if v > 2 {
		return 0, fmt.Errorf("cannot read index type %d", v)
	}
	return IndexType(v), nil
}

// --------------------------------------------------------------------------
// Configuration model
// --------------------------------------------------------------------------

// CacheConfiguration is the declarative settings of one cache. It is built
// by the caller or decoded from a get-configuration response and is
// immutable once read.
type CacheConfiguration struct {
	AtomicityMode            AtomicityMode
	Backups                  int32
	CacheMode                CacheMode
	CopyOnRead               bool
	DataRegionName           *string
	EagerTTL                 bool
	StatisticsEnabled        bool
	GroupName                *string
	DefaultLockTimeoutMs     int64
	MaxConcurrentAsyncOps    int32
	MaxQueryIterators        int32
	Name                     string
	OnheapCacheEnabled       bool
	PartitionLossPolicy      PartitionLossPolicy
	QueryDetailMetricsSize   int32
	QueryParallelism         int32
	ReadFromBackup           bool
	RebalanceBatchSize       int32
	RebalanceBatchesPrefetch int64
	RebalanceDelayMs         int64
	RebalanceMode            RebalanceMode
	RebalanceOrder           int32
	RebalanceThrottleMs      int64
	RebalanceTimeoutMs       int64
	SQLEscapeAll             bool
	SQLIndexMaxInlineSize    int32
	SQLSchema                *string
	WriteSynchronizationMode WriteSynchronizationMode
	CacheKeyConfigurations   []CacheKeyConfiguration
	QueryEntities            []QueryEntity
}

// NewCacheConfiguration returns the default configuration for a cache with
// the given name.
func NewCacheConfiguration(name string) *CacheConfiguration {
	return &CacheConfiguration{
		AtomicityMode:            AtomicityAtomic,
		Backups:                  0,
		CacheMode:                CacheModePartitioned,
		CopyOnRead:               true,
		EagerTTL:                 true,
		StatisticsEnabled:        true,
		DefaultLockTimeoutMs:     0,
		MaxConcurrentAsyncOps:    500,
		MaxQueryIterators:        1024,
		Name:                     name,
		OnheapCacheEnabled:       false,
		PartitionLossPolicy:      PartitionLossIgnore,
		QueryDetailMetricsSize:   0,
		QueryParallelism:         1,
		ReadFromBackup:           true,
		RebalanceBatchSize:       512 * 1024,
		RebalanceBatchesPrefetch: 2,
		RebalanceDelayMs:         0,
		RebalanceMode:            RebalanceAsync,
		RebalanceOrder:           0,
		RebalanceThrottleMs:      0,
		RebalanceTimeoutMs:       10000,
		SQLEscapeAll:             false,
		SQLIndexMaxInlineSize:    -1,
		WriteSynchronizationMode: WriteSyncPrimarySync,
	}
}

// CacheKeyConfiguration maps a type to its affinity key field.
type CacheKeyConfiguration struct {
	TypeName             string
	AffinityKeyFieldName string
}

// QueryEntity is the SQL-schema metadata of a cache: a table to type
// mapping with its field list and indexes.
type QueryEntity struct {
	KeyType      string
	ValueType    string
	Table        string
	KeyField     string
	ValueField   string
	QueryFields  []QueryField
	FieldAliases []FieldAlias
	QueryIndexes []QueryIndex
}

// QueryField is one column of a query entity.
type QueryField struct {
	Name              string
	TypeName          string
	IsKeyField        bool
	NotNullConstraint bool
	Precision         int32
	Scale             int32
}

// FieldAlias maps a field name to its SQL alias.
type FieldAlias struct {
	Name  string
	Alias string
}

// QueryIndex is one index of a query entity.
type QueryIndex struct {
	Name       string
	Type       IndexType
	InlineSize int32
	Fields     []IndexField
}

// IndexField is one indexed field and its sort direction.
type IndexField struct {
	Name         string
	IsDescending bool
}

// Schemas derives the key and value record schemas from the entity's field
// list: fields flagged as key fields form the key schema, the rest the value
// schema, both in declaration order.
func (e *QueryEntity) Schemas() (key, value *object.Schema, err error) {
	key = &object.Schema{TypeName: e.KeyType}
	value = &object.Schema{TypeName: e.ValueType}
	for _, f := range e.QueryFields {
		code, err := object.TypeFromJava(f.TypeName)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		field := object.Field{Name: f.Name, Type: code}
		if f.IsKeyField {
			key.Fields = append(key.Fields, field)
		} else {
			value.Fields = append(value.Fields, field)
		}
	}
	return key, value, nil
}
