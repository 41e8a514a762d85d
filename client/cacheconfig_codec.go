package client

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spaceandtimelabs/ignite-go/protocol"
)

// Property codes used by the create-with-configuration request body.
const (
	propName                     int16 = 0
	propCacheMode                int16 = 1
	propAtomicityMode            int16 = 2
	propBackups                  int16 = 3
	propWriteSynchronizationMode int16 = 4
	propCopyOnRead               int16 = 5
	propReadFromBackup           int16 = 6
	propDataRegionName           int16 = 100
	propOnheapCacheEnabled       int16 = 101
	propQueryEntities            int16 = 200
	propQueryParallelism         int16 = 201
	propQueryDetailMetricsSize   int16 = 202
	propSQLSchema                int16 = 203
	propSQLIndexMaxInlineSize    int16 = 204
	propSQLEscapeAll             int16 = 205
	propMaxQueryIterators        int16 = 206
	propRebalanceMode            int16 = 300
	propRebalanceDelay           int16 = 301
	propRebalanceTimeout         int16 = 302
	propRebalanceBatchSize       int16 = 303
	propRebalanceBatchesPrefetch int16 = 304
	propRebalanceOrder           int16 = 305
	propRebalanceThrottle        int16 = 306
	propGroupName                int16 = 400
	propCacheKeyConfiguration    int16 = 401
	propDefaultLockTimeout       int16 = 402
	propMaxConcurrentAsyncOps    int16 = 403
	propPartitionLossPolicy      int16 = 404
	propEagerTTL                 int16 = 405
	propStatisticsEnabled        int16 = 406
)

// --------------------------------------------------------------------------
// Encoding (create/get-or-create with configuration)
// --------------------------------------------------------------------------

// encodeCacheConfiguration serializes cfg as the property-coded blob: a
// 4-byte length of everything that follows, a 2-byte property count, then
// one coded property per configuration field.
func encodeCacheConfiguration(cfg *CacheConfiguration) ([]byte, error) {
	var body bytes.Buffer
	count := int16(0)

	writeProp := func(code int16, write func(io.Writer) error) error {
		if err := protocol.WriteInt16(&body, code); err != nil {
			return err
		}
		if err := write(&body); err != nil {
			return err
		}
		count++
		return nil
	}
	writeI32 := func(code int16, v int32) error {
		return writeProp(code, func(w io.Writer) error { return protocol.WriteInt32(w, v) })
	}
	writeI64 := func(code int16, v int64) error {
		return writeProp(code, func(w io.Writer) error { return protocol.WriteInt64(w, v) })
	}
	writeBool := func(code int16, v bool) error {
		return writeProp(code, func(w io.Writer) error { return protocol.WriteBool(w, v) })
	}
	writeStr := func(code int16, v *string) error {
		return writeProp(code, func(w io.Writer) error { return writeNullableString(w, v) })
	}

	name := cfg.Name
	steps := []func() error{
		func() error { return writeStr(propName, &name) },
		func() error { return writeI32(propCacheMode, int32(cfg.CacheMode)) },
		func() error { return writeI32(propAtomicityMode, int32(cfg.AtomicityMode)) },
		func() error { return writeI32(propBackups, cfg.Backups) },
		func() error {
			return writeI32(propWriteSynchronizationMode, int32(cfg.WriteSynchronizationMode))
		},
		func() error { return writeBool(propCopyOnRead, cfg.CopyOnRead) },
		func() error { return writeBool(propReadFromBackup, cfg.ReadFromBackup) },
		func() error { return writeStr(propDataRegionName, cfg.DataRegionName) },
		func() error { return writeBool(propOnheapCacheEnabled, cfg.OnheapCacheEnabled) },
		func() error { return writeI32(propQueryParallelism, cfg.QueryParallelism) },
		func() error { return writeI32(propQueryDetailMetricsSize, cfg.QueryDetailMetricsSize) },
		func() error { return writeStr(propSQLSchema, cfg.SQLSchema) },
		func() error { return writeI32(propSQLIndexMaxInlineSize, cfg.SQLIndexMaxInlineSize) },
		func() error { return writeBool(propSQLEscapeAll, cfg.SQLEscapeAll) },
		func() error { return writeI32(propMaxQueryIterators, cfg.MaxQueryIterators) },
		func() error { return writeI32(propRebalanceMode, int32(cfg.RebalanceMode)) },
		func() error { return writeI64(propRebalanceDelay, cfg.RebalanceDelayMs) },
		func() error { return writeI64(propRebalanceTimeout, cfg.RebalanceTimeoutMs) },
		func() error { return writeI32(propRebalanceBatchSize, cfg.RebalanceBatchSize) },
		func() error { return writeI64(propRebalanceBatchesPrefetch, cfg.RebalanceBatchesPrefetch) },
		func() error { return writeI32(propRebalanceOrder, cfg.RebalanceOrder) },
		func() error { return writeI64(propRebalanceThrottle, cfg.RebalanceThrottleMs) },
		func() error { return writeStr(propGroupName, cfg.GroupName) },
		func() error { return writeI64(propDefaultLockTimeout, cfg.DefaultLockTimeoutMs) },
		func() error { return writeI32(propMaxConcurrentAsyncOps, cfg.MaxConcurrentAsyncOps) },
		func() error { return writeI32(propPartitionLossPolicy, int32(cfg.PartitionLossPolicy)) },
		func() error { return writeBool(propEagerTTL, cfg.EagerTTL) },
		func() error { return writeBool(propStatisticsEnabled, cfg.StatisticsEnabled) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if len(cfg.CacheKeyConfigurations) > 0 {
		err := writeProp(propCacheKeyConfiguration, func(w io.Writer) error {
			return writeCacheKeyConfigurations(w, cfg.CacheKeyConfigurations)
		})
		if err != nil {
			return nil, err
		}
	}
	if len(cfg.QueryEntities) > 0 {
		err := writeProp(propQueryEntities, func(w io.Writer) error {
			return writeQueryEntities(w, cfg.QueryEntities)
		})
		if err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	out.Grow(4 + 2 + body.Len())
	if err := protocol.WriteInt32(&out, int32(2+body.Len())); err != nil {
		return nil, err
	}
	if err := protocol.WriteInt16(&out, count); err != nil {
		return nil, err
	}
	if _, err := out.Write(body.Bytes()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeNullableString(w io.Writer, s *string) error {
	if s == nil {
		return protocol.WriteNull(w)
	}
	return protocol.WriteTypedString(w, *s)
}

func writeCacheKeyConfigurations(w io.Writer, kcs []CacheKeyConfiguration) error {
	if err := protocol.WriteInt32(w, int32(len(kcs))); err != nil {
		return err
	}
	for _, kc := range kcs {
		if err := protocol.WriteTypedString(w, kc.TypeName); err != nil {
			return err
		}
		if err := protocol.WriteTypedString(w, kc.AffinityKeyFieldName); err != nil {
			return err
		}
	}
	return nil
}

func writeQueryEntities(w io.Writer, entities []QueryEntity) error {
	if err := protocol.WriteInt32(w, int32(len(entities))); err != nil {
		return err
	}
	for _, e := range entities {
		for _, s := range []string{e.KeyType, e.ValueType, e.Table, e.KeyField, e.ValueField} {
			if err := protocol.WriteTypedString(w, s); err != nil {
				return err
			}
		}
		if err := protocol.WriteInt32(w, int32(len(e.QueryFields))); err != nil {
			return err
		}
		for _, f := range e.QueryFields {
			if err := protocol.WriteTypedString(w, f.Name); err != nil {
				return err
			}
			if err := protocol.WriteTypedString(w, f.TypeName); err != nil {
				return err
			}
			if err := protocol.WriteBool(w, f.IsKeyField); err != nil {
				return err
			}
			if err := protocol.WriteBool(w, f.NotNullConstraint); err != nil {
				return err
			}
			if err := protocol.WriteInt32(w, f.Precision); err != nil {
				return err
			}
			if err := protocol.WriteInt32(w, f.Scale); err != nil {
				return err
			}
		}
		if err := protocol.WriteInt32(w, int32(len(e.FieldAliases))); err != nil {
			return err
		}
		for _, a := range e.FieldAliases {
			if err := protocol.WriteTypedString(w, a.Name); err != nil {
				return err
			}
			if err := protocol.WriteTypedString(w, a.Alias); err != nil {
				return err
			}
		}
		if err := protocol.WriteInt32(w, int32(len(e.QueryIndexes))); err != nil {
			return err
		}
		for _, idx := range e.QueryIndexes {
			if err := protocol.WriteTypedString(w, idx.Name); err != nil {
				return err
			}
			if err := protocol.WriteUint8(w, uint8(idx.Type)); err != nil {
				return err
			}
			if err := protocol.WriteInt32(w, idx.InlineSize); err != nil {
				return err
			}
			if err := protocol.WriteInt32(w, int32(len(idx.Fields))); err != nil {
				return err
			}
			for _, fld := range idx.Fields {
				if err := protocol.WriteTypedString(w, fld.Name); err != nil {
					return err
				}
				if err := protocol.WriteBool(w, fld.IsDescending); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Decoding (get-configuration response)
// --------------------------------------------------------------------------

// readCacheConfiguration decodes the fixed-order configuration blob of a
// get-configuration response. The leading length field must already have
// been consumed.
func readCacheConfiguration(r io.Reader) (*CacheConfiguration, error) {
	cfg := &CacheConfiguration{}

	var err error
	readEnum := func(parse func(int32) error) {
		if err != nil {
			return
		}
		var v int32
		if v, err = protocol.ReadInt32(r); err == nil {
			err = parse(v)
		}
	}
	readI32 := func(dst *int32) {
		if err == nil {
			*dst, err = protocol.ReadInt32(r)
		}
	}
	readI64 := func(dst *int64) {
		if err == nil {
			*dst, err = protocol.ReadInt64(r)
		}
	}
	readBool := func(dst *bool) {
		if err == nil {
			*dst, err = protocol.ReadBool(r)
		}
	}
	readStr := func(dst **string) {
		if err == nil {
			*dst, err = protocol.ReadTypedString(r)
		}
	}

	readEnum(func(v int32) error { var e error; cfg.AtomicityMode, e = atomicityModeFromWire(v); return e })
	readI32(&cfg.Backups)
	readEnum(func(v int32) error { var e error; cfg.CacheMode, e = cacheModeFromWire(v); return e })
	readBool(&cfg.CopyOnRead)
	readStr(&cfg.DataRegionName)
	readBool(&cfg.EagerTTL)
	readBool(&cfg.StatisticsEnabled)
	readStr(&cfg.GroupName)
	readI64(&cfg.DefaultLockTimeoutMs)
	readI32(&cfg.MaxConcurrentAsyncOps)
	readI32(&cfg.MaxQueryIterators)

	if err == nil {
		var name *string
		if name, err = protocol.ReadTypedString(r); err == nil {
			if name == nil {
				err = fmt.Errorf("cache configuration has no name")
			} else {
				cfg.Name = *name
			}
		}
	}

	readBool(&cfg.OnheapCacheEnabled)
	readEnum(func(v int32) error {
		var e error
		cfg.PartitionLossPolicy, e = partitionLossPolicyFromWire(v)
		return e
	})
	readI32(&cfg.QueryDetailMetricsSize)
	readI32(&cfg.QueryParallelism)
	readBool(&cfg.ReadFromBackup)
	readI32(&cfg.RebalanceBatchSize)
	readI64(&cfg.RebalanceBatchesPrefetch)
	readI64(&cfg.RebalanceDelayMs)
	readEnum(func(v int32) error { var e error; cfg.RebalanceMode, e = rebalanceModeFromWire(v); return e })
	readI32(&cfg.RebalanceOrder)
	readI64(&cfg.RebalanceThrottleMs)
	readI64(&cfg.RebalanceTimeoutMs)
	readBool(&cfg.SQLEscapeAll)
	readI32(&cfg.SQLIndexMaxInlineSize)
	readStr(&cfg.SQLSchema)
	readEnum(func(v int32) error {
		var e error
		cfg.WriteSynchronizationMode, e = writeSyncModeFromWire(v)
		return e
	})
	if err != nil {
		return nil, err
	}

	if cfg.CacheKeyConfigurations, err = readCacheKeyConfigurations(r); err != nil {
		return nil, err
	}
	if cfg.QueryEntities, err = readQueryEntities(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readStringOrEmpty reads a typed string, mapping the null marker to "".
func readStringOrEmpty(r io.Reader) (string, error) {
	s, err := protocol.ReadTypedString(r)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

func readCacheKeyConfigurations(r io.Reader) ([]CacheKeyConfiguration, error) {
	count, err := protocol.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("negative cache key configuration count %d", count)
	}
	kcs := make([]CacheKeyConfiguration, 0, count)
	for i := int32(0); i < count; i++ {
		var kc CacheKeyConfiguration
		if kc.TypeName, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		if kc.AffinityKeyFieldName, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		kcs = append(kcs, kc)
	}
	return kcs, nil
}

func readQueryEntities(r io.Reader) ([]QueryEntity, error) {
	count, err := protocol.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("negative query entity count %d", count)
	}
	entities := make([]QueryEntity, 0, count)
	for i := int32(0); i < count; i++ {
		e, err := readQueryEntity(r)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	return entities, nil
}

func readQueryEntity(r io.Reader) (*QueryEntity, error) {
	var e QueryEntity
	var err error
	if e.KeyType, err = readStringOrEmpty(r); err != nil {
		return nil, err
	}
	if e.ValueType, err = readStringOrEmpty(r); err != nil {
		return nil, err
	}
	if e.Table, err = readStringOrEmpty(r); err != nil {
		return nil, err
	}
	if e.KeyField, err = readStringOrEmpty(r); err != nil {
		return nil, err
	}
	if e.ValueField, err = readStringOrEmpty(r); err != nil {
		return nil, err
	}

	fieldCount, err := protocol.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < fieldCount; i++ {
		var f QueryField
		if f.Name, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		if f.TypeName, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		if f.IsKeyField, err = protocol.ReadBool(r); err != nil {
			return nil, err
		}
		if f.NotNullConstraint, err = protocol.ReadBool(r); err != nil {
			return nil, err
		}
		if f.Precision, err = protocol.ReadInt32(r); err != nil {
			return nil, err
		}
		if f.Scale, err = protocol.ReadInt32(r); err != nil {
			return nil, err
		}
		e.QueryFields = append(e.QueryFields, f)
	}

	aliasCount, err := protocol.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < aliasCount; i++ {
		var a FieldAlias
		if a.Name, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		if a.Alias, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		e.FieldAliases = append(e.FieldAliases, a)
	}

	indexCount, err := protocol.ReadInt32(r)
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < indexCount; i++ {
		var idx QueryIndex
		if idx.Name, err = readStringOrEmpty(r); err != nil {
			return nil, err
		}
		rawType, err := protocol.ReadUint8(r)
		if err != nil {
			return nil, err
		}
		if idx.Type, err = indexTypeFromWire(rawType); err != nil {
			return nil, err
		}
		if idx.InlineSize, err = protocol.ReadInt32(r); err != nil {
			return nil, err
		}
		idxFieldCount, err := protocol.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		for j := int32(0); j < idxFieldCount; j++ {
			var fld IndexField
			if fld.Name, err = readStringOrEmpty(r); err != nil {
				return nil, err
			}
			if fld.IsDescending, err = protocol.ReadBool(r); err != nil {
				return nil, err
			}
			idx.Fields = append(idx.Fields, fld)
		}
		e.QueryIndexes = append(e.QueryIndexes, idx)
	}
	return &e, nil
}
