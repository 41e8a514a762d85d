package protocol

// TypeCode is the one-byte discriminator preceding every encoded value.
type TypeCode uint8

// Wire type codes. The numeric values are dictated by the thin client
// protocol and must match it bit for bit.
const (
	TypeByte    TypeCode = 1
	TypeShort   TypeCode = 2
	TypeInt     TypeCode = 3
	TypeLong    TypeCode = 4
	TypeFloat   TypeCode = 5
	TypeDouble  TypeCode = 6
	TypeChar    TypeCode = 7
	TypeBool    TypeCode = 8
	TypeString  TypeCode = 9
	TypeNull    TypeCode = 101
	TypeComplex TypeCode = 103
)

// OpCode identifies one request/response operation.
type OpCode int16

const (
	OpCacheGet               OpCode = 1000
	OpCachePut               OpCode = 1001
	OpCachePutIfAbsent       OpCode = 1002
	OpCacheGetAll            OpCode = 1003
	OpCachePutAll            OpCode = 1004
	OpCacheGetAndPut         OpCode = 1005
	OpCacheGetAndReplace     OpCode = 1006
	OpCacheGetAndRemove      OpCode = 1007
	OpCacheGetAndPutIfAbsent OpCode = 1008
	OpCacheReplace           OpCode = 1009
	OpCacheReplaceIfEquals   OpCode = 1010
	OpCacheContainsKey       OpCode = 1011
	OpCacheContainsKeys      OpCode = 1012
	OpCacheClear             OpCode = 1013
	OpCacheClearKey          OpCode = 1014
	OpCacheClearKeys         OpCode = 1015
	OpCacheRemoveKey         OpCode = 1016
	OpCacheRemoveIfEquals    OpCode = 1017
	OpCacheRemoveKeys        OpCode = 1018
	OpCacheRemoveAll         OpCode = 1019
	OpCacheGetSize           OpCode = 1020

	OpCacheGetNames            OpCode = 1050
	OpCacheCreateWithName      OpCode = 1051
	OpCacheGetOrCreateWithName OpCode = 1052
	OpCacheCreateWithConfig    OpCode = 1053
	OpCacheGetOrCreateWithCfg  OpCode = 1054
	OpCacheGetConfiguration    OpCode = 1055
	OpCacheDestroy             OpCode = 1056

	OpQueryScan              OpCode = 2000
	OpQueryScanCursorPage    OpCode = 2001
	OpQuerySQL               OpCode = 2002
	OpQuerySQLCursorPage     OpCode = 2003
	OpQuerySQLFields         OpCode = 2004
	OpQuerySQLFieldsCursPage OpCode = 2005

	OpTxStart OpCode = 4000
	OpTxEnd   OpCode = 4001
)

// String returns a stable name for metrics labels and log lines.
func (op OpCode) String() string {
	switch op {
	case OpCacheGet:
		return "cache.get"
	case OpCachePut:
		return "cache.put"
	case OpCachePutIfAbsent:
		return "cache.putIfAbsent"
	case OpCacheGetAll:
		return "cache.getAll"
	case OpCachePutAll:
		return "cache.putAll"
	case OpCacheGetAndPut:
		return "cache.getAndPut"
	case OpCacheGetAndReplace:
		return "cache.getAndReplace"
	case OpCacheGetAndRemove:
		return "cache.getAndRemove"
	case OpCacheGetAndPutIfAbsent:
		return "cache.getAndPutIfAbsent"
	case OpCacheReplace:
		return "cache.replace"
	case OpCacheReplaceIfEquals:
		return "cache.replaceIfEquals"
	case OpCacheContainsKey:
		return "cache.containsKey"
	case OpCacheContainsKeys:
		return "cache.containsKeys"
	case OpCacheClear:
		return "cache.clear"
	case OpCacheClearKey:
		return "cache.clearKey"
	case OpCacheClearKeys:
		return "cache.clearKeys"
	case OpCacheRemoveKey:
		return "cache.removeKey"
	case OpCacheRemoveIfEquals:
		return "cache.removeIfEquals"
	case OpCacheRemoveKeys:
		return "cache.removeKeys"
	case OpCacheRemoveAll:
		return "cache.removeAll"
	case OpCacheGetSize:
		return "cache.getSize"
	case OpCacheGetNames:
		return "cache.getNames"
	case OpCacheCreateWithName:
		return "cache.createWithName"
	case OpCacheGetOrCreateWithName:
		return "cache.getOrCreateWithName"
	case OpCacheCreateWithConfig:
		return "cache.createWithConfig"
	case OpCacheGetOrCreateWithCfg:
		return "cache.getOrCreateWithConfig"
	case OpCacheGetConfiguration:
		return "cache.getConfiguration"
	case OpCacheDestroy:
		return "cache.destroy"
	case OpQueryScan:
		return "query.scan"
	case OpQueryScanCursorPage:
		return "query.scanCursorPage"
	case OpQuerySQL:
		return "query.sql"
	case OpQuerySQLCursorPage:
		return "query.sqlCursorPage"
	case OpQuerySQLFields:
		return "query.sqlFields"
	case OpQuerySQLFieldsCursPage:
		return "query.sqlFieldsCursorPage"
	case OpTxStart:
		return "tx.start"
	case OpTxEnd:
		return "tx.end"
	default:
		return "unknown"
	}
}

// Request header layout: i32 total length | i16 op code | i64 request id.
// The length field counts the 10 header bytes that follow it plus the payload.
const ReqHeaderSize = 10

// StatusSuccess is the response status code for a successful operation.
const StatusSuccess int32 = 0
