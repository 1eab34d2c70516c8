package wire

import "github.com/benjamin-larsen/thriftcompact/schema"

// TypeTag is re-exported from schema so callers of this package never need
// to import schema just to name a wire type tag.
type TypeTag = schema.TypeTag

const (
	Stop    = schema.Stop
	True    = schema.True
	False   = schema.False
	Byte    = schema.Byte
	I16     = schema.I16
	I32     = schema.I32
	I64     = schema.I64
	Double  = schema.Double
	Binary  = schema.Binary
	List    = schema.List
	Set     = schema.Set
	Map     = schema.Map
	Struct  = schema.Struct
	Float   = schema.Float
	Boolean = schema.Boolean
)
