package schema

// TypeTag is the Thrift type enumeration as it appears on the wire, plus
// one synthetic value (Boolean) that never appears on the wire and exists
// only so a schema field can declare "this is a bool" independent of
// which of the two wire bool tags (True/False) a given value will use.
type TypeTag int

const (
	Stop TypeTag = iota
	True
	False
	Byte
	I16
	I32
	I64
	Double
	Binary
	List
	Set
	Map
	Struct
	Float

	// Boolean is synthetic: it is the schema-level tag for a bool field.
	// It never appears on the wire -- readers and writers translate it
	// to/from True/False at the point of use.
	Boolean
)

// String returns a short, lowercase name for t, used in error messages and
// the pretty-printer.
func (t TypeTag) String() string {
	switch t {
	case Stop:
		return "stop"
	case True:
		return "true"
	case False:
		return "false"
	case Byte:
		return "byte"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case Double:
		return "double"
	case Binary:
		return "binary"
	case List:
		return "list"
	case Set:
		return "set"
	case Map:
		return "map"
	case Struct:
		return "struct"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// BinaryKind distinguishes whether a Binary schema node decodes to a UTF-8
// string or a raw byte slice. On the wire the two are identical.
type BinaryKind int

const (
	StringKind BinaryKind = iota
	BytesKind
)
