package schema

import "fmt"

// Node is a schema node: a closed tagged union of Thrift type descriptors.
// Node values are immutable once constructed and may be shared freely,
// including across goroutines. The concrete variants are exported so that
// the wire package can switch on them directly; construct nodes through
// the factory functions below rather than building variants by hand.
type Node interface {
	// Tag returns the Thrift type this node becomes on the wire.
	Tag() TypeTag

	// isNode seals the Node interface to the variants declared in this
	// package.
	isNode()
}

// BoolNode is the schema node for a boolean field.
type BoolNode struct{}

func (BoolNode) Tag() TypeTag { return Boolean }
func (BoolNode) isNode()      {}

// ByteNode is the schema node for a single signed byte.
type ByteNode struct{}

func (ByteNode) Tag() TypeTag { return Byte }
func (ByteNode) isNode()      {}

// I16Node is the schema node for a 16-bit signed integer.
type I16Node struct{}

func (I16Node) Tag() TypeTag { return I16 }
func (I16Node) isNode()      {}

// I32Node is the schema node for a 32-bit signed integer.
type I32Node struct{}

func (I32Node) Tag() TypeTag { return I32 }
func (I32Node) isNode()      {}

// I64Node is the schema node for a 64-bit signed integer.
type I64Node struct{}

func (I64Node) Tag() TypeTag { return I64 }
func (I64Node) isNode()      {}

// DoubleNode is the schema node for an IEEE-754 double.
type DoubleNode struct{}

func (DoubleNode) Tag() TypeTag { return Double }
func (DoubleNode) isNode()      {}

// FloatNode is the schema node for the Facebook 32-bit float extension.
type FloatNode struct{}

func (FloatNode) Tag() TypeTag { return Float }
func (FloatNode) isNode()      {}

// BinaryNode distinguishes whether decoded output is a UTF-8 string or a
// raw byte sequence. On the wire the two encodings are identical.
type BinaryNode struct {
	Kind BinaryKind
}

func (BinaryNode) Tag() TypeTag { return Binary }
func (BinaryNode) isNode()      {}

// ListNode describes an ordered sequence of Item.
type ListNode struct {
	Item Node
}

func (ListNode) Tag() TypeTag { return List }
func (ListNode) isNode()      {}

// SetNode describes an ordered sequence of Item. The wire encoding of a set
// is identical to a list; this package does not enforce or rely on
// uniqueness.
type SetNode struct {
	Item Node
}

func (SetNode) Tag() TypeTag { return Set }
func (SetNode) isNode()      {}

// MapNode describes an associative container. Key is restricted to the
// types usable as natural mapping keys: String-kind Binary, I16, or I32.
type MapNode struct {
	Key   Node
	Value Node
}

func (MapNode) Tag() TypeTag { return Map }
func (MapNode) isNode()      {}

// Bool returns the schema node for a boolean field.
func Bool() Node { return BoolNode{} }

// ByteType returns the schema node for a single signed byte.
func ByteType() Node { return ByteNode{} }

// I16Type returns the schema node for a 16-bit signed integer.
func I16Type() Node { return I16Node{} }

// I32Type returns the schema node for a 32-bit signed integer.
func I32Type() Node { return I32Node{} }

// I64Type returns the schema node for a 64-bit signed integer.
func I64Type() Node { return I64Node{} }

// DoubleType returns the schema node for an IEEE-754 double.
func DoubleType() Node { return DoubleNode{} }

// FloatType returns the schema node for the Facebook 32-bit float
// extension.
func FloatType() Node { return FloatNode{} }

// StringType returns the schema node for a UTF-8 string, encoded on the
// wire identically to BytesType.
func StringType() Node { return BinaryNode{Kind: StringKind} }

// BytesType returns the schema node for a raw byte sequence, encoded on the
// wire identically to StringType.
func BytesType() Node { return BinaryNode{Kind: BytesKind} }

// ListOf returns the schema node for an ordered sequence of item.
func ListOf(item Node) Node { return ListNode{Item: item} }

// SetOf returns the schema node for a set of item, encoded on the wire as a
// list.
func SetOf(item Node) Node { return SetNode{Item: item} }

// MapOf returns the schema node for an associative container from key to
// value. It panics if key is not one of the types permitted as a mapping
// key (String, I16, I32) -- this is a programmer error caught once at
// schema-construction time, not a runtime decode/encode failure.
func MapOf(key, value Node) Node {
	if !isValidMapKey(key) {
		panic(fmt.Sprintf("schema: invalid map key type %s (must be string, i16, or i32)", key.Tag()))
	}

	return MapNode{Key: key, Value: value}
}

func isValidMapKey(key Node) bool {
	switch k := key.(type) {
	case BinaryNode:
		return k.Kind == StringKind
	case I16Node, I32Node:
		return true
	default:
		return false
	}
}
