package codec

import "github.com/benjamin-larsen/thriftcompact/wire"

// CodecError and ErrorKind are defined in wire (the reader and writer need
// them before this package exists) and re-exported here as the primary
// public name: callers of this package should never need to import wire
// directly just to inspect an error kind.
type (
	CodecError = wire.CodecError
	ErrorKind  = wire.ErrorKind
)

const (
	TypeMismatch          = wire.TypeMismatch
	UnknownType           = wire.UnknownType
	EmptyStructRead       = wire.EmptyStructRead
	InvalidBooleanContext = wire.InvalidBooleanContext
	UnsupportedWrite      = wire.UnsupportedWrite
	OutOfBounds           = wire.OutOfBounds
)
