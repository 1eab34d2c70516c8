package wire

import "fmt"

// ErrorKind classifies a CodecError. It is the one error kind shared by the
// Reader and the Writer.
type ErrorKind int

const (
	// TypeMismatch: a field or container element's wire type tag does not
	// equal the schema's declared type (excluding the True/False <->
	// Boolean equivalence).
	TypeMismatch ErrorKind = iota

	// UnknownType: a type tag outside the recognized enumeration was
	// encountered where a value had to be decoded. Skipping an unknown
	// field with a known type tag is not an error; this is only raised
	// when the type tag itself is unrecognized.
	UnknownType

	// EmptyStructRead: a struct schema with no declared fields was handed
	// to the reader. Not useful, treated as a programmer error.
	EmptyStructRead

	// InvalidBooleanContext: the writer was asked to emit a boolean
	// outside of a struct field (as a list, set, or map element).
	InvalidBooleanContext

	// UnsupportedWrite: the writer was given a scalar type outside the
	// supported set.
	UnsupportedWrite

	// OutOfBounds: the reader ran past the end of the input buffer.
	OutOfBounds
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case UnknownType:
		return "unknown type"
	case EmptyStructRead:
		return "empty struct read"
	case InvalidBooleanContext:
		return "invalid boolean context"
	case UnsupportedWrite:
		return "unsupported write"
	case OutOfBounds:
		return "out of bounds"
	default:
		return "unknown codec error"
	}
}

// CodecError is the single error type returned by the reader and the
// writer. Every failure condition in this module surfaces as one of these,
// distinguished by Kind.
type CodecError struct {
	Kind    ErrorKind
	Message string
}

func (e *CodecError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// newError builds a *CodecError with a formatted message.
func newError(kind ErrorKind, format string, args ...any) *CodecError {
	return &CodecError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
