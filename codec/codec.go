// Package codec is the public surface of this module: it turns a schema
// plus an in-memory value tree into a Compact Protocol byte buffer, and
// back again. Most callers should only need this package and schema.
package codec

import (
	"fmt"

	"github.com/benjamin-larsen/thriftcompact/schema"
	"github.com/benjamin-larsen/thriftcompact/wire"
)

// Encode serializes value against s, the root struct schema. value's
// fields are looked up by schema field name; a field missing from value is
// not written, regardless of whether the schema marks it optional.
func Encode(s *schema.StructNode, value map[string]any) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("codec: panic during encode: %v", r)
		}
	}()

	return wire.NewWriter().EncodeStruct(s, value)
}

// Decode parses buf against s, the root struct schema, and returns the
// decoded fields keyed by field name. Bytes trailing the outermost
// struct's STOP marker are not an error.
func Decode(s *schema.StructNode, buf []byte) (value map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("codec: panic during decode: %v", r)
		}
	}()

	return wire.NewReader(buf).DecodeStruct(s)
}

// DecodeInto parses buf against s and assigns the decoded fields onto dst,
// a pointer to a Go struct whose fields carry `thrift:"name"` tags
// matching the schema's field names. Fields present on the wire but absent
// from dst's tag set are decoded and then discarded.
func DecodeInto(s *schema.StructNode, buf []byte, dst any) error {
	value, err := Decode(s, buf)
	if err != nil {
		return err
	}

	return assignStruct(value, dst)
}

// EncodeValue reflects src, a Go struct (or pointer to one) whose fields
// carry `thrift:"name"` tags, into a value tree and encodes it against s.
// A nil pointer or nil slice field is treated as absent, realizing
// optionality structurally without a separate "optional" marker in Go.
func EncodeValue(s *schema.StructNode, src any) ([]byte, error) {
	value, err := structToValue(src)
	if err != nil {
		return nil, err
	}

	return Encode(s, value)
}
