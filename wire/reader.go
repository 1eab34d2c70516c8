package wire

import (
	"encoding/binary"
	"math"

	"github.com/benjamin-larsen/thriftcompact/schema"
)

// Reader performs a single stateful traversal of a fully-loaded byte buffer,
// driven by a root struct schema. It is not safe for concurrent use and is
// not meant to be reused after an error.
type Reader struct {
	buf          []byte
	pos          int
	prevFieldID  int16
	fieldIDStack []int16
}

// NewReader returns a Reader over buf. buf is held by reference, not
// copied; the caller must not mutate it while decoding is in progress.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// DecodeStruct decodes buf against s, the root struct schema, and returns
// the decoded field values keyed by field name. Trailing bytes after the
// outermost struct's STOP are not an error.
func (r *Reader) DecodeStruct(s *schema.StructNode) (map[string]any, error) {
	if s.Len() == 0 {
		return nil, newError(EmptyStructRead, "struct schema has no declared fields")
	}

	return r.readStructFields(s)
}

func (r *Reader) pushFieldID() {
	r.fieldIDStack = append(r.fieldIDStack, r.prevFieldID)
	r.prevFieldID = 0
}

func (r *Reader) popFieldID() {
	n := len(r.fieldIDStack)
	r.prevFieldID = r.fieldIDStack[n-1]
	r.fieldIDStack = r.fieldIDStack[:n-1]
}

func (r *Reader) readStructFields(s *schema.StructNode) (map[string]any, error) {
	r.pushFieldID()
	defer r.popFieldID()

	result := make(map[string]any, s.Len())

	for {
		tag, id, err := r.readFieldHeader()
		if err != nil {
			return nil, err
		}

		if tag == Stop {
			break
		}

		field, ok := s.FieldByNumber(uint16(id))
		if !ok {
			if err := r.skip(tag); err != nil {
				return nil, err
			}

			continue
		}

		val, err := r.decodeValue(field.Type, tag, true)
		if err != nil {
			return nil, err
		}

		result[field.Name] = val
	}

	return result, nil
}

// readFieldHeader reads one field header: a STOP byte, a one-byte
// small-delta header, or a type byte followed by a zigzag-varint absolute
// field id.
func (r *Reader) readFieldHeader() (TypeTag, int16, error) {
	b, err := r.readByte()
	if err != nil {
		return Stop, 0, err
	}

	if b == 0x00 {
		return Stop, 0, nil
	}

	delta := int16((b >> 4) & 0x0F)
	tag := TypeTag(b & 0x0F)

	if delta == 0 {
		raw, err := r.readVarint32()
		if err != nil {
			return Stop, 0, err
		}

		r.prevFieldID = int16(zigzagDecode32(raw))
	} else {
		r.prevFieldID += delta
	}

	return tag, r.prevFieldID, nil
}

// decodeValue decodes a single value of schema type t whose wire type tag
// has already been read as tag. allowBool permits the Boolean schema type;
// it is false whenever the value is a list/set/map element, matching the
// writer's InvalidBooleanContext restriction in reverse.
func (r *Reader) decodeValue(t schema.Node, tag TypeTag, allowBool bool) (any, error) {
	switch n := t.(type) {
	case schema.BoolNode:
		if !allowBool {
			return nil, newError(InvalidBooleanContext, "boolean not permitted as a list/set/map element")
		}

		if tag != True && tag != False {
			return nil, mismatchErr(Boolean, tag)
		}

		return tag == True, nil

	case schema.ByteNode:
		if tag != Byte {
			return nil, mismatchErr(Byte, tag)
		}

		b, err := r.readByte()
		if err != nil {
			return nil, err
		}

		return int8(b), nil

	case schema.I16Node:
		if tag != I16 {
			return nil, mismatchErr(I16, tag)
		}

		v, err := r.readVarint32()
		if err != nil {
			return nil, err
		}

		return int16(zigzagDecode32(v)), nil

	case schema.I32Node:
		if tag != I32 {
			return nil, mismatchErr(I32, tag)
		}

		v, err := r.readVarint32()
		if err != nil {
			return nil, err
		}

		return zigzagDecode32(v), nil

	case schema.I64Node:
		if tag != I64 {
			return nil, mismatchErr(I64, tag)
		}

		v, err := r.readVarint64()
		if err != nil {
			return nil, err
		}

		return zigzagDecode64(v), nil

	case schema.DoubleNode:
		if tag != Double {
			return nil, mismatchErr(Double, tag)
		}

		return r.readDouble()

	case schema.FloatNode:
		if tag != Float {
			return nil, mismatchErr(Float, tag)
		}

		return r.readFloat()

	case schema.BinaryNode:
		if tag != Binary {
			return nil, mismatchErr(Binary, tag)
		}

		length, err := r.readVarint32()
		if err != nil {
			return nil, err
		}

		b, err := r.readBinary(int(length))
		if err != nil {
			return nil, err
		}

		if n.Kind == schema.StringKind {
			return string(b), nil
		}

		return b, nil

	case schema.ListNode:
		return r.decodeSequence(n.Item, tag, List)

	case schema.SetNode:
		return r.decodeSequence(n.Item, tag, Set)

	case schema.MapNode:
		return r.decodeMap(n, tag)

	case *schema.StructNode:
		if tag != Struct {
			return nil, mismatchErr(Struct, tag)
		}

		return r.readStructFields(n)

	default:
		return nil, newError(UnknownType, "unrecognized schema node %T", t)
	}
}

func (r *Reader) decodeSequence(item schema.Node, tag, want TypeTag) ([]any, error) {
	if tag != want {
		return nil, mismatchErr(want, tag)
	}

	itemTag, length, err := r.readListHeader()
	if err != nil {
		return nil, err
	}

	if !tagMatches(item.Tag(), itemTag) {
		return nil, mismatchErr(item.Tag(), itemTag)
	}

	result := make([]any, 0, length)

	for i := 0; i < length; i++ {
		v, err := r.decodeValue(item, itemTag, false)
		if err != nil {
			return nil, err
		}

		result = append(result, v)
	}

	return result, nil
}

func (r *Reader) decodeMap(n schema.MapNode, tag TypeTag) (any, error) {
	if tag != Map {
		return nil, mismatchErr(Map, tag)
	}

	keyTag, valTag, length, err := r.readMapHeader()
	if err != nil {
		return nil, err
	}

	if length == 0 {
		return emptyMapFor(n.Key), nil
	}

	if !tagMatches(n.Key.Tag(), keyTag) {
		return nil, mismatchErr(n.Key.Tag(), keyTag)
	}

	if !tagMatches(n.Value.Tag(), valTag) {
		return nil, mismatchErr(n.Value.Tag(), valTag)
	}

	switch n.Key.(type) {
	case schema.BinaryNode:
		result := make(map[string]any, length)

		for i := 0; i < length; i++ {
			k, err := r.decodeValue(n.Key, keyTag, false)
			if err != nil {
				return nil, err
			}

			v, err := r.decodeValue(n.Value, valTag, false)
			if err != nil {
				return nil, err
			}

			result[k.(string)] = v
		}

		return result, nil

	case schema.I16Node:
		result := make(map[int16]any, length)

		for i := 0; i < length; i++ {
			k, err := r.decodeValue(n.Key, keyTag, false)
			if err != nil {
				return nil, err
			}

			v, err := r.decodeValue(n.Value, valTag, false)
			if err != nil {
				return nil, err
			}

			result[k.(int16)] = v
		}

		return result, nil

	default: // schema.I32Node
		result := make(map[int32]any, length)

		for i := 0; i < length; i++ {
			k, err := r.decodeValue(n.Key, keyTag, false)
			if err != nil {
				return nil, err
			}

			v, err := r.decodeValue(n.Value, valTag, false)
			if err != nil {
				return nil, err
			}

			result[k.(int32)] = v
		}

		return result, nil
	}
}

func emptyMapFor(key schema.Node) any {
	switch key.(type) {
	case schema.BinaryNode:
		return map[string]any{}
	case schema.I16Node:
		return map[int16]any{}
	default: // schema.I32Node
		return map[int32]any{}
	}
}

// skip reads and discards a value of the observed type tag. It is used
// when a field or container element's identifier is unknown, preserving
// forward compatibility.
func (r *Reader) skip(tag TypeTag) error {
	switch tag {
	case True, False:
		return nil

	case Byte:
		_, err := r.readByte()
		return err

	case I16, I32:
		_, err := r.readVarint32()
		return err

	case I64:
		_, err := r.readVarint64()
		return err

	case Double:
		_, err := r.readBinary(8)
		return err

	case Float:
		_, err := r.readBinary(4)
		return err

	case Binary:
		length, err := r.readVarint32()
		if err != nil {
			return err
		}

		_, err = r.readBinary(int(length))

		return err

	case Struct:
		r.pushFieldID()
		defer r.popFieldID()

		for {
			t, _, err := r.readFieldHeader()
			if err != nil {
				return err
			}

			if t == Stop {
				return nil
			}

			if err := r.skip(t); err != nil {
				return err
			}
		}

	case List, Set:
		itemTag, length, err := r.readListHeader()
		if err != nil {
			return err
		}

		for i := 0; i < length; i++ {
			if err := r.skip(itemTag); err != nil {
				return err
			}
		}

		return nil

	case Map:
		keyTag, valTag, length, err := r.readMapHeader()
		if err != nil {
			return err
		}

		for i := 0; i < length; i++ {
			if err := r.skip(keyTag); err != nil {
				return err
			}

			if err := r.skip(valTag); err != nil {
				return err
			}
		}

		return nil

	default:
		return newError(UnknownType, "cannot skip type tag %d", tag)
	}
}

// readListHeader reads a List/Set envelope: one byte packing the item type
// in the low nibble and the length in the high nibble, with a trailing
// varint length when the high nibble is the 0xF sentinel.
func (r *Reader) readListHeader() (TypeTag, int, error) {
	b, err := r.readByte()
	if err != nil {
		return Stop, 0, err
	}

	itemTag := TypeTag(b & 0x0F)
	length := int((b >> 4) & 0x0F)

	if length == 0x0F {
		v, err := r.readVarint32()
		if err != nil {
			return Stop, 0, err
		}

		length = int(v)
	}

	return itemTag, length, nil
}

// readMapHeader reads a Map envelope. An empty map is a single 0x00 byte;
// a non-empty map is a varint length followed by one byte packing the key
// type in the high nibble and the value type in the low nibble.
func (r *Reader) readMapHeader() (keyTag, valTag TypeTag, length int, err error) {
	b, err := r.peekByte()
	if err != nil {
		return Stop, Stop, 0, err
	}

	if b == 0x00 {
		r.pos++
		return Stop, Stop, 0, nil
	}

	v, err := r.readVarint32()
	if err != nil {
		return Stop, Stop, 0, err
	}

	typesByte, err := r.readByte()
	if err != nil {
		return Stop, Stop, 0, err
	}

	keyTag = TypeTag((typesByte >> 4) & 0x0F)
	valTag = TypeTag(typesByte & 0x0F)

	return keyTag, valTag, int(v), nil
}

func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, newError(OutOfBounds, "read past end of buffer at offset %d", r.pos)
	}

	b := r.buf[r.pos]
	r.pos++

	return b, nil
}

func (r *Reader) peekByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, newError(OutOfBounds, "peek past end of buffer at offset %d", r.pos)
	}

	return r.buf[r.pos], nil
}

func (r *Reader) readBinary(n int) ([]byte, error) {
	if n < 0 {
		return nil, newError(OutOfBounds, "negative length %d", n)
	}

	if r.pos+n > len(r.buf) {
		return nil, newError(OutOfBounds, "read %d bytes at offset %d past end of buffer", n, r.pos)
	}

	b := r.buf[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

func (r *Reader) readVarint32() (uint32, error) {
	var result uint32

	var shift uint

	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}

		result |= uint32(b&0x7F) << shift

		if b&0x80 == 0 {
			return result, nil
		}

		shift += 7
		if shift >= 35 {
			return 0, newError(OutOfBounds, "varint32 exceeds maximum length")
		}
	}
}

func (r *Reader) readVarint64() (uint64, error) {
	var result uint64

	var shift uint

	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}

		result |= uint64(b&0x7F) << shift

		if b&0x80 == 0 {
			return result, nil
		}

		shift += 7
		if shift >= 70 {
			return 0, newError(OutOfBounds, "varint64 exceeds maximum length")
		}
	}
}

func (r *Reader) readDouble() (float64, error) {
	b, err := r.readBinary(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *Reader) readFloat() (float32, error) {
	b, err := r.readBinary(4)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func tagMatches(schemaTag, wireTag TypeTag) bool {
	if schemaTag == Boolean {
		return wireTag == True || wireTag == False
	}

	return schemaTag == wireTag
}

func mismatchErr(want, got TypeTag) *CodecError {
	return newError(TypeMismatch, "expected wire type %s, got %s", want, got)
}
