// Package prettyprint walks a Compact Protocol buffer without a schema,
// printing each field header, container envelope, and scalar it
// encounters. It shares the wire format's state machine with the codec
// but needs none of its schema validation, since there is no schema to
// validate against.
package prettyprint

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benjamin-larsen/thriftcompact/wire"
)

// Dump renders buf as an indented, human-readable listing. It is best
// effort: malformed input stops the walk and returns whatever was printed
// so far alongside the error, which is useful for diagnosing where a
// buffer went bad.
func Dump(buf []byte) (string, error) {
	d := &dumper{buf: buf}

	err := d.dumpStruct()

	return d.out.String(), err
}

type dumper struct {
	buf         []byte
	pos         int
	out         strings.Builder
	depth       int
	prevFieldID int16
	fieldStack  []int16
}

func (d *dumper) indent() string {
	return strings.Repeat("  ", d.depth)
}

func (d *dumper) pushFieldID() {
	d.fieldStack = append(d.fieldStack, d.prevFieldID)
	d.prevFieldID = 0
}

func (d *dumper) popFieldID() {
	n := len(d.fieldStack)
	d.prevFieldID = d.fieldStack[n-1]
	d.fieldStack = d.fieldStack[:n-1]
}

func (d *dumper) dumpStruct() error {
	d.pushFieldID()
	defer d.popFieldID()

	fmt.Fprintf(&d.out, "%sstruct {\n", d.indent())
	d.depth++

	for {
		b, err := d.readByte()
		if err != nil {
			return err
		}

		if b == 0x00 {
			break
		}

		delta := int16((b >> 4) & 0x0F)
		tag := wire.TypeTag(b & 0x0F)

		if delta == 0 {
			raw, err := d.readVarint32()
			if err != nil {
				return err
			}

			d.prevFieldID = int16(zigzagDecode32(raw))
		} else {
			d.prevFieldID += delta
		}

		fmt.Fprintf(&d.out, "%sfield %d (%s): ", d.indent(), d.prevFieldID, tag)

		if err := d.dumpValue(tag); err != nil {
			return err
		}
	}

	d.depth--
	fmt.Fprintf(&d.out, "%s}\n", d.indent())

	return nil
}

// dumpValue prints the value whose wire type tag has already been read as
// tag, terminating the line it was given to continue.
func (d *dumper) dumpValue(tag wire.TypeTag) error {
	switch tag {
	case wire.True:
		fmt.Fprintln(&d.out, "true")
		return nil

	case wire.False:
		fmt.Fprintln(&d.out, "false")
		return nil

	case wire.Byte:
		b, err := d.readByte()
		if err != nil {
			return err
		}

		fmt.Fprintln(&d.out, int8(b))

		return nil

	case wire.I16, wire.I32:
		v, err := d.readVarint32()
		if err != nil {
			return err
		}

		fmt.Fprintln(&d.out, zigzagDecode32(v))

		return nil

	case wire.I64:
		v, err := d.readVarint64()
		if err != nil {
			return err
		}

		fmt.Fprintln(&d.out, zigzagDecode64(v))

		return nil

	case wire.Double:
		b, err := d.readBinary(8)
		if err != nil {
			return err
		}

		fmt.Fprintln(&d.out, math.Float64frombits(binary.LittleEndian.Uint64(b)))

		return nil

	case wire.Float:
		b, err := d.readBinary(4)
		if err != nil {
			return err
		}

		fmt.Fprintln(&d.out, math.Float32frombits(binary.LittleEndian.Uint32(b)))

		return nil

	case wire.Binary:
		length, err := d.readVarint32()
		if err != nil {
			return err
		}

		b, err := d.readBinary(int(length))
		if err != nil {
			return err
		}

		fmt.Fprintln(&d.out, quoteBinary(b))

		return nil

	case wire.Struct:
		fmt.Fprintln(&d.out)
		return d.dumpStruct()

	case wire.List, wire.Set:
		fmt.Fprintln(&d.out)
		return d.dumpSequence()

	case wire.Map:
		fmt.Fprintln(&d.out)
		return d.dumpMap()

	default:
		return fmt.Errorf("prettyprint: unrecognized type tag %d", tag)
	}
}

func (d *dumper) dumpSequence() error {
	itemTag, length, err := d.readListHeader()
	if err != nil {
		return err
	}

	fmt.Fprintf(&d.out, "%slist<%s>[%d] {\n", d.indent(), itemTag, length)
	d.depth++

	for i := 0; i < length; i++ {
		fmt.Fprintf(&d.out, "%s- ", d.indent())

		if err := d.dumpValue(itemTag); err != nil {
			return err
		}
	}

	d.depth--
	fmt.Fprintf(&d.out, "%s}\n", d.indent())

	return nil
}

func (d *dumper) dumpMap() error {
	keyTag, valTag, length, err := d.readMapHeader()
	if err != nil {
		return err
	}

	fmt.Fprintf(&d.out, "%smap<%s,%s>[%d] {\n", d.indent(), keyTag, valTag, length)
	d.depth++

	for i := 0; i < length; i++ {
		fmt.Fprintf(&d.out, "%skey: ", d.indent())

		if err := d.dumpValue(keyTag); err != nil {
			return err
		}

		fmt.Fprintf(&d.out, "%sval: ", d.indent())

		if err := d.dumpValue(valTag); err != nil {
			return err
		}
	}

	d.depth--
	fmt.Fprintf(&d.out, "%s}\n", d.indent())

	return nil
}

func (d *dumper) readListHeader() (wire.TypeTag, int, error) {
	b, err := d.readByte()
	if err != nil {
		return wire.Stop, 0, err
	}

	itemTag := wire.TypeTag(b & 0x0F)
	length := int((b >> 4) & 0x0F)

	if length == 0x0F {
		v, err := d.readVarint32()
		if err != nil {
			return wire.Stop, 0, err
		}

		length = int(v)
	}

	return itemTag, length, nil
}

func (d *dumper) readMapHeader() (keyTag, valTag wire.TypeTag, length int, err error) {
	b, err := d.peekByte()
	if err != nil {
		return wire.Stop, wire.Stop, 0, err
	}

	if b == 0x00 {
		d.pos++
		return wire.Stop, wire.Stop, 0, nil
	}

	v, err := d.readVarint32()
	if err != nil {
		return wire.Stop, wire.Stop, 0, err
	}

	typesByte, err := d.readByte()
	if err != nil {
		return wire.Stop, wire.Stop, 0, err
	}

	keyTag = wire.TypeTag((typesByte >> 4) & 0x0F)
	valTag = wire.TypeTag(typesByte & 0x0F)

	return keyTag, valTag, int(v), nil
}

func (d *dumper) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, fmt.Errorf("prettyprint: read past end of buffer at offset %d", d.pos)
	}

	b := d.buf[d.pos]
	d.pos++

	return b, nil
}

func (d *dumper) peekByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, fmt.Errorf("prettyprint: peek past end of buffer at offset %d", d.pos)
	}

	return d.buf[d.pos], nil
}

func (d *dumper) readBinary(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, fmt.Errorf("prettyprint: read %d bytes at offset %d past end of buffer", n, d.pos)
	}

	b := d.buf[d.pos : d.pos+n]
	d.pos += n

	return b, nil
}

func (d *dumper) readVarint32() (uint32, error) {
	var result uint32

	var shift uint

	for {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}

		result |= uint32(b&0x7F) << shift

		if b&0x80 == 0 {
			return result, nil
		}

		shift += 7
		if shift >= 35 {
			return 0, fmt.Errorf("prettyprint: varint32 exceeds maximum length")
		}
	}
}

func (d *dumper) readVarint64() (uint64, error) {
	var result uint64

	var shift uint

	for {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}

		result |= uint64(b&0x7F) << shift

		if b&0x80 == 0 {
			return result, nil
		}

		shift += 7
		if shift >= 70 {
			return 0, fmt.Errorf("prettyprint: varint64 exceeds maximum length")
		}
	}
}

func zigzagDecode32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

func zigzagDecode64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// quoteBinary prints b as a Go string literal, or as a quoted hex dump when
// decoding it yields a U+FFFD replacement rune (invalid UTF-8, or a literal
// U+FFFD), since on-wire binary has no self-describing encoding.
func quoteBinary(b []byte) string {
	s := string(b)

	for _, r := range s {
		if r == '�' {
			return strconv.Quote(fmt.Sprintf("% x", b))
		}
	}

	return strconv.Quote(s)
}
