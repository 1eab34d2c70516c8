package prettyprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/thriftcompact/prettyprint"
	"github.com/benjamin-larsen/thriftcompact/schema"
	"github.com/benjamin-larsen/thriftcompact/wire"
)

func TestDumpScalarFields(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "flag", schema.Bool()),
		schema.NewField(2, "value", schema.I32Type()),
	)

	buf, err := wire.NewWriter().EncodeStruct(s, map[string]any{"flag": true, "value": int32(5)})
	require.NoError(t, err)

	out, err := prettyprint.Dump(buf)
	require.NoError(t, err)

	assert.Contains(t, out, "field 1 (true): true")
	assert.Contains(t, out, "field 2 (i32): 5")
}

func TestDumpNestedContainers(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "items", schema.ListOf(schema.StringType())),
	)

	buf, err := wire.NewWriter().EncodeStruct(s, map[string]any{"items": []any{"a", "b"}})
	require.NoError(t, err)

	out, err := prettyprint.Dump(buf)
	require.NoError(t, err)

	assert.Contains(t, out, "list<binary>[2]")
	assert.Contains(t, out, `"a"`)
	assert.Contains(t, out, `"b"`)
}

func TestDumpTruncatedBufferReturnsPartialOutputAndError(t *testing.T) {
	t.Parallel()

	s := schema.Struct(schema.NewField(1, "value", schema.I32Type()))

	buf, err := wire.NewWriter().EncodeStruct(s, map[string]any{"value": int32(5)})
	require.NoError(t, err)

	out, err := prettyprint.Dump(buf[:len(buf)-2])
	require.Error(t, err)
	assert.Contains(t, out, "field 1 (i32): ")
}
