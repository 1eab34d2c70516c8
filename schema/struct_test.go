package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/thriftcompact/schema"
)

func TestStructFields(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "foo", schema.Bool()),
		schema.NewField(2, "bar", schema.I32Type()).AsOptional(),
	)

	assert.Equal(t, 2, s.Len())

	fields := s.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "foo", fields[0].Name)
	assert.Equal(t, "bar", fields[1].Name)
	assert.False(t, fields[0].Optional)
	assert.True(t, fields[1].Optional)

	f, ok := s.FieldByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "bar", f.Name)

	_, ok = s.FieldByNumber(3)
	assert.False(t, ok)
}

func TestStructDuplicateNamePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		schema.Struct(
			schema.NewField(1, "foo", schema.Bool()),
			schema.NewField(2, "foo", schema.I32Type()),
		)
	})
}

func TestMapOfInvalidKeyPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		schema.MapOf(schema.Bool(), schema.I32Type())
	})

	assert.NotPanics(t, func() {
		schema.MapOf(schema.StringType(), schema.I32Type())
		schema.MapOf(schema.I16Type(), schema.I32Type())
		schema.MapOf(schema.I32Type(), schema.I32Type())
	})
}

func TestStructMergeUnionByName(t *testing.T) {
	t.Parallel()

	a := schema.Struct(
		schema.NewField(1, "foo", schema.Bool()),
		schema.NewField(2, "bar", schema.I32Type()),
	)

	b := schema.Struct(
		schema.NewField(2, "bar", schema.StringType()),
		schema.NewField(3, "baz", schema.I64Type()),
	)

	merged := a.Merge(b)

	assert.Equal(t, 3, merged.Len())

	bar, ok := merged.FieldByName("bar")
	require.True(t, ok)
	assert.Equal(t, schema.StringType(), bar.Type, "b's field wins on name collision")

	// inputs unchanged
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())

	origBar, ok := a.FieldByName("bar")
	require.True(t, ok)
	assert.Equal(t, schema.I32Type(), origBar.Type)
}

func TestStructMergePreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	a := schema.Struct(schema.NewField(1, "foo", schema.Bool()))
	b := schema.Struct(
		schema.NewField(2, "bar", schema.I32Type()),
		schema.NewField(1, "foo", schema.I16Type()),
	)

	merged := a.Merge(b)

	names := make([]string, 0, merged.Len())
	for _, f := range merged.Fields() {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"foo", "bar"}, names)

	foo, ok := merged.FieldByName("foo")
	require.True(t, ok)
	assert.Equal(t, schema.I16Type(), foo.Type)
}
