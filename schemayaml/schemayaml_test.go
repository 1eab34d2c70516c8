package schemayaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/thriftcompact/codec"
	"github.com/benjamin-larsen/thriftcompact/schemayaml"
)

const doc = `
fields:
  - number: 1
    name: id
    type: i64
  - number: 2
    name: tags
    type: list
    item:
      type: string
    optional: true
  - number: 3
    name: address
    type: struct
    fields:
      - number: 1
        name: city
        type: string
`

func TestLoadBuildsUsableSchema(t *testing.T) {
	t.Parallel()

	s, err := schemayaml.Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	value := map[string]any{
		"id":   int64(7),
		"tags": []any{"a"},
		"address": map[string]any{
			"city": "springfield",
		},
	}

	buf, err := codec.Encode(s, value)
	require.NoError(t, err)

	got, err := codec.Decode(s, buf)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestLoadInvalidMapKeyReturnsError(t *testing.T) {
	t.Parallel()

	_, err := schemayaml.Load([]byte(`
fields:
  - number: 1
    name: bad
    type: map
    key:
      type: double
    value:
      type: string
`))
	require.Error(t, err)
}

func TestLoadUnknownTypeReturnsError(t *testing.T) {
	t.Parallel()

	_, err := schemayaml.Load([]byte(`
fields:
  - number: 1
    name: bad
    type: nonsense
`))
	require.Error(t, err)
}
