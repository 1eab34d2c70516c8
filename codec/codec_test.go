package codec_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamin-larsen/thriftcompact/codec"
	"github.com/benjamin-larsen/thriftcompact/schema"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "name", schema.StringType()),
		schema.NewField(2, "counters", schema.ListOf(schema.I32Type())),
		schema.NewField(3, "active", schema.Bool()).AsOptional(),
	)

	value := map[string]any{
		"name":     "widget",
		"counters": []any{int32(1), int32(2), int32(3)},
		"active":   true,
	}

	buf, err := codec.Encode(s, value)
	require.NoError(t, err)

	got, err := codec.Decode(s, buf)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestDecodeForwardCompatibleWithUnknownFields(t *testing.T) {
	t.Parallel()

	wide := schema.Struct(
		schema.NewField(1, "a", schema.I32Type()),
		schema.NewField(2, "b", schema.StringType()),
	)
	narrow := schema.Struct(schema.NewField(2, "b", schema.StringType()))

	buf, err := codec.Encode(wide, map[string]any{"a": int32(9), "b": "kept"})
	require.NoError(t, err)

	got, err := codec.Decode(narrow, buf)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": "kept"}, got)
}

func TestEncodeOptionalFieldAbsentIsOmittedOnRoundTrip(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "a", schema.I32Type()).AsOptional(),
		schema.NewField(2, "b", schema.I32Type()),
	)

	buf, err := codec.Encode(s, map[string]any{"b": int32(7)})
	require.NoError(t, err)

	got, err := codec.Decode(s, buf)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": int32(7)}, got)
	assert.NotContains(t, got, "a")
}

type widget struct {
	Name     string   `thrift:"name"`
	Counters []int32  `thrift:"counters"`
	Active   *bool    `thrift:"active"`
	Tags     []string `thrift:"tags"`
}

func TestEncodeValueDecodeIntoStructTags(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "name", schema.StringType()),
		schema.NewField(2, "counters", schema.ListOf(schema.I32Type())),
		schema.NewField(3, "active", schema.Bool()).AsOptional(),
		schema.NewField(4, "tags", schema.ListOf(schema.StringType())).AsOptional(),
	)

	active := true
	in := widget{
		Name:     "gizmo",
		Counters: []int32{10, 20},
		Active:   &active,
	}

	buf, err := codec.EncodeValue(s, &in)
	require.NoError(t, err)

	var out widget
	err = codec.DecodeInto(s, buf, &out)
	require.NoError(t, err)

	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Counters, out.Counters)
	require.NotNil(t, out.Active)
	assert.True(t, *out.Active)
	assert.Nil(t, out.Tags)
}

// TestRandomizedRoundTrip generates random values against a fixed, varied
// schema with a deterministically seeded math/rand source and checks that
// decode(encode(v)) == v for each one (spec.md §8's general round-trip
// property, beyond the hand-picked cases above).
func TestRandomizedRoundTrip(t *testing.T) {
	t.Parallel()

	s := schema.Struct(
		schema.NewField(1, "flag", schema.Bool()),
		schema.NewField(2, "small", schema.I16Type()),
		schema.NewField(3, "medium", schema.I32Type()),
		schema.NewField(4, "big", schema.I64Type()),
		schema.NewField(5, "name", schema.StringType()),
		schema.NewField(6, "raw", schema.BytesType()),
		schema.NewField(7, "ratios", schema.ListOf(schema.DoubleType())),
		schema.NewField(8, "tags", schema.SetOf(schema.StringType())),
		schema.NewField(9, "counts", schema.MapOf(schema.StringType(), schema.I32Type())),
	)

	rng := rand.New(rand.NewSource(42))

	randString := func(n int) string {
		const alphabet = "abcdefghijklmnopqrstuvwxyz"

		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}

		return string(b)
	}

	for i := 0; i < 200; i++ {
		ratios := make([]any, rng.Intn(5))
		for j := range ratios {
			ratios[j] = rng.Float64()
		}

		tags := make([]any, rng.Intn(4))
		for j := range tags {
			tags[j] = randString(1 + rng.Intn(6))
		}

		numCounts := rng.Intn(4)
		counts := make(map[string]any, numCounts)
		for j := 0; j < numCounts; j++ {
			counts[randString(1+rng.Intn(4))] = int32(rng.Intn(1 << 20))
		}

		value := map[string]any{
			"flag":   rng.Intn(2) == 0,
			"small":  int16(rng.Intn(1<<16) - 1<<15),
			"medium": int32(rng.Intn(1<<30) - 1<<29),
			"big":    rng.Int63(),
			"name":   randString(rng.Intn(12)),
			"raw":    []byte(randString(rng.Intn(8))),
			"ratios": ratios,
			"tags":   tags,
			"counts": counts,
		}

		buf, err := codec.Encode(s, value)
		require.NoErrorf(t, err, "iteration %d", i)

		got, err := codec.Decode(s, buf)
		require.NoErrorf(t, err, "iteration %d", i)
		assert.Equalf(t, value, got, "iteration %d", i)
	}
}

func TestDecodeInvalidBufferReturnsCodecError(t *testing.T) {
	t.Parallel()

	s := schema.Struct(schema.NewField(1, "value", schema.I32Type()))

	_, err := codec.Decode(s, []byte{0x13, 0x05, 0x00}) // wrong wire type on purpose

	require.Error(t, err)

	var codecErr *codec.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, codec.TypeMismatch, codecErr.Kind)
}
