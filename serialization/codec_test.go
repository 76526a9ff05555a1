package serialization

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cube2222/octotype/dtype"
)

func sampleTypes(t *testing.T) []dtype.DType {
	t.Helper()
	decimal, err := dtype.NewDecimal(10, 2, dtype.Nullable)
	require.NoError(t, err)
	negativeScale, err := dtype.NewDecimal(3, -2, dtype.NonNullable)
	require.NoError(t, err)
	person, err := dtype.NewRecord(
		[]string{"id", "name", "balance"},
		[]dtype.DType{dtype.MakePrimitive(dtype.I64, dtype.NonNullable), dtype.MakeUtf8(dtype.Nullable), decimal},
		dtype.NonNullable,
	)
	require.NoError(t, err)
	empty, err := dtype.NewRecord(nil, nil, dtype.Nullable)
	require.NoError(t, err)
	duplicates, err := dtype.NewRecord(
		[]string{"a", "a", ""},
		[]dtype.DType{dtype.MakeBool(dtype.Nullable), dtype.Null, dtype.MakeBinary(dtype.NonNullable)},
		dtype.Nullable,
	)
	require.NoError(t, err)
	timestamp := dtype.MakeExtension(
		dtype.NewExtType("temporal.timestamp", dtype.MakePrimitive(dtype.I64, dtype.Nullable)).
			WithMetadata([]byte{2, 3, 0, 'U', 'T', 'C'}),
	)
	nested, err := dtype.NewRecord(
		[]string{"person", "friends", "created", "tags"},
		[]dtype.DType{
			person,
			dtype.MakeList(person.AsNullable(), dtype.NonNullable),
			timestamp,
			dtype.MakeList(dtype.MakeList(dtype.MakeUtf8(dtype.NonNullable), dtype.Nullable), dtype.Nullable),
		},
		dtype.Nullable,
	)
	require.NoError(t, err)

	out := []dtype.DType{
		dtype.Null,
		dtype.MakeBool(dtype.Nullable),
		dtype.MakeBool(dtype.NonNullable),
		dtype.MakeUtf8(dtype.Nullable),
		dtype.MakeBinary(dtype.NonNullable),
		decimal,
		negativeScale,
		person,
		empty,
		duplicates,
		dtype.MakeList(dtype.MakePrimitive(dtype.I32, dtype.Nullable), dtype.NonNullable),
		dtype.MakeExtension(dtype.NewExtType("test.uuid", dtype.MakeBinary(dtype.NonNullable))),
		dtype.MakeExtension(dtype.NewExtType("test.empty", dtype.MakeBinary(dtype.NonNullable)).WithMetadata(nil)),
		dtype.MakeExtension(dtype.NewExtType("test.wrapped", timestamp)),
		timestamp,
		nested,
	}
	for p := dtype.U8; p <= dtype.F64; p++ {
		out = append(out, dtype.MakePrimitive(p, dtype.Nullable), dtype.MakePrimitive(p, dtype.NonNullable))
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range sampleTypes(t) {
		t.Run(tt.String(), func(t *testing.T) {
			encoded := Encode(tt)

			decoded, err := DecodeOwned(encoded)
			require.NoError(t, err)
			assert.True(t, decoded.Equal(tt), "got %s", decoded)
			assert.Equal(t, tt.String(), decoded.String())

			view, err := WrapView(encoded)
			require.NoError(t, err)
			assert.True(t, view.Materialize().Equal(tt))
			assert.Equal(t, tt.String(), view.String())
			assert.Equal(t, encoded, view.Bytes())

			// Re-encoding is stable.
			assert.Equal(t, encoded, Encode(decoded))
		})
	}
}

func TestAppendEncoded(t *testing.T) {
	prefix := []byte("header")
	out := AppendEncoded(append([]byte(nil), prefix...), dtype.MakeUtf8(dtype.Nullable))
	assert.Equal(t, append(prefix, tagUtf8, flagNullable), out)
}

func TestWireLayout(t *testing.T) {
	record, err := dtype.NewRecord(
		[]string{"a"},
		[]dtype.DType{dtype.MakePrimitive(dtype.I32, dtype.NonNullable)},
		dtype.Nullable,
	)
	require.NoError(t, err)
	decimal, err := dtype.NewDecimal(10, -2, dtype.NonNullable)
	require.NoError(t, err)

	tests := []struct {
		dtype dtype.DType
		want  []byte
	}{
		{dtype.Null, []byte{0}},
		{dtype.MakeBool(dtype.Nullable), []byte{1, 1}},
		{dtype.MakePrimitive(dtype.F64, dtype.NonNullable), []byte{2, 10, 0}},
		{decimal, []byte{3, 10, 0xfe, 0}},
		{dtype.MakeUtf8(dtype.NonNullable), []byte{4, 0}},
		{dtype.MakeBinary(dtype.Nullable), []byte{5, 1}},
		{record, []byte{6, 1, 1, 'a', 1, 2, 6, 0, 1}},
		{dtype.MakeList(dtype.MakeBool(dtype.NonNullable), dtype.Nullable), []byte{7, 1, 0, 1}},
		{dtype.MakeExtension(dtype.NewExtType("x", dtype.Null)), []byte{8, 1, 'x', 0, 0}},
		{dtype.MakeExtension(dtype.NewExtType("x", dtype.Null).WithMetadata([]byte{9})), []byte{8, 1, 'x', 0, 1, 1, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.dtype.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.dtype))
		})
	}
}

func requireParseError(t *testing.T, err error, kind ParseErrorKind) *ParseError {
	t.Helper()
	require.Error(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "%T: %v", err, err)
	assert.Equal(t, kind, parseErr.Kind, "%v", err)
	return parseErr
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		kind   ParseErrorKind
		offset int
	}{
		{name: "empty", buf: nil, kind: TruncatedPayload, offset: 0},
		{name: "unknown tag", buf: []byte{9}, kind: UnknownVariantTag, offset: 0},
		{name: "unknown tag 0xff", buf: []byte{0xff, 1}, kind: UnknownVariantTag, offset: 0},
		{name: "unknown nested tag", buf: []byte{7, 42, 1}, kind: UnknownVariantTag, offset: 1},
		{name: "missing nullability", buf: []byte{1}, kind: TruncatedPayload, offset: 1},
		{name: "bad nullability", buf: []byte{1, 2}, kind: InvalidPayload, offset: 1},
		{name: "bad ptype", buf: []byte{2, 11, 0}, kind: InvalidPayload, offset: 1},
		{name: "bad precision", buf: []byte{3, 0, 0, 0}, kind: InvalidPayload, offset: 1},
		{name: "scale above precision", buf: []byte{3, 2, 3, 0}, kind: InvalidPayload, offset: 1},
		{name: "trailing bytes", buf: []byte{0, 0}, kind: TrailingBytes, offset: 1},
		{name: "record arity", buf: []byte{6, 2, 1, 'a', 1, 'b', 3, 0, 0, 0, 1}, kind: ArityMismatch, offset: 6},
		{name: "record fewer types", buf: []byte{6, 1, 1, 'a', 0, 1}, kind: ArityMismatch, offset: 4},
		{name: "record huge count", buf: []byte{6, 0xff, 0xff, 0xff, 0xff, 0x0f}, kind: TruncatedPayload, offset: 1},
		{name: "malformed varint", buf: []byte{6, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, kind: InvalidPayload, offset: 1},
		{name: "bad metadata flag", buf: []byte{8, 1, 'x', 0, 2}, kind: InvalidPayload, offset: 4},
		{name: "metadata too long", buf: []byte{8, 1, 'x', 0, 1, 5, 1}, kind: TruncatedPayload, offset: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOwned(tt.buf)
			parseErr := requireParseError(t, err, tt.kind)
			assert.Equal(t, tt.offset, parseErr.Offset)

			_, err = WrapView(tt.buf)
			requireParseError(t, err, tt.kind)
		})
	}
}

func TestDecodeErrorWrapsConstructionError(t *testing.T) {
	_, err := DecodeOwned([]byte{3, 40, 0, 0})
	requireParseError(t, err, InvalidPayload)
	assert.True(t, errors.Is(err, dtype.ErrInvalidPrecisionScale))
	assert.Contains(t, err.Error(), "offset 1")
}

func TestDecodeErrorMessage(t *testing.T) {
	_, err := DecodeOwned([]byte{42})
	assert.EqualError(t, err, "couldn't parse dtype at offset 0: unknown variant tag (expected tag in [0, 8], found 42)")
}

func TestDecodeTruncated(t *testing.T) {
	for _, tt := range sampleTypes(t) {
		encoded := Encode(tt)
		for i := 0; i < len(encoded); i++ {
			t.Run(fmt.Sprintf("%s/%d", tt, i), func(t *testing.T) {
				_, err := DecodeOwned(encoded[:i])
				requireParseError(t, err, TruncatedPayload)
				_, err = WrapView(encoded[:i])
				requireParseError(t, err, TruncatedPayload)
			})
		}
	}
}

func TestDecodeNesting(t *testing.T) {
	nest := func(depth int) []byte {
		var buf []byte
		for i := 0; i < depth; i++ {
			buf = append(buf, tagList)
		}
		buf = append(buf, tagNull)
		for i := 0; i < depth; i++ {
			buf = append(buf, flagNullable)
		}
		return buf
	}

	decoded, err := DecodeOwned(nest(MaxDepth))
	require.NoError(t, err)
	assert.True(t, decoded.IsList())

	_, err = DecodeOwned(nest(MaxDepth + 1))
	requireParseError(t, err, NestingTooDeep)

	// Deeply nested garbage must not blow the stack.
	_, err = DecodeOwned(bytes.Repeat([]byte{tagList}, 1<<20))
	requireParseError(t, err, NestingTooDeep)
}

func TestEncodeDepthLimit(t *testing.T) {
	nest := func(depth int) dtype.DType {
		out := dtype.MakeBool(dtype.NonNullable)
		for i := 0; i < depth; i++ {
			out = dtype.MakeList(out, dtype.Nullable)
		}
		return out
	}

	deepest := nest(MaxDepth)
	decoded, err := DecodeOwned(Encode(deepest))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(deepest))
	view, err := WrapView(Encode(deepest))
	require.NoError(t, err)
	assert.True(t, view.Materialize().Equal(deepest))

	tooDeep := Encode(nest(MaxDepth + 1))
	_, err = DecodeOwned(tooDeep)
	requireParseError(t, err, NestingTooDeep)
	assert.Contains(t, err.Error(), "found 1025")
	_, err = WrapView(tooDeep)
	requireParseError(t, err, NestingTooDeep)
}

func TestDecodeRandomMutations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, tt := range sampleTypes(t) {
		encoded := Encode(tt)
		for i := 0; i < 200; i++ {
			mutated := append([]byte(nil), encoded...)
			mutated[rnd.Intn(len(mutated))] = byte(rnd.Intn(256))
			assert.NotPanics(t, func() {
				decoded, err := DecodeOwned(mutated)
				if err != nil {
					var parseErr *ParseError
					assert.True(t, errors.As(err, &parseErr))
					return
				}
				// Whatever decoded must survive another round trip and be viewable.
				redecoded, err := DecodeOwned(Encode(decoded))
				assert.NoError(t, err)
				assert.True(t, redecoded.Equal(decoded))
				view, err := WrapView(mutated)
				if assert.NoError(t, err) {
					assert.True(t, view.Materialize().Equal(decoded))
				}
			})
		}
	}
}

func TestMalformedVarintIsNotTruncation(t *testing.T) {
	buf := protowire.AppendVarint([]byte{tagExtension}, 1)
	buf = append(buf, 'x', tagNull, 1)
	buf = append(buf, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01)
	_, err := DecodeOwned(buf)
	requireParseError(t, err, InvalidPayload)
}
