package serialization

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/octotype/dtype"
)

// assertViewMatches walks the view and the owned type side by side.
func assertViewMatches(t *testing.T, want dtype.DType, view ViewedDType) {
	t.Helper()
	require.Equal(t, want.ID(), view.ID())
	assert.Equal(t, want.IsNullable(), view.IsNullable())
	assert.Equal(t, want.Nullability(), view.Nullability())
	assert.Equal(t, Encode(want), view.Bytes())

	wantPType, wantOK := want.AsPrimitive()
	gotPType, gotOK := view.AsPrimitive()
	assert.Equal(t, wantOK, gotOK)
	assert.Equal(t, wantPType, gotPType)

	wantPType, wantOK = want.ToPType()
	gotPType, gotOK = view.ToPType()
	assert.Equal(t, wantOK, gotOK)
	assert.Equal(t, wantPType, gotPType)

	wantDecimal, wantOK := want.AsDecimal()
	gotDecimal, gotOK := view.AsDecimal()
	assert.Equal(t, wantOK, gotOK)
	assert.Equal(t, wantDecimal, gotDecimal)

	wantRecord, wantOK := want.AsRecord()
	gotRecord, gotOK := view.AsRecord()
	require.Equal(t, wantOK, gotOK)
	if wantOK {
		require.Equal(t, wantRecord.Arity(), gotRecord.Arity())
		assert.Equal(t, wantRecord.Names(), gotRecord.Names())
		assert.True(t, wantRecord.Equal(gotRecord.Materialize()))
		fields := gotRecord.Fields()
		require.Len(t, fields, wantRecord.Arity())
		for i := 0; i < wantRecord.Arity(); i++ {
			assert.Equal(t, wantRecord.Name(i), gotRecord.Name(i))
			assertViewMatches(t, wantRecord.FieldAt(i), gotRecord.FieldAt(i))
			assertViewMatches(t, wantRecord.FieldAt(i), fields[i])

			byName, ok := gotRecord.FieldByName(wantRecord.Name(i))
			require.True(t, ok)
			wantByName, _ := wantRecord.FieldByName(wantRecord.Name(i))
			assert.True(t, wantByName.Equal(byName.Materialize()))
		}
		_, ok := gotRecord.FieldByName("does not exist")
		assert.False(t, ok)
	}

	wantElement, wantOK := want.AsList()
	gotElement, gotOK := view.AsList()
	require.Equal(t, wantOK, gotOK)
	if wantOK {
		assertViewMatches(t, wantElement, gotElement)
	}

	wantExt, wantOK := want.AsExtension()
	gotExt, gotOK := view.AsExtension()
	require.Equal(t, wantOK, gotOK)
	if wantOK {
		assert.Equal(t, wantExt.ID(), gotExt.ID())
		wantMetadata, wantHas := wantExt.Metadata()
		gotMetadata, gotHas := gotExt.Metadata()
		assert.Equal(t, wantHas, gotHas)
		assert.Equal(t, string(wantMetadata), string(gotMetadata))
		assert.True(t, wantExt.Equal(gotExt.Materialize()))
		assertViewMatches(t, wantExt.Storage(), gotExt.Storage())
	}

	assert.True(t, want.Equal(view.Materialize()))
}

func TestViewMatchesOwned(t *testing.T) {
	for _, tt := range sampleTypes(t) {
		t.Run(tt.String(), func(t *testing.T) {
			view, err := WrapView(Encode(tt))
			require.NoError(t, err)
			assertViewMatches(t, tt, view)
		})
	}
}

func TestViewIsZeroCopy(t *testing.T) {
	ext := dtype.MakeExtension(dtype.NewExtType("test.meta", dtype.MakeUtf8(dtype.Nullable)).WithMetadata([]byte("payload")))
	buf := Encode(ext)
	view, err := WrapView(buf)
	require.NoError(t, err)

	viewedExt, ok := view.AsExtension()
	require.True(t, ok)
	metadata, ok := viewedExt.Metadata()
	require.True(t, ok)
	assert.Equal(t, "payload", string(metadata))
	assert.Same(t, &buf[len(buf)-len("payload")], &metadata[0])
	assert.Equal(t, len(metadata), cap(metadata))
}

func TestViewDuplicateNames(t *testing.T) {
	record, err := dtype.NewRecord(
		[]string{"a", "a"},
		[]dtype.DType{dtype.MakeBool(dtype.Nullable), dtype.MakeUtf8(dtype.Nullable)},
		dtype.NonNullable,
	)
	require.NoError(t, err)
	view, err := WrapView(Encode(record))
	require.NoError(t, err)

	viewedRecord, ok := view.AsRecord()
	require.True(t, ok)
	field, ok := viewedRecord.FieldByName("a")
	require.True(t, ok)
	assert.Equal(t, dtype.TypeIDBool, field.ID())
}

func TestViewFieldIndexOutOfRange(t *testing.T) {
	record, err := dtype.NewRecord([]string{"a"}, []dtype.DType{dtype.Null}, dtype.NonNullable)
	require.NoError(t, err)
	view, err := WrapView(Encode(record))
	require.NoError(t, err)
	viewedRecord, _ := view.AsRecord()

	assert.Panics(t, func() { viewedRecord.FieldAt(1) })
	assert.Panics(t, func() { viewedRecord.Name(-1) })
}

func TestViewConcurrentReaders(t *testing.T) {
	var nested dtype.DType
	for _, tt := range sampleTypes(t) {
		if tt.IsRecord() {
			nested = tt
		}
	}
	view, err := WrapView(Encode(nested))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok := true
			for j := 0; j < 100; j++ {
				ok = ok && view.Materialize().Equal(nested) && view.IsNullable() == nested.IsNullable()
			}
			results[i] = ok
		}(i)
	}
	wg.Wait()
	for i := range results {
		assert.True(t, results[i])
	}
}
