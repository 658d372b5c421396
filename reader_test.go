package parq

import (
	"encoding/binary"
	"testing"

	"github.com/hexbee-net/errors"
	"github.com/stretchr/testify/require"
	"github.com/tj/assert"

	"github.com/corvidlake/parq/parquet"
	"github.com/corvidlake/parq/source"
	"github.com/corvidlake/parq/source/memory"
)

func openReader(t *testing.T, opts ReaderOptions, files ...[]byte) *Reader {
	t.Helper()

	sources := make([]source.Reader, len(files))
	for i, data := range files {
		sources[i] = memory.NewReader("fixture", data)
	}

	r, err := NewReader(sources, opts)
	require.NoError(t, err)

	return r
}

func flatFixture(t *testing.T) []byte {
	f := newFixtureFile(t,
		rootElement(3),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
		stringElement("name", parquet.FieldRepetitionType_OPTIONAL),
		leafElement("score", parquet.Type_DOUBLE, parquet.FieldRepetitionType_REQUIRED),
	)
	f.keyValue("origin", "unit-test")

	f.startRowGroup(3)
	f.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_SNAPPY, 3,
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN, nil, nil, 0, 0, 3, plainInt64(1, 2, 3)))
	f.addChunk([]string{"name"}, parquet.Type_BYTE_ARRAY, parquet.CompressionCodec_UNCOMPRESSED, 3,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, []int32{1, 0, 1}, 0, 1, 3, plainByteArray("ada", "grace")))
	f.addChunk([]string{"score"}, parquet.Type_DOUBLE, parquet.CompressionCodec_ZSTD, 3,
		dataPageV1(t, parquet.CompressionCodec_ZSTD, parquet.Encoding_PLAIN, nil, nil, 0, 0, 3, plainDouble(0.5, 1.5, 2.5)))

	f.startRowGroup(2)
	f.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_SNAPPY, 2,
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(4, 5)))
	f.addChunk([]string{"name"}, parquet.Type_BYTE_ARRAY, parquet.CompressionCodec_GZIP, 2,
		dataPageV1(t, parquet.CompressionCodec_GZIP, parquet.Encoding_PLAIN, nil, []int32{1, 0}, 0, 1, 2, plainByteArray("lin")))
	f.addChunk([]string{"score"}, parquet.Type_DOUBLE, parquet.CompressionCodec_ZSTD, 2,
		dataPageV1(t, parquet.CompressionCodec_ZSTD, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainDouble(3.5, 4.5)))

	return f.bytes()
}

func TestReadFlatColumns(t *testing.T) {
	r := openReader(t, ReaderOptions{}, flatFixture(t))
	defer func() { require.NoError(t, r.Close()) }()

	assert.Equal(t, int64(5), r.NumRows())

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	require.Equal(t, int64(5), res.Table.NumRows)
	require.Len(t, res.Table.Columns, 3)

	id := res.Table.Columns[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, id.Values.Int64)
	assert.Equal(t, 0, id.Levels[0].NullCount)

	name := res.Table.Columns[1]
	assert.Equal(t, 5, name.Rows())
	assert.True(t, name.AsString)
	assert.Equal(t, 2, name.Levels[0].NullCount)
	assert.True(t, name.Levels[0].Valid(0))
	assert.False(t, name.Levels[0].Valid(1))
	assert.True(t, name.Levels[0].Valid(2))
	assert.False(t, name.Levels[0].Valid(4))
	assert.Equal(t, "ada", string(name.Values.ByteArray[0]))
	assert.Equal(t, "grace", string(name.Values.ByteArray[2]))
	assert.Equal(t, "lin", string(name.Values.ByteArray[3]))
	assert.Nil(t, name.Values.ByteArray[1])

	score := res.Table.Columns[2]
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5, 4.5}, score.Values.Double)

	assert.Equal(t, "unit-test", res.Meta.KeyValue["origin"])
	assert.Equal(t, []string{"parq fixture"}, res.Meta.CreatedBy)
	assert.NotNil(t, res.Meta.Schema)
}

func TestReadColumnSelection(t *testing.T) {
	r := openReader(t, ReaderOptions{Columns: []string{"name"}}, flatFixture(t))

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	require.Len(t, res.Table.Columns, 1)
	assert.Equal(t, "name", res.Table.Columns[0].Name)
	assert.Equal(t, 5, res.Table.Columns[0].Rows())
}

func TestReadUnknownColumn(t *testing.T) {
	sources := []source.Reader{memory.NewReader("fixture", flatFixture(t))}

	_, err := NewReader(sources, ReaderOptions{Columns: []string{"nope"}})
	require.Error(t, err)
	assert.Equal(t, ErrInvalidOptions, errors.Cause(err))
}

func windowFixture(t *testing.T) []byte {
	f := newFixtureFile(t,
		rootElement(1),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
	)

	f.startRowGroup(5)
	f.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_SNAPPY, 5,
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN, nil, nil, 0, 0, 3, plainInt64(10, 11, 12)),
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(13, 14)))

	return f.bytes()
}

func TestReadRowWindow(t *testing.T) {
	r := openReader(t, ReaderOptions{}, windowFixture(t))

	t.Run("full", func(t *testing.T) {
		res, err := r.Read(ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11, 12, 13, 14}, res.Table.Columns[0].Values.Int64)
	})

	t.Run("across page boundary", func(t *testing.T) {
		res, err := r.Read(ReadOptions{SkipRows: 2, NumRows: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Table.NumRows)
		assert.Equal(t, []int64{12, 13}, res.Table.Columns[0].Values.Int64)
	})

	t.Run("count clamped to total", func(t *testing.T) {
		res, err := r.Read(ReadOptions{SkipRows: 4, NumRows: 10})
		require.NoError(t, err)
		assert.Equal(t, []int64{14}, res.Table.Columns[0].Values.Int64)
	})

	t.Run("skip beyond total", func(t *testing.T) {
		res, err := r.Read(ReadOptions{SkipRows: 99})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Table.NumRows)
		assert.Equal(t, 0, res.Table.Columns[0].Rows())
	})

	t.Run("count only", func(t *testing.T) {
		res, err := r.Read(ReadOptions{NumRows: 3})
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11, 12}, res.Table.Columns[0].Values.Int64)
	})
}

func TestReadOptionsValidation(t *testing.T) {
	r := openReader(t, ReaderOptions{}, windowFixture(t))

	_, err := r.Read(ReadOptions{SkipRows: -1})
	require.Error(t, err)
	assert.Equal(t, ErrInvalidOptions, errors.Cause(err))

	_, err = r.Read(ReadOptions{RowGroups: [][]int{{0}}, NumRows: 2})
	require.Error(t, err)
	assert.Equal(t, ErrInvalidOptions, errors.Cause(err))
}

func listFixture(t *testing.T) []byte {
	f := newFixtureFile(t,
		rootElement(1),
		leafElement("vals", parquet.Type_INT64, parquet.FieldRepetitionType_REPEATED),
	)

	// rows: [1 2], [], [3] | [4 5 6]
	f.startRowGroup(4)
	f.addChunk([]string{"vals"}, parquet.Type_INT64, parquet.CompressionCodec_SNAPPY, 7,
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN,
			[]int32{0, 1, 0, 0}, []int32{1, 1, 0, 1}, 1, 1, 4, plainInt64(1, 2, 3)),
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN,
			[]int32{0, 1, 1}, []int32{1, 1, 1}, 1, 1, 3, plainInt64(4, 5, 6)))

	return f.bytes()
}

func TestReadListColumn(t *testing.T) {
	r := openReader(t, ReaderOptions{}, listFixture(t))

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	b := res.Table.Columns[0]
	require.Len(t, b.Levels, 2)

	assert.Equal(t, 4, b.Levels[0].Length)
	assert.Equal(t, []int32{0, 2, 2, 3, 6}, b.Levels[0].Offsets)
	assert.Equal(t, 0, b.Levels[0].NullCount)

	assert.Equal(t, 6, b.Levels[1].Length)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, b.Values.Int64)
	assert.Equal(t, 0, b.Levels[1].NullCount)
}

func TestReadListColumnWindow(t *testing.T) {
	r := openReader(t, ReaderOptions{}, listFixture(t))

	// rows 2 and 3: the window starts on the last row of the first page
	// and ends inside the second
	res, err := r.Read(ReadOptions{SkipRows: 2, NumRows: 2})
	require.NoError(t, err)

	b := res.Table.Columns[0]
	assert.Equal(t, int64(2), res.Table.NumRows)
	assert.Equal(t, 2, b.Levels[0].Length)
	assert.Equal(t, []int32{0, 1, 4}, b.Levels[0].Offsets)
	assert.Equal(t, []int64{3, 4, 5, 6}, b.Values.Int64)
}

func TestReadNullableList(t *testing.T) {
	group := &parquet.SchemaElement{
		Name:           "tags",
		RepetitionType: parquet.FieldRepetitionTypePtr(parquet.FieldRepetitionType_OPTIONAL),
		NumChildren:    parquet.Int32Ptr(1),
		ConvertedType:  parquet.ConvertedTypePtr(parquet.ConvertedType_LIST),
	}

	f := newFixtureFile(t,
		rootElement(1),
		group,
		stringElement("element", parquet.FieldRepetitionType_REPEATED),
	)

	// rows: ["x" "y"], null, [], ["z"]
	f.startRowGroup(4)
	f.addChunk([]string{"tags", "element"}, parquet.Type_BYTE_ARRAY, parquet.CompressionCodec_UNCOMPRESSED, 5,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN,
			[]int32{0, 1, 0, 0, 0}, []int32{2, 2, 0, 1, 2}, 1, 2, 5, plainByteArray("x", "y", "z")))

	r := openReader(t, ReaderOptions{}, f.bytes())

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	b := res.Table.Columns[0]
	assert.Equal(t, "tags.element", b.Name)
	require.Len(t, b.Levels, 2)

	assert.Equal(t, 4, b.Levels[0].Length)
	assert.Equal(t, []int32{0, 2, 2, 2, 3}, b.Levels[0].Offsets)
	assert.Equal(t, 1, b.Levels[0].NullCount)
	assert.True(t, b.Levels[0].Valid(0))
	assert.False(t, b.Levels[0].Valid(1))
	assert.True(t, b.Levels[0].Valid(2))

	assert.Equal(t, 3, b.Levels[1].Length)
	assert.Equal(t, "x", string(b.Values.ByteArray[0]))
	assert.Equal(t, "z", string(b.Values.ByteArray[2]))
}

func dictFixture(t *testing.T) []byte {
	f := newFixtureFile(t,
		rootElement(1),
		stringElement("color", parquet.FieldRepetitionType_REQUIRED),
	)

	f.startRowGroup(5)
	f.addChunk([]string{"color"}, parquet.Type_BYTE_ARRAY, parquet.CompressionCodec_SNAPPY, 5,
		dictionaryPage(t, parquet.CompressionCodec_SNAPPY, 3, plainByteArray("red", "green", "blue")),
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_RLE_DICTIONARY,
			nil, nil, 0, 0, 5, dictIndices(t, []int32{0, 1, 2, 1, 0}, 2)))

	f.startRowGroup(2)
	f.addChunk([]string{"color"}, parquet.Type_BYTE_ARRAY, parquet.CompressionCodec_SNAPPY, 2,
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN,
			nil, nil, 0, 0, 2, plainByteArray("blue", "amber")))

	return f.bytes()
}

func TestReadDictionaryStrings(t *testing.T) {
	r := openReader(t, ReaderOptions{}, dictFixture(t))

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	b := res.Table.Columns[0]
	require.Equal(t, 7, b.Rows())

	got := make([]string, 0, 7)
	for _, v := range b.Values.ByteArray {
		got = append(got, string(v))
	}

	assert.Equal(t, []string{"red", "green", "blue", "green", "red", "blue", "amber"}, got)
}

func TestReadStringsToCategorical(t *testing.T) {
	r := openReader(t, ReaderOptions{StringsToCategorical: true}, dictFixture(t))

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	b := res.Table.Columns[0]
	require.True(t, b.Categorical)

	assert.Equal(t, []int32{0, 1, 2, 1, 0, 2, 3}, b.Values.Int32)

	require.Len(t, b.Categories, 4)
	assert.Equal(t, "red", string(b.Categories[0]))
	assert.Equal(t, "green", string(b.Categories[1]))
	assert.Equal(t, "blue", string(b.Categories[2]))
	assert.Equal(t, "amber", string(b.Categories[3]))
}

func TestReadDataPageV2(t *testing.T) {
	f := newFixtureFile(t,
		rootElement(1),
		leafElement("n", parquet.Type_INT32, parquet.FieldRepetitionType_OPTIONAL),
	)

	f.startRowGroup(4)
	f.addChunk([]string{"n"}, parquet.Type_INT32, parquet.CompressionCodec_ZSTD, 4,
		dataPageV2(t, parquet.CompressionCodec_ZSTD, parquet.Encoding_PLAIN,
			nil, []int32{1, 1, 0, 1}, 0, 1, 4, 1, 4, plainInt32(7, 8, 9)))

	r := openReader(t, ReaderOptions{}, f.bytes())

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	b := res.Table.Columns[0]
	assert.Equal(t, 4, b.Rows())
	assert.Equal(t, 1, b.Levels[0].NullCount)
	assert.Equal(t, int32(7), b.Values.Int32[0])
	assert.Equal(t, int32(8), b.Values.Int32[1])
	assert.Equal(t, int32(9), b.Values.Int32[3])
	assert.False(t, b.Levels[0].Valid(2))
}

func TestReadMultipleSources(t *testing.T) {
	one := newFixtureFile(t,
		rootElement(1),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
	)
	one.startRowGroup(2)
	one.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_UNCOMPRESSED, 2,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(1, 2)))

	two := newFixtureFile(t,
		rootElement(1),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
	)
	two.startRowGroup(2)
	two.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_UNCOMPRESSED, 2,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(3, 4)))

	r := openReader(t, ReaderOptions{}, one.bytes(), two.bytes())

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, res.Table.Columns[0].Values.Int64)

	// the window spans the source boundary
	res, err = r.Read(ReadOptions{SkipRows: 1, NumRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, res.Table.Columns[0].Values.Int64)
}

func TestReadSchemaMismatch(t *testing.T) {
	other := newFixtureFile(t,
		rootElement(1),
		leafElement("id", parquet.Type_INT32, parquet.FieldRepetitionType_REQUIRED),
	)
	other.startRowGroup(1)
	other.addChunk([]string{"id"}, parquet.Type_INT32, parquet.CompressionCodec_UNCOMPRESSED, 1,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, nil, 0, 0, 1, plainInt32(1)))

	sources := []source.Reader{
		memory.NewReader("a", windowFixture(t)),
		memory.NewReader("b", other.bytes()),
	}

	_, err := NewReader(sources, ReaderOptions{})
	require.Error(t, err)
	assert.Equal(t, ErrSchemaMismatch, errors.Cause(err))
}

func TestReadRowGroupSelection(t *testing.T) {
	f := newFixtureFile(t,
		rootElement(1),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
	)

	for i := 0; i < 3; i++ {
		f.startRowGroup(2)
		f.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_UNCOMPRESSED, 2,
			dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2,
				plainInt64(int64(i*2+1), int64(i*2+2))))
	}

	r := openReader(t, ReaderOptions{}, f.bytes())

	res, err := r.Read(ReadOptions{RowGroups: [][]int{{2, 0}}})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 1, 2}, res.Table.Columns[0].Values.Int64)

	_, err = r.Read(ReadOptions{RowGroups: [][]int{{3}}})
	require.Error(t, err)
	assert.Equal(t, ErrInvalidOptions, errors.Cause(err))
}

func int96Timestamp(day uint32, nanoOfDay uint64) [12]byte {
	var b [12]byte
	binary.LittleEndian.PutUint64(b[:8], nanoOfDay)
	binary.LittleEndian.PutUint32(b[8:], day)

	return b
}

func TestReadTimestampResolution(t *testing.T) {
	millis := leafElement("t64", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED)
	millis.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_TIMESTAMP_MILLIS)

	f := newFixtureFile(t,
		rootElement(2),
		millis,
		leafElement("t96", parquet.Type_INT96, parquet.FieldRepetitionType_REQUIRED),
	)

	f.startRowGroup(2)
	f.addChunk([]string{"t64"}, parquet.Type_INT64, parquet.CompressionCodec_UNCOMPRESSED, 2,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(1_000, 2_500)))
	f.addChunk([]string{"t96"}, parquet.Type_INT96, parquet.CompressionCodec_UNCOMPRESSED, 2,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt96(
			int96Timestamp(2440588, 1_000_000_000),
			int96Timestamp(2440589, 0),
		)))

	r := openReader(t, ReaderOptions{TimestampResolution: TimeUnitMicros}, f.bytes())

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	t64 := res.Table.Columns[0]
	assert.Equal(t, []int64{1_000_000, 2_500_000}, t64.Values.Int64)

	t96 := res.Table.Columns[1]
	assert.Equal(t, []int64{1_000_000, 86_400_000_000}, t96.Values.Int64)
}

func TestReadCorruptedFile(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		data := flatFixture(t)
		data[len(data)-1] = 'X'

		_, err := NewReader([]source.Reader{memory.NewReader("bad", data)}, ReaderOptions{})
		require.Error(t, err)
		assert.Equal(t, ErrCorrupted, errors.Cause(err))
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := NewReader([]source.Reader{memory.NewReader("tiny", []byte("PAR1"))}, ReaderOptions{})
		require.Error(t, err)
		assert.Equal(t, ErrCorrupted, errors.Cause(err))
	})
}

func TestReadDecompressedSizeMismatch(t *testing.T) {
	f := newFixtureFile(t,
		rootElement(1),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
	)

	page := dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(1, 2))
	page.header.UncompressedPageSize++

	f.startRowGroup(2)
	f.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_SNAPPY, 2, page)

	r := openReader(t, ReaderOptions{}, f.bytes())

	_, err := r.Read(ReadOptions{})
	require.Error(t, err)
	assert.Equal(t, ErrCorrupted, errors.Cause(err))
}

func TestReadUnsupportedCodec(t *testing.T) {
	f := newFixtureFile(t,
		rootElement(2),
		leafElement("id", parquet.Type_INT64, parquet.FieldRepetitionType_REQUIRED),
		leafElement("val", parquet.Type_INT32, parquet.FieldRepetitionType_REQUIRED),
	)

	f.startRowGroup(2)
	f.addChunk([]string{"id"}, parquet.Type_INT64, parquet.CompressionCodec_SNAPPY, 2,
		dataPageV1(t, parquet.CompressionCodec_SNAPPY, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt64(1, 2)))
	f.addChunk([]string{"val"}, parquet.Type_INT32, parquet.CompressionCodec_LZO, 2,
		dataPageV1(t, parquet.CompressionCodec_LZO, parquet.Encoding_PLAIN, nil, nil, 0, 0, 2, plainInt32(3, 4)))

	r := openReader(t, ReaderOptions{}, f.bytes())

	_, err := r.Read(ReadOptions{})
	require.Error(t, err)
	assert.Equal(t, ErrUnsupported, errors.Cause(err))
}

func TestReadDictPageMissing(t *testing.T) {
	f := newFixtureFile(t,
		rootElement(1),
		stringElement("color", parquet.FieldRepetitionType_REQUIRED),
	)

	f.startRowGroup(2)
	f.addChunk([]string{"color"}, parquet.Type_BYTE_ARRAY, parquet.CompressionCodec_UNCOMPRESSED, 2,
		dataPageV1(t, parquet.CompressionCodec_UNCOMPRESSED, parquet.Encoding_RLE_DICTIONARY,
			nil, nil, 0, 0, 2, dictIndices(t, []int32{0, 1}, 1)))

	r := openReader(t, ReaderOptions{}, f.bytes())

	_, err := r.Read(ReadOptions{})
	require.Error(t, err)
	assert.Equal(t, ErrCorrupted, errors.Cause(err))
}

func TestReadBinaryAsStringOverride(t *testing.T) {
	r := openReader(t, ReaderOptions{BinaryAsString: map[string]bool{"name": false}}, flatFixture(t))

	res, err := r.Read(ReadOptions{})
	require.NoError(t, err)

	assert.False(t, res.Table.Columns[1].AsString)
}

func TestPlanBatches(t *testing.T) {
	chunks := []*chunkDesc{{size: 40}, {size: 40}, {size: 40}, {size: 200}, {size: 10}}

	batches := planBatches(chunks, 100)
	assert.Equal(t, [][2]int{{0, 2}, {2, 3}, {3, 4}, {4, 5}}, batches)

	assert.Nil(t, planBatches(nil, 100))
}
