package parq

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"math"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/corvidlake/parq/encoding"
	"github.com/corvidlake/parq/parquet"
)

// The fixtures below write real files from scratch: magic, pages, chunk
// and footer metadata. Tests build them in memory and read them back
// through the full pipeline.

func compressBlock(t *testing.T, codec parquet.CompressionCodec, raw []byte) []byte {
	t.Helper()

	switch codec {
	case parquet.CompressionCodec_UNCOMPRESSED:
		return raw

	case parquet.CompressionCodec_SNAPPY:
		return snappy.Encode(nil, raw)

	case parquet.CompressionCodec_GZIP:
		var buf bytes.Buffer

		w := gzip.NewWriter(&buf)
		_, err := w.Write(raw)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		return buf.Bytes()

	case parquet.CompressionCodec_ZSTD:
		var buf bytes.Buffer

		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(raw)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		return buf.Bytes()

	case parquet.CompressionCodec_LZO:
		// the reader rejects the codec before touching the payload
		return raw

	default:
		t.Fatalf("fixture cannot compress with %s", codec)
		return nil
	}
}

func encodeLevels(t *testing.T, levels []int32, bitWidth int, sized bool) []byte {
	t.Helper()

	var buf bytes.Buffer

	e := encoding.NewHybridEncoder(bitWidth)

	if sized {
		require.NoError(t, e.InitSize(&buf))
	} else {
		require.NoError(t, e.Init(&buf))
	}

	require.NoError(t, e.Encode(levels))
	require.NoError(t, e.Close())

	return buf.Bytes()
}

func plainInt32(vals ...int32) []byte {
	buf := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		buf = append(buf, b[:]...)
	}

	return buf
}

func plainInt64(vals ...int64) []byte {
	buf := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		buf = append(buf, b[:]...)
	}

	return buf
}

func plainDouble(vals ...float64) []byte {
	buf := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf = append(buf, b[:]...)
	}

	return buf
}

func plainByteArray(vals ...string) []byte {
	var buf []byte

	for _, v := range vals {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(len(v)))
		buf = append(buf, b[:]...)
		buf = append(buf, v...)
	}

	return buf
}

func plainInt96(vals ...[12]byte) []byte {
	var buf []byte
	for _, v := range vals {
		buf = append(buf, v[:]...)
	}

	return buf
}

// dictIndices encodes RLE dictionary indices the way data pages carry
// them: one bit-width byte followed by the hybrid stream.
func dictIndices(t *testing.T, indices []int32, bitWidth int) []byte {
	t.Helper()

	buf := []byte{byte(bitWidth)}

	return append(buf, encodeLevels(t, indices, bitWidth, false)...)
}

type fixturePage struct {
	header  *parquet.PageHeader
	payload []byte
}

// dataPageV1 assembles a v1 data page: length-prefixed level streams and
// values compressed together as one block.
func dataPageV1(t *testing.T, codec parquet.CompressionCodec, enc parquet.Encoding, reps, defs []int32, repWidth, defWidth int, numValues int32, values []byte) fixturePage {
	t.Helper()

	var raw bytes.Buffer

	if repWidth > 0 {
		raw.Write(encodeLevels(t, reps, repWidth, true))
	}

	if defWidth > 0 {
		raw.Write(encodeLevels(t, defs, defWidth, true))
	}

	raw.Write(values)

	payload := compressBlock(t, codec, raw.Bytes())

	return fixturePage{
		header: &parquet.PageHeader{
			Type:                 parquet.PageType_DATA_PAGE,
			UncompressedPageSize: int32(raw.Len()),
			CompressedPageSize:   int32(len(payload)),
			DataPageHeader: &parquet.DataPageHeader{
				NumValues:               numValues,
				Encoding:                enc,
				DefinitionLevelEncoding: parquet.Encoding_RLE,
				RepetitionLevelEncoding: parquet.Encoding_RLE,
			},
		},
		payload: payload,
	}
}

// dataPageV2 assembles a v2 data page: bare level streams stored
// uncompressed ahead of the compressed value block.
func dataPageV2(t *testing.T, codec parquet.CompressionCodec, enc parquet.Encoding, reps, defs []int32, repWidth, defWidth int, numValues, numNulls, numRows int32, values []byte) fixturePage {
	t.Helper()

	var repBytes, defBytes []byte

	if repWidth > 0 {
		repBytes = encodeLevels(t, reps, repWidth, false)
	}

	if defWidth > 0 {
		defBytes = encodeLevels(t, defs, defWidth, false)
	}

	block := compressBlock(t, codec, values)

	payload := append([]byte{}, repBytes...)
	payload = append(payload, defBytes...)
	payload = append(payload, block...)

	return fixturePage{
		header: &parquet.PageHeader{
			Type:                 parquet.PageType_DATA_PAGE_V2,
			UncompressedPageSize: int32(len(repBytes) + len(defBytes) + len(values)),
			CompressedPageSize:   int32(len(payload)),
			DataPageHeaderV2: &parquet.DataPageHeaderV2{
				NumValues:                  numValues,
				NumNulls:                   numNulls,
				NumRows:                    numRows,
				Encoding:                   enc,
				DefinitionLevelsByteLength: int32(len(defBytes)),
				RepetitionLevelsByteLength: int32(len(repBytes)),
				IsCompressed:               true,
			},
		},
		payload: payload,
	}
}

func dictionaryPage(t *testing.T, codec parquet.CompressionCodec, numValues int32, values []byte) fixturePage {
	t.Helper()

	payload := compressBlock(t, codec, values)

	return fixturePage{
		header: &parquet.PageHeader{
			Type:                 parquet.PageType_DICTIONARY_PAGE,
			UncompressedPageSize: int32(len(values)),
			CompressedPageSize:   int32(len(payload)),
			DictionaryPageHeader: &parquet.DictionaryPageHeader{
				NumValues: numValues,
				Encoding:  parquet.Encoding_PLAIN,
			},
		},
		payload: payload,
	}
}

// fixtureFile accumulates pages and metadata and renders a complete file.
type fixtureFile struct {
	t *testing.T

	buf    bytes.Buffer
	schema []*parquet.SchemaElement
	groups []*parquet.RowGroup
	kv     []*parquet.KeyValue
}

func newFixtureFile(t *testing.T, elements ...*parquet.SchemaElement) *fixtureFile {
	t.Helper()

	f := &fixtureFile{t: t, schema: elements}
	f.buf.WriteString("PAR1")

	return f
}

func (f *fixtureFile) keyValue(key, value string) {
	f.kv = append(f.kv, &parquet.KeyValue{Key: key, Value: parquet.StringPtr(value)})
}

func (f *fixtureFile) startRowGroup(rows int64) {
	f.groups = append(f.groups, &parquet.RowGroup{NumRows: rows})
}

func (f *fixtureFile) addChunk(path []string, typ parquet.Type, codec parquet.CompressionCodec, numValues int64, pages ...fixturePage) {
	f.t.Helper()

	begin := int64(f.buf.Len())

	var (
		dictOffset *int64
		dataOffset int64
	)

	for _, p := range pages {
		pos := int64(f.buf.Len())

		require.NoError(f.t, parquet.WriteTo(p.header, &f.buf))
		f.buf.Write(p.payload)

		if p.header.Type == parquet.PageType_DICTIONARY_PAGE {
			if dictOffset == nil {
				dictOffset = parquet.Int64Ptr(pos)
			}
		} else if dataOffset == 0 {
			dataOffset = pos
		}
	}

	total := int64(f.buf.Len()) - begin

	group := f.groups[len(f.groups)-1]
	group.TotalByteSize += total
	group.Columns = append(group.Columns, &parquet.ColumnChunk{
		FileOffset: begin,
		MetaData: &parquet.ColumnMetaData{
			Type:                  typ,
			Encodings:             []parquet.Encoding{parquet.Encoding_RLE, parquet.Encoding_PLAIN},
			PathInSchema:          path,
			Codec:                 codec,
			NumValues:             numValues,
			TotalUncompressedSize: total,
			TotalCompressedSize:   total,
			DataPageOffset:        dataOffset,
			DictionaryPageOffset:  dictOffset,
		},
	})
}

func (f *fixtureFile) bytes() []byte {
	f.t.Helper()

	var rows int64
	for _, g := range f.groups {
		rows += g.NumRows
	}

	meta := &parquet.FileMetaData{
		Version:          1,
		Schema:           f.schema,
		NumRows:          rows,
		RowGroups:        f.groups,
		KeyValueMetadata: f.kv,
		CreatedBy:        parquet.StringPtr("parq fixture"),
	}

	begin := f.buf.Len()
	require.NoError(f.t, parquet.WriteTo(meta, &f.buf))

	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(f.buf.Len()-begin))
	f.buf.Write(size[:])
	f.buf.WriteString("PAR1")

	return f.buf.Bytes()
}

// schema element shorthands

func rootElement(children int32) *parquet.SchemaElement {
	return &parquet.SchemaElement{
		Name:        "schema",
		NumChildren: parquet.Int32Ptr(children),
	}
}

func leafElement(name string, typ parquet.Type, rep parquet.FieldRepetitionType) *parquet.SchemaElement {
	return &parquet.SchemaElement{
		Name:           name,
		Type:           parquet.TypePtr(typ),
		RepetitionType: parquet.FieldRepetitionTypePtr(rep),
	}
}

func stringElement(name string, rep parquet.FieldRepetitionType) *parquet.SchemaElement {
	el := leafElement(name, parquet.Type_BYTE_ARRAY, rep)
	el.ConvertedType = parquet.ConvertedTypePtr(parquet.ConvertedType_UTF8)

	return el
}
