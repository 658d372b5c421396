package parq

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/column"
	"github.com/corvidlake/parq/encoding"
	"github.com/corvidlake/parq/parquet"
	"github.com/corvidlake/parq/schema"
)

// valuesDecoder reads the value stream of one page, one value at a time.
// skip consumes a value without materializing it, which keeps the stream
// in step with the levels when rows fall outside the window.
type valuesDecoder interface {
	init(r *bytes.Reader) error
	decode(dst *column.Values, at int) error
	skip() error
}

// columnDecode is the per-column decode state shared by all pages of the
// column: the output buffer, the timestamp conversion and the categorical
// dictionary builder.
type columnDecode struct {
	leaf *schema.Column
	buf  *column.Buffer
	ts   *timestampConvert
	cats *catBuilder
}

func newColumnDecode(leaf *schema.Column, buf *column.Buffer, opts *ReaderOptions) (*columnDecode, error) {
	cd := &columnDecode{
		leaf: leaf,
		buf:  buf,
	}

	if buf.Categorical {
		cd.cats = &catBuilder{index: make(map[string]int32)}
	}

	cd.ts = newTimestampConvert(leaf, opts.TimestampResolution)

	if leaf.Type() == parquet.Type_FIXED_LEN_BYTE_ARRAY {
		if leaf.Element().TypeLength == nil || *leaf.Element().TypeLength <= 0 {
			return nil, errors.WithFields(
				errors.Wrap(ErrCorrupted, "fixed length column without a type length"),
				errors.Fields{
					"column": leaf.FlatName(),
				})
		}
	}

	return cd, nil
}

// plainDecoder builds the PLAIN decoder matching the column's physical
// type and output conversions.
func (cd *columnDecode) plainDecoder() (valuesDecoder, error) {
	switch cd.leaf.Type() {
	case parquet.Type_BOOLEAN:
		return &plainBoolDecoder{}, nil
	case parquet.Type_INT32:
		return &plainInt32Decoder{}, nil
	case parquet.Type_INT64:
		return &plainInt64Decoder{ts: cd.ts}, nil
	case parquet.Type_INT96:
		return &plainInt96Decoder{ts: cd.ts}, nil
	case parquet.Type_FLOAT:
		return &plainFloatDecoder{}, nil
	case parquet.Type_DOUBLE:
		return &plainDoubleDecoder{}, nil
	case parquet.Type_BYTE_ARRAY:
		return &plainByteArrayDecoder{cats: cd.cats}, nil
	case parquet.Type_FIXED_LEN_BYTE_ARRAY:
		return &plainFixedByteArrayDecoder{size: int(*cd.leaf.Element().TypeLength), cats: cd.cats}, nil
	default:
		return nil, errors.WithFields(
			errors.Wrap(ErrUnsupported, "unsupported physical type"),
			errors.Fields{
				"column": cd.leaf.FlatName(),
				"type":   cd.leaf.Type().String(),
			})
	}
}

// newPageDecoder builds the value decoder of one data page.
func (cd *columnDecode) newPageDecoder(p *pageDesc, dict *dictionary) (valuesDecoder, error) {
	switch p.encoding {
	case parquet.Encoding_PLAIN:
		return cd.plainDecoder()

	case parquet.Encoding_PLAIN_DICTIONARY, parquet.Encoding_RLE_DICTIONARY:
		if dict == nil {
			return nil, pageError(p.chunk, p.begin, ErrCorrupted, "dictionary-encoded page without a dictionary page")
		}

		return &dictIndexDecoder{dict: dict}, nil

	case parquet.Encoding_DELTA_BINARY_PACKED:
		switch cd.leaf.Type() {
		case parquet.Type_INT32:
			return &deltaInt32Decoder{}, nil
		case parquet.Type_INT64:
			return &deltaInt64Decoder{ts: cd.ts}, nil
		}

		return nil, encodingError(p.chunk, p.begin, p.encoding)

	default:
		return nil, encodingError(p.chunk, p.begin, p.encoding)
	}
}

// dictionary is the decoded dictionary page of one chunk. Values are
// already carried through the column's output conversions; categorical
// columns additionally hold the per-entry dictionary codes.
type dictionary struct {
	values column.Values
	codes  []int32
}

func decodeDictionary(p *pageDesc, cd *columnDecode) (*dictionary, error) {
	dict := &dictionary{
		values: column.Values{Kind: cd.buf.Values.Kind},
	}

	if cd.cats != nil {
		dict.values.Kind = parquet.Type_BYTE_ARRAY
	}

	if err := dict.values.Resize(int(p.numValues)); err != nil {
		return nil, errors.WithStack(err)
	}

	dec, err := cd.plainDecoder()
	if err != nil {
		return nil, err
	}

	// the categorical mapping happens below, on the whole dictionary
	if bd, ok := dec.(*plainByteArrayDecoder); ok {
		bd.cats = nil
	}

	if err := dec.init(bytes.NewReader(p.data)); err != nil {
		return nil, pageError(p.chunk, p.begin, ErrCorrupted, "initializing dictionary decoder")
	}

	for i := 0; i < int(p.numValues); i++ {
		if err := dec.decode(&dict.values, i); err != nil {
			return nil, pageError(p.chunk, p.begin, ErrCorrupted, "truncated dictionary page")
		}
	}

	if cd.cats != nil {
		dict.codes = make([]int32, len(dict.values.ByteArray))
		for i, v := range dict.values.ByteArray {
			dict.codes[i] = cd.cats.code(v)
		}
	}

	return dict, nil
}

// catBuilder assigns stable int32 codes to distinct byte sequences across
// all chunks of one column.
type catBuilder struct {
	index map[string]int32
	cats  [][]byte
}

func (b *catBuilder) code(v []byte) int32 {
	if c, ok := b.index[string(v)]; ok {
		return c
	}

	c := int32(len(b.cats))
	b.index[string(v)] = c
	b.cats = append(b.cats, v)

	return c
}

// timestampConvert normalizes stored timestamps to the requested unit.
type timestampConvert struct {
	fromInt96 bool
	mul       int64
	div       int64
}

func unitTicks(unit TimeUnit) int64 {
	switch unit {
	case TimeUnitMillis:
		return 1_000
	case TimeUnitMicros:
		return 1_000_000
	case TimeUnitNanos:
		return 1_000_000_000
	default:
		return 0
	}
}

// julianEpochDay is the Julian day number of the Unix epoch.
const julianEpochDay = 2440588

// newTimestampConvert returns the conversion of a timestamp column to the
// requested resolution, or nil when the column keeps its representation.
func newTimestampConvert(leaf *schema.Column, unit TimeUnit) *timestampConvert {
	target := unitTicks(unit)
	if target == 0 {
		return nil
	}

	if leaf.Type() == parquet.Type_INT96 {
		return scaledConvert(&timestampConvert{fromInt96: true}, 1_000_000_000, target)
	}

	if leaf.Type() != parquet.Type_INT64 || leaf.Element().ConvertedType == nil {
		return nil
	}

	var source int64

	switch *leaf.Element().ConvertedType {
	case parquet.ConvertedType_TIMESTAMP_MILLIS:
		source = 1_000
	case parquet.ConvertedType_TIMESTAMP_MICROS:
		source = 1_000_000
	default:
		return nil
	}

	return scaledConvert(&timestampConvert{}, source, target)
}

func scaledConvert(c *timestampConvert, source, target int64) *timestampConvert {
	if target >= source {
		c.mul = target / source
	} else {
		c.div = source / target
	}

	return c
}

func (c *timestampConvert) apply(v int64) int64 {
	if c.mul > 0 {
		return v * c.mul
	}

	return v / c.div
}

func (c *timestampConvert) fromJulian(raw [12]byte) int64 {
	nanoOfDay := int64(binary.LittleEndian.Uint64(raw[:8]))
	day := int64(int32(binary.LittleEndian.Uint32(raw[8:])))

	return c.apply((day-julianEpochDay)*86_400_000_000_000 + nanoOfDay)
}

type plainBoolDecoder struct {
	r   io.Reader
	cur byte
	pos uint8
}

func (d *plainBoolDecoder) init(r *bytes.Reader) error {
	d.r = r
	d.pos = 0

	return nil
}

func (d *plainBoolDecoder) next() (bool, error) {
	if d.pos == 0 {
		var buf [1]byte
		if _, err := io.ReadFull(d.r, buf[:]); err != nil {
			return false, err
		}

		d.cur = buf[0]
	}

	v := d.cur&(1<<d.pos) != 0
	d.pos = (d.pos + 1) % 8

	return v, nil
}

func (d *plainBoolDecoder) decode(dst *column.Values, at int) error {
	v, err := d.next()
	if err != nil {
		return err
	}

	dst.Bool[at] = v

	return nil
}

func (d *plainBoolDecoder) skip() error {
	_, err := d.next()
	return err
}

type plainInt32Decoder struct {
	r io.Reader
}

func (d *plainInt32Decoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainInt32Decoder) next() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, err
	}

	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func (d *plainInt32Decoder) decode(dst *column.Values, at int) error {
	v, err := d.next()
	if err != nil {
		return err
	}

	dst.Int32[at] = v

	return nil
}

func (d *plainInt32Decoder) skip() error {
	_, err := d.next()
	return err
}

type plainInt64Decoder struct {
	r  io.Reader
	ts *timestampConvert
}

func (d *plainInt64Decoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainInt64Decoder) next() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, err
	}

	v := int64(binary.LittleEndian.Uint64(buf[:]))
	if d.ts != nil {
		v = d.ts.apply(v)
	}

	return v, nil
}

func (d *plainInt64Decoder) decode(dst *column.Values, at int) error {
	v, err := d.next()
	if err != nil {
		return err
	}

	dst.Int64[at] = v

	return nil
}

func (d *plainInt64Decoder) skip() error {
	_, err := d.next()
	return err
}

type plainInt96Decoder struct {
	r  io.Reader
	ts *timestampConvert
}

func (d *plainInt96Decoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainInt96Decoder) decode(dst *column.Values, at int) error {
	var buf [12]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return err
	}

	if d.ts != nil {
		dst.Int64[at] = d.ts.fromJulian(buf)
		return nil
	}

	dst.Int96[at] = buf

	return nil
}

func (d *plainInt96Decoder) skip() error {
	var buf [12]byte
	_, err := io.ReadFull(d.r, buf[:])

	return err
}

type plainFloatDecoder struct {
	r io.Reader
}

func (d *plainFloatDecoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainFloatDecoder) decode(dst *column.Values, at int) error {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return err
	}

	dst.Float[at] = math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))

	return nil
}

func (d *plainFloatDecoder) skip() error {
	var buf [4]byte
	_, err := io.ReadFull(d.r, buf[:])

	return err
}

type plainDoubleDecoder struct {
	r io.Reader
}

func (d *plainDoubleDecoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainDoubleDecoder) decode(dst *column.Values, at int) error {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return err
	}

	dst.Double[at] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))

	return nil
}

func (d *plainDoubleDecoder) skip() error {
	var buf [8]byte
	_, err := io.ReadFull(d.r, buf[:])

	return err
}

type plainByteArrayDecoder struct {
	r    io.Reader
	cats *catBuilder
}

func (d *plainByteArrayDecoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainByteArrayDecoder) next() ([]byte, error) {
	var buf [4]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return nil, err
	}

	n := binary.LittleEndian.Uint32(buf[:])

	v := make([]byte, n)
	if _, err := io.ReadFull(d.r, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (d *plainByteArrayDecoder) decode(dst *column.Values, at int) error {
	v, err := d.next()
	if err != nil {
		return err
	}

	if d.cats != nil {
		dst.Int32[at] = d.cats.code(v)
		return nil
	}

	dst.ByteArray[at] = v

	return nil
}

func (d *plainByteArrayDecoder) skip() error {
	_, err := d.next()
	return err
}

type plainFixedByteArrayDecoder struct {
	r    io.Reader
	size int
	cats *catBuilder
}

func (d *plainFixedByteArrayDecoder) init(r *bytes.Reader) error {
	d.r = r
	return nil
}

func (d *plainFixedByteArrayDecoder) decode(dst *column.Values, at int) error {
	v := make([]byte, d.size)
	if _, err := io.ReadFull(d.r, v); err != nil {
		return err
	}

	if d.cats != nil {
		dst.Int32[at] = d.cats.code(v)
		return nil
	}

	dst.ByteArray[at] = v

	return nil
}

func (d *plainFixedByteArrayDecoder) skip() error {
	v := make([]byte, d.size)
	_, err := io.ReadFull(d.r, v)

	return err
}

// dictIndexDecoder reads RLE-encoded indices into the chunk dictionary.
// The stream opens with a single byte holding the index bit width.
type dictIndexDecoder struct {
	dict *dictionary
	hd   *encoding.HybridDecoder
}

func (d *dictIndexDecoder) init(r *bytes.Reader) error {
	width, err := r.ReadByte()
	if err != nil {
		return err
	}

	if width > 32 {
		return errors.WithFields(
			errors.Wrap(ErrCorrupted, "invalid dictionary index bit width"),
			errors.Fields{
				"bit-width": width,
			})
	}

	d.hd = encoding.NewHybridDecoder(int(width), false)

	return d.hd.Init(r)
}

func (d *dictIndexDecoder) next() (int, error) {
	idx, err := d.hd.Next()
	if err != nil {
		return 0, err
	}

	if idx < 0 || int(idx) >= d.dict.values.Len() {
		return 0, errors.WithFields(
			errors.Wrap(ErrCorrupted, "dictionary index out of range"),
			errors.Fields{
				"index": idx,
				"size":  d.dict.values.Len(),
			})
	}

	return int(idx), nil
}

func (d *dictIndexDecoder) decode(dst *column.Values, at int) error {
	idx, err := d.next()
	if err != nil {
		return err
	}

	if d.dict.codes != nil {
		dst.Int32[at] = d.dict.codes[idx]
		return nil
	}

	src := &d.dict.values

	switch dst.Kind {
	case parquet.Type_BOOLEAN:
		dst.Bool[at] = src.Bool[idx]
	case parquet.Type_INT32:
		dst.Int32[at] = src.Int32[idx]
	case parquet.Type_INT64:
		dst.Int64[at] = src.Int64[idx]
	case parquet.Type_INT96:
		dst.Int96[at] = src.Int96[idx]
	case parquet.Type_FLOAT:
		dst.Float[at] = src.Float[idx]
	case parquet.Type_DOUBLE:
		dst.Double[at] = src.Double[idx]
	case parquet.Type_BYTE_ARRAY, parquet.Type_FIXED_LEN_BYTE_ARRAY:
		dst.ByteArray[at] = src.ByteArray[idx]
	}

	return nil
}

func (d *dictIndexDecoder) skip() error {
	_, err := d.next()
	return err
}

type deltaInt32Decoder struct {
	d encoding.DeltaBinaryPackDecoder32
}

func (d *deltaInt32Decoder) init(r *bytes.Reader) error {
	return d.d.Init(r)
}

func (d *deltaInt32Decoder) decode(dst *column.Values, at int) error {
	v, err := d.d.Next()
	if err != nil {
		return err
	}

	dst.Int32[at] = v

	return nil
}

func (d *deltaInt32Decoder) skip() error {
	_, err := d.d.Next()
	return err
}

type deltaInt64Decoder struct {
	d  encoding.DeltaBinaryPackDecoder64
	ts *timestampConvert
}

func (d *deltaInt64Decoder) init(r *bytes.Reader) error {
	return d.d.Init(r)
}

func (d *deltaInt64Decoder) decode(dst *column.Values, at int) error {
	v, err := d.d.Next()
	if err != nil {
		return err
	}

	if d.ts != nil {
		v = d.ts.apply(v)
	}

	dst.Int64[at] = v

	return nil
}

func (d *deltaInt64Decoder) skip() error {
	_, err := d.d.Next()
	return err
}
