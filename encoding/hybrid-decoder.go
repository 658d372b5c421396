package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"
	"math/bits"

	"github.com/hexbee-net/errors"
)

// HybridDecoder decodes the RLE/bit-packed hybrid encoding used for
// definition levels, repetition levels and dictionary indices.
type HybridDecoder struct {
	r io.Reader

	bitWidth     int
	unpackerFn   unpack8int32Func
	rleValueSize int

	bpRun [8]int32

	rleCount uint32
	rleValue int32

	bpCount  uint32
	bpRunPos uint8

	buffered bool
}

func NewHybridDecoder(bitWidth int, buffered bool) *HybridDecoder {
	return &HybridDecoder{
		bitWidth:   bitWidth,
		unpackerFn: unpack8Int32FuncByWidth[bitWidth],

		rleValueSize: (bitWidth + 7) / 8,

		buffered: buffered,
	}
}

func (d *HybridDecoder) Init(reader io.Reader) error {
	if d.buffered {
		buf, err := ioutil.ReadAll(reader)
		if err != nil {
			return err
		}

		d.r = bytes.NewReader(buf)
	} else {
		d.r = reader
	}

	return nil
}

// InitSize reads the little-endian length prefix that fronts a v1 level
// stream, then initializes the decoder over exactly that many bytes.
func (d *HybridDecoder) InitSize(reader io.Reader) error {
	if d.bitWidth == 0 {
		return nil
	}

	var size uint32
	if err := binary.Read(reader, binary.LittleEndian, &size); err != nil {
		return err
	}

	return d.Init(io.LimitReader(reader, int64(size)))
}

func (d *HybridDecoder) Next() (int32, error) {
	// a zero bit width stream holds nothing but zero values.
	if d.bitWidth == 0 {
		return 0, nil
	}

	if d.r == nil {
		return 0, errors.WithStack(errNilReader)
	}

	if d.rleCount == 0 && d.bpCount == 0 && d.bpRunPos == 0 {
		if err := d.readRunHeader(); err != nil {
			return 0, err
		}
	}

	var next int32

	switch {
	case d.rleCount > 0:
		next = d.rleValue
		d.rleCount--

	case d.bpCount > 0 || d.bpRunPos > 0:
		if d.bpRunPos == 0 {
			if err := d.readBitPackedRun(); err != nil {
				return 0, err
			}
			d.bpCount--
		}

		next = d.bpRun[d.bpRunPos]
		d.bpRunPos = (d.bpRunPos + 1) % 8

	default:
		return 0, io.EOF
	}

	return next, nil
}

func (d *HybridDecoder) readRunHeader() error {
	h, err := readUVarInt32(d.r)
	if err != nil {
		// binary.ReadUvarint reports EOF even after a partial read; there
		// is no way to distinguish a clean end of stream here.
		return err
	}

	// the lowest bit selects bit-packed over RLE.
	if h&1 == 1 {
		d.bpCount = uint32(h >> 1)
		if d.bpCount == 0 {
			return errors.New("rle: empty bit-packed run")
		}

		d.bpRunPos = 0

		return nil
	}

	d.rleCount = uint32(h >> 1)
	if d.rleCount == 0 {
		return errors.New("rle: empty RLE run")
	}

	return d.readRLERunValue()
}

func (d *HybridDecoder) readBitPackedRun() error {
	data := make([]byte, d.bitWidth)

	if _, err := io.ReadFull(d.r, data); err != nil {
		return err
	}

	d.bpRun = d.unpackerFn(data)

	return nil
}

func (d *HybridDecoder) readRLERunValue() error {
	v := make([]byte, d.rleValueSize)

	if _, err := io.ReadFull(d.r, v); err != nil {
		if err == io.ErrUnexpectedEOF {
			return err
		}

		return io.ErrUnexpectedEOF
	}

	var value int32
	for i := len(v) - 1; i >= 0; i-- {
		value = value<<8 | int32(v[i])
	}

	d.rleValue = value

	if bits.LeadingZeros32(uint32(d.rleValue)) < 32-d.bitWidth {
		return errors.New("rle: RLE run value is too large")
	}

	return nil
}
