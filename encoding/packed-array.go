package encoding

import (
	"github.com/hexbee-net/errors"
)

const packedArrayBufSize = 8

// PackedArray is a bit-packed int32 array used to hold decoded repetition
// and definition levels. Levels are small (~<10), so packing them costs
// roughly 1/8th of the memory of an []uint16.
type PackedArray struct {
	count int
	bw    int
	data  []byte

	buf    [packedArrayBufSize]int32
	bufPos int

	writer pack8int32Func
	reader unpack8int32Func
}

func (a *PackedArray) Reset(bitWidth int) error {
	if bitWidth < 0 || bitWidth > 32 {
		return errors.WithFields(
			errors.WithStack(errInvalidBitWidth),
			errors.Fields{
				"bit-width": bitWidth,
			})
	}

	a.bw = bitWidth
	a.count = 0
	a.bufPos = 0
	a.data = a.data[:0]
	a.writer = pack8Int32FuncByWidth[bitWidth]
	a.reader = unpack8Int32FuncByWidth[bitWidth]

	return nil
}

func (a *PackedArray) Count() int {
	return a.count
}

func (a *PackedArray) Flush() {
	for i := a.bufPos; i < packedArrayBufSize; i++ {
		a.buf[i] = 0
	}

	a.data = append(a.data, a.writer(a.buf)...)
	a.bufPos = 0
}

func (a *PackedArray) AppendSingle(v int32) {
	if a.bufPos == packedArrayBufSize {
		a.Flush()
	}

	a.buf[a.bufPos] = v
	a.bufPos++
	a.count++
}

// At returns the value at pos without unpacking the whole array.
func (a *PackedArray) At(pos int) (int32, error) {
	if pos < 0 || pos >= a.count {
		return 0, errors.WithStack(errOutOfRange)
	}

	if a.bw == 0 {
		return 0, nil
	}

	block := (pos / 8) * a.bw
	idx := pos % 8

	if block >= len(a.data) {
		return a.buf[idx], nil
	}

	buf := a.reader(a.data[block : block+a.bw])

	return buf[idx], nil
}
