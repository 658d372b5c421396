package column

import (
	"github.com/corvidlake/parq/parquet"
)

// Level is one nesting depth of an output column. Level 0 is the row
// level; each repeated ancestor of the leaf adds one more. The innermost
// level owns the values, every level above it owns list offsets.
type Level struct {
	// Length is the number of entries materialized at this level.
	Length int

	// Validity holds one bit per entry, set for non-null entries.
	Validity []uint64

	// NullCount counts the unset validity bits.
	NullCount int

	// Offsets maps each entry of this level to its first child in the
	// level below; it has Length+1 entries and is nil on the innermost
	// level.
	Offsets []int32
}

// SetValid marks entry i as non-null.
func (l *Level) SetValid(i int) {
	l.Validity[i>>6] |= 1 << (uint(i) & 63)
}

// Valid reports whether entry i is non-null.
func (l *Level) Valid(i int) bool {
	return l.Validity[i>>6]&(1<<(uint(i)&63)) != 0
}

// Buffer is the materialized storage of exactly one output column. It is
// created pre-sized from the preprocessing counts and written in place by
// the page decoder.
type Buffer struct {
	Name string

	Kind          parquet.Type
	ConvertedType *parquet.ConvertedType
	TypeLength    *int32
	Scale         *int32
	Precision     *int32
	FieldID       *int32

	// AsString marks a BYTE_ARRAY column materialized as string data
	// rather than raw binary; decided once per column, never per page.
	AsString bool

	// Categorical marks a string column materialized as dictionary codes.
	// Values then holds int32 codes into Categories.
	Categories  [][]byte
	Categorical bool

	Levels []Level
	Values Values
}

// NewBuffer allocates the storage of one output column: one level per
// nesting depth with sizes[l] entries, offsets on the outer levels and
// values on the innermost one. Categorical columns store int32 dictionary
// codes instead of the physical type.
func NewBuffer(name string, kind parquet.Type, sizes []int, categorical bool) (*Buffer, error) {
	b := &Buffer{
		Name:        name,
		Kind:        kind,
		Categorical: categorical,
		Levels:      make([]Level, len(sizes)),
		Values:      Values{Kind: kind},
	}

	for l, size := range sizes {
		b.Levels[l] = Level{
			Length:   size,
			Validity: make([]uint64, (size+63)/64),
		}

		if l < len(sizes)-1 {
			b.Levels[l].Offsets = make([]int32, size+1)
		}
	}

	valueKind := kind
	if b.Categorical {
		valueKind = parquet.Type_INT32
	}

	b.Values.Kind = valueKind

	if err := b.Values.Resize(sizes[len(sizes)-1]); err != nil {
		return nil, err
	}

	return b, nil
}

// Rows returns the row count of the column.
func (b *Buffer) Rows() int {
	return b.Levels[0].Length
}

// CloseOffsets writes the terminal offset of every list level. Pages fill
// offsets at entry creation, so the very last slot of each level is only
// known once all pages are done.
func (b *Buffer) CloseOffsets() {
	for l := 0; l < len(b.Levels)-1; l++ {
		if b.Levels[l].Offsets != nil {
			b.Levels[l].Offsets[b.Levels[l].Length] = int32(b.Levels[l+1].Length)
		}
	}
}
