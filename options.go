package parq

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/column"
)

// TimeUnit selects the resolution timestamps are normalized to. The zero
// value keeps the stored representation untouched.
type TimeUnit int

const (
	TimeUnitNone TimeUnit = iota
	TimeUnitMillis
	TimeUnitMicros
	TimeUnitNanos
)

const defaultBatchByteLimit = 256 << 20

// ReaderOptions configures a Reader for all of its reads.
type ReaderOptions struct {
	// Columns restricts the output to the named leaf columns, in dotted
	// notation. Empty selects every leaf.
	Columns []string

	// StringsToCategorical materializes string columns as int32 dictionary
	// codes plus a dictionary instead of raw strings.
	StringsToCategorical bool

	// BinaryAsString overrides the per-column string materialization of
	// BYTE_ARRAY columns, keyed by dotted column name. Columns without an
	// entry follow their converted type.
	BinaryAsString map[string]bool

	// TimestampResolution normalizes timestamp columns (INT96, or INT64
	// with a timestamp converted type) to the requested unit as int64.
	TimestampResolution TimeUnit

	// BatchByteLimit caps the compressed bytes fetched and held in flight
	// per chunk batch. Zero means the default of 256 MiB.
	BatchByteLimit int64

	// Allocator provides the backing storage of the fetched chunks and
	// the decompression arena. Nil means plain heap allocation.
	Allocator column.Allocator
}

func (o *ReaderOptions) batchByteLimit() int64 {
	if o.BatchByteLimit <= 0 {
		return defaultBatchByteLimit
	}

	return o.BatchByteLimit
}

func (o *ReaderOptions) allocator() column.Allocator {
	if o.Allocator == nil {
		return column.HeapAllocator{}
	}

	return o.Allocator
}

// ReadOptions selects what one Read call materializes.
type ReadOptions struct {
	// RowGroups selects row groups per source, indexed like the sources
	// the Reader was built from. Nil selects every row group of every
	// source; a nil inner slice selects every row group of that source.
	// Non-nil RowGroups cannot be combined with a row window.
	RowGroups [][]int

	// SkipRows drops the first SkipRows rows of the selected row groups.
	// Clamped to the total row count.
	SkipRows int64

	// NumRows caps the returned rows. Zero or negative means all
	// remaining rows.
	NumRows int64
}

func (o *ReadOptions) validate(numSources int) error {
	if o.SkipRows < 0 {
		return errors.WithFields(
			errors.Wrap(ErrInvalidOptions, "negative row skip"),
			errors.Fields{
				"skip-rows": o.SkipRows,
			})
	}

	if o.RowGroups != nil {
		if o.SkipRows != 0 || o.NumRows > 0 {
			return errors.Wrap(ErrInvalidOptions, "row window cannot be combined with an explicit row group selection")
		}

		if len(o.RowGroups) != numSources {
			return errors.WithFields(
				errors.Wrap(ErrInvalidOptions, "row group selection does not match the source count"),
				errors.Fields{
					"sources":  numSources,
					"selected": len(o.RowGroups),
				})
		}
	}

	return nil
}
