// Package parq reads Parquet files from one or more byte-range-addressable
// sources into typed, pre-sized column buffers. A read runs as a fixed
// pipeline: footer aggregation, chunk fetching, page header decoding,
// decompression, row-window preprocessing and page decoding, with the
// independent pieces of each stage fanned out over goroutines.
package parq

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/column"
	"github.com/corvidlake/parq/parquet"
	"github.com/corvidlake/parq/schema"
	"github.com/corvidlake/parq/source"
)

// Reader reads a set of sources sharing one schema. The footers are
// decoded and reconciled once, at construction; every Read call runs the
// page pipeline against them.
type Reader struct {
	opts  ReaderOptions
	files *fileSet
}

func NewReader(sources []source.Reader, opts ReaderOptions) (*Reader, error) {
	fs, err := aggregateMetadata(sources)
	if err != nil {
		return nil, err
	}

	if len(opts.Columns) > 0 {
		if err := fs.schema.SetSelectedColumns(opts.Columns...); err != nil {
			return nil, errors.WithFields(
				errors.Wrap(ErrInvalidOptions, "unknown column selected"),
				errors.Fields{
					"cause": err.Error(),
				})
		}
	}

	return &Reader{
		opts:  opts,
		files: fs,
	}, nil
}

// Schema returns the unified schema of the sources.
func (r *Reader) Schema() *schema.Schema {
	return r.files.schema
}

// NumRows returns the total row count across all sources.
func (r *Reader) NumRows() int64 {
	return r.files.totalRows
}

// Metadata returns the file-level metadata shared by every read.
func (r *Reader) Metadata() *TableMetadata {
	return &TableMetadata{
		Schema:    r.files.schema,
		KeyValue:  r.files.keyValue,
		CreatedBy: r.files.createdBy,
	}
}

// Close closes every source.
func (r *Reader) Close() error {
	var first error

	for _, s := range r.files.sources {
		if err := s.reader.Close(); err != nil && first == nil {
			first = errors.WithFields(
				errors.Wrap(err, "closing source"),
				errors.Fields{
					"source": s.reader.Name(),
				})
		}
	}

	return first
}

// Read materializes the selected columns of the selected rows. A failure
// anywhere in the pipeline fails the whole read.
func (r *Reader) Read(opts ReadOptions) (*TableWithMetadata, error) {
	if err := opts.validate(len(r.files.sources)); err != nil {
		return nil, err
	}

	refs, total, err := r.files.selectRowGroups(opts.RowGroups)
	if err != nil {
		return nil, err
	}

	skip := opts.SkipRows
	if skip > total {
		skip = total
	}

	num := total - skip
	if opts.NumRows > 0 && opts.NumRows < num {
		num = opts.NumRows
	}

	win := rowWindow{begin: skip, end: skip + num}
	leaves := r.files.schema.SelectedLeaves()
	alloc := r.opts.allocator()

	chunks, err := r.files.buildChunks(refs, leaves)
	if err != nil {
		return nil, err
	}

	if err := r.fetchAndDecodeHeaders(chunks, alloc); err != nil {
		return nil, err
	}

	if err := decompressPages(chunks, alloc); err != nil {
		return nil, err
	}

	allocateNestingInfo(chunks, schema.MaxDepth(leaves))

	sizes, err := preprocessColumns(chunks, leaves, win)
	if err != nil {
		return nil, err
	}

	buffers := make([]*column.Buffer, len(leaves))

	for out, leaf := range leaves {
		buf, err := newOutputBuffer(leaf, sizes[out], &r.opts)
		if err != nil {
			return nil, err
		}

		buffers[out] = buf
	}

	if err := decodePageData(chunks, leaves, buffers, win, &r.opts); err != nil {
		return nil, err
	}

	return &TableWithMetadata{
		Table: &Table{
			Columns: buffers,
			NumRows: num,
		},
		Meta: r.Metadata(),
	}, nil
}

// fetchAndDecodeHeaders pulls the chunk bytes in batches and runs both
// page header passes per batch, starting the next batch's IO before
// decoding the current one.
func (r *Reader) fetchAndDecodeHeaders(chunks []*chunkDesc, alloc column.Allocator) error {
	batches := planBatches(chunks, r.opts.batchByteLimit())
	if len(batches) == 0 {
		return nil
	}

	inflight := fetchChunks(chunks[batches[0][0]:batches[0][1]], alloc)

	for i, b := range batches {
		cur := inflight
		inflight = nil

		if i+1 < len(batches) {
			next := batches[i+1]
			inflight = fetchChunks(chunks[next[0]:next[1]], alloc)
		}

		if err := cur.Wait(); err != nil {
			drain(inflight)
			return err
		}

		batch := chunks[b[0]:b[1]]

		if err := countPageHeaders(batch).Wait(); err != nil {
			drain(inflight)
			return err
		}

		if err := decodePageHeaders(batch).Wait(); err != nil {
			drain(inflight)
			return err
		}
	}

	return nil
}

func drain(t *task) {
	if t != nil {
		_ = t.Wait()
	}
}

func isStringLeaf(leaf *schema.Column) bool {
	el := leaf.Element()
	return el.ConvertedType != nil && *el.ConvertedType == parquet.ConvertedType_UTF8
}

// newOutputBuffer allocates the buffer of one output column from the
// preprocessing sizes, applying the column-level materialization policy:
// string vs binary, categorical codes, timestamp resolution.
func newOutputBuffer(leaf *schema.Column, sizes []int, opts *ReaderOptions) (*column.Buffer, error) {
	kind := leaf.Type()

	categorical := kind == parquet.Type_BYTE_ARRAY && opts.StringsToCategorical && isStringLeaf(leaf)

	if newTimestampConvert(leaf, opts.TimestampResolution) != nil {
		kind = parquet.Type_INT64
	}

	buf, err := column.NewBuffer(leaf.FlatName(), kind, sizes, categorical)
	if err != nil {
		return nil, err
	}

	el := leaf.Element()
	buf.ConvertedType = el.ConvertedType
	buf.TypeLength = el.TypeLength
	buf.Scale = el.Scale
	buf.Precision = el.Precision
	buf.FieldID = el.FieldID

	asString := isStringLeaf(leaf)
	if v, ok := opts.BinaryAsString[leaf.FlatName()]; ok {
		asString = v
	}

	buf.AsString = asString && !categorical

	return buf, nil
}
