package parq

import (
	"bytes"
	"encoding/binary"

	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/parquet"
	"github.com/corvidlake/parq/schema"
	"github.com/corvidlake/parq/source"
)

var magic = []byte("PAR1")

// footerSize is the fixed tail of a file: the footer length plus the
// trailing magic.
const footerSize = 8

// sourceInfo is one source together with its decoded footer.
type sourceInfo struct {
	reader source.Reader
	meta   *parquet.FileMetaData
	schema *schema.Schema
}

// rowGroupRef is one selected row group positioned in the global row
// space of the read.
type rowGroupRef struct {
	src      int
	index    int
	rows     int64
	startRow int64
}

// fileSet is the aggregated metadata of all sources of a Reader: their
// footers reconciled against a single schema.
type fileSet struct {
	sources   []*sourceInfo
	schema    *schema.Schema
	keyValue  map[string]string
	createdBy []string
	totalRows int64
}

// readFileMetaData decodes the footer of a single source, validating the
// leading and trailing magic and the footer length.
func readFileMetaData(r source.Reader) (*parquet.FileMetaData, error) {
	size := r.Size()
	if size < int64(len(magic))+footerSize {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "file too small to hold a footer"),
			errors.Fields{
				"source": r.Name(),
				"size":   size,
			})
	}

	buf := make([]byte, footerSize)
	if _, err := r.ReadAt(buf, size-footerSize); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, "reading file tail"),
			errors.Fields{
				"source": r.Name(),
			})
	}

	if !bytes.Equal(buf[4:], magic) {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "invalid magic at end of file"),
			errors.Fields{
				"source": r.Name(),
			})
	}

	head := make([]byte, len(magic))
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, "reading file head"),
			errors.Fields{
				"source": r.Name(),
			})
	}

	if !bytes.Equal(head, magic) {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "invalid magic at start of file"),
			errors.Fields{
				"source": r.Name(),
			})
	}

	footerLen := int64(binary.LittleEndian.Uint32(buf[:4]))
	if footerLen <= 0 || footerLen+footerSize+int64(len(magic)) > size {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "invalid footer length"),
			errors.Fields{
				"source":        r.Name(),
				"footer-length": footerLen,
			})
	}

	footer := make([]byte, footerLen)
	if _, err := r.ReadAt(footer, size-footerSize-footerLen); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, "reading footer"),
			errors.Fields{
				"source": r.Name(),
			})
	}

	meta := &parquet.FileMetaData{}
	if err := parquet.ReadFrom(meta, bytes.NewReader(footer)); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "decoding footer"),
			errors.Fields{
				"source": r.Name(),
				"cause":  err.Error(),
			})
	}

	return meta, nil
}

// aggregateMetadata decodes every source's footer and reconciles the
// schemas. All sources of one read must agree on the schema exactly.
func aggregateMetadata(readers []source.Reader) (*fileSet, error) {
	if len(readers) == 0 {
		return nil, errors.Wrap(ErrInvalidOptions, "no sources")
	}

	fs := &fileSet{
		sources:   make([]*sourceInfo, len(readers)),
		keyValue:  make(map[string]string),
		createdBy: make([]string, len(readers)),
	}

	for i, r := range readers {
		meta, err := readFileMetaData(r)
		if err != nil {
			return nil, err
		}

		sc, err := schema.Load(meta.Schema)
		if err != nil {
			return nil, errors.WithFields(
				errors.Wrap(ErrCorrupted, "loading schema"),
				errors.Fields{
					"source": r.Name(),
					"cause":  err.Error(),
				})
		}

		fs.sources[i] = &sourceInfo{
			reader: r,
			meta:   meta,
			schema: sc,
		}

		if i > 0 && !fs.sources[0].schema.Equal(sc) {
			return nil, errors.WithFields(
				errors.WithStack(ErrSchemaMismatch),
				errors.Fields{
					"source":  r.Name(),
					"against": readers[0].Name(),
				})
		}

		for _, kv := range meta.KeyValueMetadata {
			if kv.Value != nil {
				fs.keyValue[kv.Key] = *kv.Value
			}
		}

		if meta.CreatedBy != nil {
			fs.createdBy[i] = *meta.CreatedBy
		}

		fs.totalRows += meta.NumRows
	}

	fs.schema = fs.sources[0].schema

	return fs, nil
}

// selectRowGroups resolves the row-group selection into global row space.
// A nil selection takes every row group of every source.
func (fs *fileSet) selectRowGroups(selection [][]int) ([]rowGroupRef, int64, error) {
	var (
		refs  []rowGroupRef
		total int64
	)

	add := func(src, index int) error {
		groups := fs.sources[src].meta.RowGroups
		if index < 0 || index >= len(groups) {
			return errors.WithFields(
				errors.Wrap(ErrInvalidOptions, "row group index out of range"),
				errors.Fields{
					"source":     fs.sources[src].reader.Name(),
					"index":      index,
					"row-groups": len(groups),
				})
		}

		refs = append(refs, rowGroupRef{
			src:      src,
			index:    index,
			rows:     groups[index].NumRows,
			startRow: total,
		})
		total += groups[index].NumRows

		return nil
	}

	for src := range fs.sources {
		var indexes []int
		if selection != nil {
			indexes = selection[src]
		}

		if indexes == nil {
			for index := range fs.sources[src].meta.RowGroups {
				if err := add(src, index); err != nil {
					return nil, 0, err
				}
			}

			continue
		}

		for _, index := range indexes {
			if err := add(src, index); err != nil {
				return nil, 0, err
			}
		}
	}

	return refs, total, nil
}

// buildChunks emits one chunk descriptor per (selected row group,
// selected leaf), in source order, positioned in global row space.
func (fs *fileSet) buildChunks(refs []rowGroupRef, leaves []*schema.Column) ([]*chunkDesc, error) {
	chunks := make([]*chunkDesc, 0, len(refs)*len(leaves))

	for _, ref := range refs {
		src := fs.sources[ref.src]
		rg := src.meta.RowGroups[ref.index]

		if len(rg.Columns) != len(fs.schema.Leaves()) {
			return nil, errors.WithFields(
				errors.Wrap(ErrCorrupted, "row group column count does not match the schema"),
				errors.Fields{
					"source":    src.reader.Name(),
					"row-group": ref.index,
					"columns":   len(rg.Columns),
					"leaves":    len(fs.schema.Leaves()),
				})
		}

		for out, leaf := range leaves {
			cc := rg.Columns[leaf.Index()]

			desc, err := newChunkDesc(src.reader, cc, leaf, out, ref)
			if err != nil {
				return nil, err
			}

			chunks = append(chunks, desc)
		}
	}

	return chunks, nil
}

func newChunkDesc(r source.Reader, cc *parquet.ColumnChunk, leaf *schema.Column, out int, ref rowGroupRef) (*chunkDesc, error) {
	if cc.FilePath != nil && *cc.FilePath != "" {
		return nil, errors.WithFields(
			errors.Wrap(ErrUnsupported, "column chunk stored in an external file"),
			errors.Fields{
				"source":    r.Name(),
				"file-path": *cc.FilePath,
			})
	}

	meta := cc.MetaData
	if meta == nil {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "column chunk without metadata"),
			errors.Fields{
				"source": r.Name(),
				"column": leaf.FlatName(),
			})
	}

	if meta.Type != leaf.Type() {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "column chunk type does not match the schema"),
			errors.Fields{
				"source":      r.Name(),
				"column":      leaf.FlatName(),
				"chunk-type":  meta.Type.String(),
				"schema-type": leaf.Type().String(),
			})
	}

	offset := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset > 0 && *meta.DictionaryPageOffset < offset {
		offset = *meta.DictionaryPageOffset
	}

	if offset <= 0 || meta.TotalCompressedSize < 0 || offset+meta.TotalCompressedSize > r.Size() {
		return nil, errors.WithFields(
			errors.Wrap(ErrCorrupted, "column chunk outside the file"),
			errors.Fields{
				"source": r.Name(),
				"column": leaf.FlatName(),
				"offset": offset,
				"size":   meta.TotalCompressedSize,
			})
	}

	return &chunkDesc{
		src:      r,
		leaf:     leaf,
		out:      out,
		meta:     meta,
		offset:   offset,
		size:     meta.TotalCompressedSize,
		startRow: ref.startRow,
		rows:     ref.rows,
	}, nil
}
