package parq

import (
	"bytes"

	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/parquet"
	"github.com/corvidlake/parq/schema"
	"github.com/corvidlake/parq/source"
)

// chunkDesc is the unit of IO: one column chunk of one row group,
// positioned in the global row space of the read.
type chunkDesc struct {
	src  source.Reader
	leaf *schema.Column
	out  int
	meta *parquet.ColumnMetaData

	offset   int64
	size     int64
	startRow int64
	rows     int64

	data      []byte
	pageCount int
	pages     []*pageDesc
	dict      *dictionary
}

// pageDesc is one page of a chunk. The payload span indexes the fetched
// chunk bytes; data points at the decompressed payload once the
// decompression stage ran.
type pageDesc struct {
	chunk  *chunkDesc
	header *parquet.PageHeader

	begin, end int64

	dict      bool
	numValues int32
	encoding  parquet.Encoding

	v2       bool
	repBytes int32
	defBytes int32

	data []byte

	startRow int64
	rows     int64
	nesting  []nestingRecord
}

// countingReader tracks how many bytes the thrift decoder consumed, which
// is the only way to find where a page header ends and its payload starts.
type countingReader struct {
	r *bytes.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}

// walkPageHeaders decodes the page headers of a chunk back to back,
// handing each one to fn together with its payload span.
func walkPageHeaders(c *chunkDesc, fn func(h *parquet.PageHeader, begin, end int64) error) error {
	var pos int64

	for pos < c.size {
		cr := &countingReader{r: bytes.NewReader(c.data[pos:])}

		h := &parquet.PageHeader{}
		if err := parquet.ReadFrom(h, cr); err != nil {
			return errors.WithFields(
				errors.Wrap(ErrCorrupted, "malformed page header"),
				errors.Fields{
					"source": c.src.Name(),
					"column": c.leaf.FlatName(),
					"offset": c.offset + pos,
					"cause":  err.Error(),
				})
		}

		begin := pos + cr.n
		end := begin + int64(h.CompressedPageSize)

		if h.CompressedPageSize < 0 || h.UncompressedPageSize < 0 || end > c.size {
			return errors.WithFields(
				errors.Wrap(ErrCorrupted, "page overruns its column chunk"),
				errors.Fields{
					"source":            c.src.Name(),
					"column":            c.leaf.FlatName(),
					"offset":            c.offset + pos,
					"compressed-size":   h.CompressedPageSize,
					"uncompressed-size": h.UncompressedPageSize,
				})
		}

		if err := fn(h, begin, end); err != nil {
			return err
		}

		pos = end
	}

	return nil
}

// countPageHeaders scans every chunk's headers to establish the page
// count, so the page and nesting arrays can be allocated in one piece
// before the full decode pass.
func countPageHeaders(chunks []*chunkDesc) *task {
	t := newTask()

	for _, c := range chunks {
		c := c

		t.Go(func() error {
			c.pageCount = 0

			return walkPageHeaders(c, func(h *parquet.PageHeader, begin, end int64) error {
				c.pageCount++
				return nil
			})
		})
	}

	return t
}

// decodePageHeaders re-walks every chunk and materializes its page
// descriptors, validating page kinds and encodings as it goes.
func decodePageHeaders(chunks []*chunkDesc) *task {
	t := newTask()

	for _, c := range chunks {
		c := c

		t.Go(func() error {
			return decodeChunkPages(c)
		})
	}

	return t
}

func decodeChunkPages(c *chunkDesc) error {
	c.pages = make([]*pageDesc, 0, c.pageCount)

	seenDict := false
	seenData := false

	err := walkPageHeaders(c, func(h *parquet.PageHeader, begin, end int64) error {
		p := &pageDesc{
			chunk:  c,
			header: h,
			begin:  begin,
			end:    end,
		}

		switch h.Type {
		case parquet.PageType_DICTIONARY_PAGE:
			if h.DictionaryPageHeader == nil {
				return pageError(c, begin, ErrCorrupted, "dictionary page without a dictionary header")
			}

			if seenDict {
				return pageError(c, begin, ErrCorrupted, "column chunk with more than one dictionary page")
			}

			if seenData {
				return pageError(c, begin, ErrCorrupted, "dictionary page after the first data page")
			}

			enc := h.DictionaryPageHeader.Encoding
			if enc != parquet.Encoding_PLAIN && enc != parquet.Encoding_PLAIN_DICTIONARY {
				return encodingError(c, begin, enc)
			}

			seenDict = true
			p.dict = true
			p.numValues = h.DictionaryPageHeader.NumValues
			p.encoding = enc

		case parquet.PageType_DATA_PAGE:
			if h.DataPageHeader == nil {
				return pageError(c, begin, ErrCorrupted, "data page without a data header")
			}

			d := h.DataPageHeader
			if !supportedValueEncoding(d.Encoding) {
				return encodingError(c, begin, d.Encoding)
			}

			if d.RepetitionLevelEncoding != parquet.Encoding_RLE && c.leaf.MaxRepetitionLevel() > 0 {
				return encodingError(c, begin, d.RepetitionLevelEncoding)
			}

			if d.DefinitionLevelEncoding != parquet.Encoding_RLE && c.leaf.MaxDefinitionLevel() > 0 {
				return encodingError(c, begin, d.DefinitionLevelEncoding)
			}

			seenData = true
			p.numValues = d.NumValues
			p.encoding = d.Encoding

		case parquet.PageType_DATA_PAGE_V2:
			if h.DataPageHeaderV2 == nil {
				return pageError(c, begin, ErrCorrupted, "data page without a data header")
			}

			d := h.DataPageHeaderV2
			if !supportedValueEncoding(d.Encoding) {
				return encodingError(c, begin, d.Encoding)
			}

			levelBytes := int64(d.RepetitionLevelsByteLength) + int64(d.DefinitionLevelsByteLength)
			if d.RepetitionLevelsByteLength < 0 || d.DefinitionLevelsByteLength < 0 ||
				levelBytes > int64(h.CompressedPageSize) || levelBytes > int64(h.UncompressedPageSize) {
				return pageError(c, begin, ErrCorrupted, "level streams overrun the page")
			}

			seenData = true
			p.v2 = true
			p.numValues = d.NumValues
			p.encoding = d.Encoding
			p.repBytes = d.RepetitionLevelsByteLength
			p.defBytes = d.DefinitionLevelsByteLength

		case parquet.PageType_INDEX_PAGE:
			// not used by the read path, skip the payload
			return nil

		default:
			return pageError(c, begin, ErrUnsupported, "unknown page type")
		}

		c.pages = append(c.pages, p)

		return nil
	})
	if err != nil {
		return err
	}

	// flat chunks know their per-page rows straight from the headers
	if !c.leaf.HasLists() {
		row := c.startRow

		for _, p := range c.pages {
			if p.dict {
				continue
			}

			p.startRow = row
			p.rows = int64(p.numValues)
			row += p.rows
		}
	}

	return nil
}

func supportedValueEncoding(enc parquet.Encoding) bool {
	switch enc {
	case parquet.Encoding_PLAIN,
		parquet.Encoding_PLAIN_DICTIONARY,
		parquet.Encoding_RLE_DICTIONARY,
		parquet.Encoding_DELTA_BINARY_PACKED:
		return true
	default:
		return false
	}
}

func pageError(c *chunkDesc, pos int64, sentinel error, msg string) error {
	return errors.WithFields(
		errors.Wrap(sentinel, msg),
		errors.Fields{
			"source": c.src.Name(),
			"column": c.leaf.FlatName(),
			"offset": c.offset + pos,
		})
}

func encodingError(c *chunkDesc, pos int64, enc parquet.Encoding) error {
	return errors.WithFields(
		errors.Wrap(ErrUnsupported, "unsupported page encoding"),
		errors.Fields{
			"source":   c.src.Name(),
			"column":   c.leaf.FlatName(),
			"offset":   c.offset + pos,
			"encoding": enc.String(),
		})
}

// rawPayload returns the page payload as fetched, before decompression.
func (p *pageDesc) rawPayload() []byte {
	return p.chunk.data[p.begin:p.end]
}

// levelData returns the raw level streams of a v2 page; they are stored
// uncompressed ahead of the value block.
func (p *pageDesc) levelData() []byte {
	raw := p.rawPayload()
	return raw[:p.repBytes+p.defBytes]
}
