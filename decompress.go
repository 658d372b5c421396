package parq

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/column"
	"github.com/corvidlake/parq/compression"
	"github.com/corvidlake/parq/parquet"
)

func blockDecompressor(codec parquet.CompressionCodec) (compression.BlockDecompressor, error) {
	switch codec {
	case parquet.CompressionCodec_UNCOMPRESSED:
		return compression.Uncompressed{}, nil
	case parquet.CompressionCodec_SNAPPY:
		return compression.Snappy{}, nil
	case parquet.CompressionCodec_GZIP:
		return compression.GZip{}, nil
	case parquet.CompressionCodec_BROTLI:
		return compression.Brotli{}, nil
	case parquet.CompressionCodec_LZ4:
		return compression.LZ4{}, nil
	case parquet.CompressionCodec_ZSTD:
		return compression.ZStd{}, nil
	default:
		return nil, errors.WithFields(
			errors.Wrap(ErrUnsupported, "unsupported compression codec"),
			errors.Fields{
				"codec": codec.String(),
			})
	}
}

// decompressedSize returns the bytes a page occupies in the arena. Level
// streams of v2 pages sit uncompressed ahead of the value block, so only
// the value block goes through the codec.
func (p *pageDesc) decompressedSize() int64 {
	n := int64(p.header.UncompressedPageSize)
	if p.v2 {
		n -= int64(p.repBytes) + int64(p.defBytes)
	}

	return n
}

// compressedBlock returns the part of the raw payload the codec applies to.
func (p *pageDesc) compressedBlock() []byte {
	raw := p.rawPayload()
	if p.v2 {
		return raw[p.repBytes+p.defBytes:]
	}

	return raw
}

// isCompressed reports whether the page's value block actually went
// through the chunk codec.
func (p *pageDesc) isCompressed(codec parquet.CompressionCodec) bool {
	if codec == parquet.CompressionCodec_UNCOMPRESSED {
		return false
	}

	if p.v2 && p.header.DataPageHeaderV2 != nil && !p.header.DataPageHeaderV2.IsCompressed {
		return false
	}

	return true
}

// decompressPages inflates every page of every chunk into one arena,
// batched by codec. Pages that never went through a codec alias the
// fetched bytes instead.
func decompressPages(chunks []*chunkDesc, alloc column.Allocator) error {
	byCodec := make(map[parquet.CompressionCodec][]*pageDesc)

	var arenaSize int64

	for _, c := range chunks {
		for _, p := range c.pages {
			if !p.isCompressed(c.meta.Codec) {
				p.data = p.compressedBlock()
				continue
			}

			byCodec[c.meta.Codec] = append(byCodec[c.meta.Codec], p)
			arenaSize += p.decompressedSize()
		}
	}

	if arenaSize == 0 {
		return nil
	}

	// resolve every codec up front so no goroutine is in flight when an
	// unsupported one fails the read
	decs := make(map[parquet.CompressionCodec]compression.BlockDecompressor, len(byCodec))

	for codec := range byCodec {
		dec, err := blockDecompressor(codec)
		if err != nil {
			return err
		}

		decs[codec] = dec
	}

	arena, err := alloc.AllocateBytes(arenaSize)
	if err != nil {
		return errors.WithStack(err)
	}

	t := newTask()

	var pos int64

	for codec, pages := range byCodec {
		codec, pages := codec, pages
		dec := decs[codec]

		begin := pos
		for _, p := range pages {
			pos += p.decompressedSize()
		}

		batch := arena[begin:pos]

		t.Go(func() error {
			var off int64

			for _, p := range pages {
				dst := batch[off : off+p.decompressedSize()]
				off += p.decompressedSize()

				n, err := dec.DecompressBlock(p.compressedBlock(), dst)
				if err != nil {
					return errors.WithFields(
						errors.Wrap(ErrCorrupted, "decompressing page"),
						errors.Fields{
							"source": p.chunk.src.Name(),
							"column": p.chunk.leaf.FlatName(),
							"codec":  codec.String(),
							"cause":  err.Error(),
						})
				}

				if int64(n) != p.decompressedSize() {
					return errors.WithFields(
						errors.Wrap(ErrCorrupted, "decompressed size does not match the page header"),
						errors.Fields{
							"source":   p.chunk.src.Name(),
							"column":   p.chunk.leaf.FlatName(),
							"codec":    codec.String(),
							"expected": p.decompressedSize(),
							"actual":   n,
						})
				}

				p.data = dst
			}

			return nil
		})
	}

	return t.Wait()
}
