package parq

import (
	"bytes"
	"math/bits"

	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/column"
	"github.com/corvidlake/parq/encoding"
	"github.com/corvidlake/parq/schema"
)

// levelDecoder yields one level value per call.
type levelDecoder interface {
	Next() (int32, error)
}

func levelBitWidth(max uint16) int {
	return bits.Len16(max)
}

// levelDecoders builds the repetition and definition level decoders of a
// data page and returns the reader positioned at the value block. V1
// pages carry length-prefixed level streams inside the decompressed
// payload; v2 pages store them uncompressed ahead of the value block.
func (p *pageDesc) levelDecoders() (rep, def levelDecoder, values *bytes.Reader, err error) {
	leaf := p.chunk.leaf
	rep = encoding.ConstDecoder(0)
	def = encoding.ConstDecoder(0)

	if p.v2 {
		lvl := p.levelData()

		if leaf.MaxRepetitionLevel() > 0 {
			d := encoding.NewHybridDecoder(levelBitWidth(leaf.MaxRepetitionLevel()), false)
			if err := d.Init(bytes.NewReader(lvl[:p.repBytes])); err != nil {
				return nil, nil, nil, errors.WithStack(err)
			}

			rep = d
		}

		if leaf.MaxDefinitionLevel() > 0 {
			d := encoding.NewHybridDecoder(levelBitWidth(leaf.MaxDefinitionLevel()), false)
			if err := d.Init(bytes.NewReader(lvl[p.repBytes:])); err != nil {
				return nil, nil, nil, errors.WithStack(err)
			}

			def = d
		}

		return rep, def, bytes.NewReader(p.data), nil
	}

	r := bytes.NewReader(p.data)

	if leaf.MaxRepetitionLevel() > 0 {
		d := encoding.NewHybridDecoder(levelBitWidth(leaf.MaxRepetitionLevel()), true)
		if err := d.InitSize(r); err != nil {
			return nil, nil, nil, pageError(p.chunk, p.begin, ErrCorrupted, "truncated repetition level stream")
		}

		rep = d
	}

	if leaf.MaxDefinitionLevel() > 0 {
		d := encoding.NewHybridDecoder(levelBitWidth(leaf.MaxDefinitionLevel()), true)
		if err := d.InitSize(r); err != nil {
			return nil, nil, nil, pageError(p.chunk, p.begin, ErrCorrupted, "truncated definition level stream")
		}

		def = d
	}

	return rep, def, r, nil
}

// decodePageData materializes every selected column: per column, the
// pages of its chunks decode sequentially into the pre-sized buffer at
// the offsets preprocessing computed; columns fan out in parallel.
func decodePageData(chunks []*chunkDesc, leaves []*schema.Column, buffers []*column.Buffer, win rowWindow, opts *ReaderOptions) error {
	byOut := make([][]*chunkDesc, len(leaves))
	for _, c := range chunks {
		byOut[c.out] = append(byOut[c.out], c)
	}

	t := newTask()

	for out, leaf := range leaves {
		out, leaf := out, leaf

		t.Go(func() error {
			return decodeColumn(byOut[out], leaf, buffers[out], win, opts)
		})
	}

	return t.Wait()
}

func decodeColumn(chunks []*chunkDesc, leaf *schema.Column, buf *column.Buffer, win rowWindow, opts *ReaderOptions) error {
	cd, err := newColumnDecode(leaf, buf, opts)
	if err != nil {
		return err
	}

	for _, c := range chunks {
		for _, p := range c.pages {
			if p.dict {
				dict, err := decodeDictionary(p, cd)
				if err != nil {
					return err
				}

				c.dict = dict

				continue
			}

			if p.nesting[0].size == 0 {
				continue
			}

			if err := decodeDataPage(p, cd, c.dict, win); err != nil {
				return err
			}
		}
	}

	if cd.cats != nil {
		buf.Categories = cd.cats.cats
	}

	buf.CloseOffsets()

	return nil
}

func decodeDataPage(p *pageDesc, cd *columnDecode, dict *dictionary, win rowWindow) error {
	leaf := p.chunk.leaf

	rep, def, values, err := p.levelDecoders()
	if err != nil {
		return err
	}

	dec, err := cd.newPageDecoder(p, dict)
	if err != nil {
		return err
	}

	if err := dec.init(values); err != nil {
		return pageError(p.chunk, p.begin, ErrCorrupted, "initializing value decoder")
	}

	var (
		maxRep     = int32(leaf.MaxRepetitionLevel())
		maxDef     = int32(leaf.MaxDefinitionLevel())
		presentDef = leaf.PresentDef()
		validDef   = leaf.ValidDef()
		buf        = cd.buf
		rowIdx     = int64(-1)
	)

	pos := make([]int32, len(p.nesting))
	for l, rec := range p.nesting {
		pos[l] = rec.start
	}

	for i := int32(0); i < p.numValues; i++ {
		r, d, err := nextLevels(p, rep, def, maxRep, maxDef)
		if err != nil {
			return err
		}

		if r == 0 {
			rowIdx++
		} else if rowIdx < 0 {
			return pageError(p.chunk, p.begin, ErrCorrupted, "page does not start on a row boundary")
		}

		if !win.contains(p.startRow + rowIdx) {
			// outside the row window: the value stream still has to be
			// consumed in step with the levels
			if d == maxDef {
				if err := dec.skip(); err != nil {
					return pageError(p.chunk, p.begin, ErrCorrupted, "truncated value stream")
				}
			}

			continue
		}

		for l := r; l <= maxRep; l++ {
			if uint16(d) < presentDef[l] {
				break
			}

			idx := int(pos[l])
			pos[l]++

			if l < maxRep {
				buf.Levels[l].Offsets[idx] = pos[l+1]
			}

			if uint16(d) >= validDef[l] {
				buf.Levels[l].SetValid(idx)
			} else {
				buf.Levels[l].NullCount++
			}

			if l == maxRep && d == maxDef {
				if err := dec.decode(&buf.Values, idx); err != nil {
					return pageError(p.chunk, p.begin, ErrCorrupted, "truncated value stream")
				}
			}
		}
	}

	return nil
}
