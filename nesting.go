package parq

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/schema"
)

// nestingRecord is the slot of one page at one output nesting level: how
// many entries the page contributes there after row-window cropping, and
// at which offset of the column buffer they land.
type nestingRecord struct {
	size  int32
	start int32
}

// rowWindow is the half-open global row range [begin, end) a read
// materializes.
type rowWindow struct {
	begin, end int64
}

func (w rowWindow) rows() int64 {
	return w.end - w.begin
}

func (w rowWindow) contains(row int64) bool {
	return row >= w.begin && row < w.end
}

// overlapCount returns how many of the count rows starting at start fall
// inside the window.
func (w rowWindow) overlapCount(start, count int64) int64 {
	lo, hi := start, start+count

	if lo < w.begin {
		lo = w.begin
	}

	if hi > w.end {
		hi = w.end
	}

	if hi <= lo {
		return 0
	}

	return hi - lo
}

// allocateNestingInfo binds every page a span of nesting records out of a
// single backing array of (total pages × max depth) slots. Flat columns
// get their single row-level slot the same way.
func allocateNestingInfo(chunks []*chunkDesc, maxDepth uint16) []nestingRecord {
	total := 0
	for _, c := range chunks {
		total += len(c.pages)
	}

	records := make([]nestingRecord, total*int(maxDepth))

	slot := 0

	for _, c := range chunks {
		depth := int(c.leaf.MaxDepth())

		for _, p := range c.pages {
			p.nesting = records[slot*int(maxDepth) : slot*int(maxDepth)+depth]
			slot++
		}
	}

	return records
}

// countPageLevels walks the level streams of one data page and counts the
// entries it contributes per output nesting level, keeping only the rows
// inside the window. It also returns the page's raw row count.
func countPageLevels(p *pageDesc, win rowWindow) (int64, []int32, error) {
	leaf := p.chunk.leaf

	rep, def, _, err := p.levelDecoders()
	if err != nil {
		return 0, nil, err
	}

	var (
		maxRep     = int32(leaf.MaxRepetitionLevel())
		maxDef     = int32(leaf.MaxDefinitionLevel())
		presentDef = leaf.PresentDef()
		counts     = make([]int32, leaf.MaxDepth())
		rowIdx     = int64(-1)
	)

	for i := int32(0); i < p.numValues; i++ {
		r, d, err := nextLevels(p, rep, def, maxRep, maxDef)
		if err != nil {
			return 0, nil, err
		}

		if r == 0 {
			rowIdx++
		} else if rowIdx < 0 {
			return 0, nil, pageError(p.chunk, p.begin, ErrCorrupted, "page does not start on a row boundary")
		}

		if !win.contains(p.startRow + rowIdx) {
			continue
		}

		for l := r; l <= maxRep; l++ {
			if uint16(d) < presentDef[l] {
				break
			}

			counts[l]++
		}
	}

	return rowIdx + 1, counts, nil
}

// nextLevels reads one (repetition, definition) pair and validates it
// against the column's declared maxima.
func nextLevels(p *pageDesc, rep, def levelDecoder, maxRep, maxDef int32) (int32, int32, error) {
	r, err := rep.Next()
	if err != nil {
		return 0, 0, pageError(p.chunk, p.begin, ErrCorrupted, "truncated repetition levels")
	}

	d, err := def.Next()
	if err != nil {
		return 0, 0, pageError(p.chunk, p.begin, ErrCorrupted, "truncated definition levels")
	}

	if r < 0 || r > maxRep || d < 0 || d > maxDef {
		return 0, 0, errors.WithFields(
			errors.Wrap(ErrCorrupted, "level value outside the schema's range"),
			errors.Fields{
				"source":     p.chunk.src.Name(),
				"column":     p.chunk.leaf.FlatName(),
				"repetition": r,
				"definition": d,
			})
	}

	return r, d, nil
}

// preprocessColumns sizes every page against the row window: list columns
// get a full level walk, flat columns plain row arithmetic. Pages outside
// the window end up with zero-size records, boundary pages with cropped
// ones. Returns the per-column buffer sizes, one entry per nesting level.
func preprocessColumns(chunks []*chunkDesc, leaves []*schema.Column, win rowWindow) ([][]int, error) {
	byOut := make([][]*chunkDesc, len(leaves))
	for _, c := range chunks {
		byOut[c.out] = append(byOut[c.out], c)
	}

	sizes := make([][]int, len(leaves))

	t := newTask()

	for out, leaf := range leaves {
		out, leaf := out, leaf

		t.Go(func() error {
			pos := make([]int32, leaf.MaxDepth())

			for _, c := range byOut[out] {
				if err := preprocessChunk(c, leaf, win, pos); err != nil {
					return err
				}
			}

			if int64(pos[0]) != win.rows() {
				return errors.WithFields(
					errors.Wrap(ErrCorrupted, "selected pages do not cover the requested rows"),
					errors.Fields{
						"column":    leaf.FlatName(),
						"requested": win.rows(),
						"covered":   pos[0],
					})
			}

			sizes[out] = make([]int, len(pos))
			for l, n := range pos {
				sizes[out][l] = int(n)
			}

			return nil
		})
	}

	if err := t.Wait(); err != nil {
		return nil, err
	}

	return sizes, nil
}

func preprocessChunk(c *chunkDesc, leaf *schema.Column, win rowWindow, pos []int32) error {
	row := c.startRow

	for _, p := range c.pages {
		if p.dict {
			continue
		}

		if leaf.HasLists() {
			p.startRow = row

			rows, counts, err := countPageLevels(p, win)
			if err != nil {
				return err
			}

			p.rows = rows
			row += rows

			for l, n := range counts {
				p.nesting[l] = nestingRecord{start: pos[l], size: n}
				pos[l] += n
			}

			continue
		}

		n := int32(win.overlapCount(p.startRow, p.rows))
		p.nesting[0] = nestingRecord{start: pos[0], size: n}
		pos[0] += n
		row += p.rows
	}

	if row-c.startRow != c.rows {
		return errors.WithFields(
			errors.Wrap(ErrCorrupted, "page rows do not sum to the row group row count"),
			errors.Fields{
				"source":   c.src.Name(),
				"column":   leaf.FlatName(),
				"expected": c.rows,
				"actual":   row - c.startRow,
			})
	}

	return nil
}
