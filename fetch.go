package parq

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/column"
)

// planBatches splits the chunk list into contiguous runs whose compressed
// sizes stay under the byte limit, so header decoding of one batch can
// overlap the IO of the next. A single oversized chunk still gets its own
// batch.
func planBatches(chunks []*chunkDesc, limit int64) [][2]int {
	var (
		batches [][2]int
		begin   int
		pending int64
	)

	for i, c := range chunks {
		if i > begin && pending+c.size > limit {
			batches = append(batches, [2]int{begin, i})
			begin, pending = i, 0
		}

		pending += c.size
	}

	if begin < len(chunks) {
		batches = append(batches, [2]int{begin, len(chunks)})
	}

	return batches
}

// fetchChunks starts reading the raw bytes of every chunk in the batch,
// one goroutine per chunk, and returns the completion handle.
func fetchChunks(chunks []*chunkDesc, alloc column.Allocator) *task {
	t := newTask()

	for _, c := range chunks {
		c := c

		t.Go(func() error {
			if c.size == 0 {
				return nil
			}

			buf, err := alloc.AllocateBytes(c.size)
			if err != nil {
				return errors.WithStack(err)
			}

			if _, err := c.src.ReadAt(buf, c.offset); err != nil {
				return errors.WithFields(
					errors.Wrap(err, "fetching column chunk"),
					errors.Fields{
						"source": c.src.Name(),
						"column": c.leaf.FlatName(),
						"offset": c.offset,
						"size":   c.size,
					})
			}

			c.data = buf

			return nil
		})
	}

	return t
}
