package encoding

// The bit-packed layout packs groups of 8 values: value i of a group
// occupies bits [i*w, (i+1)*w) of the group's w bytes, least significant
// bit first within each byte.

type pack8int32Func func([8]int32) []byte

type unpack8int32Func func([]byte) [8]int32

type unpack8int64Func func([]byte) [8]int64

var (
	pack8Int32FuncByWidth   [33]pack8int32Func
	unpack8Int32FuncByWidth [33]unpack8int32Func
	unpack8Int64FuncByWidth [33]unpack8int64Func
)

func init() {
	for w := 0; w <= 32; w++ {
		pack8Int32FuncByWidth[w] = pack8Int32(w)
		unpack8Int32FuncByWidth[w] = unpack8Int32(w)
		unpack8Int64FuncByWidth[w] = unpack8Int64(w)
	}
}

func pack8Int32(width int) pack8int32Func {
	return func(values [8]int32) []byte {
		out := make([]byte, width)

		for i := 0; i < 8; i++ {
			v := uint32(values[i])

			for b := 0; b < width; b++ {
				if v&(1<<uint(b)) != 0 {
					bit := i*width + b
					out[bit/8] |= 1 << (uint(bit) % 8)
				}
			}
		}

		return out
	}
}

func unpack8Int32(width int) unpack8int32Func {
	return func(data []byte) (out [8]int32) {
		for i := 0; i < 8; i++ {
			var v uint32

			for b := 0; b < width; b++ {
				bit := i*width + b
				if data[bit/8]&(1<<(uint(bit)%8)) != 0 {
					v |= 1 << uint(b)
				}
			}

			out[i] = int32(v)
		}

		return out
	}
}

func unpack8Int64(width int) unpack8int64Func {
	return func(data []byte) (out [8]int64) {
		for i := 0; i < 8; i++ {
			var v uint64

			for b := 0; b < width; b++ {
				bit := i*width + b
				if data[bit/8]&(1<<(uint(bit)%8)) != 0 {
					v |= 1 << uint(b)
				}
			}

			out[i] = int64(v)
		}

		return out
	}
}
