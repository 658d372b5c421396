package column

import (
	"github.com/hexbee-net/errors"

	"github.com/corvidlake/parq/parquet"
)

// Values is the typed value storage of one output column. Exactly one of
// the slices matching Kind is populated; null slots keep their zero value
// and are masked by the owning level's validity bitmap.
type Values struct {
	Kind parquet.Type

	Bool      []bool
	Int32     []int32
	Int64     []int64
	Int96     [][12]byte
	Float     []float32
	Double    []float64
	ByteArray [][]byte
}

func (v *Values) Resize(n int) error {
	switch v.Kind {
	case parquet.Type_BOOLEAN:
		v.Bool = make([]bool, n)
	case parquet.Type_INT32:
		v.Int32 = make([]int32, n)
	case parquet.Type_INT64:
		v.Int64 = make([]int64, n)
	case parquet.Type_INT96:
		v.Int96 = make([][12]byte, n)
	case parquet.Type_FLOAT:
		v.Float = make([]float32, n)
	case parquet.Type_DOUBLE:
		v.Double = make([]float64, n)
	case parquet.Type_BYTE_ARRAY, parquet.Type_FIXED_LEN_BYTE_ARRAY:
		v.ByteArray = make([][]byte, n)
	default:
		return errors.WithFields(
			errors.New("unsupported physical type"),
			errors.Fields{
				"type": v.Kind.String(),
			})
	}

	return nil
}

func (v *Values) Len() int {
	switch v.Kind {
	case parquet.Type_BOOLEAN:
		return len(v.Bool)
	case parquet.Type_INT32:
		return len(v.Int32)
	case parquet.Type_INT64:
		return len(v.Int64)
	case parquet.Type_INT96:
		return len(v.Int96)
	case parquet.Type_FLOAT:
		return len(v.Float)
	case parquet.Type_DOUBLE:
		return len(v.Double)
	case parquet.Type_BYTE_ARRAY, parquet.Type_FIXED_LEN_BYTE_ARRAY:
		return len(v.ByteArray)
	default:
		return 0
	}
}
