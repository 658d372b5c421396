package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tj/assert"
)

func TestPackedArray_AppendAt(t *testing.T) {
	a := &PackedArray{}
	require.NoError(t, a.Reset(3))

	for i := 0; i < 20; i++ {
		a.AppendSingle(int32(i % 8))
	}

	assert.Equal(t, 20, a.Count())

	for i := 0; i < 20; i++ {
		v, err := a.At(i)
		require.NoError(t, err)
		assert.Equal(t, int32(i%8), v)
	}
}

func TestPackedArray_AtOutOfRange(t *testing.T) {
	a := &PackedArray{}
	require.NoError(t, a.Reset(1))

	a.AppendSingle(1)

	_, err := a.At(5)
	assert.Error(t, err)
}

func TestPackedArray_InvalidBitWidth(t *testing.T) {
	a := &PackedArray{}

	assert.Error(t, a.Reset(33))
	assert.Error(t, a.Reset(-1))
}
