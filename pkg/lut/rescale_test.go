package lut

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescaleLUT(t *testing.T) {
	specs := []RescaleSpec{
		Identity,
		{Slope: 1, Intercept: -1024},
		{Slope: 0.5, Intercept: 3.25},
		{Slope: -2, Intercept: 10},
	}
	for bits := 1; bits <= MaxBitsStored; bits++ {
		for _, rsi := range specs {
			r, err := NewRescaleLUT(bits, rsi)
			require.NoError(t, err)
			require.Equal(t, 1<<bits, r.Len())
			assert.Equal(t, rsi, r.RSI())
			assert.Equal(t, bits, r.BitsStored())
			for i := 0; i < r.Len(); i++ {
				if r.At(i) != rsi.Apply(float64(i)) {
					t.Fatalf("bits=%d rsi=%v: entry %d = %v", bits, rsi, i, r.At(i))
				}
			}
		}
	}
}

func TestRescaleLUT8Bit(t *testing.T) {
	r, err := NewRescaleLUT(8, Identity)
	require.NoError(t, err)
	assert.Equal(t, 256, r.Len())
	v, err := r.Value(100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

func TestRescaleLUTCapacity(t *testing.T) {
	for _, bits := range []int{-1, 0, MaxBitsStored + 1, 32} {
		_, err := NewRescaleLUT(bits, Identity)
		require.Error(t, err, "bits %d", bits)
		assert.True(t, errors.Is(err, ErrCapacity))
		var ce *CapacityError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, bits, ce.BitsStored)
	}
}

func TestRescaleLUTIndex(t *testing.T) {
	r, err := NewRescaleLUT(4, Identity)
	require.NoError(t, err)
	for _, off := range []int{-1, 16, 100} {
		_, err := r.Value(off)
		assert.True(t, errors.Is(err, ErrIndex), "offset %d", off)
	}
	_, err = r.Value(15)
	assert.NoError(t, err)
	assert.Panics(t, func() { r.At(16) })
}
