package lut

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWindow(t *testing.T, bits int, rsi RescaleSpec, signed bool, ws WindowSpec) *WindowLUT {
	t.Helper()
	r, err := NewRescaleLUT(bits, rsi)
	require.NoError(t, err)
	w := NewWindowLUT(r, signed)
	w.SetWindowSpec(ws)
	require.NoError(t, w.Update())
	return w
}

func value(t *testing.T, w *WindowLUT, offset int) uint8 {
	t.Helper()
	v, err := w.Value(offset)
	require.NoError(t, err)
	return v
}

func TestWindowLUTUnsigned(t *testing.T) {
	w := newWindow(t, 8, Identity, false, WindowSpec{Center: 128, Width: 256})
	assert.Equal(t, 256, w.Len())
	assert.Equal(t, uint8(0), value(t, w, 0))
	assert.Equal(t, uint8(255), value(t, w, 255))
	assert.InDelta(t, 127.5, float64(value(t, w, 128)), 0.5)
	assert.Equal(t, 128.0, w.Center())
	assert.Equal(t, 256.0, w.Width())
	assert.False(t, w.Signed())
	assert.Equal(t, StateClean, w.State())
}

func TestWindowLUTProperties(t *testing.T) {
	tests := []struct {
		ws  WindowSpec
		rsi RescaleSpec
	}{
		{WindowSpec{Center: 40, Width: 400}, RescaleSpec{Slope: 1, Intercept: -1024}},
		{WindowSpec{Center: -600, Width: 1500}, RescaleSpec{Slope: 1, Intercept: -1024}},
		{WindowSpec{Center: 1000, Width: 10}, RescaleSpec{Slope: 1, Intercept: -1024}},
		{WindowSpec{Center: 2048, Width: 4096}, RescaleSpec{Slope: 1, Intercept: -1024}},
		{WindowSpec{Center: 0.5, Width: 1}, RescaleSpec{Slope: 1, Intercept: -1024}},
		// fractional slope puts calibrated values inside narrow windows
		{WindowSpec{Center: 10, Width: 0.5}, RescaleSpec{Slope: 0.1, Intercept: 0}},
		{WindowSpec{Center: 100, Width: 3}, RescaleSpec{Slope: 0.25, Intercept: 0}},
	}
	for _, tt := range tests {
		ws := tt.ws
		w := newWindow(t, 12, tt.rsi, false, ws)
		r := w.RescaleLUT()
		for i := 0; i < w.Len(); i++ {
			x := r.At(i)
			y := value(t, w, i)
			if i > 0 {
				assert.GreaterOrEqual(t, y, value(t, w, i-1), "%v monotone at %d", ws, i)
			}
			switch {
			case x <= ws.Lower():
				assert.Equal(t, uint8(0), y, "%v at %v", ws, x)
			case x >= ws.Upper():
				assert.Equal(t, uint8(255), y, "%v at %v", ws, x)
			case ws.Width < 1:
				expect := (x - ws.Lower()) / ws.Width * 255
				assert.InDelta(t, expect, float64(y), 0.5, "%v at %v", ws, x)
			default:
				// the DICOM ramp reaches 255 one unit before Upper
				expect := math.Min(((x-(ws.Center-0.5))/(ws.Width-1)+0.5)*255, 255)
				assert.InDelta(t, expect, float64(y), 0.5, "%v at %v", ws, x)
			}
		}
	}
}

func TestWindowSpecApplyBoundaries(t *testing.T) {
	ws := WindowSpec{Center: 40, Width: 400}
	assert.Equal(t, uint8(0), ws.Apply(ws.Lower()))
	assert.Equal(t, uint8(255), ws.Apply(ws.Upper()))
	assert.Equal(t, uint8(0), ws.Apply(-1e9))
	assert.Equal(t, uint8(255), ws.Apply(1e9))

	// narrow widths still saturate at center -/+ width/2
	narrow := WindowSpec{Center: 10, Width: 0.5}
	assert.Equal(t, uint8(0), narrow.Apply(9.6))
	assert.Equal(t, uint8(0), narrow.Apply(9.75))
	assert.Equal(t, uint8(128), narrow.Apply(10))
	assert.Equal(t, uint8(255), narrow.Apply(10.25))

	r, err := NewRescaleLUT(8, RescaleSpec{Slope: 0.1})
	require.NoError(t, err)
	w := NewWindowLUT(r, false)
	w.SetWindowSpec(narrow)
	require.NoError(t, w.Update())
	assert.Equal(t, uint8(0), value(t, w, 96))
	assert.Equal(t, uint8(255), value(t, w, 103))

	// non-positive widths threshold at the center
	flat := WindowSpec{Center: 10, Width: 0}
	assert.Equal(t, uint8(0), flat.Apply(10))
	assert.Equal(t, uint8(255), flat.Apply(10.01))
}

func TestWindowLUTIdempotentUpdate(t *testing.T) {
	w := newWindow(t, 10, Identity, false, WindowSpec{Center: 300, Width: 200})
	first, err := w.Bytes()
	require.NoError(t, err)
	require.NoError(t, w.Update())
	second, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, StateClean, w.State())
}

func TestWindowLUTSigned(t *testing.T) {
	w := newWindow(t, 8, Identity, true, WindowSpec{Center: 0, Width: 256})
	assert.True(t, w.Signed())
	assert.Equal(t, 128.0, w.EffectiveCenter())
	// caller's window is untouched by the signed offset
	assert.Equal(t, 0.0, w.Center())
	assert.Equal(t, 128, w.Shift())

	raw, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw[128], value(t, w, 0))
	assert.Equal(t, raw[0], value(t, w, -128))
	assert.Equal(t, raw[255], value(t, w, 127))
	assert.Equal(t, uint8(0), value(t, w, -128))
	assert.Equal(t, uint8(255), value(t, w, 127))
	assert.Equal(t, value(t, w, 5), w.At(5))

	for _, off := range []int{-129, 128, 255} {
		_, err := w.Value(off)
		var ie *IndexError
		require.ErrorAs(t, err, &ie, "offset %d", off)
		assert.Equal(t, -128, ie.Min)
		assert.Equal(t, 128, ie.Max)
	}
}

func TestWindowLUTSignedSlope(t *testing.T) {
	w := newWindow(t, 12, RescaleSpec{Slope: 2, Intercept: 0}, true, WindowSpec{Center: 10, Width: 100})
	assert.Equal(t, 10+2.0*2048, w.EffectiveCenter())
	// repeated updates do not accumulate the offset
	w.SetWindowSpec(WindowSpec{Center: 10, Width: 100})
	require.NoError(t, w.Update())
	assert.Equal(t, 10+2.0*2048, w.EffectiveCenter())
	// stored value 5 is calibrated 10, the window center
	assert.InDelta(t, 127.5, float64(value(t, w, 5)), 1.5)
}

func TestWindowLUTStates(t *testing.T) {
	r, err := NewRescaleLUT(8, Identity)
	require.NoError(t, err)
	w := NewWindowLUT(r, false)
	assert.Same(t, r, w.RescaleLUT())
	assert.Equal(t, StateUninitialized, w.State())

	_, err = w.Value(0)
	assert.True(t, errors.Is(err, ErrUninitialized))
	assert.True(t, errors.Is(w.Update(), ErrUninitialized))

	w.SetWindowSpec(WindowSpec{Center: 100, Width: 50})
	assert.Equal(t, StateUninitialized, w.State())
	_, err = w.Value(0)
	assert.True(t, errors.Is(err, ErrUninitialized))

	require.NoError(t, w.Update())
	assert.Equal(t, StateClean, w.State())
	before := value(t, w, 100)

	w.SetWindowSpec(WindowSpec{Center: 200, Width: 50})
	assert.Equal(t, StateDirty, w.State())
	_, err = w.Value(100)
	assert.True(t, errors.Is(err, ErrStale))
	_, err = w.Bytes()
	assert.True(t, errors.Is(err, ErrStale))

	require.NoError(t, w.Update())
	assert.NotEqual(t, before, value(t, w, 100))
	assert.Equal(t, "clean", w.State().String())
}

func TestWindowLUTIndex(t *testing.T) {
	w := newWindow(t, 8, Identity, false, WindowSpec{Center: 128, Width: 256})
	for _, off := range []int{-1, 256} {
		_, err := w.Value(off)
		assert.True(t, errors.Is(err, ErrIndex), "offset %d", off)
	}
}

func TestSharedRescaleLUT(t *testing.T) {
	r, err := NewRescaleLUT(12, RescaleSpec{Slope: 1, Intercept: -1024})
	require.NoError(t, err)
	soft := NewWindowLUT(r, false)
	soft.SetWindowSpec(WindowSpec{Center: 40, Width: 400})
	bone := NewWindowLUT(r, false)
	bone.SetWindowSpec(WindowSpec{Center: 400, Width: 2000})
	require.NoError(t, soft.Update())
	require.NoError(t, bone.Update())
	// stored 1124 is calibrated 100
	assert.NotEqual(t, value(t, soft, 1124), value(t, bone, 1124))
	assert.Same(t, soft.RescaleLUT(), bone.RescaleLUT())
}
