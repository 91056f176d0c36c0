package lut

import (
	"gonum.org/v1/gonum/floats"
)

// AutoWindow derives a window spanning the calibrated range of samples, for images whose
// metadata carries no window. Samples are stored values addressed like WindowLUT.Value.
func AutoWindow(r *RescaleLUT, signed bool, samples []int32) (WindowSpec, error) {
	if len(samples) == 0 {
		return WindowSpec{}, ErrNoSamples
	}
	shift := 0
	if signed {
		shift = r.Len() / 2
	}
	calibrated := make([]float64, len(samples))
	for i, s := range samples {
		v, err := r.Value(int(s) + shift)
		if err != nil {
			return WindowSpec{}, err
		}
		calibrated[i] = v - float64(shift)*r.RSI().Slope
	}
	lo, hi := floats.Min(calibrated), floats.Max(calibrated)
	width := hi - lo
	if width < 1 {
		width = 1
	}
	return WindowSpec{Center: lo + (hi-lo)/2, Width: width}, nil
}
