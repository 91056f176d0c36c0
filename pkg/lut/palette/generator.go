// Package palette holds the 256 entry color curves used to render windowed intensities as
// pseudo-color, and the generator rules the simple ramps are built from.
package palette

// RangeMax is the number of entries in every curve
const RangeMax = 256

const maxValue = RangeMax - 1

// Curve is one color channel indexed by an 8 bit intensity
type Curve [RangeMax]uint8

// Func computes a curve entry for index i in [0, RangeMax)
type Func func(i int) uint8

// Build materializes fn over every index
func Build(fn Func) Curve {
	var c Curve
	for i := range c {
		c[i] = fn(i)
	}
	return c
}

// ID is the identity ramp
func ID(i int) uint8 { return uint8(i) }

// InvID is the inverted identity ramp
func InvID(i int) uint8 { return uint8(maxValue - i) }

// Zero is constantly 0
func Zero(int) uint8 { return 0 }

// Max is constantly 255
func Max(int) uint8 { return maxValue }

// The thirds split RangeMax as a real number; comparing 3*i keeps the boundaries exact.

// MaxFirstThird is 255 in the first third of the range
func MaxFirstThird(i int) uint8 {
	if 3*i < RangeMax {
		return maxValue
	}
	return 0
}

// MaxSecondThird is 255 in the second third of the range
func MaxSecondThird(i int) uint8 {
	if 3*i >= RangeMax && 3*i < 2*RangeMax {
		return maxValue
	}
	return 0
}

// MaxThirdThird is 255 in the last third of the range
func MaxThirdThird(i int) uint8 {
	if 3*i >= 2*RangeMax {
		return maxValue
	}
	return 0
}

// ToMaxFirstThird rises from 0 to 255 over the first third and saturates
func ToMaxFirstThird(i int) uint8 {
	return saturate(3 * i)
}

// ToMaxSecondThird is 0 in the first third, then rises to 255 over the second
func ToMaxSecondThird(i int) uint8 {
	if 3*i < RangeMax {
		return 0
	}
	return saturate(3*i - RangeMax)
}

// ToMaxThirdThird is 0 until the last third, then rises to 255
func ToMaxThirdThird(i int) uint8 {
	if 3*i < 2*RangeMax {
		return 0
	}
	return saturate(3*i - 2*RangeMax)
}

func saturate(v int) uint8 {
	if v > maxValue {
		return maxValue
	}
	return uint8(v)
}
