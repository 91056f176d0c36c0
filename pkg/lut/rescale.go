package lut

// MaxBitsStored bounds the rescale table at 2^16 entries
const MaxBitsStored = 16

// RescaleSpec is the modality rescale slope and intercept (0028,1053)/(0028,1052)
type RescaleSpec struct {
	Slope     float64
	Intercept float64
}

// Identity is the rescale used when the modality supplies none
var Identity = RescaleSpec{Slope: 1, Intercept: 0}

// Apply converts a stored value into its calibrated value
func (r RescaleSpec) Apply(raw float64) float64 {
	return raw*r.Slope + r.Intercept
}

// RescaleLUT maps every representable stored value of a bit depth to its calibrated value.
// It is immutable after construction and may be shared by any number of readers.
type RescaleLUT struct {
	rsi        RescaleSpec
	bitsStored int
	table      []float64
}

// NewRescaleLUT builds the 2^bitsStored entry table for rsi
func NewRescaleLUT(bitsStored int, rsi RescaleSpec) (*RescaleLUT, error) {
	if bitsStored <= 0 || bitsStored > MaxBitsStored {
		return nil, &CapacityError{BitsStored: bitsStored}
	}
	size := 1 << bitsStored
	table := make([]float64, size)
	for i := range table {
		table[i] = rsi.Apply(float64(i))
	}
	return &RescaleLUT{
		rsi:        rsi,
		bitsStored: bitsStored,
		table:      table,
	}, nil
}

// RSI returns the slope and intercept the table was built from
func (r *RescaleLUT) RSI() RescaleSpec { return r.rsi }

// BitsStored returns the bit depth the table covers
func (r *RescaleLUT) BitsStored() int { return r.bitsStored }

// Len returns the number of entries, 2^BitsStored
func (r *RescaleLUT) Len() int { return len(r.table) }

// Value returns the calibrated value at offset, or an *IndexError outside [0, Len)
func (r *RescaleLUT) Value(offset int) (float64, error) {
	if offset < 0 || offset >= len(r.table) {
		return 0, &IndexError{Offset: offset, Min: 0, Max: len(r.table)}
	}
	return r.table[offset], nil
}

// At is the unchecked form of Value; it panics when offset is outside [0, Len)
func (r *RescaleLUT) At(offset int) float64 {
	return r.table[offset]
}
