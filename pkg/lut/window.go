package lut

import (
	"log/slog"
	"math"
)

// WindowSpec is a linear VOI window, (0028,1050) center and (0028,1051) width
type WindowSpec struct {
	Center float64
	Width  float64
}

// Lower is the calibrated value at and below which the window outputs 0
func (w WindowSpec) Lower() float64 { return w.Center - 0.5*w.Width }

// Upper is the calibrated value at and above which the window outputs 255
func (w WindowSpec) Upper() float64 { return w.Center + 0.5*w.Width }

// Apply maps a calibrated value into [0,255] per DICOM PS3.3 C.11.2.1.2 (LINEAR).
// Widths in (0,1) ramp directly from Lower to Upper; widths <= 0 are a threshold at Center.
func (w WindowSpec) Apply(x float64) uint8 {
	switch {
	case w.Width <= 0:
		if x <= w.Center {
			return 0
		}
		return 255
	case w.Width < 1:
		lo, hi := w.Lower(), w.Upper()
		switch {
		case x <= lo:
			return 0
		case x >= hi:
			return 255
		}
		return clamp8((x - lo) / w.Width * 255)
	}
	c := w.Center - 0.5
	half := (w.Width - 1) / 2
	switch {
	case x <= c-half:
		return 0
	case x > c+half:
		return 255
	}
	return clamp8(((x-c)/(w.Width-1) + 0.5) * 255)
}

// clamp8 rounds half to even and clamps into a byte
func clamp8(y float64) uint8 {
	y = math.RoundToEven(y)
	switch {
	case y <= 0 || math.IsNaN(y):
		return 0
	case y >= 255:
		return 255
	}
	return uint8(y)
}

// State tracks whether a WindowLUT holds output for its current WindowSpec
type State int

const (
	// StateUninitialized means no build has completed yet
	StateUninitialized State = iota
	// StateDirty means the window changed since the last build
	StateDirty
	// StateClean means the table matches the current window
	StateClean
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDirty:
		return "dirty"
	case StateClean:
		return "clean"
	}
	return "unknown"
}

// WindowLUT maps every stored value, through a shared RescaleLUT, to an 8 bit display value.
// It is rebuilt explicitly with Update after SetWindowSpec; reads never rebuild.
// A WindowLUT is not safe for concurrent mutation, but a clean table may be read concurrently.
type WindowLUT struct {
	rescale *RescaleLUT
	signed  bool
	spec    WindowSpec
	hasSpec bool
	state   State
	table   []uint8
}

// NewWindowLUT creates an unbuilt window table over rescale.
// Signed tables address stored values in [-Len/2, Len/2).
func NewWindowLUT(rescale *RescaleLUT, signed bool) *WindowLUT {
	return &WindowLUT{
		rescale: rescale,
		signed:  signed,
		table:   make([]uint8, rescale.Len()),
	}
}

// SetWindowSpec records the window and marks the table dirty without recomputing
func (w *WindowLUT) SetWindowSpec(ws WindowSpec) {
	w.spec = ws
	w.hasSpec = true
	if w.state == StateClean {
		w.state = StateDirty
	}
}

// Update rebuilds the table if the window changed since the last build
func (w *WindowLUT) Update() error {
	if !w.hasSpec {
		return ErrUninitialized
	}
	if w.state == StateClean {
		return nil
	}
	ws := WindowSpec{Center: w.EffectiveCenter(), Width: w.spec.Width}
	for i := range w.table {
		w.table[i] = ws.Apply(w.rescale.At(i))
	}
	w.state = StateClean
	slog.Debug("window lut updated",
		slog.Float64("center", w.spec.Center),
		slog.Float64("width", w.spec.Width),
		slog.Float64("effective_center", ws.Center),
		slog.Bool("signed", w.signed),
		slog.Int("len", len(w.table)))
	return nil
}

// EffectiveCenter is the center applied against the rescale table. Signed stored values are
// indexed from 0 upward, so the center is shifted by slope*(Len/2) to compensate.
func (w *WindowLUT) EffectiveCenter() float64 {
	if !w.signed {
		return w.spec.Center
	}
	return w.spec.Center + w.rescale.RSI().Slope*float64(len(w.table)/2)
}

// State reports whether the table is uninitialized, dirty or clean
func (w *WindowLUT) State() State { return w.state }

// Value returns the display value for a stored value. Unsigned offsets are in [0, Len),
// signed offsets in [-Len/2, Len/2). Reading before Update fails with ErrUninitialized or ErrStale.
func (w *WindowLUT) Value(offset int) (uint8, error) {
	if err := w.ready(); err != nil {
		return 0, err
	}
	shift := w.Shift()
	i := offset + shift
	if i < 0 || i >= len(w.table) {
		return 0, &IndexError{Offset: offset, Min: -shift, Max: len(w.table) - shift}
	}
	return w.table[i], nil
}

// At is the unchecked form of Value for render loops. It panics when the logical offset is
// out of range and returns stale data if the caller skipped Update.
func (w *WindowLUT) At(offset int) uint8 {
	return w.table[offset+w.Shift()]
}

// Shift is the physical index of logical offset 0
func (w *WindowLUT) Shift() int {
	if w.signed {
		return len(w.table) / 2
	}
	return 0
}

// Bytes returns a copy of the physical table
func (w *WindowLUT) Bytes() ([]uint8, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	return append([]uint8(nil), w.table...), nil
}

func (w *WindowLUT) ready() error {
	switch w.state {
	case StateUninitialized:
		return ErrUninitialized
	case StateDirty:
		return ErrStale
	}
	return nil
}

// Len returns the number of entries, equal to the rescale table length
func (w *WindowLUT) Len() int { return len(w.table) }

// Center returns the window center as set by the caller, without the signed offset
func (w *WindowLUT) Center() float64 { return w.spec.Center }

// Width returns the window width
func (w *WindowLUT) Width() float64 { return w.spec.Width }

// WindowSpec returns the current window
func (w *WindowLUT) WindowSpec() WindowSpec { return w.spec }

// Signed reports whether stored values are zero centered
func (w *WindowLUT) Signed() bool { return w.signed }

// RescaleLUT returns the shared rescale table this window reads from
func (w *WindowLUT) RescaleLUT() *RescaleLUT { return w.rescale }
