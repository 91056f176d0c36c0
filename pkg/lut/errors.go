package lut

import (
	"errors"
	"fmt"

	"github.com/jpfielding/dicoslut.go/pkg/lut/palette"
)

var (
	// ErrCapacity is returned when a requested table size is unreasonable
	ErrCapacity = errors.New("lut capacity exceeded")
	// ErrIndex is returned for out of range lookups
	ErrIndex = errors.New("lut index out of range")
	// ErrUninitialized is returned when a window table is read before its first update
	ErrUninitialized = errors.New("window lut not initialized")
	// ErrStale is returned when a window table is read after SetWindowSpec but before Update
	ErrStale = errors.New("window lut is stale")
	// ErrNoSamples is returned when a window is derived from an empty frame
	ErrNoSamples = errors.New("no samples")
	// ErrNotFound is returned for unknown palette or preset names
	ErrNotFound = palette.ErrNotFound
)

// CapacityError reports the bit depth that could not be allocated
type CapacityError struct {
	BitsStored int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("bits stored %d outside [1,%d]", e.BitsStored, MaxBitsStored)
}

func (e *CapacityError) Unwrap() error { return ErrCapacity }

// IndexError reports an offset outside the addressable range [Min, Max)
type IndexError struct {
	Offset   int
	Min, Max int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("offset %d outside [%d,%d)", e.Offset, e.Min, e.Max)
}

func (e *IndexError) Unwrap() error { return ErrIndex }

// NotFoundError names the missing entry and the catalog that was searched
type NotFoundError = palette.NotFoundError
