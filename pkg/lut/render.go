package lut

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/jpfielding/dicoslut.go/pkg/lut/palette"
)

// Frame is a single plane of stored values in row major order.
// Signed data holds negative values as-is; the window table applies its own shift.
type Frame struct {
	Rows    int
	Cols    int
	Samples []int32
}

func (f Frame) validate() error {
	if f.Rows <= 0 || f.Cols <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", f.Cols, f.Rows)
	}
	if len(f.Samples) < f.Rows*f.Cols {
		return fmt.Errorf("frame too small: need %d samples, got %d", f.Rows*f.Cols, len(f.Samples))
	}
	return nil
}

// checkRange verifies every sample addresses the window table so the render loop can use At
func checkRange(w *WindowLUT, samples []int32) error {
	lo, hi := -w.Shift(), w.Len()-w.Shift()
	for _, s := range samples {
		if int(s) < lo || int(s) >= hi {
			return fmt.Errorf("sample out of range: %w", &IndexError{Offset: int(s), Min: lo, Max: hi})
		}
	}
	return nil
}

// RenderGray windows frame into an 8 bit grayscale image
func RenderGray(ctx context.Context, w *WindowLUT, frame Frame) (*image.Gray, error) {
	if err := prepare(w, frame); err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, frame.Cols, frame.Rows))
	err := forRows(ctx, frame.Rows, func(y int) {
		row := frame.Samples[y*frame.Cols : (y+1)*frame.Cols]
		pix := img.Pix[y*img.Stride:]
		for x, s := range row {
			pix[x] = w.At(int(s))
		}
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// RenderColor windows frame and maps each intensity through pal
func RenderColor(ctx context.Context, w *WindowLUT, pal palette.Palette, frame Frame) (*image.RGBA, error) {
	if err := prepare(w, frame); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, frame.Cols, frame.Rows))
	err := forRows(ctx, frame.Rows, func(y int) {
		row := frame.Samples[y*frame.Cols : (y+1)*frame.Cols]
		pix := img.Pix[y*img.Stride:]
		for x, s := range row {
			v := w.At(int(s))
			pix[4*x+0] = pal.Red[v]
			pix[4*x+1] = pal.Green[v]
			pix[4*x+2] = pal.Blue[v]
			pix[4*x+3] = 0xff
		}
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func prepare(w *WindowLUT, frame Frame) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := frame.validate(); err != nil {
		return err
	}
	return checkRange(w, frame.Samples[:frame.Rows*frame.Cols])
}

// forRows splits rows into bands across the available CPUs. Workers only read the
// window table, which must not be mutated until forRows returns.
func forRows(ctx context.Context, rows int, fn func(y int)) error {
	workers := runtime.NumCPU()
	if workers > rows {
		workers = rows
	}
	band := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for y := start; y < end; y++ {
				if ctx.Err() != nil {
					return
				}
				fn(y)
			}
		}(start, end)
	}
	wg.Wait()
	return ctx.Err()
}
