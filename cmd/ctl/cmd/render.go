package cmd

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/jpfielding/dicoslut.go/pkg/config"
	"github.com/jpfielding/dicoslut.go/pkg/lut"
	"github.com/jpfielding/dicoslut.go/pkg/lut/palette"
	"github.com/spf13/cobra"
)

// NewRenderCmd windows a raw frame into a png
func NewRenderCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render raw samples to png",
		Long:  "reads a little endian raw frame, applies rescale, window and optional palette and writes a png",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			rows, _ := cmd.Flags().GetInt("rows")
			cols, _ := cmd.Flags().GetInt("cols")
			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" || out == "" {
				return fmt.Errorf("--in and --out are required")
			}
			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("failed to open file: %v", err)
			}
			defer f.Close()
			frame, err := ReadFrame(bufio.NewReader(f), rows, cols, cfg)
			if err != nil {
				return err
			}
			img, err := Render(ctx, cfg, frame)
			if err != nil {
				return err
			}
			if err := WritePNG(out, img); err != nil {
				return err
			}
			slog.InfoContext(ctx, "rendered", "in", in, "out", out, "rows", rows, "cols", cols, "palette", cfg.Palette)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "raw sample file")
	pf.StringP("out", "o", "", "png output path")
	pf.StringP("config", "c", "", "yaml render config")
	pf.Int("rows", 0, "frame rows")
	pf.Int("cols", 0, "frame columns")
	pf.Int("bits-allocated", 16, "bits per raw sample container (8|16)")
	pf.Int("bits-stored", 16, "bits stored")
	pf.Bool("signed", false, "samples are signed")
	pf.Float64("slope", 1, "rescale slope")
	pf.Float64("intercept", 0, "rescale intercept")
	pf.Float64("center", 0, "window center")
	pf.Float64("width", 0, "window width, 0 derives the window from the data")
	pf.String("preset", "", "window preset")
	pf.StringP("palette", "p", "", "palette name, empty for grayscale")
	return cmd
}

// WritePNG encodes img to path, removing the file if encoding or closing fails
func WritePNG(path string, img image.Image) error {
	o, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %v", err)
	}
	err = png.Encode(o, img)
	if cerr := o.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("bits-allocated") {
		cfg.Pixel.BitsAllocated, _ = fs.GetInt("bits-allocated")
	}
	if fs.Changed("bits-stored") {
		cfg.Pixel.BitsStored, _ = fs.GetInt("bits-stored")
	}
	if fs.Changed("signed") {
		cfg.Pixel.Signed, _ = fs.GetBool("signed")
	}
	if fs.Changed("slope") {
		cfg.Rescale.Slope, _ = fs.GetFloat64("slope")
	}
	if fs.Changed("intercept") {
		cfg.Rescale.Intercept, _ = fs.GetFloat64("intercept")
	}
	if fs.Changed("center") || fs.Changed("width") {
		cfg.Window.Center, _ = fs.GetFloat64("center")
		cfg.Window.Width, _ = fs.GetFloat64("width")
		cfg.Window.Auto = cfg.Window.Width <= 0
		cfg.Window.Preset = ""
	}
	if fs.Changed("preset") {
		cfg.Window.Preset, _ = fs.GetString("preset")
	}
	if fs.Changed("palette") {
		cfg.Palette, _ = fs.GetString("palette")
	}
}

// ReadFrame decodes rows*cols little endian samples, masking to bits stored and sign
// extending signed data
func ReadFrame(r io.Reader, rows, cols int, cfg *config.Config) (lut.Frame, error) {
	if rows <= 0 || cols <= 0 {
		return lut.Frame{}, fmt.Errorf("invalid dimensions: %dx%d", cols, rows)
	}
	n := rows * cols
	bytesPer := cfg.Pixel.BitsAllocated / 8
	raw := make([]byte, n*bytesPer)
	if _, err := io.ReadFull(r, raw); err != nil {
		return lut.Frame{}, fmt.Errorf("data too small: need %d bytes: %w", len(raw), err)
	}
	bits := uint(cfg.Pixel.BitsStored)
	mask := uint32(1)<<bits - 1
	frame := lut.Frame{Rows: rows, Cols: cols, Samples: make([]int32, n)}
	for i := range frame.Samples {
		var v uint32
		if bytesPer == 2 {
			v = uint32(binary.LittleEndian.Uint16(raw[2*i:]))
		} else {
			v = uint32(raw[i])
		}
		v &= mask
		s := int32(v)
		if cfg.Pixel.Signed && v&(1<<(bits-1)) != 0 {
			s -= 1 << bits
		}
		frame.Samples[i] = s
	}
	return frame, nil
}

// Render builds the tables described by cfg and applies them to frame
func Render(ctx context.Context, cfg *config.Config, frame lut.Frame) (image.Image, error) {
	rescale, err := lut.NewRescaleLUT(cfg.Pixel.BitsStored, cfg.RescaleSpec())
	if err != nil {
		return nil, err
	}
	ws, ok, err := cfg.WindowSpec()
	if err != nil {
		return nil, err
	}
	if !ok {
		if ws, err = lut.AutoWindow(rescale, cfg.Pixel.Signed, frame.Samples); err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "derived window", "center", ws.Center, "width", ws.Width)
	}
	w := lut.NewWindowLUT(rescale, cfg.Pixel.Signed)
	w.SetWindowSpec(ws)
	if err := w.Update(); err != nil {
		return nil, err
	}
	if cfg.Palette == "" {
		img, err := lut.RenderGray(ctx, w, frame)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	pal, err := palette.Get(cfg.Palette)
	if err != nil {
		return nil, err
	}
	img, err := lut.RenderColor(ctx, w, pal, frame)
	if err != nil {
		return nil, err
	}
	return img, nil
}
