package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jpfielding/dicoslut.go/pkg/lut"
	"github.com/spf13/cobra"
)

// NewLUTCmd dumps a window lookup table
func NewLUTCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lut",
		Short: "dump a window lookup table",
		Long:  "builds the rescale and window tables for the given parameters and prints stored value, calibrated value and display value",
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, _ := cmd.Flags().GetInt("bits")
			slope, _ := cmd.Flags().GetFloat64("slope")
			intercept, _ := cmd.Flags().GetFloat64("intercept")
			center, _ := cmd.Flags().GetFloat64("center")
			width, _ := cmd.Flags().GetFloat64("width")
			preset, _ := cmd.Flags().GetString("preset")
			signed, _ := cmd.Flags().GetBool("signed")
			format, _ := cmd.Flags().GetString("format")

			ws := lut.WindowSpec{Center: center, Width: width}
			if preset != "" {
				var err error
				if ws, err = lut.PresetWindow(preset); err != nil {
					return err
				}
			}
			rescale, err := lut.NewRescaleLUT(bits, lut.RescaleSpec{Slope: slope, Intercept: intercept})
			if err != nil {
				return err
			}
			w := lut.NewWindowLUT(rescale, signed)
			w.SetWindowSpec(ws)
			if err := w.Update(); err != nil {
				return err
			}
			slog.DebugContext(ctx, "window lut built", "len", w.Len(), "center", w.Center(), "width", w.Width(), "signed", signed)

			type entry struct {
				Stored     int     `json:"stored"`
				Calibrated float64 `json:"calibrated"`
				Display    uint8   `json:"display"`
			}
			entries := make([]entry, 0, w.Len())
			for i := -w.Shift(); i < w.Len()-w.Shift(); i++ {
				v, err := w.Value(i)
				if err != nil {
					return err
				}
				entries = append(entries, entry{
					Stored:     i,
					Calibrated: rescale.RSI().Apply(float64(i)),
					Display:    v,
				})
			}
			out := cmd.OutOrStdout()
			switch format {
			case "text":
				for _, e := range entries {
					fmt.Fprintf(out, "%d\t%g\t%d\n", e.Stored, e.Calibrated, e.Display)
				}
			default:
				return json.NewEncoder(out).Encode(entries)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.Int("bits", 8, "bits stored")
	pf.Float64("slope", 1, "rescale slope")
	pf.Float64("intercept", 0, "rescale intercept")
	pf.Float64("center", 128, "window center")
	pf.Float64("width", 256, "window width")
	pf.String("preset", "", "window preset, overrides center and width")
	pf.Bool("signed", false, "stored values are signed")
	pf.StringP("format", "f", "json", "output format (text|json)")
	return cmd
}
