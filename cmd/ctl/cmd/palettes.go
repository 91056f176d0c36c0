package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpfielding/dicoslut.go/pkg/lut"
	"github.com/jpfielding/dicoslut.go/pkg/lut/palette"
	"github.com/spf13/cobra"
)

// NewPalettesCmd lists the registered palettes or dumps one
func NewPalettesCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "list or dump color palettes",
		Long:  "without --name lists the registered palette names, with --name dumps the red/green/blue curves as json",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			out := cmd.OutOrStdout()
			if name == "" {
				for _, n := range palette.Default.Names() {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			p, err := palette.Get(name)
			if err != nil {
				return err
			}
			return json.NewEncoder(out).Encode(p)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("name", "n", "", "palette to dump")
	return cmd
}

// NewPresetsCmd lists the window presets
func NewPresetsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "list window presets",
		Long:  "list the named window center/width presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range lut.Presets {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-3s center=%g width=%g\n", p.Name, p.Modality, p.Window.Center, p.Window.Width)
			}
		},
	}
	return cmd
}
