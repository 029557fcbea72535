package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tectonicfield/core"
	"tectonicfield/generator"
	"tectonicfield/store"
)

func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int32("seed", 0, "random seed (0 derives one from the planet age)")
	f.Int("plates", 0, "plate count [3,100]")
	f.String("model", "", "kinematic model (random, axis-flows-2, axis-flows-4)")
	f.String("zone", "", "habitable zone (too-hot, habitable, too-cold)")
	f.Float64("radius", 0, "planet radius [0.25,2.0]")
	f.Float64("age", 0, "planet age in billions of years [0.5,10]")
	f.Float64("water", 0, "water abundance [0,1]")
	f.Int("width", 0, "map width")
	f.Int("height", 0, "map height")
}

func newGenerateCmd(a *app) *cobra.Command {
	var withNoise bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plate set and its fields and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.settings.Parameters()
			if err != nil {
				return err
			}
			gen := a.newGenerator()
			defer gen.Close()

			var b *generator.FieldBundle
			if withNoise {
				np, err := a.settings.NoiseParams()
				if err != nil {
					return err
				}
				b, err = gen.GenerateAll(params, np)
				if err != nil {
					return err
				}
			} else if b, err = gen.Generate(params); err != nil {
				return err
			}
			defer b.Release()

			if path := a.settings.Store.Path; path != "" {
				st, err := store.Open(cmd.Context(), path, a.log)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.SaveRun(cmd.Context(), b); err != nil {
					return err
				}
			}
			return writeReport(cmd.OutOrStdout(), b)
		},
	}
	addParamFlags(cmd)
	cmd.Flags().String("store", "", "archive the run in this SQLite file")
	cmd.Flags().BoolVar(&withNoise, "noise", false, "also generate the height-noise field")
	return cmd
}

func writeReport(w io.Writer, b *generator.FieldBundle) error {
	p := b.Params
	prof := b.Profile
	fmt.Fprintf(w, "Run:        %s\n", b.RunID)
	fmt.Fprintf(w, "Seed:       %d\n", b.Seed)
	fmt.Fprintf(w, "Profile:    %s %s (engine %.3f, active geology %v, liquid water %v, tectonics %v)\n",
		prof.Archetype, prof.ColorHex(), prof.EngineScore, prof.HasActiveGeology, prof.HasLiquidWater, prof.HasTectonics)
	fmt.Fprintf(w, "Map:        %dx%d (%s cells)\n", p.MapWidth, p.MapHeight, humanize.Comma(int64(p.Cells())))

	ps := b.Plates()
	if ps.Len() == 0 {
		fmt.Fprintln(w, "Plates:     none")
	} else {
		cont, ocean := ps.CrustCounts()
		ids := b.PlateIDs()
		fmt.Fprintf(w, "Plates:     %d (%d continental, %d oceanic), model %s\n", ps.Len(), cont, ocean, p.KinematicModel)
		fmt.Fprintf(w, "Fields:     %s\n", humanize.Bytes(uint64(4*(ids.Len()+b.BoundaryDelta().Len()))))
		fmt.Fprintf(w, "Digest:     %s\n\n", b.Digest())

		hist := ids.Histogram(ps.Len())
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCRUST\tLAT\tLON\tSPEED\tCELLS")
		for _, pl := range ps.Plates {
			lat, lon := core.UVToLatLon(pl.U, pl.V)
			fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.3f\t%s\n",
				pl.ID, pl.Crust, lat, lon, pl.Speed, humanize.Comma(int64(hist[pl.ID])))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if h := b.HeightNoise(); h != nil {
		lo, hi := h.MinMax()
		fmt.Fprintf(w, "\nHeight noise: min %.4f max %.4f\n", lo, hi)
	}
	return nil
}
