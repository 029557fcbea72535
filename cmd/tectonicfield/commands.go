package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tectonicfield/server"
	"tectonicfield/store"
)

func newNoiseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noise",
		Short: "Generate only the height-noise field and print its statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.settings.Parameters()
			if err != nil {
				return err
			}
			np, err := a.settings.NoiseParams()
			if err != nil {
				return err
			}
			gen := a.newGenerator()
			defer gen.Close()

			h, err := gen.Noise(params, np)
			if err != nil {
				return err
			}

			lo, hi := h.MinMax()
			var sum float64
			for _, v := range h.Data {
				sum += float64(v)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Seed:    %d\n", params.ResolvedSeed())
			fmt.Fprintf(w, "Basis:   %s, %d octaves, frequency %.3f, amplitude %.3f\n", np.Basis, np.Octaves, np.Frequency, np.Amplitude)
			fmt.Fprintf(w, "Map:     %dx%d (%s)\n", h.Width, h.Height, humanize.Bytes(uint64(4*h.Len())))
			fmt.Fprintf(w, "Range:   %.4f .. %.4f, mean %.4f\n", lo, hi, sum/float64(h.Len()))
			return nil
		},
	}
	addParamFlags(cmd)
	cmd.Flags().String("basis", "", "noise basis (simplex, perlin)")
	cmd.Flags().Float64("freq", 0, "base noise frequency")
	cmd.Flags().Int("octaves", 0, "noise octaves")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preview API and websocket stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.settings.Parameters()
			if err != nil {
				return err
			}
			np, err := a.settings.NoiseParams()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var st *store.Store
			if path := a.settings.Store.Path; path != "" {
				if st, err = store.Open(ctx, path, a.log); err != nil {
					return err
				}
				defer st.Close()
			}

			gen := a.newGenerator()
			defer gen.Close()

			srv := server.New(gen, st, params, np, a.log)
			return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", a.settings.Server.Port))
		},
	}
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().String("store", "", "archive served runs in this SQLite file")
	return cmd
}

func newRunsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.settings.Store.Path
			if path == "" {
				return fmt.Errorf("no run archive configured (use --store or store.path)")
			}
			st, err := store.Open(cmd.Context(), path, a.log)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSEED\tARCHETYPE\tPLATES\tSIZE\tCREATED\tDIGEST")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%dx%d\t%s\t%.12s\n",
					r.RunID, r.Seed, r.Archetype, r.PlateCount,
					r.Params.MapWidth, r.Params.MapHeight, humanize.Time(r.CreatedAt), r.Digest)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("store", "", "SQLite run archive")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}
