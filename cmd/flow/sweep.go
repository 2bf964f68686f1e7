package main

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"flowgen/internal/export"
	"flowgen/internal/flow"
	"flowgen/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	base := flow.DefaultConfig()
	base.Width, base.Height = 256, 256
	var (
		randomness []float64
		points     []int
		seeds      []int64
		workers    int
		out        string
		format     string
		scale      int
		top        int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Render every combination of randomness, points and seeds on a worker pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			cfgs := sweep.Grid(base, randomness, points, seeds)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sweeping %d configurations (%d workers, %dx%d)\n", len(cfgs), workers, base.Width, base.Height)

			start := time.Now()
			results, err := sweep.Run(cmd.Context(), cfgs, sweep.Options{Workers: workers, Out: out, Format: f, Scale: scale})
			var ok []sweep.Result
			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(w, "failed: %s: %v\n", res, res.Err)
					continue
				}
				ok = append(ok, res)
			}
			sort.Slice(ok, func(i, j int) bool { return ok[i].Roughness < ok[j].Roughness })

			fmt.Fprintf(w, "\nSmoothest %d results (elapsed %s):\n", min(top, len(ok)), time.Since(start).Round(time.Millisecond))
			for i := 0; i < len(ok) && i < top; i++ {
				fmt.Fprintf(w, "%2d) %s %s\n", i+1, ok[i], ok[i].Path)
			}
			return err
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&base.Width, "width", "W", base.Width, "image width in pixels")
	fs.IntVarP(&base.Height, "height", "H", base.Height, "image height in pixels")
	fs.Float64SliceVarP(&randomness, "randomness", "r", []float64{0, 3, 10}, "randomness values to try")
	fs.IntSliceVarP(&points, "points", "p", []int{1, 4, 16}, "starting point counts to try")
	fs.Int64SliceVar(&seeds, "seeds", []int64{1337}, "random seeds to try")
	fs.IntVar(&workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	fs.StringVarP(&out, "out", "o", "out/sweep", "output directory, empty to skip export")
	fs.StringVar(&format, "format", "png", "output format: png, bmp or tiff")
	fs.IntVar(&scale, "scale", 1, "integer upscale factor for exported images")
	fs.IntVar(&top, "top", 5, "how many results to list")
	return cmd
}
