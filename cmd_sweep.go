package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"morphplan/cspace"
	"morphplan/logging"
	"morphplan/search"
	"morphplan/workspace"
)

type sweepFlags struct {
	gridFlags
	granularities []float64
	heuristic     bool
	parallel      int
}

// sweepRow is one granularity's outcome.
type sweepRow struct {
	granularity float64
	numX, numY  int
	walls       int
	goals       int
	found       bool
	cost        float64
	explored    int
}

func (a *App) newSweepCmd() *cobra.Command {
	flags := &sweepFlags{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Build and plan at several granularities concurrently",
		Long: `Sweep builds the grid at each granularity through a shared cache (repeated
granularities are built once) and plans on it, then prints one summary row
per granularity.

Example:
  morphplan sweep -c maps/test1.yaml -g 2,5,8,10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.LoadFile(flags.configPath)
			if err != nil {
				return err
			}
			if len(flags.granularities) == 0 {
				g, err := flags.resolve(ws)
				if err != nil {
					return err
				}
				flags.granularities = []float64{g}
			}

			runID := logging.RunID(newRunID())
			cache := cspace.NewCache(flags.buildOptions(a.logger, runID)...)
			rows := make([]sweepRow, len(flags.granularities))

			eg, ctx := errgroup.WithContext(cmd.Context())
			if flags.parallel > 0 {
				eg.SetLimit(flags.parallel)
			}
			for i, g := range flags.granularities {
				eg.Go(func() error {
					grid, err := cache.Get(ctx, ws.Request(g))
					if err != nil {
						return fmt.Errorf("granularity %g: %w", g, err)
					}
					res, err := search.PlanGrid(ctx, grid, ws.Costs, flags.heuristic,
						search.WithLogger(a.logger),
						search.WithLogFields(runID, logging.Granularity(g)))
					if err != nil {
						return fmt.Errorf("granularity %g: %w", g, err)
					}
					numX, numY := grid.Dims()
					rows[i] = sweepRow{
						granularity: g,
						numX:        numX,
						numY:        numY,
						walls:       grid.Count(cspace.Wall),
						goals:       grid.Count(cspace.Goal),
						found:       res.Found,
						cost:        res.Cost,
						explored:    res.Explored,
					}
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			sort.SliceStable(rows, func(i, j int) bool { return rows[i].granularity < rows[j].granularity })
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GRANULARITY\tGRID\tWALL\tGOAL\tFOUND\tCOST\tEXPLORED")
			for _, r := range rows {
				cost := "-"
				if r.found {
					cost = fmt.Sprintf("%g", r.cost)
				}
				fmt.Fprintf(tw, "%g\t%dx%dx3\t%d\t%d\t%t\t%s\t%d\n",
					r.granularity, r.numX, r.numY, r.walls, r.goals, r.found, cost, r.explored)
			}
			fmt.Fprintf(tw, "builds: %d\n", cache.Builds())
			return tw.Flush()
		},
	}
	flags.register(cmd, false)
	cmd.Flags().Float64SliceVarP(&flags.granularities, "granularity", "g", nil, "Comma separated granularities to sweep")
	cmd.Flags().BoolVar(&flags.heuristic, "heuristic", false, "Guide the search with a Manhattan distance estimate")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 0, "Maximum concurrent granularities (0 = unlimited)")
	return cmd
}
