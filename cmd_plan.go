package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"morphplan/cspace"
	"morphplan/logging"
	"morphplan/search"
	"morphplan/workspace"
)

type planFlags struct {
	gridFlags
	gridPath      string
	heuristic     bool
	maxExpansions int
	watch         bool
}

func (a *App) newPlanCmd() *cobra.Command {
	flags := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a path from the start pose to the nearest reachable goal",
		Long: `Plan builds the configuration-space grid and searches it for the cheapest
path from the start pose to any goal cell. Each step is printed as grid
indices and workspace pose.

With --grid a grid saved by "build" is searched instead of building one;
the workspace file still supplies the move and reshape costs.

Examples:
  morphplan plan -c maps/test1.yaml
  morphplan plan -c maps/test1.yaml -g 5 --heuristic
  morphplan plan -c maps/test1.yaml --grid test1.grid
  morphplan plan -c maps/test1.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.planOnce(ctx, flags); err != nil || !flags.watch {
				return err
			}
			return watchFile(ctx, flags.configPath, 200*time.Millisecond, func() {
				fmt.Fprintln(a.stdout, "---")
				if err := a.planOnce(ctx, flags); err != nil {
					logging.With(a.logger.Error(), logging.ErrorField(err)).Msg("replan failed")
				}
			})
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&flags.gridPath, "grid", "", "Search a saved grid (text or binary) instead of building")
	cmd.Flags().BoolVar(&flags.heuristic, "heuristic", false, "Guide the search with a Manhattan distance estimate")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Plan again whenever the workspace file changes")
	cmd.Flags().IntVar(&flags.maxExpansions, "max-expansions", 0, "Abort after this many expanded states (0 = unlimited)")
	return cmd
}

func (a *App) planOnce(ctx context.Context, flags *planFlags) error {
	ws, err := workspace.LoadFile(flags.configPath)
	if err != nil {
		return err
	}
	runID := logging.RunID(newRunID())
	grid, err := a.planGrid(ctx, ws, flags, runID)
	if err != nil {
		return err
	}
	opts := []search.Option{search.WithLogger(a.logger), search.WithLogFields(runID)}
	if flags.maxExpansions > 0 {
		opts = append(opts, search.WithMaxExpansions(flags.maxExpansions))
	}
	res, err := search.PlanGrid(ctx, grid, ws.Costs, flags.heuristic, opts...)
	if err != nil {
		return err
	}
	return writePlan(a.stdout, grid, res)
}

func (a *App) planGrid(ctx context.Context, ws *workspace.Workspace, flags *planFlags, runID logging.Field) (*cspace.Grid, error) {
	if flags.gridPath != "" {
		grid, err := cspace.LoadGrid(flags.gridPath)
		if err != nil {
			return nil, err
		}
		logging.With(a.logger.Info(), runID, logging.Str("path", flags.gridPath),
			logging.Granularity(grid.Granularity())).Msg("grid loaded")
		return grid, nil
	}
	g, err := flags.resolve(ws)
	if err != nil {
		return nil, err
	}
	return cspace.Build(ctx, ws.Alien, ws.Goals, ws.Walls, ws.Window, g, flags.buildOptions(a.logger, runID)...)
}

func writePlan(w io.Writer, grid *cspace.Grid, res search.Result) error {
	if !res.Found {
		_, err := fmt.Fprintf(w, "no path found (explored %d states)\n", res.Explored)
		return err
	}
	for i, c := range search.Cells(res.Path) {
		if _, err := fmt.Fprintf(w, "%3d  %-12s %s\n", i, c, grid.Pose(c)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "cost %g, %d steps, explored %d states\n", res.Cost, len(res.Path)-1, res.Explored)
	return err
}
