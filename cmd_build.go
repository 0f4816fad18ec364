package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"morphplan/cspace"
	"morphplan/workspace"
)

type buildFlags struct {
	gridFlags
	output string
	binary bool
}

func (a *App) newBuildCmd() *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the configuration-space grid and print or save it",
		Long: `Build labels every (x, y, shape) cell of the workspace and prints the grid
in its text form: a header line "granularity numX numY" followed by one block
per shape, rows of '%' (wall), '.' (goal), ' ' (free) and 'P' (start).
With --binary the grid is written in a packed binary form instead, which
"plan --grid" also reads.

Examples:
  morphplan build -c maps/test1.yaml -g 5
  morphplan build -c maps/test1.yaml -g 2 --binary -o test1.grid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.LoadFile(flags.configPath)
			if err != nil {
				return err
			}
			g, err := flags.resolve(ws)
			if err != nil {
				return err
			}
			grid, err := cspace.Build(cmd.Context(), ws.Alien, ws.Goals, ws.Walls, ws.Window, g,
				flags.buildOptions(a.logger)...)
			if err != nil {
				return err
			}

			if flags.output == "" {
				return writeGrid(a.stdout, grid, flags.binary)
			}
			f, err := os.Create(flags.output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := writeGrid(f, grid, flags.binary); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the grid to this file instead of stdout")
	cmd.Flags().BoolVar(&flags.binary, "binary", false, "Write the packed binary form")
	return cmd
}

func writeGrid(w io.Writer, grid *cspace.Grid, binary bool) error {
	if binary {
		_, err := grid.WriteTo(w)
		return err
	}
	text, err := grid.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
