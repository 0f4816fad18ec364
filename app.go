package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"morphplan/cspace"
	"morphplan/logging"
	"morphplan/workspace"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// App is the morphplan command line.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	logLevel  string
	logFormat string
	logger    *bolt.Logger
}

// NewApp wires the root command and its subcommands.
func NewApp() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "morphplan",
		Short: "Configuration-space path planner for a shape-shifting alien",
		Long: `morphplan discretises the poses of an alien that can be a horizontal
sausage, a ball or a vertical sausage into a three-level grid, labels every
cell as wall, goal or free, and searches the grid for the cheapest sequence
of moves and shape changes that reaches a goal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.logger = logging.New(logging.Config{
				Level:  app.logLevel,
				Format: app.logFormat,
				Output: app.stderr,
			})
		},
	}
	app.root.PersistentFlags().StringVar(&app.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	app.root.PersistentFlags().StringVar(&app.logFormat, "log-format", "console", "Log format (console or json)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newBuildCmd(),
		app.newPlanCmd(),
		app.newSweepCmd(),
	)
	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the command line until completion or SIGINT/SIGTERM.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs with explicit arguments; used by tests.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "morphplan version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
		},
	}
}

// gridFlags are shared by every command that builds a grid.
type gridFlags struct {
	configPath  string
	granularity float64
	workers     int
}

func (f *gridFlags) register(cmd *cobra.Command, withGranularity bool) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to workspace YAML file (required)")
	if withGranularity {
		cmd.Flags().Float64VarP(&f.granularity, "granularity", "g", 0, "Grid spacing (overrides the workspace file)")
	}
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent column builders (default GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("config")
}

// resolve picks the flag granularity over the file's.
func (f *gridFlags) resolve(ws *workspace.Workspace) (float64, error) {
	g := f.granularity
	if g == 0 {
		g = ws.Granularity
	}
	if !(g > 0) {
		return 0, fmt.Errorf("%w: set granularity in the workspace file or with -g", cspace.ErrInvalidGranularity)
	}
	return g, nil
}

func (f *gridFlags) buildOptions(logger *bolt.Logger, fields ...logging.Field) []cspace.Option {
	opts := []cspace.Option{cspace.WithLogger(logger), cspace.WithLogFields(fields...)}
	if f.workers > 0 {
		opts = append(opts, cspace.WithWorkers(f.workers))
	}
	return opts
}

func newRunID() string {
	return uuid.NewString()
}
