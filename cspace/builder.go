package cspace

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"golang.org/x/sync/errgroup"

	"morphplan/alien"
	"morphplan/collision"
	"morphplan/geometry"
	"morphplan/logging"
)

type buildOptions struct {
	workers int
	logger  *bolt.Logger
	fields  []logging.Field
}

// Option configures Build.
type Option func(*buildOptions)

// WithWorkers bounds the number of x columns labelled concurrently.
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithLogger(l *bolt.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLogFields attaches fields (e.g. a run ID) to every build log line.
func WithLogFields(fields ...logging.Field) Option {
	return func(o *buildOptions) {
		o.fields = append(o.fields, fields...)
	}
}

func newBuildOptions(opts []Option) buildOptions {
	o := buildOptions{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Get()
	}
	return o
}

// Build labels every (x, y, shape) cell for the alien in the given workspace.
// The alien itself is not modified; each worker repositions its own clone.
// The cell of the alien's current pose is marked Start whatever it held before.
func Build(
	ctx context.Context,
	a *alien.Alien,
	goals []geometry.Goal,
	walls []geometry.Segment,
	win geometry.Window,
	granularity float64,
	opts ...Option,
) (*Grid, error) {
	o := newBuildOptions(opts)

	if !(granularity > 0) || math.IsInf(granularity, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidGranularity, granularity)
	}
	if err := win.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.ValidateWalls(walls); err != nil {
		return nil, err
	}
	if err := geometry.ValidateGoals(goals); err != nil {
		return nil, err
	}

	numX, numY, err := gridDims(win.Width, win.Height, granularity)
	if err != nil {
		return nil, err
	}
	g := newGrid(numX, numY, granularity)

	start := CellOf(a.Config(), granularity)
	if !g.InBounds(start) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrStartOutOfBounds, a.Config(), start)
	}

	began := time.Now()
	margin := collision.Inflation(granularity)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for x := 0; x < numX; x++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			body := a.Clone()
			for s := 0; s < alien.NumShapes; s++ {
				for y := 0; y < numY; y++ {
					c := Cell{X: x, Y: y, Shape: alien.Shape(s)}
					if err := body.SetConfig(g.Pose(c)); err != nil {
						return err
					}
					g.cells[g.index(c)] = classify(body, goals, walls, win, margin)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("cspace: build aborted: %w", err)
	}

	if prev := g.setStart(start); prev == Wall {
		logging.With(o.logger.Warn(), o.fields...).
			Str("start", start.String()).
			Msg("start pose collides with a wall; start label overrides it")
	}

	logging.With(o.logger.Info(), append(o.fields, logging.Granularity(granularity))...).
		Str("window", win.String()).
		Int("walls", len(walls)).
		Int("goals", len(goals)).
		Msg("configuration space built")
	logging.With(o.logger.Debug(),
		append(o.fields,
			logging.Dims(numX, numY, alien.NumShapes),
			logging.Cells(Wall.String(), g.Count(Wall)),
			logging.Cells(Goal.String(), g.Count(Goal)),
			logging.Cells(Free.String(), g.Count(Free)),
			logging.Duration(time.Since(began)),
		)...,
	).Msg("cell census")
	return g, nil
}

func classify(b collision.Body, goals []geometry.Goal, walls []geometry.Segment, win geometry.Window, margin float64) Label {
	switch {
	case collision.Blocked(b, walls, win, margin):
		return Wall
	case collision.TouchesGoal(b, goals):
		return Goal
	default:
		return Free
	}
}
