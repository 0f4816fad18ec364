package search

import (
	"context"
	"fmt"
	"math"
	"time"

	"morphplan/alien"
	"morphplan/cspace"
	"morphplan/logging"
)

// Costs are the edge weights of the grid graph.
type Costs struct {
	// Move is the cost of one 4-connected step under the same shape.
	Move float64 `yaml:"move"`
	// Reshape is the cost of switching to an adjacent shape in place.
	Reshape float64 `yaml:"reshape"`
}

func DefaultCosts() Costs {
	return Costs{Move: 1, Reshape: 1}
}

func (c Costs) Validate() error {
	if !(c.Move > 0) || !(c.Reshape > 0) {
		return fmt.Errorf("search: edge costs must be positive, got move %g reshape %g", c.Move, c.Reshape)
	}
	return nil
}

// GridSpace is the search graph over a labelled configuration space.
type GridSpace struct {
	grid      *cspace.Grid
	costs     Costs
	goals     []cspace.Cell
	heuristic bool
}

// NewGridSpace prepares grid for searching. With heuristic set, states
// estimate the remaining cost by Manhattan distance to the nearest goal cell.
func NewGridSpace(grid *cspace.Grid, costs Costs, heuristic bool) *GridSpace {
	return &GridSpace{grid: grid, costs: costs, goals: grid.Goals(), heuristic: heuristic}
}

func (sp *GridSpace) Grid() *cspace.Grid { return sp.grid }

// StartState returns the state at the grid's start cell.
func (sp *GridSpace) StartState() (*GridState, error) {
	c, ok := sp.grid.Start()
	if !ok {
		return nil, ErrNoStart
	}
	return sp.State(c, 0), nil
}

// State wraps cell c reached at cost dist.
func (sp *GridSpace) State(c cspace.Cell, dist float64) *GridState {
	return &GridState{space: sp, cell: c, dist: dist}
}

func (sp *GridSpace) passable(c cspace.Cell) bool {
	return sp.grid.InBounds(c) && sp.grid.Label(c) != cspace.Wall
}

func (sp *GridSpace) estimate(c cspace.Cell) float64 {
	if !sp.heuristic || len(sp.goals) == 0 {
		return 0
	}
	best := math.Inf(1)
	for _, g := range sp.goals {
		d := math.Abs(float64(g.X-c.X)) + math.Abs(float64(g.Y-c.Y))
		if d < best {
			best = d
		}
	}
	return best * sp.costs.Move
}

// GridState is one (x, y, shape) cell of a GridSpace.
type GridState struct {
	space *GridSpace
	cell  cspace.Cell
	dist  float64
}

var _ State = (*GridState)(nil)

func (s *GridState) Cell() cspace.Cell { return s.cell }

func (s *GridState) Key() Key {
	return Key{Alpha: s.cell.X, Beta: s.cell.Y, Gamma: int(s.cell.Shape)}
}

func (s *GridState) DistFromStart() float64 { return s.dist }

func (s *GridState) Heuristic() float64 { return s.space.estimate(s.cell) }

func (s *GridState) IsGoal() bool {
	return s.space.grid.IsGoal(s.cell)
}

var moves = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Neighbors are the passable 4-connected cells under the same shape and the
// passable adjacent shapes at the same position.
func (s *GridState) Neighbors() []State {
	out := make([]State, 0, 6)
	for _, m := range moves {
		c := cspace.Cell{X: s.cell.X + m[0], Y: s.cell.Y + m[1], Shape: s.cell.Shape}
		if s.space.passable(c) {
			out = append(out, s.space.State(c, s.dist+s.space.costs.Move))
		}
	}
	for _, ds := range [2]alien.Shape{-1, 1} {
		c := cspace.Cell{X: s.cell.X, Y: s.cell.Y, Shape: s.cell.Shape + ds}
		if s.space.passable(c) {
			out = append(out, s.space.State(c, s.dist+s.space.costs.Reshape))
		}
	}
	return out
}

func (s *GridState) String() string {
	return fmt.Sprintf("%v@%g", s.cell, s.dist)
}

// Cells extracts the grid cells of a path made of GridStates.
func Cells(path []State) []cspace.Cell {
	out := make([]cspace.Cell, 0, len(path))
	for _, st := range path {
		if gs, ok := st.(*GridState); ok {
			out = append(out, gs.cell)
		}
	}
	return out
}

// PlanGrid searches grid from its start cell to any goal cell.
func PlanGrid(ctx context.Context, grid *cspace.Grid, costs Costs, heuristic bool, opts ...Option) (Result, error) {
	if err := costs.Validate(); err != nil {
		return Result{}, err
	}
	start, err := NewGridSpace(grid, costs, heuristic).StartState()
	if err != nil {
		return Result{}, err
	}

	o := newOptions(opts)
	logger := o.logger
	if logger == nil {
		logger = logging.Get()
	}
	began := time.Now()
	res, err := BestFirst(ctx, start, opts...)
	if err != nil {
		logging.With(logger.Warn(), append(o.fields,
			logging.ErrorField(err),
			logging.Explored(res.Explored))...).
			Msg("search aborted")
		return res, err
	}
	logging.With(logger.Info(), append(o.fields,
		logging.Explored(res.Explored),
		logging.PathLen(len(res.Path)),
		logging.Cost(res.Cost),
		logging.Duration(time.Since(began)))...).
		Bool("found", res.Found).
		Msg("search finished")
	return res, nil
}
