// Package cspace builds the discretised (x, y, shape) configuration space of
// the alien and labels each cell as wall, goal, free or start.
package cspace

import (
	"errors"
	"fmt"
	"math"

	"morphplan/alien"
)

var (
	ErrInvalidGranularity = errors.New("cspace: granularity must be positive")
	ErrStartOutOfBounds   = errors.New("cspace: start pose outside the grid")
	ErrMalformedGrid      = errors.New("cspace: malformed grid text")
	ErrGridTooLarge       = errors.New("cspace: grid too large")
)

// MaxCells bounds numX*numY*NumShapes for built and decoded grids.
const MaxCells = 1 << 28

// checkDims rejects extents that are empty or whose cell count exceeds MaxCells.
func checkDims(numX, numY int) error {
	if numX <= 0 || numY <= 0 {
		return fmt.Errorf("dimensions %dx%d", numX, numY)
	}
	if numX > MaxCells/alien.NumShapes/numY {
		return fmt.Errorf("%w: %dx%dx%d cells", ErrGridTooLarge, numX, numY, alien.NumShapes)
	}
	return nil
}

// Label 配置空间格子的标签.
type Label uint8

const (
	Wall Label = iota
	Goal
	Free
	Start
)

// NumLabels is the number of distinct labels.
const NumLabels = 4

var labelRunes = [NumLabels]rune{'%', '.', ' ', 'P'}

var labelNames = [NumLabels]string{"wall", "goal", "free", "start"}

// Rune is the character used in the text form of a grid.
func (l Label) Rune() rune {
	if int(l) >= NumLabels {
		return '?'
	}
	return labelRunes[l]
}

func (l Label) String() string {
	if int(l) >= NumLabels {
		return fmt.Sprintf("Label(%d)", uint8(l))
	}
	return labelNames[l]
}

func labelNamed(name string) (Label, bool) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), true
		}
	}
	return 0, false
}

func labelOf(r rune) (Label, bool) {
	for i, lr := range labelRunes {
		if lr == r {
			return Label(i), true
		}
	}
	return 0, false
}

// Cell addresses one configuration: grid column, grid row and shape.
type Cell struct {
	X, Y  int
	Shape alien.Shape
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d, %s)", c.X, c.Y, c.Shape)
}

// NumPositions returns the grid extents for a window of the given size.
func NumPositions(width, height, granularity float64) (numX, numY int) {
	return int(math.Floor(width/granularity)) + 1, int(math.Floor(height/granularity)) + 1
}

// gridDims is NumPositions guarded by MaxCells before any float to int conversion.
func gridDims(width, height, granularity float64) (numX, numY int, err error) {
	fx := math.Floor(width/granularity) + 1
	fy := math.Floor(height/granularity) + 1
	if !(fx*fy*alien.NumShapes <= MaxCells) {
		return 0, 0, fmt.Errorf("%w: %gx%g window at granularity %g", ErrGridTooLarge, width, height, granularity)
	}
	numX, numY = int(fx), int(fy)
	return numX, numY, nil
}

// PoseToIndex maps a continuous position to its grid index.
func PoseToIndex(x, y, granularity float64) (int, int) {
	return int(math.Floor(x / granularity)), int(math.Floor(y / granularity))
}

// IndexToPose is the inverse of PoseToIndex on grid points.
func IndexToPose(xi, yi int, granularity float64) (float64, float64) {
	return float64(xi) * granularity, float64(yi) * granularity
}

// CellOf converts an alien configuration to its cell.
func CellOf(c alien.Config, granularity float64) Cell {
	x, y := PoseToIndex(c.X, c.Y, granularity)
	return Cell{X: x, Y: y, Shape: c.Shape}
}

// Grid is an immutable labelled configuration space, indexed (shape, x, y).
type Grid struct {
	granularity float64
	numX, numY  int
	cells       []Label

	start     Cell
	hasStart  bool
	startPrev Label
}

func newGrid(numX, numY int, granularity float64) *Grid {
	return &Grid{
		granularity: granularity,
		numX:        numX,
		numY:        numY,
		cells:       make([]Label, alien.NumShapes*numX*numY),
	}
}

func (g *Grid) index(c Cell) int {
	return (int(c.Shape)*g.numX+c.X)*g.numY + c.Y
}

// Dims returns the number of x and y positions.
func (g *Grid) Dims() (numX, numY int) {
	return g.numX, g.numY
}

func (g *Grid) Granularity() float64 {
	return g.granularity
}

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.numX && c.Y >= 0 && c.Y < g.numY && c.Shape.Valid()
}

// Label returns the label of c; cells outside the grid read as Wall.
func (g *Grid) Label(c Cell) Label {
	if !g.InBounds(c) {
		return Wall
	}
	return g.cells[g.index(c)]
}

// Start returns the start cell, if the grid has one.
func (g *Grid) Start() (Cell, bool) {
	return g.start, g.hasStart
}

func (g *Grid) setStart(c Cell) Label {
	i := g.index(c)
	prev := g.cells[i]
	g.cells[i] = Start
	g.start, g.hasStart, g.startPrev = c, true, prev
	return prev
}

// IsGoal reports whether c satisfies the goal test. A start cell counts when
// the label it replaced was Goal.
func (g *Grid) IsGoal(c Cell) bool {
	switch g.Label(c) {
	case Goal:
		return true
	case Start:
		return g.startPrev == Goal
	}
	return false
}

// Pose returns the alien configuration at the cell's representative point.
func (g *Grid) Pose(c Cell) alien.Config {
	x, y := IndexToPose(c.X, c.Y, g.granularity)
	return alien.Config{X: x, Y: y, Shape: c.Shape}
}

// Goals lists every goal cell in (shape, x, y) order.
func (g *Grid) Goals() []Cell {
	var out []Cell
	g.Each(func(c Cell, l Label) {
		if l == Goal {
			out = append(out, c)
		}
	})
	return out
}

// Count returns how many cells carry label l.
func (g *Grid) Count(l Label) int {
	n := 0
	for _, v := range g.cells {
		if v == l {
			n++
		}
	}
	return n
}

// Each visits every cell in (shape, x, y) order.
func (g *Grid) Each(f func(Cell, Label)) {
	i := 0
	for s := 0; s < alien.NumShapes; s++ {
		for x := 0; x < g.numX; x++ {
			for y := 0; y < g.numY; y++ {
				f(Cell{X: x, Y: y, Shape: alien.Shape(s)}, g.cells[i])
				i++
			}
		}
	}
}
