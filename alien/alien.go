// Package alien models the shape-changing agent: a disc or one of two
// perpendicular capsules, each with its own length and width.
package alien

import (
	"errors"
	"fmt"

	"morphplan/geometry"
)

var ErrUnknownShape = errors.New("alien: unknown shape")

type Shape int8

const (
	Horizontal Shape = iota
	Ball
	Vertical
)

// NumShapes is the depth of the configuration space.
const NumShapes = 3

var shapeNames = [NumShapes]string{"Horizontal", "Ball", "Vertical"}

func (s Shape) String() string {
	if s < 0 || int(s) >= NumShapes {
		return fmt.Sprintf("Shape(%d)", int8(s))
	}
	return shapeNames[s]
}

// Shapes lists the shape names in index order.
func Shapes() []string {
	names := shapeNames
	return names[:]
}

func (s Shape) Valid() bool {
	return s >= Horizontal && s <= Vertical
}

// ParseShape accepts the names used in map configuration files.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, s)
	}
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config is a pose: centroid plus current shape.
type Config struct {
	X, Y  float64
	Shape Shape
}

func (c Config) String() string {
	return fmt.Sprintf("(%g, %g, %s)", c.X, c.Y, c.Shape)
}

// Alien is the agent. Lengths and widths are indexed by Shape.
// Length is the full axis length of a capsule, width its padding radius.
type Alien struct {
	centroid geometry.Point
	lengths  [NumShapes]float64
	widths   [NumShapes]float64
	shape    Shape
}

func New(centroid geometry.Point, lengths, widths [NumShapes]float64, shape Shape) (*Alien, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, shape)
	}
	for i := 0; i < NumShapes; i++ {
		if lengths[i] < 0 || widths[i] < 0 {
			return nil, fmt.Errorf("alien: negative dimension for %s (length %g, width %g)",
				Shape(i), lengths[i], widths[i])
		}
	}
	if lengths[Ball] != 0 {
		return nil, fmt.Errorf("alien: ball length must be 0, got %g", lengths[Ball])
	}
	return &Alien{centroid: centroid, lengths: lengths, widths: widths, shape: shape}, nil
}

// Clone 返回一份独立副本, 建图时每个 worker 使用自己的副本.
func (a *Alien) Clone() *Alien {
	c := *a
	return &c
}

func (a *Alien) IsCircle() bool { return a.shape == Ball }

func (a *Alien) Shape() Shape { return a.shape }

func (a *Alien) Centroid() geometry.Point { return a.centroid }

// Width is the disc radius or the capsule half-width of the current shape.
func (a *Alien) Width() float64 { return a.widths[a.shape] }

func (a *Alien) Length() float64 { return a.lengths[a.shape] }

func (a *Alien) Lengths() [NumShapes]float64 { return a.lengths }

func (a *Alien) Widths() [NumShapes]float64 { return a.widths }

// HeadAndTail returns the capsule axis. Horizontal heads point to +x,
// vertical heads to -y; a ball collapses to its centroid.
func (a *Alien) HeadAndTail() geometry.Segment {
	half := a.Length() / 2
	cx, cy := a.centroid[0], a.centroid[1]
	switch a.shape {
	case Horizontal:
		return geometry.Segment{A: geometry.Pt(cx+half, cy), B: geometry.Pt(cx-half, cy)}
	case Vertical:
		return geometry.Segment{A: geometry.Pt(cx, cy-half), B: geometry.Pt(cx, cy+half)}
	default:
		return geometry.Segment{A: a.centroid, B: a.centroid}
	}
}

func (a *Alien) Config() Config {
	return Config{X: a.centroid[0], Y: a.centroid[1], Shape: a.shape}
}

// SetPos moves the centroid, keeping the shape.
func (a *Alien) SetPos(p geometry.Point) {
	a.centroid = p
}

func (a *Alien) SetConfig(c Config) error {
	if !c.Shape.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownShape, c.Shape)
	}
	a.centroid = geometry.Pt(c.X, c.Y)
	a.shape = c.Shape
	return nil
}
