package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point 表示工作空间中的一个二维点.
type Point = orb.Point

var (
	ErrDegenerateSegment = errors.New("geometry: degenerate segment")
	ErrInvalidGoal       = errors.New("geometry: invalid goal")
	ErrInvalidWindow     = errors.New("geometry: invalid window")
)

// Pt 是 Point 的简写构造.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Sub returns a - b as a vector.
func Sub(a, b Point) Point {
	return Point{a[0] - b[0], a[1] - b[1]}
}

func dot(a, b Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func cross(a, b Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Segment 线段, 端点 A -> B. 距离计算不区分方向, 相交判定的朝向计算区分.
type Segment struct {
	A, B Point
}

// Seg builds a segment from the (x1, y1, x2, y2) wall tuple layout.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{A: Point{x1, y1}, B: Point{x2, y2}}
}

func (s Segment) Length() float64 {
	return Distance(Sub(s.B, s.A))
}

// Degenerate 两端点重合.
func (s Segment) Degenerate() bool {
	return s.A == s.B
}

// Validate rejects segments the distance predicates cannot handle.
func (s Segment) Validate() error {
	if s.Degenerate() {
		return fmt.Errorf("%w: %v", ErrDegenerateSegment, s)
	}
	for _, v := range [4]float64{s.A[0], s.A[1], s.B[0], s.B[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %v", ErrDegenerateSegment, s)
		}
	}
	return nil
}

// LineString 转为 orb.LineString.
func (s Segment) LineString() orb.LineString {
	return orb.LineString{s.A, s.B}
}

func (s Segment) String() string {
	return fmt.Sprintf("[(%g, %g), (%g, %g)]", s.A[0], s.A[1], s.B[0], s.B[1])
}

// Goal 圆形目标区域.
type Goal struct {
	Center Point
	Radius float64
}

func (g Goal) Validate() error {
	if g.Radius < 0 || math.IsNaN(g.Radius) {
		return fmt.Errorf("%w: radius %g", ErrInvalidGoal, g.Radius)
	}
	return nil
}

// ValidateWalls returns the first degenerate wall, annotated with its index.
func ValidateWalls(walls []Segment) error {
	for i, w := range walls {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("wall %d: %w", i, err)
		}
	}
	return nil
}

func ValidateGoals(goals []Goal) error {
	for i, g := range goals {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("goal %d: %w", i, err)
		}
	}
	return nil
}
