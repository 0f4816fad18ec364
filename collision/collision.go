// Package collision holds the agent-versus-workspace predicates used to label
// configuration-space cells. Obstacles are inflated by a margin that covers
// the quantization error of one grid cell.
package collision

import (
	"math"

	"morphplan/alien"
	"morphplan/geometry"
)

// Body is what the predicates need to know about the agent.
type Body interface {
	IsCircle() bool
	Width() float64
	Centroid() geometry.Point
	HeadAndTail() geometry.Segment
	Shape() alien.Shape
}

var _ Body = (*alien.Alien)(nil)

// Inflation is the worst-case distance between a pose and its grid cell's
// representative pose for the given step.
func Inflation(granularity float64) float64 {
	return granularity / math.Sqrt2
}

// TouchesWall reports whether the body, grown by margin, reaches any wall.
func TouchesWall(b Body, walls []geometry.Segment, margin float64) bool {
	w := b.Width()
	if b.IsCircle() {
		c := b.Centroid()
		for _, wall := range walls {
			if geometry.PointSegmentDistance(c, wall)-w-margin <= 0 {
				return true
			}
		}
		return false
	}

	axis := b.HeadAndTail()
	for _, wall := range walls {
		if geometry.SegmentDistance(axis, wall)-w-margin <= 0 {
			return true
		}
	}
	return false
}

// TouchesGoal reports whether the body overlaps any goal disc. Goals are not inflated.
func TouchesGoal(b Body, goals []geometry.Goal) bool {
	w := b.Width()
	if b.IsCircle() {
		c := b.Centroid()
		for _, g := range goals {
			if geometry.Distance(geometry.Sub(g.Center, c))-w-g.Radius <= 0 {
				return true
			}
		}
		return false
	}

	axis := b.HeadAndTail()
	for _, g := range goals {
		if geometry.PointSegmentDistance(g.Center, axis)-w-g.Radius <= 0 {
			return true
		}
	}
	return false
}

// WithinWindow reports whether the body stays inside the window with margin to spare.
// The edge checks are not symmetric: a capsule's long axis ignores its width, and
// the ball's y=0 edge adds the margin instead of subtracting it.
func WithinWindow(b Body, win geometry.Window, margin float64) bool {
	w := b.Width()
	c := b.Centroid()

	switch b.Shape() {
	case alien.Ball:
		if c[0]-w-margin <= 0 {
			return false
		}
		if c[0]+w+margin >= win.Width {
			return false
		}
		if c[1]+w+margin >= win.Height {
			return false
		}
		if c[1]-w+margin <= 0 {
			return false
		}

	case alien.Horizontal:
		ht := b.HeadAndTail()
		if ht.B[0]-margin <= 0 {
			return false
		}
		if ht.A[0]+margin >= win.Width {
			return false
		}
		if c[1]-w-margin <= 0 {
			return false
		}
		if c[1]+w+margin >= win.Height {
			return false
		}

	case alien.Vertical:
		ht := b.HeadAndTail()
		if c[0]-w-margin <= 0 {
			return false
		}
		if c[0]+w+margin >= win.Width {
			return false
		}
		if ht.A[1]-w-margin <= 0 {
			return false
		}
		if ht.B[1]+w+margin >= win.Height {
			return false
		}
	}
	return true
}

// Blocked is the wall label rule of the configuration-space builder.
func Blocked(b Body, walls []geometry.Segment, win geometry.Window, margin float64) bool {
	return !WithinWindow(b, win, margin) || TouchesWall(b, walls, margin)
}
