package geometry

import "math"

// Turn is the orientation of an ordered point triplet.
type Turn int8

const (
	Collinear Turn = iota
	Clockwise
	CounterClockwise
)

// Distance is the Euclidean norm of v.
func Distance(v Point) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// PointSegmentDistance returns the exact distance from p to the closest point of s.
// s must not be degenerate.
func PointSegmentDistance(p Point, s Segment) float64 {
	ab := Sub(s.B, s.A)
	ac := Sub(p, s.A)
	lenAB := Distance(ab)
	cosA := dot(ab, ac) / lenAB

	ba := Sub(s.A, s.B)
	bc := Sub(p, s.B)
	cosB := dot(ba, bc) / Distance(ba)

	// foot of the perpendicular strictly inside the segment
	if cosA > 0 && cosB > 0 {
		return math.Abs(cross(ab, ac) / lenAB)
	}
	return math.Min(Distance(ac), Distance(bc))
}

// Orientation of the triplet (p, q, r).
func Orientation(p, q, r Point) Turn {
	val := (q[1]-p[1])*(r[0]-q[0]) - (q[0]-p[0])*(r[1]-q[1])
	switch {
	case val > 0:
		return Clockwise
	case val < 0:
		return CounterClockwise
	default:
		return Collinear
	}
}

// OnSegment reports whether q lies inside the bounding box of p and r.
// Only meaningful when p, q, r are collinear.
func OnSegment(p, q, r Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}

// DoSegmentsIntersect reports whether two segments share at least one point.
// Touching endpoints and collinear overlap count as intersection.
func DoSegmentsIntersect(s1, s2 Segment) bool {
	p1, q1 := s1.A, s1.B
	p2, q2 := s2.A, s2.B

	o1 := Orientation(p1, q1, p2)
	o2 := Orientation(p1, q1, q2)
	o3 := Orientation(p2, q2, p1)
	o4 := Orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	switch {
	case o1 == Collinear && OnSegment(p1, p2, q1):
		return true
	case o2 == Collinear && OnSegment(p1, q2, q1):
		return true
	case o3 == Collinear && OnSegment(p2, p1, q2):
		return true
	case o4 == Collinear && OnSegment(p2, q1, q2):
		return true
	}
	return false
}

// SegmentDistance is 0 for intersecting segments, otherwise the closest
// endpoint-to-segment distance, which is exact for straight segments.
func SegmentDistance(s1, s2 Segment) float64 {
	if DoSegmentsIntersect(s1, s2) {
		return 0
	}
	d := PointSegmentDistance(s1.A, s2)
	d = math.Min(d, PointSegmentDistance(s1.B, s2))
	d = math.Min(d, PointSegmentDistance(s2.A, s1))
	return math.Min(d, PointSegmentDistance(s2.B, s1))
}
