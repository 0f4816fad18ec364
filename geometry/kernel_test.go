package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb/planar"
)

const tolerance = 1e-3

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestDistanceMatchesPlanar(t *testing.T) {
	rng := rand.New(rand.NewSource(20211003))
	for i := 0; i < 200; i++ {
		a := Pt(rng.Float64()*400-200, rng.Float64()*400-200)
		b := Pt(rng.Float64()*400-200, rng.Float64()*400-200)
		got := Distance(Sub(b, a))
		want := planar.Distance(a, b)
		if !approx(got, want) {
			t.Fatalf("Distance(%v - %v) = %v, want %v", b, a, got, want)
		}
	}
}

func TestPointSegmentDistance(t *testing.T) {
	seg := Seg(-10, 0, 10, 0)
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"perpendicular", Pt(0, 5), 5},
		{"perpendicular-below", Pt(-7, -2.5), 2.5},
		{"beyond-b", Pt(15, 0), 5},
		{"beyond-b-offset", Pt(13, 4), 5},
		{"beyond-a-offset", Pt(-16, -8), 10},
		{"on-segment", Pt(3, 0), 0},
		{"at-endpoint", Pt(10, 0), 0},
		{"above-endpoint", Pt(10, 3), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointSegmentDistance(tt.p, seg)
			if !approx(got, tt.want) {
				t.Fatalf("PointSegmentDistance(%v, %v) = %v, want %v", tt.p, seg, got, tt.want)
			}
		})
	}
}

func TestPointSegmentDistanceDiagonal(t *testing.T) {
	seg := Seg(0, 0, 10, 10)
	got := PointSegmentDistance(Pt(0, 10), seg)
	want := 10 / math.Sqrt2
	if !approx(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	// orientation of the segment does not matter for distance
	if rev := PointSegmentDistance(Pt(0, 10), Segment{A: seg.B, B: seg.A}); !approx(rev, got) {
		t.Fatalf("reversed segment distance %v != %v", rev, got)
	}
}

func TestDoSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name string
		s1   Segment
		s2   Segment
		want bool
	}{
		{"cross", Seg(0, 0, 2, 2), Seg(0, 2, 2, 0), true},
		{"t-junction", Seg(0, 0, 2, 0), Seg(1, 0, 1, 5), true},
		{"shared-collinear-endpoint", Seg(0, 0, 1, 0), Seg(1, 0, 2, 0), true},
		{"shared-endpoint-angle", Seg(0, 0, 1, 1), Seg(1, 1, 2, 0), true},
		{"collinear-overlap", Seg(0, 0, 4, 0), Seg(2, 0, 6, 0), true},
		{"collinear-contained", Seg(0, 0, 10, 10), Seg(2, 2, 3, 3), true},
		{"collinear-disjoint", Seg(0, 0, 1, 0), Seg(2, 0, 3, 0), false},
		{"parallel", Seg(0, 0, 4, 0), Seg(1, 3, 3, 3), false},
		{"skew", Seg(0, 0, 1, 0), Seg(3, 1, 3, 5), false},
		{"near-miss", Seg(0, 0, 2, 2), Seg(3, 0, 2.1, 1.9), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DoSegmentsIntersect(tt.s1, tt.s2); got != tt.want {
				t.Fatalf("DoSegmentsIntersect(%v, %v) = %v, want %v", tt.s1, tt.s2, got, tt.want)
			}
			if got := DoSegmentsIntersect(tt.s2, tt.s1); got != tt.want {
				t.Fatalf("DoSegmentsIntersect(%v, %v) = %v, want %v", tt.s2, tt.s1, got, tt.want)
			}
		})
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name string
		s1   Segment
		s2   Segment
		want float64
	}{
		{"cross", Seg(0, 0, 2, 2), Seg(0, 2, 2, 0), 0},
		{"collinear-disjoint", Seg(0, 0, 1, 0), Seg(2, 0, 3, 0), 1},
		{"parallel", Seg(0, 0, 4, 0), Seg(1, 3, 3, 3), 3},
		{"skew", Seg(0, 0, 1, 0), Seg(3, 1, 3, 5), math.Sqrt(5)},
		{"perpendicular-gap", Seg(0, 0, 10, 0), Seg(5, 2, 5, 8), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentDistance(tt.s1, tt.s2)
			if !approx(got, tt.want) {
				t.Fatalf("SegmentDistance(%v, %v) = %v, want %v", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func randomSegment(rng *rand.Rand) Segment {
	for {
		s := Seg(
			float64(rng.Intn(41)-20), float64(rng.Intn(41)-20),
			float64(rng.Intn(41)-20), float64(rng.Intn(41)-20),
		)
		if !s.Degenerate() {
			return s
		}
	}
}

func TestSegmentDistanceProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(20260213))
	for i := 0; i < 5000; i++ {
		a := randomSegment(rng)
		b := randomSegment(rng)

		ab := SegmentDistance(a, b)
		ba := SegmentDistance(b, a)
		if !approx(ab, ba) {
			t.Fatalf("asymmetric distance: d(%v,%v)=%v d(%v,%v)=%v", a, b, ab, b, a, ba)
		}
		if ab < 0 {
			t.Fatalf("negative distance %v for %v %v", ab, a, b)
		}
		if hit := DoSegmentsIntersect(a, b); hit != (ab == 0) {
			t.Fatalf("intersect=%v but distance=%v for %v %v", hit, ab, a, b)
		}
	}
}

func TestPointSegmentDistanceProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		s := randomSegment(rng)
		p := Pt(rng.Float64()*40-20, rng.Float64()*40-20)
		if d := PointSegmentDistance(p, s); d < 0 {
			t.Fatalf("negative distance %v for %v %v", d, p, s)
		}

		// any convex combination of the endpoints lies on s
		u := rng.Float64()
		on := Pt(s.A[0]+u*(s.B[0]-s.A[0]), s.A[1]+u*(s.B[1]-s.A[1]))
		if d := PointSegmentDistance(on, s); !approx(d, 0) {
			t.Fatalf("point %v on %v has distance %v", on, s, d)
		}
	}
}

func TestOrientation(t *testing.T) {
	if got := Orientation(Pt(0, 0), Pt(1, 0), Pt(2, 0)); got != Collinear {
		t.Fatalf("got %v, want Collinear", got)
	}
	if Orientation(Pt(0, 0), Pt(1, 0), Pt(1, 1)) == Orientation(Pt(0, 0), Pt(1, 0), Pt(1, -1)) {
		t.Fatalf("opposite sides must have opposite orientation")
	}
}

func TestValidate(t *testing.T) {
	if err := Seg(1, 1, 1, 1).Validate(); err == nil {
		t.Fatalf("expected degenerate segment error")
	}
	if err := ValidateWalls([]Segment{Seg(0, 0, 1, 0), Seg(2, 2, 2, 2)}); err == nil {
		t.Fatalf("expected error for second wall")
	}
	if err := (Goal{Center: Pt(1, 1), Radius: -1}).Validate(); err == nil {
		t.Fatalf("expected invalid goal error")
	}
	if err := (Window{Width: 0, Height: 10}).Validate(); err == nil {
		t.Fatalf("expected invalid window error")
	}
	for _, w := range []Window{{math.Inf(1), 10}, {10, math.Inf(1)}, {math.NaN(), 10}} {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("Window%v.Validate() = %v, want ErrInvalidWindow", w, err)
		}
	}
	if err := (Window{Width: 10, Height: 10}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWindowBoundary(t *testing.T) {
	w := Window{Width: 300, Height: 200}
	walls := w.Boundary()
	if len(walls) != 4 {
		t.Fatalf("expected 4 boundary walls, got %d", len(walls))
	}
	if err := ValidateWalls(walls); err != nil {
		t.Fatalf("boundary walls invalid: %v", err)
	}
	if !w.ContainsPoint(Pt(300, 0)) || w.ContainsPoint(Pt(301, 10)) {
		t.Fatalf("unexpected ContainsPoint result")
	}
}

func BenchmarkSegmentDistance(b *testing.B) {
	s1 := Seg(0, 0, 40, 3)
	s2 := Seg(50, -10, 70, 90)
	for i := 0; i < b.N; i++ {
		_ = SegmentDistance(s1, s2)
	}
}
