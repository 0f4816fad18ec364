package collision

import (
	"math/rand"
	"testing"

	"morphplan/alien"
	"morphplan/geometry"
)

var (
	testWindow = geometry.Window{Width: 300, Height: 200}
	testWalls  = []geometry.Segment{
		geometry.Seg(100, 0, 100, 80),
	}
	testGoals = []geometry.Goal{
		{Center: geometry.Pt(250, 150), Radius: 10},
	}
)

func newAlien(t testing.TB, x, y float64, shape alien.Shape) *alien.Alien {
	t.Helper()
	a, err := alien.New(geometry.Pt(x, y), [3]float64{40, 0, 40}, [3]float64{11, 25, 11}, shape)
	if err != nil {
		t.Fatalf("alien.New failed: %v", err)
	}
	return a
}

// truths: touches wall, touches goal, within window
func TestPredicates(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		shape  alien.Shape
		margin float64
		truths [3]bool
	}{
		{"ball-free", 30, 120, alien.Ball, 0, [3]bool{false, false, true}},
		{"ball-wall", 80, 50, alien.Ball, 0, [3]bool{true, false, true}},
		{"horizontal-near-wall-tip", 80, 100, alien.Horizontal, 0, [3]bool{false, false, true}},
		{"horizontal-inflated-into-wall", 80, 100, alien.Horizontal, Inflation(15), [3]bool{true, false, true}},
		{"vertical-clear", 80, 100, alien.Vertical, 0, [3]bool{false, false, true}},
		{"vertical-wall-tip", 90, 100, alien.Vertical, 0, [3]bool{true, false, true}},
		{"horizontal-goal", 230, 150, alien.Horizontal, 0, [3]bool{false, true, true}},
		{"ball-goal-tangent", 250, 115, alien.Ball, 0, [3]bool{false, true, true}},
		{"horizontal-left-edge", 15, 100, alien.Horizontal, 0, [3]bool{false, false, false}},
		{"horizontal-right-edge", 285, 100, alien.Horizontal, 0, [3]bool{false, false, false}},
		{"vertical-top-edge", 150, 15, alien.Vertical, 0, [3]bool{false, false, false}},
		{"vertical-bottom-edge", 150, 185, alien.Vertical, 0, [3]bool{false, false, false}},
		{"ball-top-edge", 150, 20, alien.Ball, 0, [3]bool{false, false, false}},
		{"ball-lower-edge-margin-added", 150, 30, alien.Ball, 10, [3]bool{false, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAlien(t, tt.x, tt.y, tt.shape)
			if got := TouchesWall(a, testWalls, tt.margin); got != tt.truths[0] {
				t.Errorf("TouchesWall(%v) = %v, want %v", a.Config(), got, tt.truths[0])
			}
			if got := TouchesGoal(a, testGoals); got != tt.truths[1] {
				t.Errorf("TouchesGoal(%v) = %v, want %v", a.Config(), got, tt.truths[1])
			}
			if got := WithinWindow(a, testWindow, tt.margin); got != tt.truths[2] {
				t.Errorf("WithinWindow(%v) = %v, want %v", a.Config(), got, tt.truths[2])
			}
		})
	}
}

func TestBoundaryWallsCoincideWithWindow(t *testing.T) {
	// a horizontal alien whose tail sits exactly on the left boundary
	a := newAlien(t, 20, 100, alien.Horizontal)
	walls := testWindow.Boundary()
	if !TouchesWall(a, walls, 0) {
		t.Fatalf("expected contact with boundary wall")
	}
	if WithinWindow(a, testWindow, 0) {
		t.Fatalf("expected alien on the edge to be outside the window")
	}
	if !Blocked(a, walls, testWindow, 0) {
		t.Fatalf("expected blocked")
	}
}

func TestInflationMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	walls := append(append([]geometry.Segment(nil), testWalls...), testWindow.Boundary()...)
	walls = append(walls, geometry.Seg(180, 60, 240, 120))
	grans := []float64{0, 1, 2, 5, 8, 10, 15}

	for i := 0; i < 3000; i++ {
		shape := alien.Shape(rng.Intn(alien.NumShapes))
		a := newAlien(t, 1+rng.Float64()*298, 1+rng.Float64()*198, shape)

		wasWall, wasBlocked := false, false
		for _, g := range grans {
			m := Inflation(g)
			wall := TouchesWall(a, walls, m)
			blocked := Blocked(a, walls, testWindow, m)
			if wasWall && !wall {
				t.Fatalf("%v: wall contact lost when granularity grew to %v", a.Config(), g)
			}
			if wasBlocked && !blocked {
				t.Fatalf("%v: blocked cell freed when granularity grew to %v", a.Config(), g)
			}
			wasWall, wasBlocked = wall, blocked
		}
	}
}

func BenchmarkBlocked(b *testing.B) {
	a := newAlien(b, 80, 100, alien.Horizontal)
	walls := append(append([]geometry.Segment(nil), testWalls...), testWindow.Boundary()...)
	m := Inflation(5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Blocked(a, walls, testWindow, m)
	}
}
