package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Window 工作空间窗口, 左上角为原点, [0, Width] x [0, Height].
type Window struct {
	Width, Height float64
}

func (w Window) Validate() error {
	if !(w.Width > 0) || !(w.Height > 0) || math.IsInf(w.Width, 0) || math.IsInf(w.Height, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidWindow, w.Width, w.Height)
	}
	return nil
}

// Bound 返回窗口对应的 orb.Bound.
func (w Window) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{w.Width, w.Height}}
}

// ContainsPoint 判断点是否在窗口内（边界 inclusive）.
func (w Window) ContainsPoint(p Point) bool {
	return w.Bound().Contains(p)
}

// Boundary 四条边界墙, 顺序与地图配置一致: 左, 上, 右, 下.
func (w Window) Boundary() []Segment {
	return []Segment{
		Seg(0, 0, 0, w.Height),
		Seg(0, 0, w.Width, 0),
		Seg(w.Width, 0, w.Width, w.Height),
		Seg(0, w.Height, w.Width, w.Height),
	}
}

func (w Window) String() string {
	return fmt.Sprintf("[%g x %g]", w.Width, w.Height)
}
