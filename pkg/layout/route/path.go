package route

import "math"

// Orthogonal builds the polyline from the source port to the target port
// using only horizontal and vertical segments, with at most two bends.
//
//   - Two vertical ports: straight line when aligned, else a dogleg through
//     the horizontal midline.
//   - Two horizontal ports on opposite sides: straight line when aligned,
//     else a dogleg through the vertical midline.
//   - Two horizontal ports on the same side: a detour that runs detour pixels
//     outside the outermost port and back.
//   - Mixed ports: a single-corner L that leaves along the exit axis.
//
// Consecutive duplicate points are removed. Boxes whose anchors touch get a
// zero-length two-point segment so the edge stays routable.
func Orthogonal(from, to Rect, d Docking, detour float64) []Point {
	s := from.Anchor(d.Exit)
	e := to.Anchor(d.Enter)

	var pts []Point
	switch {
	case d.Exit.Vertical() && d.Enter.Vertical():
		if s.X == e.X {
			pts = []Point{s, e}
			break
		}
		midY := (s.Y + e.Y) / 2
		pts = []Point{s, {X: s.X, Y: midY}, {X: e.X, Y: midY}, e}

	case d.Detour():
		x := math.Min(s.X, e.X) - detour
		if d.Exit == Right {
			x = math.Max(s.X, e.X) + detour
		}
		pts = []Point{s, {X: x, Y: s.Y}, {X: x, Y: e.Y}, e}

	case !d.Exit.Vertical() && !d.Enter.Vertical():
		if s.Y == e.Y {
			pts = []Point{s, e}
			break
		}
		midX := (s.X + e.X) / 2
		pts = []Point{s, {X: midX, Y: s.Y}, {X: midX, Y: e.Y}, e}

	case d.Exit.Vertical():
		pts = []Point{s, {X: s.X, Y: e.Y}, e}

	default:
		pts = []Point{s, {X: e.X, Y: s.Y}, e}
	}
	if pts = dedupe(pts); len(pts) < 2 {
		return []Point{s, e}
	}
	return pts
}

func dedupe(pts []Point) []Point {
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Connect docks, routes and smooths a single edge between two boxes.
func Connect(rel Relation, from, to Rect, cornerRadius, detour float64) ([]Point, Path, Docking) {
	d := Dock(rel, from, to)
	pts := Orthogonal(from, to, d, detour)
	return pts, Smooth(pts, cornerRadius), d
}
