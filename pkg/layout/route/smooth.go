package route

import (
	"math"
	"strconv"
	"strings"
)

// Op is a path drawing command.
type Op byte

const (
	MoveTo Op = 'M'
	LineTo Op = 'L'
	QuadTo Op = 'Q' // quadratic bezier: control point, end point
)

// Segment is one drawing command with its points. QuadTo carries two points
// (control, end); the others carry one.
type Segment struct {
	Op     Op
	Points []Point
}

// Path is a renderer-agnostic sequence of segments. A nil Path means the edge
// could not be routed and must not be drawn.
type Path []Segment

// Empty reports whether the path has nothing to draw.
func (p Path) Empty() bool { return len(p) == 0 }

// SVG returns the path as the value of an SVG d attribute, e.g.
// "M 10 20 L 30 20 Q 40 20 40 30 L 40 60". Coordinates are rounded to two
// decimals so the output is stable across runs.
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(s.Op))
		for _, pt := range s.Points {
			b.WriteByte(' ')
			b.WriteString(num(pt.X))
			b.WriteByte(' ')
			b.WriteString(num(pt.Y))
		}
	}
	return b.String()
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Smooth turns a polyline into a path whose corners are rounded by quadratic
// curves. At every interior point the incoming and outgoing segments are
// shortened by r, where r is radius capped at half of each adjacent segment,
// and the gap is bridged by a curve whose control point is the original
// corner. Straight runs stay straight lines.
//
// Fewer than two points yield a nil Path.
func Smooth(pts []Point, radius float64) Path {
	if len(pts) < 2 {
		return nil
	}
	path := Path{{Op: MoveTo, Points: []Point{pts[0]}}}
	for i := 1; i < len(pts)-1; i++ {
		prev, corner, next := pts[i-1], pts[i], pts[i+1]
		r := math.Min(radius, math.Min(dist(prev, corner), dist(corner, next))/2)
		if r <= 0 || collinear(prev, corner, next) {
			path = append(path, Segment{Op: LineTo, Points: []Point{corner}})
			continue
		}
		approach := toward(corner, prev, r)
		depart := toward(corner, next, r)
		path = append(path,
			Segment{Op: LineTo, Points: []Point{approach}},
			Segment{Op: QuadTo, Points: []Point{corner, depart}},
		)
	}
	return append(path, Segment{Op: LineTo, Points: []Point{pts[len(pts)-1]}})
}

func collinear(a, b, c Point) bool {
	return (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) == 0
}
