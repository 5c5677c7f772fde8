package route

import "math"

// Point is a position in canvas pixels. Y grows downward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the box.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Anchor returns the midpoint of the given side.
func (r Rect) Anchor(p Port) Point {
	c := r.Center()
	switch p {
	case Top:
		return Point{X: c.X, Y: r.Y}
	case Bottom:
		return Point{X: c.X, Y: r.Bottom()}
	case Left:
		return Point{X: r.X, Y: c.Y}
	default:
		return Point{X: r.Right(), Y: c.Y}
	}
}

// HorizontalGap returns the empty horizontal distance between two boxes, or
// a negative value when their x ranges overlap.
func HorizontalGap(a, b Rect) float64 {
	return math.Max(b.X-a.Right(), a.X-b.Right())
}

func dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// toward moves from a toward b by d pixels.
func toward(a, b Point, d float64) Point {
	l := dist(a, b)
	if l == 0 {
		return a
	}
	return Point{X: a.X + (b.X-a.X)*d/l, Y: a.Y + (b.Y-a.Y)*d/l}
}
