package common

import "fmt"

// Point is an integer position in screen or sprite space.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is an integer width/height pair.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Rect is an axis-aligned integer rectangle with its origin at the top-left.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func NewRect(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// X2 returns the first column right of the rectangle.
func (r Rect) X2() int { return r.X + r.W }

// Y2 returns the first row below the rectangle.
func (r Rect) Y2() int { return r.Y + r.H }

func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Center returns the midpoint, rounding toward the origin.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X2() && p.Y >= r.Y && p.Y < r.Y2()
}

// Intersect returns the overlap of r and o, or the zero Rect when they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X2(), o.X2())
	y2 := min(r.Y2(), o.Y2())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.X, r.Y, r.W, r.H)
}
