package geometry

import "fmt"

// Point is a location in global screen coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is a window frame in global screen coordinates. The origin is the
// top-left corner, matching what the window server reports for menu-bar
// windows.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MidX returns the horizontal midpoint of the rect. Menu-bar classification
// compares item midpoints against divider midpoints, so off-by-one edge
// positions never flip a section assignment.
func (r Rect) MidX() float64 {
	return r.X + r.Width/2
}

// MaxX returns the right edge of the rect.
func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

// Origin returns the top-left corner of the rect.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether p lies inside the rect, right and bottom edges
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ApproxEqualX reports whether the horizontal origins of two rects are within
// tolerance of each other. Move verification only cares about the X axis; the
// menu bar never moves items vertically.
func (r Rect) ApproxEqualX(other Rect, tolerance float64) bool {
	d := r.X - other.X
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %gx%g)", r.X, r.Y, r.Width, r.Height)
}
