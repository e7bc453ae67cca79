package geometry

import "fmt"

// Rectangle is an axis-aligned region in left-top-right-bottom form.
// The edges are half-open: a rectangle covers [Left, Right) x [Top, Bottom).
type Rectangle struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// New creates a rectangle from its four edges.
func New(left, top, right, bottom int) Rectangle {
	return Rectangle{Left: left, Top: top, Right: right, Bottom: bottom}
}

// FromSize creates a rectangle from a top-left corner and a size.
func FromSize(x, y, width, height int) Rectangle {
	return Rectangle{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the horizontal extent, regardless of edge order.
func (r Rectangle) Width() int {
	return abs(r.Right - r.Left)
}

// Height returns the vertical extent, regardless of edge order.
func (r Rectangle) Height() int {
	return abs(r.Bottom - r.Top)
}

// Area returns Width * Height.
func (r Rectangle) Area() int {
	return r.Width() * r.Height()
}

// Empty reports whether the rectangle covers no area.
func (r Rectangle) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// ContainsPoint reports whether (x, y) lies inside r.
// Points on the right and bottom edges are outside.
func (r Rectangle) ContainsPoint(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Overlaps reports whether r and other share a positive area.
// Rectangles that only touch along an edge or at a corner do not overlap.
func (r Rectangle) Overlaps(other Rectangle) bool {
	return r.Left < other.Right &&
		other.Left < r.Right &&
		r.Top < other.Bottom &&
		other.Top < r.Bottom
}

// Split cuts r along the edges of other.
//
// It returns the region of r covered by other, plus the pieces of r outside
// other. The overlap and the remainders together tile r exactly. Edges are
// clipped in a fixed order (top, bottom, left, right), so there are at most
// four remainders. ok is false when the rectangles do not overlap.
func (r Rectangle) Split(other Rectangle) (overlap Rectangle, remainders []Rectangle, ok bool) {
	if !r.Overlaps(other) {
		return Rectangle{}, nil, false
	}

	remainders = make([]Rectangle, 0, 4)

	if r.Top < other.Top {
		remainders = append(remainders, Rectangle{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: other.Top})
		r.Top = other.Top
	}
	if r.Bottom > other.Bottom {
		remainders = append(remainders, Rectangle{Left: r.Left, Top: other.Bottom, Right: r.Right, Bottom: r.Bottom})
		r.Bottom = other.Bottom
	}
	if r.Left < other.Left {
		remainders = append(remainders, Rectangle{Left: r.Left, Top: r.Top, Right: other.Left, Bottom: r.Bottom})
		r.Left = other.Left
	}
	if r.Right > other.Right {
		remainders = append(remainders, Rectangle{Left: other.Right, Top: r.Top, Right: r.Right, Bottom: r.Bottom})
		r.Right = other.Right
	}

	return r, remainders, true
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
