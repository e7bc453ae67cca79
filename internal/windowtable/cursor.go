package windowtable

import (
	"slices"

	"github.com/1broseidon/windowless/internal/geometry"
)

// Point is a position in the root window's coordinate space.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// CursorState caches which windows were under the cursor at its last known
// position. It is maintained by the caller; the table never updates it.
type CursorState struct {
	Position Point
	Windows  []Key
}

// Update moves the cursor to (x, y) and recomputes the windows under it.
// It reports whether the set of windows changed.
func (c *CursorState) Update(t *Table, x, y int) bool {
	under := t.Overlapping(geometry.New(x, y, x+1, y+1))

	c.Position = Point{X: x, Y: y}
	if slices.Equal(under, c.Windows) {
		return false
	}
	c.Windows = under
	return true
}

// Clear forgets the windows under the cursor, keeping its position.
func (c *CursorState) Clear() {
	c.Windows = nil
}
