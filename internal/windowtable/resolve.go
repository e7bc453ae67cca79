package windowtable

import (
	"slices"

	"github.com/1broseidon/windowless/internal/geometry"
)

// intersections returns the deepest windows under roots that overlap rect,
// and whether some part of rect is covered by none of roots.
//
// Fragments of rect are matched against roots in order; the first root that
// overlaps a fragment claims the overlapping part, and the rest of the
// fragment goes back on the worklist. A matched root is reported only when
// its own children leave part of the claimed region uncovered.
func (t *Table) intersections(roots []Key, rect geometry.Rectangle) ([]Key, bool) {
	var found []Key
	leftovers := false

	pending := []geometry.Rectangle{rect}
	for len(pending) > 0 {
		fragment := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		matched, overlap, remainders, ok := t.firstMatch(roots, fragment)
		if !ok {
			leftovers = true
			continue
		}

		deeper, uncovered := t.intersections(t.record(matched).children, overlap)
		found = append(found, deeper...)
		if uncovered {
			found = append(found, matched)
		}

		pending = append(pending, remainders...)
	}

	slices.SortFunc(found, Key.Compare)
	found = slices.Compact(found)

	return found, leftovers
}

func (t *Table) firstMatch(roots []Key, fragment geometry.Rectangle) (Key, geometry.Rectangle, []geometry.Rectangle, bool) {
	for _, root := range roots {
		overlap, remainders, ok := fragment.Split(t.record(root).rect)
		if ok {
			return root, overlap, remainders, true
		}
	}
	return Key{}, geometry.Rectangle{}, nil, false
}
