// Package windowtable tracks overlapping rectangular windows as a DAG rooted
// at the first window inserted.
//
// A Table is not safe for concurrent use; callers serialize access.
package windowtable

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/1broseidon/windowless/internal/geometry"
)

var (
	// ErrOutsideRoot is returned by Insert when the rectangle shares no area
	// with the root window.
	ErrOutsideRoot = errors.New("window lies outside the root window")

	// ErrInvalidHandle is returned when a Key was issued by another table, or
	// by this table before its last Reset.
	ErrInvalidHandle = errors.New("invalid window handle")
)

var nextTableID atomic.Uint32

// Key identifies one window in a Table. The zero Key is never valid.
type Key struct {
	table uint32
	gen   uint32
	index uint32
}

// ID returns the window's position in insertion order since the last reset.
func (k Key) ID() uint32 {
	return k.index
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Compare orders keys by table, generation, then insertion order.
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.table, other.table); c != 0 {
		return c
	}
	if c := cmp.Compare(k.gen, other.gen); c != 0 {
		return c
	}
	return cmp.Compare(k.index, other.index)
}

func (k Key) String() string {
	return fmt.Sprintf("w%d", k.index)
}

type window struct {
	rect     geometry.Rectangle
	parents  []Key
	children []Key
}

// Table owns every window record. Edges between windows are stored as keys,
// never as pointers, so no record owns another.
type Table struct {
	id      uint32
	gen     uint32
	windows []window
	root    Key
}

// New creates an empty table with no root.
func New() *Table {
	return &Table{id: nextTableID.Add(1)}
}

// Root returns the root window, or false when the table is empty.
func (t *Table) Root() (Key, bool) {
	if len(t.windows) == 0 {
		return Key{}, false
	}
	return t.root, true
}

// Len returns the number of live windows.
func (t *Table) Len() int {
	return len(t.windows)
}

// Insert adds a window and wires it to the windows it overlaps.
//
// The first window inserted into an empty table becomes the root and has no
// edges. Every later window must overlap the root; otherwise ErrOutsideRoot is
// returned and nothing is stored.
func (t *Table) Insert(rect geometry.Rectangle) (Key, error) {
	key := t.keyAt(len(t.windows))

	if len(t.windows) == 0 {
		t.windows = append(t.windows, window{rect: rect})
		t.root = key
		return key, nil
	}

	if !rect.Overlaps(t.record(t.root).rect) {
		return Key{}, fmt.Errorf("insert %v: %w", rect, ErrOutsideRoot)
	}

	parents, _ := t.intersections([]Key{t.root}, rect)

	t.windows = append(t.windows, window{rect: rect, parents: parents})
	for _, parent := range parents {
		rec := t.record(parent)
		rec.children = append(rec.children, key)
	}

	return key, nil
}

// Reset discards every window and unsets the root. Keys issued before the
// reset are rejected with ErrInvalidHandle afterwards.
func (t *Table) Reset() {
	clear(t.windows)
	t.windows = t.windows[:0]
	t.root = Key{}
	t.gen++
}

// All yields every live window with its rectangle, in insertion order.
func (t *Table) All() iter.Seq2[Key, geometry.Rectangle] {
	return func(yield func(Key, geometry.Rectangle) bool) {
		for i := range t.windows {
			if !yield(t.keyAt(i), t.windows[i].rect) {
				return
			}
		}
	}
}

// Lookup returns the live key with the given ID.
func (t *Table) Lookup(id uint32) (Key, error) {
	if int64(id) >= int64(len(t.windows)) {
		return Key{}, fmt.Errorf("window %d: %w", id, ErrInvalidHandle)
	}
	return t.keyAt(int(id)), nil
}

// Rect returns the rectangle of a window.
func (t *Table) Rect(k Key) (geometry.Rectangle, error) {
	if err := t.validate(k); err != nil {
		return geometry.Rectangle{}, err
	}
	return t.record(k).rect, nil
}

// Parents returns the windows k overlaps that were inserted before it.
func (t *Table) Parents(k Key) ([]Key, error) {
	if err := t.validate(k); err != nil {
		return nil, err
	}
	return cloneKeys(t.record(k).parents), nil
}

// Children returns the windows inserted after k that overlap it.
func (t *Table) Children(k Key) ([]Key, error) {
	if err := t.validate(k); err != nil {
		return nil, err
	}
	return cloneKeys(t.record(k).children), nil
}

// Overlapping returns the windows a new window with the given rectangle would
// be attached to, without inserting it. It returns nil for an empty table or
// a rectangle outside the root.
func (t *Table) Overlapping(rect geometry.Rectangle) []Key {
	if len(t.windows) == 0 || !rect.Overlaps(t.record(t.root).rect) {
		return nil
	}
	keys, _ := t.intersections([]Key{t.root}, rect)
	return keys
}

func (t *Table) validate(k Key) error {
	if k.table != t.id || k.gen != t.gen || int64(k.index) >= int64(len(t.windows)) {
		return fmt.Errorf("%v: %w", k, ErrInvalidHandle)
	}
	return nil
}

func (t *Table) keyAt(i int) Key {
	return Key{table: t.id, gen: t.gen, index: uint32(i)}
}

// record panics on foreign keys; only keys produced by this table reach it.
func (t *Table) record(k Key) *window {
	return &t.windows[k.index]
}

func cloneKeys(keys []Key) []Key {
	if len(keys) == 0 {
		return nil
	}
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}
