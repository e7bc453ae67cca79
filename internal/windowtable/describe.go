package windowtable

import "github.com/1broseidon/windowless/internal/geometry"

// Info is a plain description of one window, suitable for encoding.
type Info struct {
	ID       uint32             `json:"id" yaml:"id"`
	Rect     geometry.Rectangle `json:"rect" yaml:"rect"`
	Root     bool               `json:"root,omitempty" yaml:"root,omitempty"`
	Parents  []uint32           `json:"parents,omitempty" yaml:"parents,omitempty"`
	Children []uint32           `json:"children,omitempty" yaml:"children,omitempty"`
}

// Describe returns every window in insertion order.
func (t *Table) Describe() []Info {
	out := make([]Info, 0, len(t.windows))
	for key, rect := range t.All() {
		rec := t.record(key)
		out = append(out, Info{
			ID:       key.ID(),
			Rect:     rect,
			Root:     key == t.root,
			Parents:  ids(rec.parents),
			Children: ids(rec.children),
		})
	}
	return out
}

// Info describes a single window.
func (t *Table) Info(k Key) (Info, error) {
	if err := t.validate(k); err != nil {
		return Info{}, err
	}
	rec := t.record(k)
	return Info{
		ID:       k.ID(),
		Rect:     rec.rect,
		Root:     k == t.root,
		Parents:  ids(rec.parents),
		Children: ids(rec.children),
	}, nil
}

func ids(keys []Key) []uint32 {
	if len(keys) == 0 {
		return nil
	}
	out := make([]uint32, len(keys))
	for i, k := range keys {
		out[i] = k.ID()
	}
	return out
}
