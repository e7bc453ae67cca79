// Package scene loads named rectangles from YAML and inserts them into a
// window table in file order.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/windowless/internal/geometry"
	"github.com/1broseidon/windowless/internal/windowtable"
)

// Window is one named rectangle in a scene file.
type Window struct {
	Name string             `yaml:"name"`
	Rect geometry.Rectangle `yaml:"rect"`

	// Line is the 1-based line of the entry in its file.
	Line int `yaml:"-"`
}

// Scene is an ordered list of windows. The first window becomes the root.
type Scene struct {
	Path    string
	Windows []Window
}

type rawScene struct {
	Windows []Window `yaml:"windows"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	return sc, nil
}

// Parse decodes scene YAML.
func Parse(data []byte) (*Scene, error) {
	var raw rawScene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	lines := entryLines(&doc)
	for i := range raw.Windows {
		if i < len(lines) {
			raw.Windows[i].Line = lines[i]
		}
	}

	sc := &Scene{Windows: raw.Windows}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks that every window has a unique, non-empty name.
func (s *Scene) Validate() error {
	if len(s.Windows) == 0 {
		return fmt.Errorf("windows must not be empty")
	}
	seen := make(map[string]int, len(s.Windows))
	for i, w := range s.Windows {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			return fmt.Errorf("line %d: windows[%d]: name is required", w.Line, i)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("line %d: windows[%d]: duplicate name %q (first defined on line %d)", w.Line, i, name, prev)
		}
		seen[name] = w.Line
	}
	return nil
}

// Result is the outcome of inserting one scene window.
type Result struct {
	Window Window
	Key    windowtable.Key
	Err    error
}

// Apply inserts every window into table, in order. Windows rejected by the
// table are reported in their Result and do not stop the remaining inserts.
func (s *Scene) Apply(table *windowtable.Table) []Result {
	results := make([]Result, 0, len(s.Windows))
	for _, w := range s.Windows {
		key, err := table.Insert(w.Rect)
		if err != nil {
			err = fmt.Errorf("line %d: window %q: %w", w.Line, w.Name, err)
		}
		results = append(results, Result{Window: w, Key: key, Err: err})
	}
	return results
}

// entryLines returns the line of each item in the top-level windows list.
func entryLines(doc *yaml.Node) []int {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "windows" {
			continue
		}
		seq := node.Content[i+1]
		lines := make([]int, 0, len(seq.Content))
		for _, item := range seq.Content {
			lines = append(lines, item.Line)
		}
		return lines
	}
	return nil
}
