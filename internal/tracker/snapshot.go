// Package tracker builds window tables from the live window system.
package tracker

import (
	"errors"
	"fmt"

	"github.com/1broseidon/windowless/internal/actionlog"
	"github.com/1broseidon/windowless/internal/config"
	"github.com/1broseidon/windowless/internal/platform"
	"github.com/1broseidon/windowless/internal/windowtable"
)

// Options controls how a snapshot is taken.
type Options struct {
	RootSource config.RootSource
	IncludeAll bool
}

// OptionsFromConfig extracts snapshot options from the effective config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RootSource: cfg.RootSource,
		IncludeAll: cfg.IncludeAllWindows,
	}
}

// Snapshot is a window table built from one listing of the window system.
// The root window is the screen region; every other window is a real client.
type Snapshot struct {
	Table    *windowtable.Table
	Root     platform.Rect
	Rejected []platform.Window

	windows map[windowtable.Key]platform.Window
}

// Build resets table and fills it from the backend: first the root region,
// then every client window bottom to top. Windows entirely outside the root
// are recorded in Rejected.
func Build(table *windowtable.Table, backend platform.Backend, opts Options, actions *actionlog.Logger) (*Snapshot, error) {
	root, err := rootRegion(backend, opts.RootSource)
	if err != nil {
		return nil, err
	}

	windows, err := backend.Windows(platform.ListOptions{IncludeAll: opts.IncludeAll})
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}

	table.Reset()
	actions.Log(actionlog.ActionReset, -1, nil)

	rootKey, err := table.Insert(root.Rectangle())
	if err != nil {
		return nil, err
	}
	actions.Log(actionlog.ActionInsert, int(rootKey.ID()), map[string]any{
		"rect": root.Rectangle().String(),
		"root": true,
	})

	snap := &Snapshot{
		Table:   table,
		Root:    root,
		windows: make(map[windowtable.Key]platform.Window, len(windows)),
	}

	for _, w := range windows {
		key, err := table.Insert(w.Bounds.Rectangle())
		if errors.Is(err, windowtable.ErrOutsideRoot) {
			snap.Rejected = append(snap.Rejected, w)
			actions.Log(actionlog.ActionReject, -1, map[string]any{
				"xid":    uint32(w.ID),
				"rect":   w.Bounds.Rectangle().String(),
				"reason": "outside_root",
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		snap.windows[key] = w

		details := map[string]any{
			"xid":  uint32(w.ID),
			"rect": w.Bounds.Rectangle().String(),
		}
		if parents, err := table.Parents(key); err == nil {
			details["parents"] = len(parents)
		}
		actions.Log(actionlog.ActionInsert, int(key.ID()), details)
	}

	actions.Log(actionlog.ActionSnapshot, -1, map[string]any{
		"windows":  len(snap.windows),
		"rejected": len(snap.Rejected),
	})

	return snap, nil
}

// Window returns the client window behind a key. The root has none.
func (s *Snapshot) Window(k windowtable.Key) (platform.Window, bool) {
	w, ok := s.windows[k]
	return w, ok
}

// WindowIDs maps keys to client window IDs, skipping the root.
func (s *Snapshot) WindowIDs(keys []windowtable.Key) []platform.WindowID {
	var out []platform.WindowID
	for _, k := range keys {
		if w, ok := s.windows[k]; ok {
			out = append(out, w.ID)
		}
	}
	return out
}

// WindowReport pairs a table entry with the client window it stands for.
type WindowReport struct {
	windowtable.Info `yaml:",inline"`
	Window           *platform.Window `json:"window,omitempty" yaml:"window,omitempty"`
}

// Report is a self-contained description of a snapshot.
type Report struct {
	Root        platform.Rect       `json:"root" yaml:"root"`
	Windows     []WindowReport      `json:"windows" yaml:"windows"`
	Rejected    []platform.Window   `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Cursor      *windowtable.Point  `json:"cursor,omitempty" yaml:"cursor,omitempty"`
	UnderCursor []platform.WindowID `json:"under_cursor,omitempty" yaml:"under_cursor,omitempty"`
}

// Report describes every window in the snapshot.
func (s *Snapshot) Report() Report {
	rep := Report{
		Root:     s.Root,
		Windows:  make([]WindowReport, 0, s.Table.Len()),
		Rejected: s.Rejected,
	}
	for key := range s.Table.All() {
		info, err := s.Table.Info(key)
		if err != nil {
			continue
		}
		wr := WindowReport{Info: info}
		if w, ok := s.windows[key]; ok {
			wr.Window = &w
		}
		rep.Windows = append(rep.Windows, wr)
	}
	return rep
}

func rootRegion(backend platform.Backend, source config.RootSource) (platform.Rect, error) {
	switch source {
	case config.RootAllDisplays:
		displays, err := backend.Displays()
		if err != nil {
			return platform.Rect{}, fmt.Errorf("failed to list displays: %w", err)
		}
		if len(displays) == 0 {
			return platform.Rect{}, fmt.Errorf("no displays found")
		}
		return boundingBox(displays), nil
	case config.RootActiveDisplay, "":
		display, err := backend.ActiveDisplay()
		if err != nil {
			return platform.Rect{}, fmt.Errorf("failed to get active display: %w", err)
		}
		return display.Usable, nil
	default:
		return platform.Rect{}, fmt.Errorf("unknown root source %q", source)
	}
}

func boundingBox(displays []platform.Display) platform.Rect {
	b := displays[0].Bounds
	x1, y1 := b.X, b.Y
	x2, y2 := b.X+b.Width, b.Y+b.Height
	for _, d := range displays[1:] {
		x1 = min(x1, d.Bounds.X)
		y1 = min(y1, d.Bounds.Y)
		x2 = max(x2, d.Bounds.X+d.Bounds.Width)
		y2 = max(y2, d.Bounds.Y+d.Bounds.Height)
	}
	return platform.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
