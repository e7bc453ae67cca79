package tui

import (
	"fmt"

	"github.com/1broseidon/windowless/internal/ipc"
	"github.com/1broseidon/windowless/internal/scene"
	"github.com/1broseidon/windowless/internal/windowtable"
)

// Snapshot is a table loaded for browsing, with display names by window ID.
type Snapshot struct {
	Table    *windowtable.Table
	Names    map[uint32]string
	Rejected int
}

// Source produces the table shown by the explorer. Load is called at start
// and again on every refresh.
type Source interface {
	Name() string
	Load() (Snapshot, error)
}

// SceneSource reads a scene file from disk.
type SceneSource struct {
	Path string
}

func (s SceneSource) Name() string { return s.Path }

func (s SceneSource) Load() (Snapshot, error) {
	sc, err := scene.Load(s.Path)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Table: windowtable.New(),
		Names: make(map[uint32]string, len(sc.Windows)),
	}
	for _, res := range sc.Apply(snap.Table) {
		if res.Err != nil {
			snap.Rejected++
			continue
		}
		snap.Names[res.Key.ID()] = res.Window.Name
	}
	return snap, nil
}

// WatchSource reads the table held by a running watch over IPC.
type WatchSource struct {
	Client *ipc.Client
}

func (s WatchSource) Name() string { return "watch" }

func (s WatchSource) Load() (Snapshot, error) {
	rep, err := s.Client.GetReport()
	if err != nil {
		return Snapshot{}, err
	}

	// Report windows are listed in insertion order, so inserting their
	// rectangles again reproduces the same IDs and edges.
	snap := Snapshot{
		Table:    windowtable.New(),
		Names:    make(map[uint32]string, len(rep.Windows)),
		Rejected: len(rep.Rejected),
	}
	for _, wr := range rep.Windows {
		key, err := snap.Table.Insert(wr.Rect)
		if err != nil {
			return Snapshot{}, fmt.Errorf("window %d: %w", wr.ID, err)
		}
		switch {
		case wr.Root:
			snap.Names[key.ID()] = "[screen]"
		case wr.Window != nil && wr.Window.AppID != "":
			snap.Names[key.ID()] = wr.Window.AppID
		case wr.Window != nil:
			snap.Names[key.ID()] = fmt.Sprintf("0x%x", uint32(wr.Window.ID))
		}
	}
	return snap, nil
}
