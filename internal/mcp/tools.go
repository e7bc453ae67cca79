package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowless/internal/actionlog"
	"github.com/1broseidon/windowless/internal/geometry"
	"github.com/1broseidon/windowless/internal/scene"
	"github.com/1broseidon/windowless/internal/windowtable"
)

func (s *Server) handleInsertWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args InsertWindowInput) (*mcpsdk.CallToolResult, InsertWindowOutput, error) {
	rect := geometry.New(args.Left, args.Top, args.Right, args.Bottom)

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.table.Insert(rect)
	if err != nil {
		s.actions.Log(actionlog.ActionReject, -1, map[string]any{
			"rect":   rect.String(),
			"name":   args.Name,
			"reason": "outside_root",
		})
		s.logger.Warn("insert rejected", "rect", rect, "error", err)
		return nil, InsertWindowOutput{}, err
	}

	if args.Name != "" {
		s.names[key.ID()] = args.Name
	}
	info, err := s.windowInfo(key)
	if err != nil {
		return nil, InsertWindowOutput{}, err
	}

	s.actions.Log(actionlog.ActionInsert, int(key.ID()), map[string]any{
		"rect":    rect.String(),
		"name":    args.Name,
		"parents": len(info.Parents),
	})
	s.logger.Debug("window inserted", "id", key.ID(), "rect", rect, "parents", info.Parents)

	return nil, InsertWindowOutput{Window: info}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ListWindowsOutput{
		Count:   s.table.Len(),
		Windows: make([]WindowInfo, 0, s.table.Len()),
	}
	if root, ok := s.table.Root(); ok {
		id := root.ID()
		out.Root = &id
	}
	for key := range s.table.All() {
		info, err := s.windowInfo(key)
		if err != nil {
			return nil, ListWindowsOutput{}, err
		}
		out.Windows = append(out.Windows, info)
	}
	return nil, out, nil
}

func (s *Server) handleDescribeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args DescribeWindowInput) (*mcpsdk.CallToolResult, DescribeWindowOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.table.Lookup(args.ID)
	if err != nil {
		return nil, DescribeWindowOutput{}, fmt.Errorf("no window with id %d", args.ID)
	}
	info, err := s.windowInfo(key)
	if err != nil {
		return nil, DescribeWindowOutput{}, err
	}
	return nil, DescribeWindowOutput{Window: info}, nil
}

func (s *Server) handleWindowsAt(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowsAtInput) (*mcpsdk.CallToolResult, WindowsAtOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.cursor.Update(s.table, args.X, args.Y)
	if changed {
		s.actions.Log(actionlog.ActionCursor, -1, map[string]any{
			"x":       args.X,
			"y":       args.Y,
			"windows": fmt.Sprint(s.cursor.Windows),
		})
	}

	out := WindowsAtOutput{
		X:       args.X,
		Y:       args.Y,
		Changed: changed,
		Windows: make([]WindowInfo, 0, len(s.cursor.Windows)),
	}
	for _, key := range s.cursor.Windows {
		info, err := s.windowInfo(key)
		if err != nil {
			return nil, WindowsAtOutput{}, err
		}
		out.Windows = append(out.Windows, info)
	}
	return nil, out, nil
}

func (s *Server) handleResetWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ResetWindowsInput) (*mcpsdk.CallToolResult, ResetWindowsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	discarded := s.resetLocked()
	s.logger.Info("windows reset", "discarded", discarded)
	return nil, ResetWindowsOutput{Discarded: discarded}, nil
}

func (s *Server) handleLoadScene(_ context.Context, _ *mcpsdk.CallToolRequest, args LoadSceneInput) (*mcpsdk.CallToolResult, LoadSceneOutput, error) {
	sc, err := scene.Parse([]byte(args.YAML))
	if err != nil {
		return nil, LoadSceneOutput{}, fmt.Errorf("invalid scene: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if args.Reset {
		s.resetLocked()
	}

	out := LoadSceneOutput{Entries: make([]SceneEntry, 0, len(sc.Windows))}
	for _, res := range sc.Apply(s.table) {
		entry := SceneEntry{Name: res.Window.Name, Line: res.Window.Line}
		switch {
		case errors.Is(res.Err, windowtable.ErrOutsideRoot):
			entry.Error = res.Err.Error()
			out.Rejected++
			s.actions.Log(actionlog.ActionReject, -1, map[string]any{
				"rect":   res.Window.Rect.String(),
				"name":   res.Window.Name,
				"reason": "outside_root",
			})
		case res.Err != nil:
			return nil, LoadSceneOutput{}, res.Err
		default:
			id := res.Key.ID()
			entry.ID = &id
			out.Inserted++
			s.names[id] = res.Window.Name
			s.actions.Log(actionlog.ActionInsert, int(id), map[string]any{
				"rect": res.Window.Rect.String(),
				"name": res.Window.Name,
			})
		}
		out.Entries = append(out.Entries, entry)
	}

	s.logger.Info("scene loaded", "inserted", out.Inserted, "rejected", out.Rejected)
	return nil, out, nil
}

// resetLocked clears the table and everything keyed by it. s.mu must be held.
func (s *Server) resetLocked() int {
	discarded := s.table.Len()
	s.table.Reset()
	clear(s.names)
	s.cursor = windowtable.CursorState{}
	s.actions.Log(actionlog.ActionReset, -1, map[string]any{"discarded": discarded})
	return discarded
}

func (s *Server) windowInfo(key windowtable.Key) (WindowInfo, error) {
	info, err := s.table.Info(key)
	if err != nil {
		return WindowInfo{}, err
	}
	return WindowInfo{
		ID:       info.ID,
		Name:     s.names[info.ID],
		Rect:     info.Rect,
		Width:    info.Rect.Width(),
		Height:   info.Rect.Height(),
		Root:     info.Root,
		Parents:  nonNil(info.Parents),
		Children: nonNil(info.Children),
	}, nil
}

func nonNil(ids []uint32) []uint32 {
	if ids == nil {
		return []uint32{}
	}
	return ids
}
