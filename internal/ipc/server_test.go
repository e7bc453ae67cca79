package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/windowless/internal/geometry"
	"github.com/1broseidon/windowless/internal/platform"
	"github.com/1broseidon/windowless/internal/tracker"
	"github.com/1broseidon/windowless/internal/windowtable"
)

type fakeHandler struct {
	mu        sync.Mutex
	report    tracker.Report
	ready     bool
	reloadErr error
	reloads   int
	rebuilds  int
}

func (h *fakeHandler) Report() (tracker.Report, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.report, h.ready
}

func (h *fakeHandler) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reloads++
	return h.reloadErr
}

func (h *fakeHandler) Rebuild() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rebuilds++
	return nil
}

func (h *fakeHandler) set(rep tracker.Report, ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report, h.ready = rep, ready
}

func startServer(t *testing.T, h Handler) *Client {
	t.Helper()
	dir, err := os.MkdirTemp("", "wl")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "test.sock")
	srv := NewServerAt(path, h)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(path)
}

func TestClientServer_Status(t *testing.T) {
	h := &fakeHandler{}
	client := startServer(t, h)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Running || status.Ready {
		t.Errorf("status = %+v, want running and not ready", status)
	}

	if _, err := client.GetReport(); err == nil || !strings.Contains(err.Error(), "no snapshot yet") {
		t.Errorf("GetReport before ready: err = %v", err)
	}

	h.set(tracker.Report{
		Root: platform.Rect{Width: 100, Height: 100},
		Windows: []tracker.WindowReport{
			{Info: windowtable.Info{ID: 0, Rect: geometry.New(0, 0, 100, 100), Root: true, Children: []uint32{1}}},
			{
				Info:   windowtable.Info{ID: 1, Rect: geometry.New(0, 0, 50, 50), Parents: []uint32{0}},
				Window: &platform.Window{ID: 7, AppID: "kitty"},
			},
		},
		Cursor:      &windowtable.Point{X: 5, Y: 5},
		UnderCursor: []platform.WindowID{7},
	}, true)

	status, err = client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Ready || status.Windows != 2 || status.UnderCursor != 1 {
		t.Errorf("status = %+v", status)
	}
}

func TestClientServer_Report(t *testing.T) {
	h := &fakeHandler{ready: true}
	h.report = tracker.Report{
		Root: platform.Rect{Width: 100, Height: 100},
		Windows: []tracker.WindowReport{
			{Info: windowtable.Info{ID: 0, Rect: geometry.New(0, 0, 100, 100), Root: true, Children: []uint32{1}}},
			{
				Info:   windowtable.Info{ID: 1, Rect: geometry.New(0, 0, 50, 50), Parents: []uint32{0}},
				Window: &platform.Window{ID: 7, AppID: "kitty"},
			},
		},
	}
	client := startServer(t, h)

	rep, err := client.GetReport()
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if len(rep.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(rep.Windows))
	}
	got := rep.Windows[1]
	if got.ID != 1 || got.Rect != geometry.New(0, 0, 50, 50) || got.Window == nil || got.Window.AppID != "kitty" {
		t.Errorf("window 1 = %+v", got)
	}

	cursor, err := client.GetCursor()
	if err != nil {
		t.Fatalf("GetCursor: %v", err)
	}
	if cursor.UnderCursor == nil || len(cursor.UnderCursor) != 0 {
		t.Errorf("under cursor = %#v, want empty", cursor.UnderCursor)
	}
}

func TestClientServer_ReloadAndRebuild(t *testing.T) {
	h := &fakeHandler{}
	client := startServer(t, h)

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if err := client.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	h.mu.Lock()
	reloads, rebuilds := h.reloads, h.rebuilds
	h.reloadErr = errors.New("bad config")
	h.mu.Unlock()
	if reloads != 1 || rebuilds != 1 {
		t.Errorf("reloads=%d rebuilds=%d, want 1 each", reloads, rebuilds)
	}

	if err := client.Reload(); err == nil || !strings.Contains(err.Error(), "bad config") {
		t.Errorf("Reload error = %v, want bad config", err)
	}
}

func TestClient_NoServer(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil {
		t.Error("expected error with no server")
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	s := NewServerAt(filepath.Join(t.TempDir(), "unused.sock"), &fakeHandler{})
	resp := s.handleCommand(&Request{Command: "BOGUS"})
	if resp.Status != "ERROR" {
		t.Errorf("status = %q, want ERROR", resp.Status)
	}
}
