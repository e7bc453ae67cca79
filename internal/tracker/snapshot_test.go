package tracker

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/windowless/internal/config"
	"github.com/1broseidon/windowless/internal/platform"
	"github.com/1broseidon/windowless/internal/windowtable"
)

type fakeBackend struct {
	displays   []platform.Display
	active     int
	windows    []platform.Window
	x, y       int
	pointerErr error
	listErr    error
	lastOpts   platform.ListOptions
}

func (f *fakeBackend) Displays() ([]platform.Display, error) {
	return f.displays, nil
}

func (f *fakeBackend) ActiveDisplay() (platform.Display, error) {
	if len(f.displays) == 0 {
		return platform.Display{}, errors.New("no displays")
	}
	return f.displays[f.active], nil
}

func (f *fakeBackend) Windows(opts platform.ListOptions) ([]platform.Window, error) {
	f.lastOpts = opts
	return f.windows, f.listErr
}

func (f *fakeBackend) Pointer() (int, int, error) {
	return f.x, f.y, f.pointerErr
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		displays: []platform.Display{
			{
				ID:     0,
				Name:   "DP-1",
				Bounds: platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
				Usable: platform.Rect{X: 0, Y: 30, Width: 1000, Height: 770},
			},
			{
				ID:     1,
				Name:   "DP-2",
				Bounds: platform.Rect{X: 1000, Y: 0, Width: 1000, Height: 800},
				Usable: platform.Rect{X: 1000, Y: 0, Width: 1000, Height: 800},
			},
		},
		windows: []platform.Window{
			{ID: 10, AppID: "editor", Bounds: platform.Rect{X: 0, Y: 30, Width: 500, Height: 770}},
			{ID: 20, AppID: "dialog", Bounds: platform.Rect{X: 100, Y: 100, Width: 100, Height: 100}},
			{ID: 30, AppID: "browser", Bounds: platform.Rect{X: 1200, Y: 100, Width: 400, Height: 400}},
		},
		x: 150,
		y: 150,
	}
}

func TestBuild_ActiveDisplay(t *testing.T) {
	backend := newFakeBackend()
	table := windowtable.New()

	snap, err := Build(table, backend, Options{RootSource: config.RootActiveDisplay}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if snap.Root != backend.displays[0].Usable {
		t.Errorf("root = %+v, want usable area %+v", snap.Root, backend.displays[0].Usable)
	}
	if table.Len() != 3 {
		t.Fatalf("table has %d windows, want 3", table.Len())
	}
	if len(snap.Rejected) != 1 || snap.Rejected[0].ID != 30 {
		t.Errorf("rejected = %+v, want window 30", snap.Rejected)
	}

	root, _ := table.Root()
	if _, ok := snap.Window(root); ok {
		t.Error("root should not map to a client window")
	}

	editor, _ := table.Lookup(1)
	dialog, _ := table.Lookup(2)
	if w, ok := snap.Window(dialog); !ok || w.ID != 20 {
		t.Errorf("key 2 maps to %+v, want window 20", w)
	}

	parents, err := table.Parents(dialog)
	if err != nil {
		t.Fatalf("Parents failed: %v", err)
	}
	if !slices.Equal(parents, []windowtable.Key{editor}) {
		t.Errorf("dialog parents = %v, want [%v]", parents, editor)
	}
}

func TestBuild_AllDisplays(t *testing.T) {
	backend := newFakeBackend()
	table := windowtable.New()

	snap, err := Build(table, backend, Options{RootSource: config.RootAllDisplays, IncludeAll: true}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := platform.Rect{X: 0, Y: 0, Width: 2000, Height: 800}
	if snap.Root != want {
		t.Errorf("root = %+v, want %+v", snap.Root, want)
	}
	if len(snap.Rejected) != 0 {
		t.Errorf("rejected = %+v, want none", snap.Rejected)
	}
	if table.Len() != 4 {
		t.Errorf("table has %d windows, want 4", table.Len())
	}
	if !backend.lastOpts.IncludeAll {
		t.Error("IncludeAll was not passed to the backend")
	}
}

func TestBuild_ResetsTable(t *testing.T) {
	backend := newFakeBackend()
	table := windowtable.New()

	first, err := Build(table, backend, Options{}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	oldRoot, _ := first.Table.Root()

	backend.windows = backend.windows[:1]
	if _, err := Build(table, backend, Options{}, nil); err != nil {
		t.Fatalf("second Build failed: %v", err)
	}

	if table.Len() != 2 {
		t.Errorf("table has %d windows, want 2", table.Len())
	}
	if _, err := table.Rect(oldRoot); !errors.Is(err, windowtable.ErrInvalidHandle) {
		t.Errorf("old root key should be invalid, got %v", err)
	}
}

func TestBuild_Errors(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errors.New("boom")
	if _, err := Build(windowtable.New(), backend, Options{}, nil); err == nil {
		t.Error("expected error when listing fails")
	}

	backend = newFakeBackend()
	if _, err := Build(windowtable.New(), backend, Options{RootSource: "nowhere"}, nil); err == nil {
		t.Error("expected error for unknown root source")
	}

	backend.displays = nil
	if _, err := Build(windowtable.New(), backend, Options{RootSource: config.RootAllDisplays}, nil); err == nil {
		t.Error("expected error with no displays")
	}
}

func TestSnapshotReport(t *testing.T) {
	backend := newFakeBackend()
	snap, err := Build(windowtable.New(), backend, Options{}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rep := snap.Report()
	if len(rep.Windows) != 3 {
		t.Fatalf("report has %d windows, want 3", len(rep.Windows))
	}
	if !rep.Windows[0].Root || rep.Windows[0].Window != nil {
		t.Errorf("first entry should be the bare root, got %+v", rep.Windows[0])
	}
	if rep.Windows[2].Window == nil || rep.Windows[2].Window.ID != 20 {
		t.Errorf("third entry should be window 20, got %+v", rep.Windows[2])
	}
	if !slices.Equal(rep.Windows[2].Parents, []uint32{1}) {
		t.Errorf("window 20 parents = %v, want [1]", rep.Windows[2].Parents)
	}
}

func TestReconciler_TracksCursor(t *testing.T) {
	backend := newFakeBackend()

	var changes []Report
	r := NewReconciler(ReconcilerConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnChange: func(rep Report) { changes = append(changes, rep) },
	}, backend)

	if _, ok := r.Report(); ok {
		t.Error("Report should not be ready before the first pass")
	}

	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("got %d change callbacks, want 1", len(changes))
	}
	if !slices.Equal(changes[0].UnderCursor, []platform.WindowID{20}) {
		t.Errorf("under cursor = %v, want [20]", changes[0].UnderCursor)
	}

	// Same layout, same pointer: nothing to report.
	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(changes) != 1 {
		t.Errorf("got %d change callbacks, want still 1", len(changes))
	}

	// Over the root only.
	backend.x, backend.y = 700, 400
	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(changes) != 2 {
		t.Fatalf("got %d change callbacks, want 2", len(changes))
	}
	if len(changes[1].UnderCursor) != 0 {
		t.Errorf("under cursor = %v, want none", changes[1].UnderCursor)
	}

	rep, ok := r.Report()
	if !ok {
		t.Fatal("Report should be ready")
	}
	if rep.Cursor == nil || *rep.Cursor != (windowtable.Point{X: 700, Y: 400}) {
		t.Errorf("cursor = %v, want (700,400)", rep.Cursor)
	}
}

func TestReconciler_PointerError(t *testing.T) {
	backend := newFakeBackend()
	r := NewReconciler(ReconcilerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, backend)

	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	backend.pointerErr = errors.New("no pointer")
	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile should survive pointer errors: %v", err)
	}

	rep, _ := r.Report()
	if len(rep.UnderCursor) != 0 {
		t.Errorf("under cursor = %v, want none after pointer error", rep.UnderCursor)
	}
}

func TestReconciler_SetOptions(t *testing.T) {
	backend := newFakeBackend()
	r := NewReconciler(ReconcilerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, backend)

	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	rep, _ := r.Report()
	if len(rep.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1 on the active display", len(rep.Rejected))
	}

	r.SetOptions(Options{RootSource: config.RootAllDisplays})
	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	rep, _ = r.Report()
	if len(rep.Rejected) != 0 || rep.Root.Width != 2000 {
		t.Errorf("after SetOptions root = %+v rejected = %d, want all displays", rep.Root, len(rep.Rejected))
	}
}

func TestReconciler_BuildError(t *testing.T) {
	backend := newFakeBackend()
	backend.listErr = errors.New("gone")
	r := NewReconciler(ReconcilerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, backend)

	if err := r.Reconcile(); err == nil {
		t.Error("expected error from Reconcile")
	}
	if _, ok := r.Report(); ok {
		t.Error("Report should not be ready after a failed pass")
	}
}

type panickyBackend struct {
	*fakeBackend
	panics int
}

func (p *panickyBackend) Windows(opts platform.ListOptions) ([]platform.Window, error) {
	if p.panics > 0 {
		p.panics--
		panic("window list corrupted")
	}
	return p.fakeBackend.Windows(opts)
}

func TestReconciler_RecoversFromPanic(t *testing.T) {
	backend := &panickyBackend{fakeBackend: newFakeBackend()}
	r := NewReconciler(ReconcilerConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, backend)

	if err := r.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	before, _ := r.Report()

	backend.panics = 1
	if err := r.Reconcile(); err == nil || !strings.Contains(err.Error(), "window list corrupted") {
		t.Fatalf("Reconcile error = %v, want recovered panic", err)
	}

	done := make(chan Report, 1)
	go func() {
		rep, _ := r.Report()
		done <- rep
	}()
	select {
	case rep := <-done:
		if len(rep.Windows) != len(before.Windows) || !slices.Equal(rep.UnderCursor, before.UnderCursor) {
			t.Errorf("report after panic = %+v, want previous snapshot %+v", rep, before)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked after a recovered panic")
	}

	errc := make(chan error, 1)
	go func() { errc <- r.Reconcile() }()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Reconcile after panic: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Reconcile blocked after a recovered panic")
	}
}
