package tui

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/windowless/internal/geometry"
	"github.com/1broseidon/windowless/internal/windowtable"
)

// staticSource builds root, a and b on every load:
//
//	w0 (0,0)-(100,100)
//	w1 (10,10)-(50,50)   parents w0
//	w2 (40,40)-(90,90)   parents w0 w1
type staticSource struct {
	loads int
	err   error
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Load() (Snapshot, error) {
	s.loads++
	if s.err != nil {
		return Snapshot{}, s.err
	}
	table := windowtable.New()
	names := map[uint32]string{}
	for i, r := range []geometry.Rectangle{
		geometry.New(0, 0, 100, 100),
		geometry.New(10, 10, 50, 50),
		geometry.New(40, 40, 90, 90),
	} {
		k, err := table.Insert(r)
		if err != nil {
			return Snapshot{}, err
		}
		names[k.ID()] = []string{"screen", "a", "b"}[i]
	}
	return Snapshot{Table: table, Names: names}, nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func newTestModel(t *testing.T) (model, *staticSource) {
	t.Helper()
	src := &staticSource{}
	m, err := newModel(src)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, src
}

func statusText(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	msg, ok := cmd().(statusMsg)
	if !ok {
		t.Fatalf("command produced %T, want statusMsg", msg)
	}
	return msg.text
}

func TestNewModel_Items(t *testing.T) {
	m, _ := newTestModel(t)

	items := m.list.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.(windowItem).Title()
	}
	want := []string{"  w0 screen", "  w1 a", "  w2 b"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("titles = %q, want %q", titles, want)
	}

	item, ok := m.selected()
	if !ok || !item.info.Root {
		t.Errorf("selected = %+v, want root", item)
	}
}

func TestNewModel_LoadError(t *testing.T) {
	if _, err := newModel(&staticSource{err: errors.New("boom")}); err == nil {
		t.Fatal("expected load error")
	}
}

func TestModel_Probe(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, keyRunes("p"))
	if m.mode != modeProbe {
		t.Fatalf("mode = %v, want probe", m.mode)
	}
	m, _ = update(t, m, keyRunes("45,45"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want browse", m.mode)
	}
	if m.probe == nil || *m.probe != (windowtable.Point{X: 45, Y: 45}) {
		t.Fatalf("probe = %v", m.probe)
	}
	if got := statusText(t, cmd); got != "(45,45): w2" {
		t.Errorf("status = %q", got)
	}

	var hits []uint32
	for _, it := range m.list.Items() {
		if wi := it.(windowItem); wi.hit {
			hits = append(hits, wi.info.ID)
		}
	}
	if len(hits) != 1 || hits[0] != 2 {
		t.Errorf("hits = %v, want [2]", hits)
	}
}

func TestModel_ProbeInvalidStaysOpen(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, keyRunes("p"))
	m, _ = update(t, m, keyRunes("nope"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeProbe {
		t.Errorf("mode = %v, want probe after bad input", m.mode)
	}
	if got := statusText(t, cmd); !strings.Contains(got, "x,y") {
		t.Errorf("status = %q", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse || m.probe != nil {
		t.Errorf("after esc: mode=%v probe=%v", m.mode, m.probe)
	}
}

func TestModel_Insert(t *testing.T) {
	m, _ := newTestModel(t)
	m.probe = &windowtable.Point{X: 20, Y: 20}
	m.refreshProbe()

	m, cmd := m.insert(insertFields{name: " c ", left: "15", top: "15", right: "25", bottom: "25"})
	if got := statusText(t, cmd); got != "inserted w3 (15,15)-(25,25)" {
		t.Errorf("status = %q", got)
	}
	item, ok := m.selected()
	if !ok || item.info.ID != 3 || item.name != "c" {
		t.Fatalf("selected = %+v, want new window w3", item)
	}
	if len(item.info.Parents) != 1 || item.info.Parents[0] != 1 {
		t.Errorf("parents = %v, want [1]", item.info.Parents)
	}
	if !item.hit {
		t.Error("new window under probe should be marked")
	}

	m, cmd = m.insert(insertFields{left: "200", top: "200", right: "300", bottom: "300"})
	if got := statusText(t, cmd); !strings.Contains(got, "outside root") {
		t.Errorf("status = %q", got)
	}
	if m.snap.Table.Len() != 4 {
		t.Errorf("Len = %d, want 4", m.snap.Table.Len())
	}

	_, cmd = m.insert(insertFields{left: "a", top: "0", right: "1", bottom: "1"})
	if got := statusText(t, cmd); !strings.Contains(got, "invalid coordinate") {
		t.Errorf("status = %q", got)
	}
}

func TestModel_InsertFormOpensAndCancels(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, keyRunes("i"))
	if m.mode != modeInsert || m.form == nil {
		t.Fatalf("mode = %v form = %v", m.mode, m.form)
	}
	if !strings.Contains(m.View(), "Insert Window") {
		t.Error("view should show the insert form")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeBrowse || m.form != nil {
		t.Errorf("after esc: mode=%v form=%v", m.mode, m.form)
	}
}

func TestModel_ResetAndReload(t *testing.T) {
	m, src := newTestModel(t)

	m, cmd := update(t, m, keyRunes("x"))
	if got := statusText(t, cmd); got != "discarded 3 windows" {
		t.Errorf("status = %q", got)
	}
	if len(m.list.Items()) != 0 || m.snap.Table.Len() != 0 {
		t.Errorf("items=%d len=%d after reset", len(m.list.Items()), m.snap.Table.Len())
	}

	m, cmd = update(t, m, keyRunes("r"))
	if got := statusText(t, cmd); got != "reloaded" {
		t.Errorf("status = %q", got)
	}
	if src.loads != 2 || len(m.list.Items()) != 3 {
		t.Errorf("loads=%d items=%d", src.loads, len(m.list.Items()))
	}

	src.err = errors.New("gone")
	m, _ = update(t, m, keyRunes("r"))
	if m.loadErr == nil || len(m.list.Items()) != 3 {
		t.Errorf("failed reload: err=%v items=%d", m.loadErr, len(m.list.Items()))
	}
	if !strings.Contains(m.View(), "gone") {
		t.Error("status bar should show the load error")
	}
}

func TestModel_ViewShowsSelection(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	for _, want := range []string{"static", "windows:3", "(0,0)-(100,100)", "w0 (root)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in   string
		x, y int
		ok   bool
	}{
		{"1,2", 1, 2, true},
		{" 30 40 ", 30, 40, true},
		{"-5,7", -5, 7, true},
		{"1", 0, 0, false},
		{"a,b", 0, 0, false},
		{"1,2,3", 0, 0, false},
	}
	for _, tt := range tests {
		x, y, err := parsePoint(tt.in)
		if (err == nil) != tt.ok || x != tt.x || y != tt.y {
			t.Errorf("parsePoint(%q) = %d, %d, %v", tt.in, x, y, err)
		}
	}
}

func TestSceneSource(t *testing.T) {
	path := t.TempDir() + "/scene.yaml"
	writeFile(t, path, `windows:
  - name: screen
    rect: {left: 0, top: 0, right: 100, bottom: 100}
  - name: away
    rect: {left: 200, top: 200, right: 300, bottom: 300}
  - name: term
    rect: {left: 10, top: 10, right: 50, bottom: 50}
`)

	snap, err := SceneSource{Path: path}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Table.Len() != 2 || snap.Rejected != 1 {
		t.Errorf("len=%d rejected=%d, want 2 and 1", snap.Table.Len(), snap.Rejected)
	}
	if snap.Names[1] != "term" {
		t.Errorf("names = %v", snap.Names)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
