package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/windowless/internal/windowtable"
)

type mode int

const (
	modeBrowse mode = iota
	modeProbe
	modeInsert
)

// windowItem implements list.Item for the window sidebar.
type windowItem struct {
	info windowtable.Info
	name string
	hit  bool
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.hit {
		prefix = "+ "
	}
	label := fmt.Sprintf("w%d", i.info.ID)
	if i.name != "" {
		label += " " + i.name
	}
	return prefix + label
}

func (i windowItem) Description() string { return i.info.Rect.String() }
func (i windowItem) FilterValue() string { return i.name }

// statusMsg shows text in the tab status line for a few seconds.
type statusMsg struct {
	text string
}

type clearStatusMsg struct{}

// model is the root bubbletea model of the explorer.
type model struct {
	source  Source
	snap    Snapshot
	loadErr error

	list   list.Model
	cursor windowtable.CursorState
	probe  *windowtable.Point

	mode       mode
	probeInput textinput.Model
	form       *huh.Form
	fields     *insertFields

	statusText string

	width  int
	height int
}

func newModel(src Source) (model, error) {
	snap, err := src.Load()
	if err != nil {
		return model{}, err
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "x,y"
	ti.CharLimit = 32

	m := model{
		source:     src,
		snap:       snap,
		list:       l,
		probeInput: ti,
	}
	m.rebuildItems()
	return m, nil
}

// Run starts the explorer on the alternate screen and blocks until it exits.
func Run(src Source) error {
	m, err := newModel(src)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSize()
		if m.form != nil {
			m.form = m.form.WithWidth(max(m.width-4, 40))
		}
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.mode {
	case modeProbe:
		return m.updateProbe(msg)
	case modeInsert:
		return m.updateInsert(msg)
	}
	return m.updateBrowse(msg)
}

func (m model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "p":
			m.mode = modeProbe
			m.probeInput.Reset()
			return m, tea.Batch(m.probeInput.Focus(), textinput.Blink)
		case "i":
			m.fields = &insertFields{}
			m.form = newInsertForm(m.fields, m.width)
			m.mode = modeInsert
			return m, m.form.Init()
		case "x":
			n := m.snap.Table.Len()
			m.snap.Table.Reset()
			clear(m.snap.Names)
			m.snap.Rejected = 0
			m.refreshProbe()
			m.rebuildItems()
			return m, status(fmt.Sprintf("discarded %d windows", n))
		case "r":
			return m.reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateProbe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.mode = modeBrowse
			m.probeInput.Blur()
			return m, nil
		case "enter":
			x, y, err := parsePoint(m.probeInput.Value())
			if err != nil {
				return m, status(err.Error())
			}
			m.mode = modeBrowse
			m.probeInput.Blur()
			m.probe = &windowtable.Point{X: x, Y: y}
			m.cursor.Clear()
			m.cursor.Update(m.snap.Table, x, y)
			m.rebuildItems()
			return m, status(fmt.Sprintf("(%d,%d): %s", x, y, m.hitSummary()))
		}
	}

	var cmd tea.Cmd
	m.probeInput, cmd = m.probeInput.Update(msg)
	return m, cmd
}

func (m model) updateInsert(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.mode = modeBrowse
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeBrowse
		m.form = nil
		return m.insert(*m.fields)
	case huh.StateAborted:
		m.mode = modeBrowse
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// insert adds the window described by f to the table.
func (m model) insert(f insertFields) (model, tea.Cmd) {
	rect, err := f.rect()
	if err != nil {
		return m, status(err.Error())
	}
	key, err := m.snap.Table.Insert(rect)
	if err != nil {
		if errors.Is(err, windowtable.ErrOutsideRoot) {
			return m, status(fmt.Sprintf("rejected %v: outside root", rect))
		}
		return m, status(err.Error())
	}
	if name := strings.TrimSpace(f.name); name != "" {
		m.snap.Names[key.ID()] = name
	}
	m.refreshProbe()
	m.rebuildItems()
	m.list.Select(len(m.list.Items()) - 1)
	return m, status(fmt.Sprintf("inserted w%d %v", key.ID(), rect))
}

func (m model) reload() (model, tea.Cmd) {
	snap, err := m.source.Load()
	if err != nil {
		m.loadErr = err
		return m, nil
	}
	m.loadErr = nil
	m.snap = snap
	m.refreshProbe()
	m.rebuildItems()
	return m, status("reloaded")
}

// refreshProbe recomputes the windows under the probe point against the
// current table.
func (m *model) refreshProbe() {
	m.cursor.Clear()
	if m.probe != nil {
		m.cursor.Update(m.snap.Table, m.probe.X, m.probe.Y)
	}
}

func (m *model) rebuildItems() {
	hits := make(map[uint32]bool, len(m.cursor.Windows))
	for _, k := range m.cursor.Windows {
		hits[k.ID()] = true
	}

	infos := m.snap.Table.Describe()
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = windowItem{
			info: info,
			name: m.snap.Names[info.ID],
			hit:  hits[info.ID],
		}
	}
	m.list.SetItems(items)
}

func (m model) hitSummary() string {
	if len(m.cursor.Windows) == 0 {
		return "no windows"
	}
	parts := make([]string, len(m.cursor.Windows))
	for i, k := range m.cursor.Windows {
		parts[i] = "w" + strconv.FormatUint(uint64(k.ID()), 10)
	}
	return strings.Join(parts, " ")
}

func (m model) selected() (windowItem, bool) {
	item, ok := m.list.SelectedItem().(windowItem)
	return item, ok
}

func (m *model) updateListSize() {
	listHeight := m.contentHeight() - 1
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.sidebarWidth(), listHeight)
}

func (m model) sidebarWidth() int {
	sw := m.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

// contentHeight returns the height left after the status, tab status and
// help bars.
func (m model) contentHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.source.Name(), m.snap.Table.Len(), m.snap.Rejected, m.loadErr, m.width)
	helpBar := renderHelpBar(m.mode, m.width)

	var content string
	if m.mode == modeInsert && m.form != nil {
		content = m.viewInsert()
	} else {
		content = m.viewBrowse()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		content,
		m.renderTabStatus(),
		helpBar,
	)
}

func (m model) viewBrowse() string {
	height := m.contentHeight() - 1
	if height < 1 {
		height = 1
	}
	sidebarWidth := m.sidebarWidth()
	detailWidth := m.width - sidebarWidth - 3
	if detailWidth < 10 {
		detailWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Render(m.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, m.renderDetail(detailWidth, height))
}

func (m model) renderDetail(width, height int) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(10).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	var selectedID uint32
	var lines []string
	if item, ok := m.selected(); ok {
		selectedID = item.info.ID
		info := item.info
		title := fmt.Sprintf("w%d", info.ID)
		if info.Root {
			title += " (root)"
		}
		lines = append(lines,
			row("Window", title),
			row("Name", displayOrDefault(item.name, "-")),
			row("Rect", info.Rect.String()),
			row("Size", fmt.Sprintf("%d×%d", info.Rect.Width(), info.Rect.Height())),
			row("Parents", formatIDList(info.Parents)),
			row("Children", formatIDList(info.Children)),
		)
	} else {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  Table is empty. Press 'i' to insert a root window."))
	}
	if m.probe != nil {
		lines = append(lines, row("Probe", fmt.Sprintf("(%d,%d) %s", m.probe.X, m.probe.Y, m.hitSummary())))
	}

	previewHeight := height - len(lines) - 1
	if previewHeight >= 3 {
		preview := renderASCIIPreview(m.snap.Table, selectedID, m.probe, width-1, previewHeight)
		lines = append(lines, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Render(strings.Join(preview, "\n")))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m model) viewInsert() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Insert Window") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.contentHeight() - 1).
		Padding(1, 2).
		Render(header + "\n\n" + m.form.View())
}

func (m model) renderTabStatus() string {
	if m.mode == modeProbe {
		return " probe " + m.probeInput.View()
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1).
		Render(m.statusText)
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// parsePoint parses "x,y" or "x y".
func parsePoint(s string) (int, int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("point must be x,y: %q", s)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", fields[1])
	}
	return x, y, nil
}

func formatIDList(ids []uint32) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "w" + strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
