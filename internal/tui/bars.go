package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar renders the source and table summary line.
func renderStatusBar(source string, windows, rejected int, loadErr error, width int) string {
	var status string
	if loadErr != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("●")
		status = dot + " " + source + ": " + loadErr.Error()
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " " + source, fmt.Sprintf("windows:%d", windows)}
		if rejected > 0 {
			parts = append(parts, fmt.Sprintf("outside root:%d", rejected))
		}
		status = strings.Join(parts, "  ")
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom keybinding bar.
func renderHelpBar(m mode, width int) string {
	var help string
	switch m {
	case modeProbe:
		help = "enter: hit-test point  esc: cancel  ctrl-c: quit"
	case modeInsert:
		help = "enter: next field  esc: cancel  ctrl-c: quit"
	default:
		help = "↑/↓: select  p: probe point  i: insert  x: reset  r: reload  q/ctrl-c: quit"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
