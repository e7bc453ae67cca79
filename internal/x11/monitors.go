package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors retrieves all active monitors using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Disabled CRTC.
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			name = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// ActiveMonitor returns the monitor holding the focused window, else the one
// under the pointer, else the first monitor.
func (c *Connection) ActiveMonitor(monitors []Monitor) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	if activeWin, err := c.ActiveWindow(); err == nil && activeWin != 0 {
		if geom, ok := c.WindowGeometry(activeWin); ok {
			cx := geom.X + geom.Width/2
			cy := geom.Y + geom.Height/2
			for _, m := range monitors {
				if m.contains(cx, cy) {
					return m, nil
				}
			}
		}
	}

	if x, y, err := c.Pointer(); err == nil {
		for _, m := range monitors {
			if m.contains(x, y) {
				return m, nil
			}
		}
	}

	return monitors[0], nil
}

// WorkArea clips a monitor to the current desktop's _NET_WORKAREA, which
// excludes panels and docks. The monitor is returned unchanged when no work
// area is published or it does not intersect the monitor.
func (c *Connection) WorkArea(m Monitor) Monitor {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return m
	}

	desktopIndex := 0
	if current, err := c.CurrentDesktop(); err == nil && current >= 0 && current < len(workArea) {
		desktopIndex = current
	}
	wa := workArea[desktopIndex]

	x1 := max(m.X, int(wa.X))
	y1 := max(m.Y, int(wa.Y))
	x2 := min(m.X+m.Width, int(wa.X)+int(wa.Width))
	y2 := min(m.Y+m.Height, int(wa.Y)+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return m
	}

	m.X, m.Y = x1, y1
	m.Width, m.Height = x2-x1, y2-y1
	return m
}
