package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// stickyDesktop is the _NET_WM_DESKTOP value of windows shown on all desktops.
const stickyDesktop = 0xFFFFFFFF

// CurrentDesktop returns the current virtual desktop number (0-indexed).
func (c *Connection) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// OnDesktop reports whether a window is visible on the given desktop.
// Windows without _NET_WM_DESKTOP and sticky windows are visible everywhere.
func (c *Connection) OnDesktop(windowID xproto.Window, desktop int) bool {
	d, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil || d == stickyDesktop {
		return true
	}
	return int(d) == desktop
}
