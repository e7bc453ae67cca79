//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/windowless/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, b.displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveDisplay returns the display holding the focused window or pointer.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	monitors, err := conn.Monitors()
	if err != nil {
		return Display{}, err
	}

	active, err := conn.ActiveMonitor(monitors)
	if err != nil {
		return Display{}, err
	}
	return b.displayFromMonitor(active), nil
}

// Windows lists windows on the current desktop in stacking order, bottom first.
func (b *LinuxBackend) Windows(opts ListOptions) ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.StackingClients()
	if err != nil {
		return nil, err
	}

	currentDesktop, desktopErr := conn.CurrentDesktop()

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !opts.IncludeAll && !conn.IsNormalWindow(windowID) {
			continue
		}
		if desktopErr == nil && !conn.OnDesktop(windowID, currentDesktop) {
			continue
		}
		if conn.IsHidden(windowID) {
			continue
		}

		geom, ok := conn.WindowGeometry(windowID)
		if !ok {
			continue
		}

		windows = append(windows, Window{
			ID:    WindowID(windowID),
			AppID: conn.WindowClass(windowID),
			Title: conn.WindowTitle(windowID),
			Bounds: Rect{
				X:      geom.X,
				Y:      geom.Y,
				Width:  geom.Width,
				Height: geom.Height,
			},
		})
	}

	return windows, nil
}

// Pointer returns the cursor position in root coordinates.
func (b *LinuxBackend) Pointer() (int, int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, 0, err
	}
	return conn.Pointer()
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func (b *LinuxBackend) displayFromMonitor(m x11.Monitor) Display {
	usable := b.conn.WorkArea(m)
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		Usable: Rect{X: usable.X, Y: usable.Y, Width: usable.Width, Height: usable.Height},
	}
}
