package platform

import "github.com/1broseidon/windowless/internal/geometry"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rectangle converts r to left-top-right-bottom form.
func (r Rect) Rectangle() geometry.Rectangle {
	return geometry.FromSize(r.X, r.Y, r.Width, r.Height)
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Bounds Rect   `json:"bounds" yaml:"bounds"`
	Usable Rect   `json:"usable" yaml:"usable"`
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID `json:"id" yaml:"id"`
	AppID  string   `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Bounds Rect     `json:"bounds" yaml:"bounds"`
}

// ListOptions filters the windows returned by Backend.Windows.
type ListOptions struct {
	// IncludeAll keeps docks, desktops and other non-normal windows.
	IncludeAll bool
}

// Backend abstracts the window-system queries needed to build a window table.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	// Windows lists visible windows on the current desktop, bottom to top.
	Windows(opts ListOptions) ([]Window, error)
	Pointer() (x, y int, err error)
}
