package mcp

import "github.com/1broseidon/windowless/internal/geometry"

// WindowInfo describes a single window in the table.
type WindowInfo struct {
	ID       uint32             `json:"id"`
	Name     string             `json:"name,omitempty"`
	Rect     geometry.Rectangle `json:"rect"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Root     bool               `json:"root"`
	Parents  []uint32           `json:"parents"`
	Children []uint32           `json:"children"`
}

// InsertWindowInput is the input for the insert_window tool.
type InsertWindowInput struct {
	Left   int    `json:"left" jsonschema:"required,Left edge (inclusive)"`
	Top    int    `json:"top" jsonschema:"required,Top edge (inclusive)"`
	Right  int    `json:"right" jsonschema:"required,Right edge (exclusive)"`
	Bottom int    `json:"bottom" jsonschema:"required,Bottom edge (exclusive)"`
	Name   string `json:"name,omitempty" jsonschema:"Optional label returned by list_windows and describe_window"`
}

// InsertWindowOutput is the output for the insert_window tool.
type InsertWindowOutput struct {
	Window WindowInfo `json:"window"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Count   int          `json:"count"`
	Root    *uint32      `json:"root,omitempty"`
	Windows []WindowInfo `json:"windows"`
}

// DescribeWindowInput is the input for the describe_window tool.
type DescribeWindowInput struct {
	ID uint32 `json:"id" jsonschema:"required,Window ID as returned by insert_window"`
}

// DescribeWindowOutput is the output for the describe_window tool.
type DescribeWindowOutput struct {
	Window WindowInfo `json:"window"`
}

// WindowsAtInput is the input for the windows_at tool.
type WindowsAtInput struct {
	X int `json:"x" jsonschema:"required,Cursor X coordinate"`
	Y int `json:"y" jsonschema:"required,Cursor Y coordinate"`
}

// WindowsAtOutput is the output for the windows_at tool.
type WindowsAtOutput struct {
	X       int          `json:"x"`
	Y       int          `json:"y"`
	Changed bool         `json:"changed"`
	Windows []WindowInfo `json:"windows"`
}

// ResetWindowsInput is the input for the reset_windows tool.
type ResetWindowsInput struct{}

// ResetWindowsOutput is the output for the reset_windows tool.
type ResetWindowsOutput struct {
	Discarded int `json:"discarded"`
}

// LoadSceneInput is the input for the load_scene tool.
type LoadSceneInput struct {
	YAML  string `json:"yaml" jsonschema:"required,Scene document with a top-level windows list of {name, rect: {left, top, right, bottom}}"`
	Reset bool   `json:"reset,omitempty" jsonschema:"When true, discard existing windows before loading (default: false)"`
}

// SceneEntry is the outcome of inserting one scene window.
type SceneEntry struct {
	Name  string  `json:"name"`
	Line  int     `json:"line"`
	ID    *uint32 `json:"id,omitempty"`
	Error string  `json:"error,omitempty"`
}

// LoadSceneOutput is the output for the load_scene tool.
type LoadSceneOutput struct {
	Inserted int          `json:"inserted"`
	Rejected int          `json:"rejected"`
	Entries  []SceneEntry `json:"entries"`
}
