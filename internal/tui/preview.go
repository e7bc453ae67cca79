package tui

import (
	"strconv"
	"strings"

	"github.com/1broseidon/windowless/internal/geometry"
	"github.com/1broseidon/windowless/internal/windowtable"
)

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightBox = boxRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavyBox = boxRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

// renderASCIIPreview draws every window of the table scaled into a
// width x height canvas framed by the root. Windows are drawn in insertion
// order so later windows paint over earlier ones; the selected window is
// drawn last with a heavy outline. probe, when non-nil, is marked with '+'.
func renderASCIIPreview(t *windowtable.Table, selected uint32, probe *windowtable.Point, width, height int) []string {
	if t == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	rootKey, ok := t.Root()
	if !ok {
		return emptyCanvas(width, height)
	}
	root, _ := t.Rect(rootKey)
	if root.Empty() {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	var sel geometry.Rectangle
	haveSel := false
	for key, rect := range t.All() {
		if key == rootKey {
			continue
		}
		if key.ID() == selected {
			sel, haveSel = rect, true
			continue
		}
		drawWindow(canvas, root, rect, key.ID(), lightBox)
	}
	if haveSel {
		drawWindow(canvas, root, sel, selected, heavyBox)
	}

	drawBorder(canvas, width, height)

	if probe != nil && root.ContainsPoint(probe.X, probe.Y) {
		x, y := toCanvas(root, probe.X, probe.Y, width, height)
		x = clamp(x, 1, width-2)
		y = clamp(y, 1, height-2)
		canvas[y][x] = '+'
	}

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// toCanvas maps a point in root coordinates onto the canvas.
func toCanvas(root geometry.Rectangle, x, y, canvasW, canvasH int) (int, int) {
	cx := (x - root.Left) * canvasW / root.Width()
	cy := (y - root.Top) * canvasH / root.Height()
	return cx, cy
}

func drawWindow(canvas [][]rune, root, rect geometry.Rectangle, id uint32, box boxRunes) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])

	x1, y1 := toCanvas(root, rect.Left, rect.Top, canvasW, canvasH)
	x2, y2 := toCanvas(root, rect.Right, rect.Bottom, canvasW, canvasH)
	x2--
	y2--

	x1 = clamp(x1, 1, canvasW-2)
	y1 = clamp(y1, 1, canvasH-2)
	x2 = clamp(x2, 1, canvasW-2)
	y2 = clamp(y2, 1, canvasH-2)

	// Need at least 2x2 for an outline
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = box.h
		canvas[y2][x] = box.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = box.v
		canvas[y][x2] = box.v
	}
	canvas[y1][x1] = box.tl
	canvas[y1][x2] = box.tr
	canvas[y2][x1] = box.bl
	canvas[y2][x2] = box.br

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		label := strconv.FormatUint(uint64(id), 10)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
