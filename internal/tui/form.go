package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/windowless/internal/geometry"
)

// insertFields backs the insert-window form.
type insertFields struct {
	name   string
	left   string
	top    string
	right  string
	bottom string
}

func validateCoord(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("must be an integer")
	}
	return nil
}

// rect parses the form values into a rectangle with Left <= Right and
// Top <= Bottom, so the corners may be entered in either order.
func (f insertFields) rect() (geometry.Rectangle, error) {
	var vals [4]int
	for i, s := range []string{f.left, f.top, f.right, f.bottom} {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return geometry.Rectangle{}, fmt.Errorf("invalid coordinate %q", s)
		}
		vals[i] = v
	}
	return geometry.New(
		min(vals[0], vals[2]), min(vals[1], vals[3]),
		max(vals[0], vals[2]), max(vals[1], vals[3]),
	), nil
}

func newInsertForm(f *insertFields, width int) *huh.Form {
	w := width - 4
	if w < 40 {
		w = 40
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Description("Label shown in the window list (optional)").
				Value(&f.name),
			huh.NewInput().
				Key("left").
				Title("Left").
				Validate(validateCoord).
				Value(&f.left),
			huh.NewInput().
				Key("top").
				Title("Top").
				Validate(validateCoord).
				Value(&f.top),
			huh.NewInput().
				Key("right").
				Title("Right").
				Validate(validateCoord).
				Value(&f.right),
			huh.NewInput().
				Key("bottom").
				Title("Bottom").
				Validate(validateCoord).
				Value(&f.bottom),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)
}
