package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/windowless/internal/ipc"
	"github.com/1broseidon/windowless/internal/tui"
)

func runExplore(args []string) int {
	fs := flag.NewFlagSet("explore", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowless explore [<scene-file>]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Browse a window table interactively. With a scene file the table is built")
		fmt.Fprintln(os.Stderr, "from it; otherwise it is read from a running 'windowless watch'.")
		fmt.Fprintln(os.Stderr, "Windows inserted or reset in the explorer stay local to it.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "explore takes at most one <scene-file>")
		fs.Usage()
		return 2
	}
	if !stdoutIsTerminal() {
		fmt.Fprintln(os.Stderr, "explore requires an interactive terminal")
		return 1
	}

	var src tui.Source = tui.WatchSource{Client: ipc.NewClient()}
	if fs.NArg() == 1 {
		src = tui.SceneSource{Path: fs.Arg(0)}
	}

	if err := tui.Run(src); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
