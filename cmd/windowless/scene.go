package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/windowless/internal/geometry"
	"github.com/1broseidon/windowless/internal/scene"
	"github.com/1broseidon/windowless/internal/windowtable"
)

type sceneWindow struct {
	Name             string `json:"name" yaml:"name"`
	windowtable.Info `yaml:",inline"`
}

type sceneRejection struct {
	Name  string             `json:"name" yaml:"name"`
	Line  int                `json:"line" yaml:"line"`
	Rect  geometry.Rectangle `json:"rect" yaml:"rect"`
	Error string             `json:"error" yaml:"error"`
}

type sceneReport struct {
	Scene    string           `json:"scene" yaml:"scene"`
	Windows  []sceneWindow    `json:"windows" yaml:"windows"`
	Rejected []sceneRejection `json:"rejected,omitempty" yaml:"rejected,omitempty"`
}

func runScene(args []string) int {
	fs := flag.NewFlagSet("scene", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	format := fs.String("format", "", formatUsage)
	strict := fs.Bool("strict", false, "Exit with status 1 if any window is rejected")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowless scene [--format FORMAT] [--strict] <file>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Insert the windows of a YAML scene file in order and print the resulting")
		fmt.Fprintln(os.Stderr, "window table. The first window is the root.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "scene requires exactly one <file>")
		fs.Usage()
		return 2
	}

	outFmt, err := resolveFormat(*format, stdoutIsTerminal())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	sc, err := scene.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	table := windowtable.New()
	rep := buildSceneReport(sc, table, sc.Apply(table))

	if outFmt == formatTree {
		printSceneTree(os.Stdout, rep)
	} else if err := writeEncoded(os.Stdout, outFmt, rep); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *strict && len(rep.Rejected) > 0 {
		return 1
	}
	return 0
}

func buildSceneReport(sc *scene.Scene, table *windowtable.Table, results []scene.Result) sceneReport {
	rep := sceneReport{Scene: sc.Path}

	names := make(map[uint32]string, len(results))
	for _, res := range results {
		if res.Err != nil {
			rep.Rejected = append(rep.Rejected, sceneRejection{
				Name:  res.Window.Name,
				Line:  res.Window.Line,
				Rect:  res.Window.Rect,
				Error: res.Err.Error(),
			})
			continue
		}
		names[res.Key.ID()] = res.Window.Name
	}

	for _, info := range table.Describe() {
		rep.Windows = append(rep.Windows, sceneWindow{Name: names[info.ID], Info: info})
	}
	return rep
}

func printSceneTree(w io.Writer, rep sceneReport) {
	infos := make([]windowtable.Info, len(rep.Windows))
	names := make(map[uint32]string, len(rep.Windows))
	for i, sw := range rep.Windows {
		infos[i] = sw.Info
		names[sw.ID] = sw.Name
	}

	printTree(w, infos, func(info windowtable.Info) string {
		return names[info.ID]
	})

	if len(rep.Rejected) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Rejected:")
		for _, r := range rep.Rejected {
			fmt.Fprintf(w, "  %s\n", r.Error)
		}
	}
}
