package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/windowless/internal/windowtable"
)

type outputFormat string

const (
	formatTree outputFormat = "tree"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

const formatUsage = "Output format: tree, json, yaml (default: tree on a terminal, json otherwise)"

// resolveFormat picks the output format. An empty name means tree for a
// terminal and JSON for pipes.
func resolveFormat(name string, isTTY bool) (outputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		if isTTY {
			return formatTree, nil
		}
		return formatJSON, nil
	case "tree":
		return formatTree, nil
	case "json":
		return formatJSON, nil
	case "yaml", "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want tree, json or yaml)", name)
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func writeEncoded(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// printTree writes the window DAG depth-first from the root. A window with
// several parents is expanded the first time the walk reaches it and shown as
// a "^" reference afterwards.
func printTree(w io.Writer, infos []windowtable.Info, label func(windowtable.Info) string) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}

	byID := make(map[uint32]windowtable.Info, len(infos))
	root := infos[0]
	for _, info := range infos {
		byID[info.ID] = info
		if info.Root {
			root = info
		}
	}

	expanded := map[uint32]bool{root.ID: true}
	var walk func(id uint32, prefix string)
	walk = func(id uint32, prefix string) {
		children := byID[id].Children
		for i, child := range children {
			branch, next := "├── ", "│   "
			if i == len(children)-1 {
				branch, next = "└── ", "    "
			}
			if expanded[child] {
				fmt.Fprintf(w, "%s%sw%d ^\n", prefix, branch, child)
				continue
			}
			expanded[child] = true
			fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLine(byID[child], label))
			walk(child, prefix+next)
		}
	}

	fmt.Fprintln(w, nodeLine(root, label))
	walk(root.ID, "")
}

func nodeLine(info windowtable.Info, label func(windowtable.Info) string) string {
	line := fmt.Sprintf("w%d %v", info.ID, info.Rect)
	if label != nil {
		if l := label(info); l != "" {
			line += "  " + l
		}
	}
	return line
}
