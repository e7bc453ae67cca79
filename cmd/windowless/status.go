package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/1broseidon/windowless/internal/ipc"
	"github.com/1broseidon/windowless/internal/tracker"
)

// watchHandler serves a running reconciler over IPC.
type watchHandler struct {
	reconciler *tracker.Reconciler
	flags      desktopFlags
}

func (h *watchHandler) Report() (tracker.Report, bool) {
	return h.reconciler.Report()
}

func (h *watchHandler) Reload() error {
	cfg, err := h.flags.load()
	if err != nil {
		return err
	}
	h.reconciler.SetOptions(tracker.OptionsFromConfig(cfg))
	return nil
}

func (h *watchHandler) Rebuild() error {
	return h.reconciler.Reconcile()
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowless status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the status of a running 'windowless watch'.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("running:      %v\n", status.Running)
	fmt.Printf("ready:        %v\n", status.Ready)
	fmt.Printf("uptime:       %v\n", time.Duration(status.UptimeSeconds)*time.Second)
	fmt.Printf("windows:      %d\n", status.Windows)
	fmt.Printf("rejected:     %d\n", status.Rejected)
	fmt.Printf("under_cursor: %d\n", status.UnderCursor)
	fmt.Printf("socket:       %s\n", status.SocketPath)
	return 0
}

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	format := fs.String("format", "", formatUsage)
	rebuild := fs.Bool("rebuild", false, "Rebuild the table before reading it")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowless query [--format FORMAT] [--rebuild]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the window table held by a running 'windowless watch'.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	outFmt, err := resolveFormat(*format, stdoutIsTerminal())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if *rebuild {
		if err := client.Rebuild(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	rep, err := client.GetReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if outFmt == formatTree {
		printReportTree(os.Stdout, *rep)
		return 0
	}
	if err := writeEncoded(os.Stdout, outFmt, rep); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	if isHelpArg(args) {
		fmt.Fprintln(os.Stdout, "Usage: windowless reload")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Ask a running 'windowless watch' to reload its configuration.")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reloaded")
	return 0
}
