package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/1broseidon/windowless/internal/config"
	"github.com/1broseidon/windowless/internal/ipc"
	"github.com/1broseidon/windowless/internal/platform"
	"github.com/1broseidon/windowless/internal/tracker"
	"github.com/1broseidon/windowless/internal/windowtable"
)

// desktopFlags are shared by snapshot and watch.
type desktopFlags struct {
	path        *string
	display     *string
	allDisplays *bool
	includeAll  *bool
	verbose     *bool
}

func addDesktopFlags(fs *flag.FlagSet) desktopFlags {
	return desktopFlags{
		path:        fs.String("path", "", configPathUsage),
		display:     fs.String("display", "", "X11 display to connect to (default: $DISPLAY)"),
		allDisplays: fs.Bool("all-displays", false, "Use the bounding box of every display as the root window"),
		includeAll:  fs.Bool("include-all", false, "Include docks, desktops and other non-normal windows"),
		verbose:     fs.Bool("verbose", false, "Enable debug logging"),
	}
}

// load reads the config and applies command-line overrides.
func (f desktopFlags) load() (*config.Config, error) {
	res, err := loadConfig(*f.path)
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	if *f.display != "" {
		cfg.Display = *f.display
	}
	if *f.allDisplays {
		cfg.RootSource = config.RootAllDisplays
	}
	if *f.includeAll {
		cfg.IncludeAllWindows = true
	}
	return cfg, nil
}

func runSnapshot(args []string) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	flags := addDesktopFlags(fs)
	format := fs.String("format", "", formatUsage)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowless snapshot [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Build a window table from the windows on the current desktop, bottom to")
		fmt.Fprintln(os.Stderr, "top, rooted at the active display's work area.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "snapshot takes no arguments")
		fs.Usage()
		return 2
	}

	outFmt, err := resolveFormat(*format, stdoutIsTerminal())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, err := flags.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to display: %v\n", err)
		return 1
	}
	defer backend.Disconnect()

	actions := openActionLog(cfg)
	defer actions.Close()

	reconciler := tracker.NewReconciler(tracker.ReconcilerConfig{
		Options: tracker.OptionsFromConfig(cfg),
		Logger:  newSlogLogger(*flags.verbose),
		Actions: actions,
	}, backend)
	if err := reconciler.Reconcile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rep, _ := reconciler.Report()
	if outFmt == formatTree {
		printReportTree(os.Stdout, rep)
		return 0
	}
	if err := writeEncoded(os.Stdout, outFmt, rep); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	flags := addDesktopFlags(fs)
	interval := fs.Duration("interval", 0, "Rebuild interval (default: poll_interval_ms from config)")
	jsonOut := fs.Bool("json", false, "Print one JSON report per change")
	noIPC := fs.Bool("no-ipc", false, "Do not serve status and query requests on the IPC socket")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowless watch [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Rebuild the window table periodically and print the windows under the")
		fmt.Fprintln(os.Stderr, "cursor whenever they change. SIGHUP or 'windowless reload' reloads the")
		fmt.Fprintln(os.Stderr, "configuration; 'windowless status' and 'windowless query' read its state.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "watch takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := flags.load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	actions := openActionLog(cfg)
	defer actions.Close()

	every := *interval
	if every <= 0 {
		every = cfg.PollInterval()
	}

	logger := newSlogLogger(*flags.verbose)
	reconciler := tracker.NewReconciler(tracker.ReconcilerConfig{
		Interval: every,
		Options:  tracker.OptionsFromConfig(cfg),
		Logger:   logger,
		Actions:  actions,
		OnChange: func(rep tracker.Report) {
			if *jsonOut {
				if err := writeEncoded(os.Stdout, formatJSON, rep); err != nil {
					logger.Error("failed to write report", "error", err)
				}
				return
			}
			printCursorLine(os.Stdout, time.Now(), rep)
		},
	}, backend)

	if !*noIPC {
		ipcServer, err := ipc.NewServer(&watchHandler{reconciler: reconciler, flags: flags})
		if err != nil {
			log.Printf("Warning: IPC disabled: %v", err)
		} else if err := ipcServer.Start(); err != nil {
			log.Printf("Warning: IPC disabled: %v", err)
		} else {
			defer ipcServer.Stop()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig != syscall.SIGHUP {
					log.Printf("Received %v, stopping", sig)
					cancel()
					return
				}
				log.Println("Received SIGHUP, reloading config...")
				reloaded, err := flags.load()
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				reconciler.SetOptions(tracker.OptionsFromConfig(reloaded))
				log.Println("Config reloaded successfully")
			}
		}
	}()

	log.Printf("Watching windows every %v (root: %s)", every, cfg.RootSource)
	reconciler.Run(ctx)
	return 0
}

func printReportTree(w io.Writer, rep tracker.Report) {
	infos := make([]windowtable.Info, len(rep.Windows))
	windows := make(map[uint32]*platform.Window, len(rep.Windows))
	for i, wr := range rep.Windows {
		infos[i] = wr.Info
		windows[wr.ID] = wr.Window
	}

	printTree(w, infos, func(info windowtable.Info) string {
		if info.Root {
			return "[screen]"
		}
		return windowLabel(windows[info.ID])
	})

	if len(rep.Rejected) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Outside root:")
		for i := range rep.Rejected {
			win := rep.Rejected[i]
			fmt.Fprintf(w, "  %v  %s\n", win.Bounds.Rectangle(), windowLabel(&win))
		}
	}

	if rep.Cursor != nil {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Cursor (%d,%d): %s\n", rep.Cursor.X, rep.Cursor.Y, formatIDs(rep.UnderCursor))
	}
}

func printCursorLine(w io.Writer, now time.Time, rep tracker.Report) {
	x, y := 0, 0
	if rep.Cursor != nil {
		x, y = rep.Cursor.X, rep.Cursor.Y
	}

	labels := make([]string, 0, len(rep.UnderCursor))
	for _, id := range rep.UnderCursor {
		label := fmt.Sprintf("0x%x", uint32(id))
		for _, wr := range rep.Windows {
			if wr.Window != nil && wr.Window.ID == id {
				label = windowLabel(wr.Window)
				break
			}
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		labels = append(labels, "[screen]")
	}

	fmt.Fprintf(w, "%s (%d,%d) %s\n", now.Format("15:04:05"), x, y, strings.Join(labels, ", "))
}

func windowLabel(win *platform.Window) string {
	if win == nil {
		return ""
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("0x%x", uint32(win.ID)))
	if win.AppID != "" {
		parts = append(parts, win.AppID)
	}
	if win.Title != "" {
		parts = append(parts, fmt.Sprintf("%q", win.Title))
	}
	return strings.Join(parts, " ")
}

func formatIDs(ids []platform.WindowID) string {
	if len(ids) == 0 {
		return "(root only)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("0x%x", uint32(id))
	}
	return strings.Join(parts, " ")
}
