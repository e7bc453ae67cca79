package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/1broseidon/windowless/internal/actionlog"
	"github.com/1broseidon/windowless/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "scene":
		os.Exit(runScene(os.Args[2:]))
	case "snapshot":
		os.Exit(runSnapshot(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "query":
		os.Exit(runQuery(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "explore":
		os.Exit(runExplore(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: windowless <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  scene <file>        Build a window table from a YAML scene file")
	fmt.Fprintln(w, "  snapshot            Build a window table from the current X11 desktop")
	fmt.Fprintln(w, "  watch               Rebuild periodically and report windows under the cursor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  status              Show status of a running watch")
	fmt.Fprintln(w, "  query               Print the table held by a running watch")
	fmt.Fprintln(w, "  reload              Reload the configuration of a running watch")
	fmt.Fprintln(w, "  explore [file]      Browse a scene or a running watch's table interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Show where a config value came from")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'windowless <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newSlogLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// openActionLog returns nil when action logging is disabled or cannot start.
func openActionLog(cfg *config.Config) *actionlog.Logger {
	logger, err := actionlog.FromConfig(cfg.GetLoggingConfig())
	if err != nil {
		log.Printf("Warning: failed to initialize action log: %v", err)
		return nil
	}
	return logger
}

func isHelpArg(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

const configPathUsage = "Config file path (default: ~/.config/windowless/config.yaml)"
