package mcp

import (
	"context"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowless/internal/actionlog"
	"github.com/1broseidon/windowless/internal/windowtable"
)

const (
	ServerName    = "windowless"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing a window table as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	logger    *slog.Logger
	actions   *actionlog.Logger

	mu     sync.Mutex
	table  *windowtable.Table
	names  map[uint32]string // window ID -> label, cleared on reset
	cursor windowtable.CursorState
}

// NewServer creates a new MCP server with an empty table. actions may be
// nil.
func NewServer(logger *slog.Logger, actions *actionlog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := newServer(logger, actions)
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

func newServer(logger *slog.Logger, actions *actionlog.Logger) *Server {
	return &Server{
		logger:  logger,
		actions: actions,
		table:   windowtable.New(),
		names:   make(map[uint32]string),
	}
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "name", ServerName, "version", ServerVersion)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases server resources.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	return s.actions.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "insert_window",
		Description: "Insert a rectangular window given by its left, top, right and bottom edges. The first window inserted becomes the root; every later window must overlap the root or it is rejected. Returns the new window with the windows it was attached to as parents.",
	}, s.handleInsertWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window in insertion order with its rectangle, parents and children.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "describe_window",
		Description: "Describe a single window by ID. IDs restart from 0 after reset_windows, so an ID taken before a reset names whichever window now holds it.",
	}, s.handleDescribeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "windows_at",
		Description: "Move the cursor to a point and return the deepest windows under it. Reports whether the set changed since the previous call.",
	}, s.handleWindowsAt)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_windows",
		Description: "Discard every window, including the root. The next insert_window creates a new root.",
	}, s.handleResetWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_scene",
		Description: "Insert the windows of a YAML scene document in order. Windows outside the root are reported and skipped.",
	}, s.handleLoadScene)
}
