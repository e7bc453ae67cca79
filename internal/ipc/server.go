package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/windowless/internal/platform"
	"github.com/1broseidon/windowless/internal/runtimepath"
	"github.com/1broseidon/windowless/internal/tracker"
)

// Handler is the watch process state served over IPC.
type Handler interface {
	Report() (tracker.Report, bool)
	// Reload re-reads the configuration.
	Reload() error
	// Rebuild runs a reconcile pass immediately.
	Rebuild() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the default socket path
func NewServer(handler Handler) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, handler), nil
}

// NewServerAt creates a new IPC server on socketPath
func NewServerAt(socketPath string, handler Handler) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		handler:    handler,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandRebuild:
		return s.handleRebuild()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetReport:
		return s.handleGetReport()
	case CommandGetCursor:
		return s.handleGetCursor()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if err := s.handler.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRebuild() *Response {
	if err := s.handler.Rebuild(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to rebuild: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		Running:       true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		SocketPath:    s.socketPath,
	}
	if rep, ok := s.handler.Report(); ok {
		status.Ready = true
		status.Windows = len(rep.Windows)
		status.Rejected = len(rep.Rejected)
		status.UnderCursor = len(rep.UnderCursor)
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetReport() *Response {
	rep, ok := s.handler.Report()
	if !ok {
		return NewErrorResponse("no snapshot yet")
	}
	resp, err := NewOKResponse(rep)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetCursor() *Response {
	rep, ok := s.handler.Report()
	if !ok {
		return NewErrorResponse("no snapshot yet")
	}
	data := CursorData{
		Cursor:      rep.Cursor,
		UnderCursor: rep.UnderCursor,
	}
	if data.UnderCursor == nil {
		data.UnderCursor = []platform.WindowID{}
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
