package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/windowless/internal/runtimepath"
	"github.com/1broseidon/windowless/internal/tracker"
)

// Client talks to a running `windowless watch`.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w (is 'windowless watch' running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("watch error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, out any) error {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload asks the watcher to re-read its configuration.
func (c *Client) Reload() error {
	return c.call(CommandReload, nil)
}

// Rebuild asks the watcher to rebuild its table now.
func (c *Client) Rebuild() error {
	return c.call(CommandRebuild, nil)
}

// GetStatus retrieves watcher status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetReport retrieves the latest snapshot report.
func (c *Client) GetReport() (*tracker.Report, error) {
	var rep tracker.Report
	if err := c.call(CommandGetReport, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetCursor retrieves the cursor position and the windows under it.
func (c *Client) GetCursor() (*CursorData, error) {
	var data CursorData
	if err := c.call(CommandGetCursor, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the watcher is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
