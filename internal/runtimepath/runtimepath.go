// Package runtimepath locates the per-user directory where `windowless watch`
// publishes its control socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const socketName = "windowless.sock"

// Dir picks the directory for the watch socket. XDG_RUNTIME_DIR wins when
// it is set. Otherwise /run/user/<uid> is used if the system provides it,
// and as a last resort a private /tmp/windowless-runtime-<uid> is created.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	fallback := fmt.Sprintf("/tmp/windowless-runtime-%d", uid)
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", fmt.Errorf("create runtime dir %s: %w", fallback, err)
	}
	return fallback, nil
}

// SocketPath is where the watch daemon listens and where explore and the
// query commands dial it.
func SocketPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
