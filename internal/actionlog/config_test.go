package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/windowless/internal/config"
)

func TestFromConfig_Disabled(t *testing.T) {
	logger, err := FromConfig(config.LoggingConfig{Enabled: false, File: filepath.Join(t.TempDir(), "a.log")})
	if err != nil {
		t.Fatalf("FromConfig() error: %v", err)
	}
	if logger != nil {
		t.Fatalf("FromConfig() = %v, want nil when disabled", logger)
	}
	logger.Log(ActionReset, -1, nil)
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on nil logger: %v", err)
	}
}

func TestFromConfig_Enabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	logger, err := FromConfig(config.LoggingConfig{
		Enabled:   true,
		Level:     "warn",
		File:      path,
		MaxSizeMB: 1,
		MaxFiles:  2,
	})
	if err != nil {
		t.Fatalf("FromConfig() error: %v", err)
	}

	logger.Log(ActionReset, -1, nil) // info, filtered at warn
	logger.Log(ActionReject, -1, map[string]any{"reason": "outside_root"})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "[RESET]") {
		t.Errorf("info entry should be filtered at warn: %q", content)
	}
	if !strings.Contains(content, "[REJECT]") {
		t.Errorf("missing reject entry: %q", content)
	}
}
