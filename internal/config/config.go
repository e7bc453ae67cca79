package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RootSource selects the rectangle used as the root window of a snapshot.
type RootSource string

const (
	RootActiveDisplay RootSource = "active-display" // Usable area of the focused display.
	RootAllDisplays   RootSource = "all-displays"   // Bounding box of every display.
)

const (
	DefaultPollIntervalMs = 1000
	MinPollIntervalMs     = 100
)

// LoggingConfig configures the table action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/windowless/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the effective configuration after defaults and includes.
type Config struct {
	// Display overrides $DISPLAY for the X11 connection.
	Display string `yaml:"display,omitempty"`

	RootSource RootSource `yaml:"root_source"`

	// IncludeAllWindows keeps docks, desktops and other non-normal windows
	// when building a snapshot.
	IncludeAllWindows bool `yaml:"include_all_windows"`

	// PollIntervalMs is how often watch mode rebuilds the table.
	PollIntervalMs int `yaml:"poll_interval_ms"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return &Config{
		RootSource:     RootActiveDisplay,
		PollIntervalMs: DefaultPollIntervalMs,
	}
}

// PollInterval returns PollIntervalMs as a duration.
func (c *Config) PollInterval() time.Duration {
	if c == nil || c.PollIntervalMs <= 0 {
		return DefaultPollIntervalMs * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/windowless/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.RootSource {
	case RootActiveDisplay, RootAllDisplays:
	default:
		return &ValidationError{Path: "root_source", Err: fmt.Errorf("root_source must be one of: %s, %s", RootActiveDisplay, RootAllDisplays)}
	}
	if c.PollIntervalMs < MinPollIntervalMs {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be >= %d", MinPollIntervalMs)}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}
