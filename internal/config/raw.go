package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors a single YAML file; nil fields were not set in it.
type RawConfig struct {
	Include           IncludeList       `yaml:"include"`
	Display           *string           `yaml:"display"`
	RootSource        *RootSource       `yaml:"root_source"`
	IncludeAllWindows *bool             `yaml:"include_all_windows"`
	PollIntervalMs    *int              `yaml:"poll_interval_ms"`
	Logging           *RawLoggingConfig `yaml:"logging"`
}

// merge overlays the fields set in overlay onto c.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.RootSource != nil {
		out.RootSource = overlay.RootSource
	}
	if overlay.IncludeAllWindows != nil {
		out.IncludeAllWindows = overlay.IncludeAllWindows
	}
	if overlay.PollIntervalMs != nil {
		out.PollIntervalMs = overlay.PollIntervalMs
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		} else {
			copied := *out.Logging
			out.Logging = &copied
		}
		if overlay.Logging.Enabled != nil {
			out.Logging.Enabled = overlay.Logging.Enabled
		}
		if overlay.Logging.Level != nil {
			out.Logging.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			out.Logging.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			out.Logging.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			out.Logging.MaxFiles = overlay.Logging.MaxFiles
		}
	}

	return out
}
