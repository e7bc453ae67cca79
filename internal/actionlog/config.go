package actionlog

import "github.com/1broseidon/windowless/internal/config"

// FromConfig opens the action log described by the logging section of the
// config. It returns a nil Logger, which discards everything, when logging
// is disabled.
func FromConfig(cfg config.LoggingConfig) (*Logger, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return New(Config{
		Enabled:   true,
		Level:     ParseLevel(cfg.Level),
		FilePath:  cfg.File,
		MaxSizeMB: cfg.MaxSizeMB,
		MaxFiles:  cfg.MaxFiles,
	})
}
