// Package config loads the publisher configuration from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robolens/simpub/internal/binding"
	"github.com/robolens/simpub/internal/publish"
	"github.com/robolens/simpub/internal/rate"
)

// Config is the on-disk configuration. Fields are pointers so that omitted
// keys fall back to defaults; partial configs are safe.
type Config struct {
	TargetFrequencyHz *int     `json:"target_frequency_hz,omitempty"`
	IntervalTolerance *float64 `json:"interval_tolerance,omitempty"`
	QueueSize         *int     `json:"queue_size,omitempty"`

	PublishAddr *string `json:"publish_addr,omitempty"`
	PublishPort *int    `json:"publish_port,omitempty"`

	// ArchivePath enables the SQLite archive sink when non-empty.
	ArchivePath *string `json:"archive_path,omitempty"`

	MonitorAddr *string `json:"monitor_addr,omitempty"`

	Joints []binding.JointConfig `json:"joints"`
}

// Settings is the resolved configuration with all defaults applied.
type Settings struct {
	TargetFrequencyHz int     `json:"target_frequency_hz"`
	IntervalTolerance float64 `json:"interval_tolerance"`
	QueueSize         int     `json:"queue_size"`
	PublishAddr       string  `json:"publish_addr"`
	PublishPort       int     `json:"publish_port"`
	ArchivePath       string  `json:"archive_path,omitempty"`
	MonitorAddr       string  `json:"monitor_addr"`

	Joints []binding.JointConfig `json:"joints"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		TargetFrequencyHz: 100,
		IntervalTolerance: rate.DefaultTolerance,
		QueueSize:         publish.DefaultQueueSize,
		PublishAddr:       "127.0.0.1",
		PublishPort:       8124,
		MonitorAddr:       "localhost:8123",
	}
}

// Resolve applies defaults to any unset field.
func (c *Config) Resolve() Settings {
	s := DefaultSettings()
	if c.TargetFrequencyHz != nil {
		s.TargetFrequencyHz = *c.TargetFrequencyHz
	}
	if c.IntervalTolerance != nil {
		s.IntervalTolerance = *c.IntervalTolerance
	}
	if c.QueueSize != nil {
		s.QueueSize = *c.QueueSize
	}
	if c.PublishAddr != nil {
		s.PublishAddr = *c.PublishAddr
	}
	if c.PublishPort != nil {
		s.PublishPort = *c.PublishPort
	}
	if c.ArchivePath != nil {
		s.ArchivePath = *c.ArchivePath
	}
	if c.MonitorAddr != nil {
		s.MonitorAddr = *c.MonitorAddr
	}
	s.Joints = c.Joints
	return s
}

// Load reads and resolves a configuration file. The file must have a .json
// extension and stay under a sanity size cap.
func Load(path string) (Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Settings{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return Settings{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file %s: %w", cleanPath, err)
	}

	return cfg.Resolve(), nil
}
