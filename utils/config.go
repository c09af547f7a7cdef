package utils

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the CLI and the HTTP server.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Sim    SimConfig    `yaml:"simulation"`
	Render RenderConfig `yaml:"render"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // wall-clock cap per /generate request
}

// FetchConfig holds contribution-calendar fetch settings.
type FetchConfig struct {
	BaseURL        string `yaml:"base_url"` // empty selects github.com
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SimConfig holds simulation defaults.
type SimConfig struct {
	Frames    int    `yaml:"frames"`
	MaxFrames int    `yaml:"max_frames"`
	Strategy  string `yaml:"strategy"` // "void" or "loop"
}

// RenderConfig holds GIF rendering settings.
type RenderConfig struct {
	CellSize     int `yaml:"cell_size"`
	CellGap      int `yaml:"cell_gap"`
	FrameDelayMS int `yaml:"frame_delay_ms"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			TimeoutSeconds: 60,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
		},
		Sim: SimConfig{
			Frames:    20,
			MaxFrames: 100,
			Strategy:  "void",
		},
		Render: RenderConfig{
			CellSize:     10,
			CellGap:      0,
			FrameDelayMS: 500,
		},
	}
}

// LoadConfig loads configuration from a YAML file, filling unset fields
// from the defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	defaults := DefaultConfig()
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.TimeoutSeconds == 0 {
		config.Server.TimeoutSeconds = defaults.Server.TimeoutSeconds
	}
	if config.Fetch.TimeoutSeconds == 0 {
		config.Fetch.TimeoutSeconds = defaults.Fetch.TimeoutSeconds
	}
	if config.Sim.Frames == 0 {
		config.Sim.Frames = defaults.Sim.Frames
	}
	if config.Sim.MaxFrames == 0 {
		config.Sim.MaxFrames = defaults.Sim.MaxFrames
	}
	if config.Sim.Strategy == "" {
		config.Sim.Strategy = defaults.Sim.Strategy
	}
	if config.Render.CellSize == 0 {
		config.Render.CellSize = defaults.Render.CellSize
	}
	if config.Render.FrameDelayMS == 0 {
		config.Render.FrameDelayMS = defaults.Render.FrameDelayMS
	}

	return config, nil
}

// ServerTimeout returns the per-request wall-clock cap as a duration.
func (c Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// FetchTimeout returns the calendar-fetch cap as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
