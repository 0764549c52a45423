package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all host configuration.
type Config struct {
	Host    HostConfig
	Debug   DebugConfig
	Events  EventConfig
	Logging LogConfig
	Breaker BreakerConfig
	// LayoutFile points at a TOML or YAML file describing displays and the
	// window system configuration.
	LayoutFile string `envconfig:"SCENE_LAYOUT_FILE"`
}

// HostConfig holds the session host gRPC settings.
type HostConfig struct {
	Address    string        `envconfig:"SCENE_HOST_ADDR" default:"localhost:50061"`
	RPCTimeout time.Duration `envconfig:"SCENE_RPC_TIMEOUT" default:"3s"`
}

// DebugConfig holds the debug HTTP server settings.
type DebugConfig struct {
	Address string `envconfig:"SCENE_DEBUG_ADDR" default:"localhost:8061"`
	Enabled bool   `envconfig:"SCENE_DEBUG_ENABLED" default:"true"`
}

// EventConfig paces inbound event channel frames.
type EventConfig struct {
	EventsPerSecond int `envconfig:"EVENT_RPS" default:"1000"`
	Burst           int `envconfig:"EVENT_BURST" default:"200"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// BreakerConfig bounds how long a failing host is retried.
type BreakerConfig struct {
	MaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	Timeout     time.Duration `envconfig:"BREAKER_TIMEOUT" default:"10s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Host: HostConfig{
			Address:    "localhost:50061",
			RPCTimeout: 3 * time.Second,
		},
		Debug: DebugConfig{
			Address: "localhost:8061",
			Enabled: true,
		},
		Events: EventConfig{
			EventsPerSecond: 1000,
			Burst:           200,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			Timeout:     10 * time.Second,
		},
	}
}

// Layout is the device description read from a layout file.
type Layout struct {
	System   window.SystemConfig `json:"system" toml:"system" yaml:"system"`
	Displays []display.Display   `json:"displays" toml:"displays" yaml:"displays"`
}

// DefaultLayout is a single 1260x2720 phone display.
func DefaultLayout() *Layout {
	return &Layout{
		System: window.DefaultSystemConfig(),
		Displays: []display.Display{{
			ID:                0,
			Name:              "default",
			Width:             1260,
			Height:            2720,
			VirtualPixelRatio: 3.5,
			DPI:               560,
			Default:           true,
		}},
	}
}

// LoadLayout reads a layout file. The format follows the extension:
// .toml, or .yaml/.yml. Fields the file leaves out keep their defaults.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(filepath.Ext(path), data)
}

// ParseLayout decodes a layout document in the format named by ext.
func ParseLayout(ext string, data []byte) (*Layout, error) {
	layout := DefaultLayout()
	layout.Displays = nil

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, layout); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, layout); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported layout format %q", ext)
	}

	if len(layout.Displays) == 0 {
		layout.Displays = DefaultLayout().Displays
	}
	return layout, nil
}

// LayoutOrDefault loads cfg.LayoutFile, or the default layout when unset.
func (c *Config) LayoutOrDefault() (*Layout, error) {
	if c.LayoutFile == "" {
		return DefaultLayout(), nil
	}
	return LoadLayout(c.LayoutFile)
}
