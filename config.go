package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"piframe/backlight"
	"piframe/display"
	"piframe/eventpipe"
	"piframe/input"
	"piframe/mqtt"
	"piframe/notifier"
	"piframe/rotary"
	"piframe/slideshow"
)

// Config is the main configuration structure for piframe.
type Config struct {
	// MQTT connection settings
	MQTT mqtt.Config `yaml:"mqtt"`

	// Manifest describes where the image list comes from
	Manifest ManifestConfig `yaml:"manifest"`

	// Slideshow timing and effects
	Slideshow slideshow.Config `yaml:"slideshow"`

	// Display output settings
	Display display.Config `yaml:"display"`

	// Input devices (keyboards, serial consoles)
	Inputs []input.Config `yaml:"inputs"`

	// Named pipe for scripted control
	Pipe eventpipe.Config `yaml:"pipe"`

	// Rotary encoder configuration
	Rotary rotary.Config `yaml:"rotary"`

	// Backlight control configuration
	Backlight backlight.Config `yaml:"backlight"`

	// Notifier sinks for playback state
	Notifier notifier.Config `yaml:"notifier"`

	// General settings
	ClientID string `yaml:"client_id"`
	LogLevel string `yaml:"log_level"`
}

// LoadConfig reads and decodes the YAML config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client_id missing in config file")
	}

	return &cfg, nil
}
