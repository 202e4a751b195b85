// Package backlight controls the display panel backlight, either as a
// plain on/off GPIO switch or as a PWM-dimmed line, with an optional
// daily on/off schedule.
package backlight

import (
	"fmt"

	"github.com/hjkoskel/govattu"
)

// Backlight is the interface for all backlight control implementations.
type Backlight interface {
	// On turns the backlight fully on.
	On() error

	// Off turns the backlight off.
	Off() error

	// SetBrightness sets the level, 0.0 (off) to 1.0 (full).
	// Implementations without dimming treat anything above zero as on.
	SetBrightness(level float64) error

	// Release releases any hardware resources.
	Release() error
}

// Config holds configuration for backlight implementations.
type Config struct {
	Type     string         `yaml:"type"` // "pwm", "gpio_high", "gpio_low", "none"
	Pin      *int           `yaml:"pin"`  // GPIO pin number
	Schedule ScheduleConfig `yaml:"schedule"`
}

// New creates a Backlight based on the provided configuration.
func New(cfg Config) (Backlight, error) {
	if cfg.Pin == nil {
		return &Noop{}, nil
	}

	hw, err := govattu.Open()
	if err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	switch cfg.Type {
	case "pwm":
		return NewPWM(hw, uint8(*cfg.Pin))
	case "gpio_high", "onhigh":
		return NewGPIO(hw, uint8(*cfg.Pin), true)
	case "gpio_low", "onlow":
		return NewGPIO(hw, uint8(*cfg.Pin), false)
	default:
		hw.Close()
		return &Noop{}, nil
	}
}

func clamp01(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
