package input

import (
	"context"
	"fmt"
	"strings"
)

// Action identifies one slideshow control action.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePlay
	ActionNext
	ActionPrevious
	ActionToggleDirection
	ActionToggleRandom
	ActionToggleFullscreen
	ActionSelectEffect
)

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionTogglePlay:
		return "toggle-play"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionToggleDirection:
		return "toggle-direction"
	case ActionToggleRandom:
		return "toggle-random"
	case ActionToggleFullscreen:
		return "toggle-fullscreen"
	case ActionSelectEffect:
		return "select-effect"
	}
	return "none"
}

// Command is one parsed control command.
type Command struct {
	Action Action
	Effect string // effect name, set for ActionSelectEffect only
}

// Parse maps a textual command line to a Command. The serial port, the
// event pipe and MQTT all speak this protocol:
//
//	play | pause | toggle
//	next
//	prev | previous
//	direction | reverse
//	random | shuffle
//	fullscreen | fill
//	effect <name>
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "play", "pause", "toggle":
		return Command{Action: ActionTogglePlay}, nil
	case "next":
		return Command{Action: ActionNext}, nil
	case "prev", "previous":
		return Command{Action: ActionPrevious}, nil
	case "direction", "reverse":
		return Command{Action: ActionToggleDirection}, nil
	case "random", "shuffle":
		return Command{Action: ActionToggleRandom}, nil
	case "fullscreen", "fill":
		return Command{Action: ActionToggleFullscreen}, nil
	case "effect":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("effect command needs a name")
		}
		return Command{Action: ActionSelectEffect, Effect: fields[1]}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}

// Source is the interface for control input implementations.
// Implementations block until a command arrives or the context is
// cancelled.
type Source interface {
	// Read blocks until a command is read or ctx is cancelled.
	Read(ctx context.Context) (Command, error)

	// Close releases any resources held by the source.
	Close() error
}

// Config holds common configuration for input sources.
type Config struct {
	Type   string `yaml:"type"`   // "keyboard" or "serial"
	Device string `yaml:"device"` // e.g., "/dev/input/event0", "/dev/serial0"
	Baud   int    `yaml:"baud"`   // baud rate for serial devices
}

// New creates a Source based on the provided configuration.
func New(cfg Config) (Source, error) {
	switch cfg.Type {
	case "keyboard":
		return NewKeyboard(cfg.Device)
	case "serial":
		return NewSerial(cfg.Device, cfg.Baud)
	}
	return nil, fmt.Errorf("unknown input type %q", cfg.Type)
}
