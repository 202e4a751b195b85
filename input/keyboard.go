package input

import (
	"context"
	"fmt"

	"github.com/kenshaw/evdev"
	"github.com/rs/zerolog/log"

	"piframe/slideshow"
)

// Keyboard implements Source for a local keyboard or IR remote exposed as
// an evdev input device. Each mapped key press is one command.
type Keyboard struct {
	device *evdev.Evdev
}

// NewKeyboard creates a keyboard source on the specified input device.
func NewKeyboard(device string) (*Keyboard, error) {
	dev, err := evdev.OpenFile(device)
	if err != nil {
		return nil, fmt.Errorf("open evdev %s: %w", device, err)
	}

	log.Info().
		Str("device", device).
		Str("name", dev.Name()).
		Msg("input: keyboard open")

	return &Keyboard{device: dev}, nil
}

// effectCommand returns the select-effect command for digit slot i.
func effectCommand(i int) (Command, bool) {
	names := slideshow.EffectNames()
	if i < 0 || i >= len(names) {
		return Command{}, false
	}
	return Command{Action: ActionSelectEffect, Effect: names[i]}, true
}

// keyCommand maps a pressed key to a command.
func keyCommand(key evdev.KeyType) (Command, bool) {
	switch key {
	case evdev.KeySpace:
		return Command{Action: ActionTogglePlay}, true
	case evdev.KeyRight:
		return Command{Action: ActionNext}, true
	case evdev.KeyLeft:
		return Command{Action: ActionPrevious}, true
	case evdev.KeyD:
		return Command{Action: ActionToggleDirection}, true
	case evdev.KeyR:
		return Command{Action: ActionToggleRandom}, true
	case evdev.KeyF:
		return Command{Action: ActionToggleFullscreen}, true
	case evdev.Key1:
		return effectCommand(0)
	case evdev.Key2:
		return effectCommand(1)
	case evdev.Key3:
		return effectCommand(2)
	case evdev.Key4:
		return effectCommand(3)
	}
	return Command{}, false
}

// Read implements Source.Read for keyboard devices. Key releases and
// unmapped keys are ignored.
func (k *Keyboard) Read(ctx context.Context) (Command, error) {
	ch := k.device.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case event := <-ch:
			if event == nil {
				return Command{}, fmt.Errorf("keyboard device closed")
			}

			switch t := event.Type.(type) {
			case evdev.KeyType:
				if event.Value != 1 {
					continue
				}
				cmd, ok := keyCommand(t)
				if !ok {
					continue
				}
				log.Debug().
					Str("key", t.String()).
					Str("action", cmd.Action.String()).
					Msg("input: key command")
				return cmd, nil
			}
		}
	}
}

// Close implements Source.Close.
func (k *Keyboard) Close() error {
	if k.device == nil {
		return nil
	}
	return k.device.Close()
}
