//go:build linux

// Package rotary turns a quadrature rotary encoder into slideshow
// commands. Clockwise steps advance to the next image, counter-clockwise
// steps go back, and the push button toggles play.
package rotary

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-gpiocdev"

	"piframe/input"
)

// Handler receives the command mapped from an encoder event.
type Handler func(input.Command)

// Rotary handles a rotary encoder input device.
type Rotary struct {
	dtLine  *gpiocdev.Line
	clkLine *gpiocdev.Line
	btnLine *gpiocdev.Line

	clkOffset int
	dtOffset  int

	mu      sync.Mutex
	lastCLK int
	lastDT  int

	pos     int64
	handler Handler
}

// Config holds configuration for a rotary encoder.
type Config struct {
	Chip      string `yaml:"chip"`
	CLKPin    int    `yaml:"clk_pin"`
	DTPin     int    `yaml:"dt_pin"`
	ButtonPin int    `yaml:"button_pin"`
}

// New creates a new rotary encoder handler.
// Returns nil if config has no pins specified (CLKPin and DTPin both 0).
func New(cfg Config, handler Handler) (*Rotary, error) {
	// If no pins configured, return nil (rotary disabled)
	if cfg.CLKPin == 0 && cfg.DTPin == 0 {
		return nil, nil
	}

	if cfg.Chip == "" {
		cfg.Chip = "gpiochip0"
	}

	debounceRotary := 250 * time.Microsecond
	debounceButton := 2 * time.Millisecond

	r := &Rotary{
		clkOffset: cfg.CLKPin,
		dtOffset:  cfg.DTPin,
		handler:   handler,
	}

	var err error

	// Request DT line
	r.dtLine, err = gpiocdev.RequestLine(cfg.Chip, cfg.DTPin,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(debounceRotary),
		gpiocdev.WithEventHandler(r.handleEvent))
	if err != nil {
		return nil, err
	}

	// Request CLK line
	r.clkLine, err = gpiocdev.RequestLine(cfg.Chip, cfg.CLKPin,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(debounceRotary),
		gpiocdev.WithEventHandler(r.handleEvent))
	if err != nil {
		r.dtLine.Close()
		return nil, err
	}

	// Request button line if specified
	if cfg.ButtonPin > 0 {
		r.btnLine, err = gpiocdev.RequestLine(cfg.Chip, cfg.ButtonPin,
			gpiocdev.WithPullUp,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithDebounce(debounceButton),
			gpiocdev.WithEventHandler(r.handleButton))
		if err != nil {
			r.dtLine.Close()
			r.clkLine.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *Rotary) handleEvent(evt gpiocdev.LineEvent) {
	var newState int
	switch evt.Type {
	case gpiocdev.LineEventRisingEdge:
		newState = 1
	case gpiocdev.LineEventFallingEdge:
		newState = 0
	default:
		return
	}

	// CLK and DT arrive on separate event goroutines, one per line.
	r.mu.Lock()
	switch evt.Offset {
	case r.clkOffset:
		r.lastCLK = newState
	case r.dtOffset:
		r.lastDT = newState
	}
	dt := r.lastDT
	r.mu.Unlock()

	// Decode direction on CLK rising edge
	if evt.Offset != r.clkOffset || evt.Type != gpiocdev.LineEventRisingEdge {
		return
	}

	cmd := input.Command{Action: input.ActionNext}
	delta := int64(1)
	if dt != 0 {
		cmd = input.Command{Action: input.ActionPrevious}
		delta = -1
	}
	pos := atomic.AddInt64(&r.pos, delta)
	log.Debug().Int64("pos", pos).Str("action", cmd.Action.String()).Msg("rotary: turn")

	if r.handler != nil {
		r.handler(cmd)
	}
}

func (r *Rotary) handleButton(evt gpiocdev.LineEvent) {
	log.Debug().Msg("rotary: button pressed")
	if r.handler != nil {
		r.handler(input.Command{Action: input.ActionTogglePlay})
	}
}

// Position returns the current encoder position.
func (r *Rotary) Position() int64 {
	return atomic.LoadInt64(&r.pos)
}

// Release releases GPIO resources.
func (r *Rotary) Release() error {
	if r.dtLine != nil {
		r.dtLine.Close()
	}
	if r.clkLine != nil {
		r.clkLine.Close()
	}
	if r.btnLine != nil {
		r.btnLine.Close()
	}
	return nil
}
