package backlight

import (
	"github.com/hjkoskel/govattu"
)

// GPIO implements Backlight using simple GPIO pin control.
type GPIO struct {
	hw     govattu.Vattu
	pin    uint8
	onHigh bool // true = set pin high for on, false = set pin low for on
}

// NewGPIO creates a new GPIO-based backlight switch.
func NewGPIO(hw govattu.Vattu, pin uint8, onHigh bool) (*GPIO, error) {
	hw.PinMode(pin, govattu.ALToutput)

	g := &GPIO{
		hw:     hw,
		pin:    pin,
		onHigh: onHigh,
	}

	// Start with the panel lit
	g.On()
	return g, nil
}

// On implements Backlight.On.
func (g *GPIO) On() error {
	if g.onHigh {
		g.hw.PinSet(g.pin)
	} else {
		g.hw.PinClear(g.pin)
	}
	return nil
}

// Off implements Backlight.Off.
func (g *GPIO) Off() error {
	if g.onHigh {
		g.hw.PinClear(g.pin)
	} else {
		g.hw.PinSet(g.pin)
	}
	return nil
}

// SetBrightness implements Backlight.SetBrightness. A bare GPIO line
// cannot dim, so any level above zero turns the panel on.
func (g *GPIO) SetBrightness(level float64) error {
	if level > 0 {
		return g.On()
	}
	return g.Off()
}

// Release implements Backlight.Release.
func (g *GPIO) Release() error {
	return g.hw.Close()
}
