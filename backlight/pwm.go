package backlight

import (
	"github.com/hjkoskel/govattu"
)

// pwmRange of 1000 with clock divisor 19 puts the PWM frequency around
// 1 kHz, well above anything the eye picks up as flicker.
const pwmRange = 1000

// PWM implements Backlight using hardware PWM dimming on PWM0.
type PWM struct {
	hw    govattu.Vattu
	pin   uint8
	level float64
}

// NewPWM creates a new PWM-dimmed backlight.
func NewPWM(hw govattu.Vattu, pin uint8) (*PWM, error) {
	hw.PinMode(pin, govattu.ALT5) // ALT5 for PWM0
	hw.PwmSetMode(true, true, false, false)
	hw.PwmSetClock(19)
	hw.Pwm0SetRange(pwmRange)

	p := &PWM{
		hw:  hw,
		pin: pin,
	}

	// Start at full brightness
	p.On()
	return p, nil
}

// On implements Backlight.On.
func (p *PWM) On() error {
	return p.SetBrightness(1.0)
}

// Off implements Backlight.Off.
func (p *PWM) Off() error {
	return p.SetBrightness(0)
}

// SetBrightness implements Backlight.SetBrightness.
func (p *PWM) SetBrightness(level float64) error {
	p.level = clamp01(level)
	p.hw.Pwm0Set(uint32(p.level*pwmRange + 0.5))
	return nil
}

// Brightness returns the last level set.
func (p *PWM) Brightness() float64 {
	return p.level
}

// Release implements Backlight.Release.
func (p *PWM) Release() error {
	return p.hw.Close()
}
