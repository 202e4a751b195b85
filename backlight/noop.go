package backlight

// Noop implements Backlight but does nothing.
// Used when no backlight control is configured.
type Noop struct{}

// On implements Backlight.On.
func (n *Noop) On() error {
	return nil
}

// Off implements Backlight.Off.
func (n *Noop) Off() error {
	return nil
}

// SetBrightness implements Backlight.SetBrightness.
func (n *Noop) SetBrightness(level float64) error {
	return nil
}

// Release implements Backlight.Release.
func (n *Noop) Release() error {
	return nil
}
