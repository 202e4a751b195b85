package notifier

import "piframe/slideshow"

// Noop implements Notifier but does nothing.
// Used when no sinks are configured.
type Noop struct{}

// Controls implements Notifier.Controls.
func (n *Noop) Controls(st slideshow.ControlState) {}

// Slide implements Notifier.Slide.
func (n *Noop) Slide(index int, caption string) {}

// LoadError implements Notifier.LoadError.
func (n *Noop) LoadError(source string, err error) {}

// Release implements Notifier.Release.
func (n *Noop) Release() error {
	return nil
}
