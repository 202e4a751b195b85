package notifier

import "piframe/slideshow"

// Multi combines multiple Notifier implementations.
type Multi struct {
	notifiers []Notifier
}

// Controls implements Notifier.Controls.
func (m *Multi) Controls(st slideshow.ControlState) {
	for _, n := range m.notifiers {
		n.Controls(st)
	}
}

// Slide implements Notifier.Slide.
func (m *Multi) Slide(index int, caption string) {
	for _, n := range m.notifiers {
		n.Slide(index, caption)
	}
}

// LoadError implements Notifier.LoadError.
func (m *Multi) LoadError(source string, err error) {
	for _, n := range m.notifiers {
		n.LoadError(source, err)
	}
}

// Release implements Notifier.Release.
func (m *Multi) Release() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Release(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
