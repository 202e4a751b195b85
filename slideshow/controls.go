package slideshow

import "sync"

// Control identifies one user-facing control for enablement queries.
type Control int

const (
	ControlPlay Control = iota
	ControlDirection
	ControlRandom
	ControlFullscreen
	ControlNext
	ControlPrevious
)

// String returns the control name for logging.
func (c Control) String() string {
	switch c {
	case ControlPlay:
		return "play"
	case ControlDirection:
		return "direction"
	case ControlRandom:
		return "random"
	case ControlFullscreen:
		return "fullscreen"
	case ControlNext:
		return "next"
	case ControlPrevious:
		return "previous"
	}
	return "unknown"
}

// ControlState is a snapshot of the four toggles plus the enablement
// derived from them, for UI reflection.
type ControlState struct {
	Playing    bool `json:"playing"`
	Reversed   bool `json:"reversed"`
	Random     bool `json:"random"`
	Fullscreen bool `json:"fullscreen"`

	RandomEnabled    bool `json:"random_enabled"`
	DirectionEnabled bool `json:"direction_enabled"`
	NavEnabled       bool `json:"nav_enabled"`
}

// Controls holds the playback toggles. It is pure state: no timers, no
// drawing. The engine wraps it and reacts to the transitions.
//
// Enablement is a single function of the four booleans rather than
// per-toggle bookkeeping:
//
//	play, fullscreen    always enabled
//	random              enabled while playing
//	direction           enabled while playing and not random
//	next, previous      enabled while not random
//
// Toggling a disabled control is a silent no-op, never an error. Becoming
// not-playing forces random and reversed back to false.
type Controls struct {
	mu         sync.Mutex
	playing    bool
	reversed   bool
	random     bool
	fullscreen bool
}

// NewControls creates controls in the stopped state: nothing playing,
// random and direction disabled.
func NewControls() *Controls {
	return &Controls{}
}

func (c *Controls) enabledLocked(ctl Control) bool {
	switch ctl {
	case ControlPlay, ControlFullscreen:
		return true
	case ControlRandom:
		return c.playing
	case ControlDirection:
		return c.playing && !c.random
	case ControlNext, ControlPrevious:
		return !c.random
	}
	return false
}

// Enabled reports whether the control currently accepts toggles.
func (c *Controls) Enabled(ctl Control) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabledLocked(ctl)
}

// TogglePlay flips the playing state and returns the new value. Pausing
// forces random and reversed off.
func (c *Controls) TogglePlay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = !c.playing
	if !c.playing {
		c.random = false
		c.reversed = false
	}
	return c.playing
}

// ToggleDirection flips the reversed flag and returns the new value, or
// the unchanged value while the direction control is disabled.
func (c *Controls) ToggleDirection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabledLocked(ControlDirection) {
		return c.reversed
	}
	c.reversed = !c.reversed
	return c.reversed
}

// ToggleRandom flips the random flag and returns the new value, or the
// unchanged value while the random control is disabled.
func (c *Controls) ToggleRandom() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabledLocked(ControlRandom) {
		return c.random
	}
	c.random = !c.random
	return c.random
}

// ToggleFullscreen flips the fullscreen flag and returns the new value.
// It has no cross-control effects.
func (c *Controls) ToggleFullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = !c.fullscreen
	return c.fullscreen
}

// Playing reports whether autoplay is active.
func (c *Controls) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Reversed reports whether autoplay runs backward.
func (c *Controls) Reversed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reversed
}

// Random reports whether autoplay picks slides at random.
func (c *Controls) Random() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.random
}

// Fullscreen reports whether fill scaling is selected.
func (c *Controls) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

// State returns a snapshot of the toggles and derived enablement.
func (c *Controls) State() ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ControlState{
		Playing:          c.playing,
		Reversed:         c.reversed,
		Random:           c.random,
		Fullscreen:       c.fullscreen,
		RandomEnabled:    c.enabledLocked(ControlRandom),
		DirectionEnabled: c.enabledLocked(ControlDirection),
		NavEnabled:       c.enabledLocked(ControlNext),
	}
}
