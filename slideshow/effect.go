package slideshow

import (
	"github.com/rs/zerolog/log"
)

// Effect names as used in configuration and control commands.
const (
	EffectNone            = "none"
	EffectFade            = "fade"
	EffectSlideHorizontal = "slide-horizontal"
	EffectSlideVertical   = "slide-vertical"
)

// EffectNames lists the valid effect names in selection order.
func EffectNames() []string {
	return []string{EffectNone, EffectFade, EffectSlideHorizontal, EffectSlideVertical}
}

// Transition carries the state of one strategy invocation: where to draw,
// what to draw, and how to commit. It is created by the engine per
// dispatch and discarded on completion.
type Transition struct {
	Surface   Surface
	From      *Entry
	To        *Entry
	FromIndex int
	ToIndex   int

	// FadeStep is the per-tick opacity delta for the fade strategy.
	FadeStep float64
	// SlideStep is the per-tick pixel offset for the slide strategies.
	SlideStep int

	commit func(index int, caption string)
}

// Commit snaps the current index to the target and updates the caption.
// Each strategy calls it exactly once per invocation, at its own commit
// point: immediately for the plain draw, at the opacity floor for fade,
// at the stopping condition for the slides.
func (t *Transition) Commit() {
	caption := ""
	if t.To != nil {
		caption = t.To.Caption()
	}
	t.commit(t.ToIndex, caption)
}

// drawEntry draws an entry's image filling the rectangle at (x, y). A slide
// whose image never loaded renders as background only; that is logged and
// playback continues.
func drawEntry(s Surface, e *Entry, x, y int) {
	if e == nil {
		return
	}
	img, ok := e.Image()
	if !ok {
		log.Warn().Str("source", e.Source()).Msg("slideshow: image not loaded, drawing blank frame")
		return
	}
	s.DrawImage(img, x, y, s.Width(), s.Height())
}

// Animation is one in-flight transition. Tick draws one frame and reports
// whether the transition has completed.
type Animation interface {
	Tick() bool
}

// Effect renders the change from the current slide to a target slide.
// Begin may complete synchronously and return nil, or return an Animation
// the engine steps once per timer tick. Per-invocation state lives in the
// Animation, never in the Effect, so the active effect can be swapped at
// any time without disturbing a running transition.
type Effect interface {
	Name() string
	Begin(t *Transition) Animation
}

// effects returns the built-in strategy set keyed by name.
func effects() map[string]Effect {
	return map[string]Effect{
		EffectNone:            plainEffect{},
		EffectFade:            fadeEffect{},
		EffectSlideHorizontal: slideEffect{},
		EffectSlideVertical:   slideEffect{vertical: true},
	}
}

// plainEffect draws the target slide in a single synchronous step. It is
// both the "none" strategy and the path every manual navigation takes.
type plainEffect struct{}

func (plainEffect) Name() string { return EffectNone }

func (plainEffect) Begin(t *Transition) Animation {
	s := t.Surface
	s.Clear()
	drawEntry(s, t.To, 0, 0)
	t.Commit()
	s.Flush()
	return nil
}
