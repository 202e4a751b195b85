package slideshow

// fadeFloor is the opacity the fade bottoms out at before the incoming
// slide takes over. Keeping it above zero means the surface never shows a
// fully transparent frame.
const fadeFloor = 0.1

// fadeEffect cross-fades through the background in two phases: the
// outgoing slide ramps down to the floor, the index commits, then the
// incoming slide ramps up to full opacity.
type fadeEffect struct{}

func (fadeEffect) Name() string { return EffectFade }

func (fadeEffect) Begin(t *Transition) Animation {
	return &fadeAnimation{t: t, alpha: 1.0, step: t.FadeStep}
}

type fadeAnimation struct {
	t        *Transition
	alpha    float64
	step     float64
	fadingIn bool
}

func (a *fadeAnimation) Tick() bool {
	s := a.t.Surface

	if !a.fadingIn {
		a.alpha -= a.step
		if a.alpha <= fadeFloor {
			// Floor reached: the slide change happens here, not at the
			// end of the animation.
			a.alpha = fadeFloor
			a.fadingIn = true
			a.t.Commit()
			a.drawFrame(s, a.t.To)
			return false
		}
		a.drawFrame(s, a.t.From)
		return false
	}

	a.alpha += a.step
	if a.alpha >= 1.0 {
		a.alpha = 1.0
		a.drawFrame(s, a.t.To)
		return true
	}
	a.drawFrame(s, a.t.To)
	return false
}

func (a *fadeAnimation) drawFrame(s Surface, e *Entry) {
	s.Clear()
	s.SetOpacity(a.alpha)
	drawEntry(s, e, 0, 0)
	s.SetOpacity(1.0)
	s.Flush()
}
