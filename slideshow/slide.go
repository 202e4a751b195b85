package slideshow

// slideEffect pushes the outgoing slide off one edge while the incoming
// slide follows it in, abutting with no gap or overlap. The same algorithm
// serves both axes.
//
// Travel direction comes from comparing the indices, not from the reversed
// flag, so advancing across the wrap boundary (last slide to first)
// travels backward.
type slideEffect struct {
	vertical bool
}

func (e slideEffect) Name() string {
	if e.vertical {
		return EffectSlideVertical
	}
	return EffectSlideHorizontal
}

func (e slideEffect) Begin(t *Transition) Animation {
	extent := t.Surface.Width()
	if e.vertical {
		extent = t.Surface.Height()
	}
	return &slideAnimation{
		t:        t,
		forward:  t.ToIndex > t.FromIndex,
		vertical: e.vertical,
		extent:   extent,
		step:     t.SlideStep,
	}
}

type slideAnimation struct {
	t        *Transition
	offset   int
	extent   int
	step     int
	forward  bool
	vertical bool
}

func (a *slideAnimation) Tick() bool {
	a.offset += a.step
	s := a.t.Surface

	if a.offset >= a.extent+a.step {
		// The incoming slide owns the origin now. Draw the settled frame
		// so the caption lands with the committed index.
		s.Clear()
		drawEntry(s, a.t.To, 0, 0)
		a.t.Commit()
		s.Flush()
		return true
	}

	dir := 1.0
	if !a.forward {
		dir = -1.0
	}

	s.Clear()
	s.Push()
	if a.vertical {
		s.Translate(0, -dir*float64(a.offset))
	} else {
		s.Translate(-dir*float64(a.offset), 0)
	}
	drawEntry(s, a.t.From, 0, 0)
	if a.vertical {
		s.Translate(0, dir*float64(a.extent))
	} else {
		s.Translate(dir*float64(a.extent), 0)
	}
	drawEntry(s, a.t.To, 0, 0)
	s.Pop()
	s.Flush()
	return false
}
