package slideshow

import (
	"fmt"
	"image"
	"strings"
	"sync"
)

// surfaceRecorder is an in-memory Surface that records every call so tests
// can assert on draw order and geometry. Engine ticks draw from timer
// goroutines while the test asserts, so access is locked.
type surfaceRecorder struct {
	mu        sync.Mutex
	width     int
	height    int
	opacity   float64
	calls     []string
	alphaSets []float64
	images    []image.Image
}

func newSurfaceRecorder(w, h int) *surfaceRecorder {
	return &surfaceRecorder{width: w, height: h, opacity: 1.0}
}

func (r *surfaceRecorder) Width() int  { return r.width }
func (r *surfaceRecorder) Height() int { return r.height }

func (r *surfaceRecorder) Clear() { r.record("clear") }

func (r *surfaceRecorder) DrawImage(img image.Image, x, y, w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = append(r.images, img)
	r.calls = append(r.calls, fmt.Sprintf("draw %d,%d %dx%d", x, y, w, h))
}

func (r *surfaceRecorder) Push() { r.record("push") }
func (r *surfaceRecorder) Pop()  { r.record("pop") }

func (r *surfaceRecorder) Translate(dx, dy float64) {
	r.record(fmt.Sprintf("translate %g,%g", dx, dy))
}

func (r *surfaceRecorder) SetOpacity(a float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opacity = a
	r.alphaSets = append(r.alphaSets, a)
	r.calls = append(r.calls, fmt.Sprintf("opacity %.2f", a))
}

func (r *surfaceRecorder) Opacity() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opacity
}

func (r *surfaceRecorder) SetCaption(text string) { r.record("caption " + text) }

func (r *surfaceRecorder) Flush() { r.record("flush") }

func (r *surfaceRecorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *surfaceRecorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Count returns how many recorded calls start with prefix.
func (r *surfaceRecorder) Count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Alphas returns every value passed to SetOpacity in order.
func (r *surfaceRecorder) Alphas() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.alphaSets))
	copy(out, r.alphaSets)
	return out
}

// Images returns the images passed to DrawImage in order.
func (r *surfaceRecorder) Images() []image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]image.Image, len(r.images))
	copy(out, r.images)
	return out
}

func (r *surfaceRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.alphaSets = nil
	r.images = nil
}

// eventRecorder captures handler callbacks for assertion.
type eventRecorder struct {
	mu       sync.Mutex
	slides   []slideEvent
	controls []ControlState
}

func (r *eventRecorder) handlers() Handlers {
	return Handlers{
		OnControls: func(st ControlState) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.controls = append(r.controls, st)
		},
		OnSlide: func(index int, caption string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.slides = append(r.slides, slideEvent{index: index, caption: caption})
		},
	}
}

func (r *eventRecorder) slideCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slides)
}

func (r *eventRecorder) lastSlide() (slideEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.slides) == 0 {
		return slideEvent{}, false
	}
	return r.slides[len(r.slides)-1], true
}

func (r *eventRecorder) controlCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controls)
}

func (r *eventRecorder) lastControls() (ControlState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.controls) == 0 {
		return ControlState{}, false
	}
	return r.controls[len(r.controls)-1], true
}

// commitRecorder captures strategy commit calls in single-goroutine
// strategy tests.
type commitRecorder struct {
	indices  []int
	captions []string
}

func (c *commitRecorder) record(index int, caption string) {
	c.indices = append(c.indices, index)
	c.captions = append(c.captions, caption)
}

func image8x6() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 8, 6))
}

// testStore builds a store of n settled entries with predictable sources
// and captions.
func testStore(n int) *Store {
	s := NewStore()
	for i := 0; i < n; i++ {
		e := s.Add(fmt.Sprintf("img-%d.jpg", i), fmt.Sprintf("slide %d", i))
		e.SetImage(image8x6())
	}
	return s
}

// newTestTransition wires a Transition directly to a commitRecorder for
// driving a strategy without an engine.
func newTestTransition(s Surface, store *Store, from, to int, fadeStep float64, slideStep int) (*Transition, *commitRecorder) {
	rec := &commitRecorder{}
	return &Transition{
		Surface:   s,
		From:      store.Entry(from),
		To:        store.Entry(to),
		FromIndex: from,
		ToIndex:   to,
		FadeStep:  fadeStep,
		SlideStep: slideStep,
		commit:    rec.record,
	}, rec
}
