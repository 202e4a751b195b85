package slideshow

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driveSlide runs a slide animation to completion and returns the tick
// count.
func driveSlide(t *testing.T, anim Animation) int {
	t.Helper()
	ticks := 0
	for {
		ticks++
		require.Less(t, ticks, 1000, "slide never completed")
		if anim.Tick() {
			return ticks
		}
	}
}

func TestSlideHorizontalForward(t *testing.T) {
	t.Parallel()
	surface := newSurfaceRecorder(100, 80)
	store := testStore(3)
	tr, rec := newTestTransition(surface, store, 0, 1, 0.1, 30)

	anim := slideEffect{}.Begin(tr)
	require.NotNil(t, anim)

	// First tick: both slides drawn abutting, shifted one step left.
	require.False(t, anim.Tick())
	assert.Equal(t, []string{
		"clear",
		"push",
		"translate -30,0",
		"draw 0,0 100x80",
		"translate 100,0",
		"draw 0,0 100x80",
		"pop",
		"flush",
	}, surface.Calls())
	assert.Empty(t, rec.indices, "no commit until the motion finishes")

	surface.Reset()
	ticks := 1 + driveSlide(t, anim)

	// ceil((extent+step)/step) with extent 100, step 30.
	assert.Equal(t, 5, ticks)
	require.Equal(t, []int{1}, rec.indices)
	assert.Equal(t, []string{"slide 1"}, rec.captions)

	// Final tick settles the incoming slide at the origin, untranslated.
	calls := surface.Calls()
	require.GreaterOrEqual(t, len(calls), 3)
	assert.Equal(t, []string{"clear", "draw 0,0 100x80", "flush"}, calls[len(calls)-3:])
}

func TestSlideBackwardReversesTravel(t *testing.T) {
	t.Parallel()
	surface := newSurfaceRecorder(100, 80)
	store := testStore(3)
	tr, _ := newTestTransition(surface, store, 2, 1, 0.1, 30)

	anim := slideEffect{}.Begin(tr)
	require.False(t, anim.Tick())

	calls := surface.Calls()
	assert.Contains(t, calls, "translate 30,0", "backward motion shifts right")
	assert.Contains(t, calls, "translate -100,0", "incoming slide abuts on the left")
}

func TestSlideVerticalUsesHeight(t *testing.T) {
	t.Parallel()
	surface := newSurfaceRecorder(100, 80)
	store := testStore(3)
	tr, rec := newTestTransition(surface, store, 0, 1, 0.1, 40)

	anim := slideEffect{vertical: true}.Begin(tr)
	require.False(t, anim.Tick())

	calls := surface.Calls()
	assert.Contains(t, calls, "translate 0,-40")
	assert.Contains(t, calls, "translate 0,80", "vertical extent is the surface height")

	surface.Reset()
	ticks := 1 + driveSlide(t, anim)
	assert.Equal(t, 3, ticks, "ceil((80+40)/40) ticks")
	assert.Equal(t, []int{1}, rec.indices)
}

func TestSlideDirectionComparesIndices(t *testing.T) {
	t.Parallel()

	// Advancing across the wrap boundary (last slide to first) compares
	// as backward, so the travel direction flips there.
	surface := newSurfaceRecorder(100, 80)
	store := testStore(3)
	tr, _ := newTestTransition(surface, store, 2, 0, 0.1, 30)

	anim := slideEffect{}.Begin(tr)
	require.False(t, anim.Tick())
	assert.Contains(t, surface.Calls(), "translate 30,0", "wrap advance travels like a backward step")
}

func TestSlideMissingOutgoingImage(t *testing.T) {
	t.Parallel()
	surface := newSurfaceRecorder(100, 80)
	store := NewStore()
	store.Add("a.jpg", "a").Fail(errors.New("decode: bad data"))
	store.Add("b.jpg", "b").SetImage(image.NewRGBA(image.Rect(0, 0, 8, 6)))
	tr, rec := newTestTransition(surface, store, 0, 1, 0.1, 50)

	anim := slideEffect{}.Begin(tr)
	require.False(t, anim.Tick())
	assert.Equal(t, 1, surface.Count("draw"), "only the loaded slide is drawn")

	driveSlide(t, anim)
	assert.Equal(t, []int{1}, rec.indices)
}
