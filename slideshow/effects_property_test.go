package slideshow

import (
	"testing"

	"pgregory.net/rapid"
)

func TestPropertySlideTickCount(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		extent := rapid.IntRange(1, 2000).Draw(t, "extent")
		step := rapid.IntRange(1, 400).Draw(t, "step")

		surface := newSurfaceRecorder(extent, extent)
		store := testStore(2)
		tr, rec := newTestTransition(surface, store, 0, 1, 0.1, step)

		anim := slideEffect{}.Begin(tr)
		ticks := 0
		for {
			ticks++
			if ticks > extent+2 {
				t.Fatalf("no completion after %d ticks (extent %d, step %d)", ticks, extent, step)
			}
			if anim.Tick() {
				break
			}
		}

		want := (extent + 2*step - 1) / step // ceil((extent+step)/step)
		if ticks != want {
			t.Fatalf("extent %d step %d: %d ticks, want %d", extent, step, ticks, want)
		}
		if len(rec.indices) != 1 || rec.indices[0] != 1 {
			t.Fatalf("commits = %v, want exactly one at the target", rec.indices)
		}
	})
}

func TestPropertyFadeRamp(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		step := rapid.Float64Range(0.01, 0.95).Draw(t, "step")

		surface := newSurfaceRecorder(64, 48)
		store := testStore(2)
		tr, rec := newTestTransition(surface, store, 0, 1, step, 20)

		anim := fadeEffect{}.Begin(tr)
		commitTick := 0
		ticks := 0
		for {
			ticks++
			if ticks > 1000 {
				t.Fatalf("no completion after %d ticks (step %g)", ticks, step)
			}
			done := anim.Tick()
			if commitTick == 0 && len(rec.indices) > 0 {
				commitTick = ticks
			}
			if done {
				break
			}
		}

		if len(rec.indices) != 1 {
			t.Fatalf("commits = %v, want exactly one", rec.indices)
		}

		all := surface.Alphas()
		frames := make([]float64, 0, len(all)/2)
		for i := 0; i < len(all); i += 2 {
			frames = append(frames, all[i])
		}
		if len(frames) != ticks {
			t.Fatalf("%d frames for %d ticks", len(frames), ticks)
		}

		for i, a := range frames {
			if a < fadeFloor-1e-9 || a > 1.0+1e-9 {
				t.Fatalf("frame %d alpha %g outside [%g, 1]", i, a, fadeFloor)
			}
			if i == 0 {
				continue
			}
			if i < commitTick && frames[i] >= frames[i-1] {
				t.Fatalf("fade out not descending at tick %d: %g -> %g", i+1, frames[i-1], frames[i])
			}
			if i >= commitTick && frames[i] <= frames[i-1] {
				t.Fatalf("fade in not ascending at tick %d: %g -> %g", i+1, frames[i-1], frames[i])
			}
		}
		if last := frames[len(frames)-1]; last != 1.0 {
			t.Fatalf("final frame alpha %g, want 1.0", last)
		}
	})
}
