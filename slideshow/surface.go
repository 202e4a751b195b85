package slideshow

import "image"

// Surface is the drawing target the engine renders slides onto.
//
// Implementations are not expected to be safe for concurrent use; the
// engine serializes all drawing on its own lock. Opacity applies to
// subsequent DrawImage calls. The fade strategy never translates and the
// slide strategies never change opacity, so implementations are free to
// composite alpha without consulting the transform stack.
type Surface interface {
	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int

	// Clear fills the whole surface with the background color and resets
	// the transform to the surface's base orientation.
	Clear()

	// DrawImage draws img scaled into the rectangle at (x, y) with the
	// given width and height, honoring the current transform and opacity.
	// A nil image is ignored.
	DrawImage(img image.Image, x, y, w, h int)

	// Push saves the current transform state.
	Push()

	// Pop restores the most recently saved transform state.
	Pop()

	// Translate shifts the origin of subsequent draws by (dx, dy).
	Translate(dx, dy float64)

	// SetOpacity sets the alpha applied to subsequent draws, clamped to
	// [0, 1].
	SetOpacity(a float64)

	// Opacity returns the current draw alpha.
	Opacity() float64

	// SetCaption sets the caption text shown with the next Flush. An empty
	// string clears it.
	SetCaption(text string)

	// Flush presents the drawn frame on the underlying device.
	Flush()
}
