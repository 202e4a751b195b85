//go:build !screen

package display

import "image"

// ScreenSupported returns whether screen support is compiled in.
func ScreenSupported() bool {
	return false
}

// Display is a stub when screen support is not compiled in.
type Display struct{}

// New returns an error when screen support is not compiled in.
func New(cfg Config) (*Display, error) {
	return nil, ErrScreenNotCompiled
}

func (d *Display) Width() int                                { return 0 }
func (d *Display) Height() int                               { return 0 }
func (d *Display) Clear()                                    {}
func (d *Display) DrawImage(img image.Image, x, y, w, h int) {}
func (d *Display) Push()                                     {}
func (d *Display) Pop()                                      {}
func (d *Display) Translate(dx, dy float64)                  {}
func (d *Display) SetOpacity(a float64)                      {}
func (d *Display) Opacity() float64                          { return 1.0 }
func (d *Display) SetCaption(text string)                    {}
func (d *Display) Flush()                                    {}
func (d *Display) SetCover(cover bool)                       {}
func (d *Display) Splash(version string)                     {}
func (d *Display) Error(title, detail string)                {}
func (d *Display) Release() error                            { return nil }
