//go:build screen

package display

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/d21d3q/framebuffer"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// ScreenSupported returns whether screen support is compiled in.
func ScreenSupported() bool {
	return true
}

type offset struct {
	x, y float64
}

type scaleKey struct {
	src   image.Image
	w, h  int
	cover bool
}

// Display renders slides onto a Linux framebuffer. Drawing happens on an
// RGBA back image and reaches the device as RGB565 on Flush.
//
// The drawing methods are serialized by the engine. Only the scale mode
// may be set from another goroutine, so it carries its own lock.
type Display struct {
	cfg       Config
	dc        *gg.Context
	rgbaImage *image.RGBA

	pixBuffer       []byte
	backBuffer      []byte
	devWidth        int
	devHeight       int
	width           int
	height          int
	lineLengthBytes int

	offX, offY float64
	stack      []offset
	opacity    float64
	caption    string
	scaled     map[scaleKey]*image.RGBA

	coverMu sync.Mutex
	cover   bool

	initialized bool
}

// New opens the framebuffer device and prepares the drawing context.
func New(cfg Config) (*Display, error) {
	d := &Display{
		cfg:     cfg.withDefaults(),
		opacity: 1.0,
		scaled:  make(map[scaleKey]*image.RGBA),
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Display) init() error {
	fb, err := framebuffer.OpenFrameBuffer(d.cfg.Device, os.O_RDWR)
	if err != nil {
		return fmt.Errorf("open framebuffer: %w", err)
	}

	varInfo, err := fb.VarScreenInfo()
	if err != nil {
		return fmt.Errorf("get variable screen info: %w", err)
	}
	fixedInfo, err := fb.FixScreenInfo()
	if err != nil {
		return fmt.Errorf("get fixed screen info: %w", err)
	}
	d.pixBuffer, err = fb.Pixels()
	if err != nil {
		return fmt.Errorf("get pixel data: %w", err)
	}

	d.devWidth = int(varInfo.XRes)
	d.devHeight = int(varInfo.YRes)
	d.lineLengthBytes = int(fixedInfo.LineLength)
	d.backBuffer = make([]byte, d.devHeight*d.lineLengthBytes)

	d.width, d.height = d.devWidth, d.devHeight
	if d.cfg.Rotation == 90 || d.cfg.Rotation == 270 {
		d.width, d.height = d.devHeight, d.devWidth
	}

	log.Info().
		Int("width", d.devWidth).
		Int("height", d.devHeight).
		Int("bpp", int(varInfo.BitsPerPixel)).
		Int("stride", d.lineLengthBytes).
		Int("rotation", d.cfg.Rotation).
		Msg("display: framebuffer open")

	d.rgbaImage = image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	d.dc = gg.NewContextForRGBA(d.rgbaImage)
	d.initialized = true

	d.blank()
	return nil
}

// Width returns the drawable width after rotation.
func (d *Display) Width() int { return d.width }

// Height returns the drawable height after rotation.
func (d *Display) Height() int { return d.height }

// Clear fills the back image with black and resets the transform stack.
func (d *Display) Clear() {
	if !d.initialized {
		return
	}
	d.offX, d.offY = 0, 0
	d.stack = d.stack[:0]
	draw.Draw(d.rgbaImage, d.rgbaImage.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// Push saves the current translation.
func (d *Display) Push() {
	d.stack = append(d.stack, offset{d.offX, d.offY})
}

// Pop restores the most recently saved translation.
func (d *Display) Pop() {
	if n := len(d.stack) - 1; n >= 0 {
		d.offX, d.offY = d.stack[n].x, d.stack[n].y
		d.stack = d.stack[:n]
	}
}

// Translate shifts the origin of subsequent draws.
func (d *Display) Translate(dx, dy float64) {
	d.offX += dx
	d.offY += dy
}

// SetOpacity sets the alpha for subsequent draws, clamped to [0, 1].
func (d *Display) SetOpacity(a float64) {
	d.opacity = math.Max(0, math.Min(1, a))
}

// Opacity returns the current draw alpha.
func (d *Display) Opacity() float64 { return d.opacity }

// SetCaption sets the caption drawn over the next flushed frame.
func (d *Display) SetCaption(text string) { d.caption = text }

// SetCover switches between letterboxed fit and cropped fill scaling.
// Safe from any goroutine; takes effect on the next draw.
func (d *Display) SetCover(cover bool) {
	d.coverMu.Lock()
	d.cover = cover
	d.coverMu.Unlock()
}

func (d *Display) coverMode() bool {
	d.coverMu.Lock()
	defer d.coverMu.Unlock()
	return d.cover
}

// DrawImage scales img into the w x h rectangle at (x, y), shifted by the
// current translation and composited with the current opacity.
func (d *Display) DrawImage(img image.Image, x, y, w, h int) {
	if img == nil || !d.initialized {
		return
	}
	scaled := d.scaledFor(img, w, h)
	at := image.Pt(x+int(math.Round(d.offX)), y+int(math.Round(d.offY)))
	rect := image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}

	if a := uint8(math.Round(d.opacity * 255)); a < 255 {
		mask := image.NewUniform(color.Alpha{A: a})
		draw.DrawMask(d.rgbaImage, rect, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	} else {
		draw.Draw(d.rgbaImage, rect, scaled, image.Point{}, draw.Over)
	}
}

// scaledFor returns img prescaled for a w x h slot in the current scale
// mode. Results are cached per source image so animation ticks do not
// rescale every frame.
func (d *Display) scaledFor(src image.Image, w, h int) *image.RGBA {
	key := scaleKey{src: src, w: w, h: h, cover: d.coverMode()}
	if s, ok := d.scaled[key]; ok {
		return s
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if key.cover {
		crop := coverCrop(sb.Dx(), sb.Dy(), w, h)
		draw.ApproxBiLinear.Scale(out, out.Bounds(), src, crop.Add(sb.Min), draw.Src, nil)
	} else {
		fit := fitRect(sb.Dx(), sb.Dy(), w, h)
		draw.ApproxBiLinear.Scale(out, fit, src, sb, draw.Src, nil)
	}
	d.scaled[key] = out
	return out
}

// Flush overlays the caption and pushes the frame to the device.
func (d *Display) Flush() {
	if !d.initialized {
		return
	}
	d.drawCaption()
	d.update()
}

func (d *Display) update() {
	blitRGB565(d.backBuffer, d.rgbaImage, d.lineLengthBytes, d.devWidth, d.devHeight, d.cfg.Rotation)
	copy(d.pixBuffer, d.backBuffer)
}

func (d *Display) blank() {
	for i := range d.pixBuffer {
		d.pixBuffer[i] = 0
	}
}

func (d *Display) setFontSize(size int) {
	if err := d.dc.LoadFontFace(d.cfg.FontPath, float64(size)); err != nil {
		log.Warn().Err(err).Str("font", d.cfg.FontPath).Msg("display: failed to load font")
	}
}

func (d *Display) drawCentered(text string, y float64, r, g, b float64) {
	d.dc.SetRGB(r, g, b)
	d.dc.DrawStringAnchored(text, float64(d.width/2), y, 0.5, 0.5)
}

func (d *Display) drawCaption() {
	if d.caption == "" {
		return
	}
	bar := float64(d.cfg.CaptionSize) * 1.8
	d.dc.SetRGBA(0, 0, 0, 0.55)
	d.dc.DrawRectangle(0, float64(d.height)-bar, float64(d.width), bar)
	d.dc.Fill()

	d.setFontSize(d.cfg.CaptionSize)
	d.drawCentered(d.caption, float64(d.height)-bar/2, 1, 1, 1)
}

// Splash shows the boot card while images load.
func (d *Display) Splash(version string) {
	if !d.initialized {
		return
	}
	d.dc.SetRGB(0.05, 0.08, 0.12)
	d.dc.DrawRectangle(0, 0, float64(d.width), float64(d.height))
	d.dc.Fill()

	d.setFontSize(64)
	y := float64(d.height/2) - 40
	d.drawCentered("piframe", y, 1, 1, 1)

	d.setFontSize(28)
	if version != "" {
		d.drawCentered(version, y+60, 0.6, 0.6, 0.6)
	}
	d.drawCentered("loading images...", y+110, 0.8, 0.8, 0.8)
	d.update()
}

// Error shows a full-screen failure card.
func (d *Display) Error(title, detail string) {
	if !d.initialized {
		return
	}
	d.dc.SetRGB(0.45, 0, 0)
	d.dc.DrawRectangle(0, 0, float64(d.width), float64(d.height))
	d.dc.Fill()

	d.setFontSize(48)
	y := float64(d.height/2) - 30
	d.drawCentered(title, y, 1, 1, 1)
	if detail != "" {
		d.setFontSize(24)
		d.drawCentered(detail, y+60, 1, 0.85, 0.4)
	}
	d.update()
}

// Release blanks the device and detaches.
func (d *Display) Release() error {
	if !d.initialized {
		return nil
	}
	d.blank()
	d.initialized = false
	return nil
}
