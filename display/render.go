package display

import (
	"encoding/binary"
	"image"
)

// Config holds display configuration.
type Config struct {
	Device      string `yaml:"device"`
	Rotation    int    `yaml:"rotation"` // 0, 90, 180, or 270 degrees
	FontPath    string `yaml:"font_path"`
	CaptionSize int    `yaml:"caption_size"`
}

func (c Config) withDefaults() Config {
	if c.Device == "" {
		c.Device = "/dev/fb0"
	}
	if c.FontPath == "" {
		c.FontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	}
	if c.CaptionSize <= 0 {
		c.CaptionSize = 28
	}
	return c
}

// fitRect returns the centered destination rectangle that shows the whole
// source inside dstW x dstH without distortion. The uncovered remainder is
// the letterbox.
func fitRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}
	w := dstW
	h := srcH * dstW / srcW
	if h > dstH {
		h = dstH
		w = srcW * dstH / srcH
	}
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// coverCrop returns the centered source rectangle with the destination's
// aspect ratio, so scaling it fills dstW x dstH completely.
func coverCrop(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}
	w := srcW
	h := srcW * dstH / dstW
	if h > srcH {
		h = srcH
		w = srcH * dstW / dstH
	}
	x := (srcW - w) / 2
	y := (srcH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// rgb565 packs 16-bit color components into the framebuffer pixel format.
func rgb565(r, g, b uint32) uint16 {
	r5 := uint16(r >> (16 - 5))
	g6 := uint16(g >> (16 - 6))
	b5 := uint16(b >> (16 - 5))
	return (r5 << 11) | (g6 << 5) | b5
}

// rotateMap maps a drawable-space pixel to device space. Drawable
// dimensions are the device's, swapped for 90 and 270.
func rotateMap(x, y, devW, devH, rotation int) (int, int) {
	switch rotation {
	case 90:
		return devW - 1 - y, x
	case 180:
		return devW - 1 - x, devH - 1 - y
	case 270:
		return y, devH - 1 - x
	default:
		return x, y
	}
}

// blitRGB565 converts the drawn image into dst, honoring the device line
// stride and rotating into the panel's native orientation.
func blitRGB565(dst []byte, img *image.RGBA, stride, devW, devH, rotation int) {
	bounds := img.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			dx, dy := rotateMap(x, y, devW, devH, rotation)
			idx := (dy * stride) + (dx * 2)
			if idx+1 < len(dst) {
				binary.LittleEndian.PutUint16(dst[idx:], rgb565(r, g, b))
			}
		}
	}
}
