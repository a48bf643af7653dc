// Package capture turns rendered frames into PNG blobs for screenshots and design previews.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"room-designer/internal/scene"
)

// ErrNoFrame is returned when there is nothing to capture.
var ErrNoFrame = errors.New("capture: no frame available")

// FrameSource yields the exact frame currently presented.
type FrameSource interface {
	Frame() (image.Image, error)
}

// FrameFunc adapts a function to FrameSource.
type FrameFunc func() (image.Image, error)

func (f FrameFunc) Frame() (image.Image, error) { return f() }

// Capturer reads frames from a source and encodes them.
type Capturer struct {
	src FrameSource
}

func New(src FrameSource) *Capturer { return &Capturer{src: src} }

// SetSource swaps the frame source, e.g. when the window is recreated.
func (c *Capturer) SetSource(src FrameSource) { c.src = src }

// Grab returns the raw current frame.
func (c *Capturer) Grab() (image.Image, error) {
	if c.src == nil {
		return nil, ErrNoFrame
	}
	img, err := c.src.Frame()
	if err != nil {
		return nil, fmt.Errorf("capture: read frame: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoFrame
	}
	return img, nil
}

// CaptureFrame returns the current frame as PNG.
func (c *Capturer) CaptureFrame() ([]byte, error) {
	img, err := c.Grab()
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("capture: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img down to maxWidth keeping the aspect ratio. Smaller images are returned as is.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	return transform.Resize(img, maxWidth, h, transform.Linear)
}

// Grade applies the colour treatment of a lighting mode. Daylight leaves the image untouched.
func Grade(img image.Image, mode scene.LightingMode) image.Image {
	switch mode {
	case scene.LightingGolden:
		warm := adjust.Saturation(img, 0.15)
		return adjust.Apply(warm, func(c color.RGBA) color.RGBA {
			c.R = addClamp(c.R, 18)
			c.B = subClamp(c.B, 12)
			return c
		})
	case scene.LightingNight:
		dark := adjust.Brightness(img, -0.35)
		return adjust.Apply(dark, func(c color.RGBA) color.RGBA {
			c.R = subClamp(c.R, 10)
			c.B = addClamp(c.B, 20)
			return c
		})
	}
	return img
}

func addClamp(v, d uint8) uint8 {
	if int(v)+int(d) > 255 {
		return 255
	}
	return v + d
}

func subClamp(v, d uint8) uint8 {
	if v < d {
		return 0
	}
	return v - d
}
