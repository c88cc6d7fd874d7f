package format

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/lucasb-eyer/go-colorful"
)

// WritePreviewPNG renders fb as a gamma-corrected 8-bit PNG, reading
// its first three channels as linear RGB (a single-channel buffer is
// read as linear gray, replicated across R/G/B). Intended for quickly
// eyeballing a render without an external HDR viewer.
func WritePreviewPNG(w io.Writer, fb *Framebuffer) error {
	img := image.NewNRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			c := fb.GetColor(x, y)
			srgb := colorful.LinearRgb(c.R, c.G, c.B).Clamped()
			r, g, b := srgb.RGB255()
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return png.Encode(w, img)
}
