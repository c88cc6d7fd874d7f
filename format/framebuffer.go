// Package format implements the render core's on-disk data formats:
// the framebuffer pixel store and its image export, geometry file
// readers for meshes/curves/point clouds, and the generic IFF chunk
// container those geometry formats are framed inside.
package format

import (
	"fmt"

	"github.com/gazed/tracer/shade"
)

// Framebuffer is a flat width*height*channels float32 pixel store, with
// a variable channel count (1 = grayscale, 3 = RGB, 4 = RGBA) so a
// render pass can allocate exactly the channels it produces.
type Framebuffer struct {
	buf                    []float32
	width, height, nchan   int
}

// NewFramebuffer allocates a zeroed buffer of the given shape.
func NewFramebuffer(width, height, nchannels int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height, nchannels)
	return fb
}

func (fb *Framebuffer) Width() int         { return fb.width }
func (fb *Framebuffer) Height() int        { return fb.height }
func (fb *Framebuffer) ChannelCount() int  { return fb.nchan }
func (fb *Framebuffer) IsEmpty() bool      { return len(fb.buf) == 0 }

// Resize reallocates the buffer to the given shape, discarding any
// existing contents.
func (fb *Framebuffer) Resize(width, height, nchannels int) {
	fb.width, fb.height, fb.nchan = width, height, nchannels
	fb.buf = make([]float32, width*height*nchannels)
}

func (fb *Framebuffer) index(x, y, z int) int {
	return (y*fb.width+x)*fb.nchan + z
}

func (fb *Framebuffer) inside(x, y, z int) bool {
	return x >= 0 && x < fb.width && y >= 0 && y < fb.height && z >= 0 && z < fb.nchan
}

// At returns channel z of pixel (x, y), or 0 if out of bounds.
func (fb *Framebuffer) At(x, y, z int) float32 {
	if !fb.inside(x, y, z) {
		return 0
	}
	return fb.buf[fb.index(x, y, z)]
}

// Set writes channel z of pixel (x, y); a no-op if out of bounds.
func (fb *Framebuffer) Set(x, y, z int, v float32) {
	if !fb.inside(x, y, z) {
		return
	}
	fb.buf[fb.index(x, y, z)] = v
}

// GetColor reads pixel (x, y) as an RGBA color, matching the
// reference's channel-count-dependent broadcast: grayscale replicates
// r into g/b with a=1, RGB sets a=1, RGBA reads all four channels.
func (fb *Framebuffer) GetColor(x, y int) shade.Color {
	switch fb.nchan {
	case 1:
		r := fb.At(x, y, 0)
		return shade.Color{R: float64(r), G: float64(r), B: float64(r), A: 1}
	case 3:
		return shade.Color{R: float64(fb.At(x, y, 0)), G: float64(fb.At(x, y, 1)), B: float64(fb.At(x, y, 2)), A: 1}
	case 4:
		return shade.Color{R: float64(fb.At(x, y, 0)), G: float64(fb.At(x, y, 1)), B: float64(fb.At(x, y, 2)), A: float64(fb.At(x, y, 3))}
	default:
		return shade.Color{}
	}
}

// SetColor writes pixel (x, y) from an RGBA color, writing only as
// many channels as the buffer has.
func (fb *Framebuffer) SetColor(x, y int, c shade.Color) {
	switch fb.nchan {
	case 1:
		fb.Set(x, y, 0, float32(c.R))
	case 3:
		fb.Set(x, y, 0, float32(c.R))
		fb.Set(x, y, 1, float32(c.G))
		fb.Set(x, y, 2, float32(c.B))
	case 4:
		fb.Set(x, y, 0, float32(c.R))
		fb.Set(x, y, 1, float32(c.G))
		fb.Set(x, y, 2, float32(c.B))
		fb.Set(x, y, 3, float32(c.A))
	}
}

// CopyInto copies src into dst at the given offset, clipped to dst's
// bounds; channel counts must match.
func CopyInto(src, dst *Framebuffer, dstOffsetX, dstOffsetY int) error {
	if src.nchan != dst.nchan {
		return fmt.Errorf("format: channel count mismatch copying framebuffer (%d != %d)", src.nchan, dst.nchan)
	}
	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			for z := 0; z < src.nchan; z++ {
				dst.Set(x+dstOffsetX, y+dstOffsetY, z, src.At(x, y, z))
			}
		}
	}
	return nil
}
