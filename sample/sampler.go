package sample

import (
	"math"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/shade"
)

// Sample is one sub-pixel record: a screen-space UV in [0,1]^2, a
// shutter time, and the RGBA payload the renderer fills in after
// tracing the corresponding ray.
type Sample struct {
	UV   [2]float64
	Time float64
	Data shade.Color
}

// Sampler is implemented by FixedGridSampler and AdaptiveGridSampler.
// GenerateSamples must be called once per tile before NextSample is
// pulled; the renderer fills each returned sample's Data in place.
type Sampler interface {
	SetResolution(w, h int)
	SetPixelSamples(rateX, rateY int)
	SetFilterWidth(xwidth, ywidth float64)
	SetJitter(jitter float64)
	SetSampleTimeRange(start, end float64)
	SetMaxSubdivision(n int)
	SetSubdivisionThreshold(t float64)

	GenerateSamples(region Region)
	NextSample() *Sample
	SampleSetInPixel(px, py int) []Sample
}

// base holds the configuration common to both sampler implementations.
type base struct {
	resX, resY         int
	rateX, rateY       int
	fwidthX, fwidthY   float64
	jitter             float64
	maxSubd            int
	subdThreshold      float64
	timeStart, timeEnd float64
	needTime           bool
}

func (b *base) SetResolution(w, h int)              { b.resX, b.resY = w, h }
func (b *base) SetPixelSamples(rx, ry int)           { b.rateX, b.rateY = rx, ry }
func (b *base) SetFilterWidth(xw, yw float64)        { b.fwidthX, b.fwidthY = xw, yw }
func (b *base) SetJitter(j float64)                  { b.jitter = j }
func (b *base) SetMaxSubdivision(n int)              { b.maxSubd = n }
func (b *base) SetSubdivisionThreshold(t float64)    { b.subdThreshold = t }
func (b *base) SetSampleTimeRange(start, end float64) {
	b.timeStart, b.timeEnd = start, end
	b.needTime = true
}

func newBase() base {
	return base{resX: 1, resY: 1, rateX: 1, rateY: 1, fwidthX: 1, fwidthY: 1, jitter: 1, maxSubd: 1, subdThreshold: 0.05}
}

func marginOf(fwidth float64, rate int) int {
	return int(math.Ceil((fwidth - 1) * float64(rate) * 0.5))
}

// fit linearly remaps x from [a0,a1] to [b0,b1], matching the
// reference renderer's Fit() used to scatter sample times.
func fit(x, a0, a1, b0, b1 float64) float64 {
	if a1 == a0 {
		return b0
	}
	return b0 + (x-a0)*(b1-b0)/(a1-a0)
}

// FixedGridSampler lays rateX*rateY samples on a regular subpixel grid
// per pixel, jittered within their subcell, plus a margin border so a
// filter wider than one pixel has support at tile edges.
type FixedGridSampler struct {
	base

	rng     *lin.RNG
	rngTime *lin.RNG

	samples     []Sample
	nx, ny      int
	marginX     int
	marginY     int
	pixelStartX int
	pixelStartY int
	cursor      int
}

var _ Sampler = (*FixedGridSampler)(nil)

// NewFixedGridSampler returns a sampler seeded independently for jitter
// and time streams, matching the reference's use of two separate RNGs.
func NewFixedGridSampler(seed uint64) *FixedGridSampler {
	return &FixedGridSampler{
		base:    newBase(),
		rng:     lin.NewRNG(seed),
		rngTime: lin.NewRNG(seed ^ 0x9e3779b97f4a7c15),
	}
}

func (s *FixedGridSampler) updateMargins() {
	s.marginX = marginOf(s.fwidthX, s.rateX)
	s.marginY = marginOf(s.fwidthY, s.rateY)
}

// GenerateSamples fills the sample grid for region: rateX*rateY
// samples per pixel plus 2*margin border samples per axis.
func (s *FixedGridSampler) GenerateSamples(region Region) {
	s.updateMargins()
	s.pixelStartX, s.pixelStartY = region.X0, region.Y0
	s.nx = region.Width()*s.rateX + 2*s.marginX
	s.ny = region.Height()*s.rateY + 2*s.marginY
	s.samples = make([]Sample, s.nx*s.ny)
	s.cursor = 0

	udelta := 1 / (float64(s.rateX) * float64(s.resX))
	vdelta := 1 / (float64(s.rateY) * float64(s.resY))
	xoffset := s.pixelStartX*s.rateX - s.marginX
	yoffset := s.pixelStartY*s.rateY - s.marginY

	for y := 0; y < s.ny; y++ {
		for x := 0; x < s.nx; x++ {
			sm := &s.samples[y*s.nx+x]
			sm.UV[0] = (0.5 + float64(x+xoffset)) * udelta
			sm.UV[1] = 1 - (0.5+float64(y+yoffset))*vdelta

			if s.jitter > 0 {
				uj := s.rng.Float64() * s.jitter
				vj := s.rng.Float64() * s.jitter
				sm.UV[0] += udelta * (uj - 0.5)
				sm.UV[1] += vdelta * (vj - 0.5)
			}

			if s.needTime {
				sm.Time = fit(s.rngTime.Float64(), 0, 1, s.timeStart, s.timeEnd)
			}
			sm.Data = shade.Color{}
		}
	}
}

// NextSample streams samples in row-major order across the whole
// region (including its margin), returning nil once exhausted.
func (s *FixedGridSampler) NextSample() *Sample {
	if s.cursor >= len(s.samples) {
		return nil
	}
	sm := &s.samples[s.cursor]
	s.cursor++
	return sm
}

// SampleSetInPixel returns the rateX+2*marginX by rateY+2*marginY block
// of samples surrounding pixel (px, py), used by the filter pass to
// gather every sample contributing to that pixel's footprint.
func (s *FixedGridSampler) SampleSetInPixel(px, py int) []Sample {
	xoff := (px - s.pixelStartX) * s.rateX
	yoff := (py - s.pixelStartY) * s.rateY
	pw := s.rateX + 2*s.marginX
	ph := s.rateY + 2*s.marginY

	out := make([]Sample, 0, pw*ph)
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			sx, sy := xoff+x, yoff+y
			if sx < 0 || sx >= s.nx || sy < 0 || sy >= s.ny {
				continue
			}
			out = append(out, s.samples[sy*s.nx+sx])
		}
	}
	return out
}
