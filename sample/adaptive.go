package sample

import (
	"math"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/shade"
)

// unfilled marks a sample whose Data hasn't been written by the
// renderer yet; alpha never legitimately goes negative, so -1 in the
// alpha channel is a safe sentinel (ported from the reference's use of
// the same trick on its Vector4 sample payload).
const unfilled = -1

// rect is a quadrant of the finest sample grid, in finest-grid sample
// coordinates (not pixels).
type rect struct{ x0, y0, x1, y1 int }

// AdaptiveGridSampler begins from a coarse per-pixel corner grid and
// subdivides a rectangle only where its four corner samples disagree
// by more than subd_threshold, interpolating everywhere else. The
// finest possible grid (2^max_subd per pixel per axis) is materialized
// up front with every sample marked unfilled; NextSample streams
// pointers to whichever corner the traversal needs next, and the
// renderer fills each one in before the next call continues the
// subdivide/interpolate decision.
type AdaptiveGridSampler struct {
	base

	rng     *lin.RNG
	rngTime *lin.RNG

	samples     []Sample
	nx, ny      int
	marginX     int
	marginY     int
	ndivX, ndivY int
	pixelStartX int
	pixelStartY int

	stack      []rect
	corner     int
	currentRect rect
}

var _ Sampler = (*AdaptiveGridSampler)(nil)

// NewAdaptiveGridSampler returns a sampler seeded independently for
// jitter and time streams.
func NewAdaptiveGridSampler(seed uint64) *AdaptiveGridSampler {
	return &AdaptiveGridSampler{
		base:    newBase(),
		rng:     lin.NewRNG(seed),
		rngTime: lin.NewRNG(seed ^ 0x9e3779b97f4a7c15),
	}
}

func (s *AdaptiveGridSampler) updateCounts() {
	s.marginX = int(math.Ceil(s.fwidthX - 1))
	s.marginY = int(math.Ceil(s.fwidthY - 1))
	n := 1 << uint(s.maxSubd)
	s.ndivX, s.ndivY = n, n
}

// GenerateSamples materializes the finest corner grid for region, all
// marked unfilled, and seeds the rectangle stack with one ndivX x ndivY
// cell per pixel in the region (plus margin).
func (s *AdaptiveGridSampler) GenerateSamples(region Region) {
	s.updateCounts()
	s.pixelStartX, s.pixelStartY = region.X0, region.Y0

	s.nx = region.Width()*s.ndivX + 2*s.marginX + 1
	s.ny = region.Height()*s.ndivY + 2*s.marginY + 1
	s.samples = make([]Sample, s.nx*s.ny)

	udelta := 1 / (float64(s.ndivX) * float64(s.resX))
	vdelta := 1 / (float64(s.ndivY) * float64(s.resY))
	xoffset := (s.pixelStartX - s.marginX) * s.ndivX
	yoffset := (s.pixelStartY - s.marginY) * s.ndivY

	for y := 0; y < s.ny; y++ {
		for x := 0; x < s.nx; x++ {
			sm := &s.samples[y*s.nx+x]
			sm.UV[0] = float64(x+xoffset) * udelta
			sm.UV[1] = 1 - float64(y+yoffset)*vdelta

			if s.jitter > 0 {
				uj := s.rng.Float64() * s.jitter
				vj := s.rng.Float64() * s.jitter
				sm.UV[0] += udelta * (uj - 0.5)
				sm.UV[1] += vdelta * (vj - 0.5)
			}
			if s.needTime {
				sm.Time = fit(s.rngTime.Float64(), 0, 1, s.timeStart, s.timeEnd)
			}
			sm.Data = shade.Color{A: unfilled}
		}
	}

	s.stack = s.stack[:0]
	pw := region.Width()*s.ndivX + 2*s.marginX
	ph := region.Height()*s.ndivY + 2*s.marginY
	for y := 0; y < ph; y += s.ndivY {
		for x := 0; x < pw; x += s.ndivX {
			s.stack = append(s.stack, rect{x0: x, y0: y, x1: x + s.ndivX, y1: y + s.ndivY})
		}
	}
	s.corner = 0
}

func (s *AdaptiveGridSampler) at(x, y int) *Sample { return &s.samples[y*s.nx+x] }

func (s *AdaptiveGridSampler) cornerPoint(r rect, i int) (int, int) {
	switch i {
	case 0:
		return r.x0, r.y0
	case 1:
		return r.x1, r.y0
	case 2:
		return r.x0, r.y1
	default:
		return r.x1, r.y1
	}
}

// NextSample pops the rectangle traversal forward: while the top
// rect's four corners aren't all filled, it returns the next unfilled
// corner. Once all four are filled, it decides subdivide (push four
// child rects) or interpolate (fill every interior sample
// algebraically) and continues with whatever the stack now holds.
func (s *AdaptiveGridSampler) NextSample() *Sample {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]

		if s.corner == 4 {
			s.corner = 0
			s.stack = s.stack[:len(s.stack)-1]
			if s.needsSubdivision(top) {
				s.subdivide(top)
			} else {
				s.interpolate(top)
			}
			continue
		}

		x, y := s.cornerPoint(top, s.corner)
		s.corner++

		if x < 0 || x >= s.nx || y < 0 || y >= s.ny {
			continue
		}
		sm := s.at(x, y)
		if sm.Data.A == unfilled {
			return sm
		}
	}
	return nil
}

func (s *AdaptiveGridSampler) needsSubdivision(r rect) bool {
	if r.x1-r.x0 < 2 || r.y1-r.y0 < 2 {
		return false
	}
	var lo, hi shade.Color
	for i := 0; i < 4; i++ {
		x, y := s.cornerPoint(r, i)
		d := s.at(x, y).Data
		if i == 0 {
			lo, hi = d, d
			continue
		}
		lo = minColor(lo, d)
		hi = maxColor(hi, d)
	}
	return (hi.R-lo.R) > s.subdThreshold || (hi.G-lo.G) > s.subdThreshold ||
		(hi.B-lo.B) > s.subdThreshold || (hi.A-lo.A) > s.subdThreshold
}

func (s *AdaptiveGridSampler) subdivide(r rect) {
	midX := (r.x0 + r.x1) / 2
	midY := (r.y0 + r.y1) / 2
	s.stack = append(s.stack,
		rect{x0: r.x0, y0: r.y0, x1: midX, y1: midY},
		rect{x0: midX, y0: r.y0, x1: r.x1, y1: midY},
		rect{x0: r.x0, y0: midY, x1: midX, y1: r.y1},
		rect{x0: midX, y0: midY, x1: r.x1, y1: r.y1},
	)
}

// interpolate fills every sample in r, edges included, by bilinear blend
// of its four corners, the terminal case of the subdivision recursion.
func (s *AdaptiveGridSampler) interpolate(r rect) {
	d00 := s.at(r.x0, r.y0).Data
	d10 := s.at(r.x1, r.y0).Data
	d01 := s.at(r.x0, r.y1).Data
	d11 := s.at(r.x1, r.y1).Data

	for y := r.y0; y <= r.y1; y++ {
		fy := float64(y-r.y0) / float64(r.y1-r.y0)
		left := lerpColor(d00, d01, fy)
		right := lerpColor(d10, d11, fy)
		for x := r.x0; x <= r.x1; x++ {
			fx := float64(x-r.x0) / float64(r.x1-r.x0)
			s.at(x, y).Data = lerpColor(left, right, fx)
		}
	}
}

func minColor(a, b shade.Color) shade.Color {
	return shade.Color{R: math.Min(a.R, b.R), G: math.Min(a.G, b.G), B: math.Min(a.B, b.B), A: math.Min(a.A, b.A)}
}
func maxColor(a, b shade.Color) shade.Color {
	return shade.Color{R: math.Max(a.R, b.R), G: math.Max(a.G, b.G), B: math.Max(a.B, b.B), A: math.Max(a.A, b.A)}
}
func lerpColor(a, b shade.Color, t float64) shade.Color {
	return shade.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// SampleSetInPixel returns every finest-grid sample within pixel
// (px, py)'s footprint, including its margin, for the filter pass.
func (s *AdaptiveGridSampler) SampleSetInPixel(px, py int) []Sample {
	xoff := (px-s.pixelStartX)*s.ndivX - s.marginX
	yoff := (py-s.pixelStartY)*s.ndivY - s.marginY
	pw := s.ndivX + 2*s.marginX + 1
	ph := s.ndivY + 2*s.marginY + 1

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
