package sample

import "math"

// FilterKind selects a Filter's weighting function.
type FilterKind int

const (
	FilterBox FilterKind = iota
	FilterGaussian
)

// Filter is a separable 2D reconstruction kernel evaluated at a
// pixel-space offset (dx, dy) from the target pixel's center.
type Filter struct {
	Kind           FilterKind
	XWidth, YWidth float64
}

// NewFilter returns a filter of the given kind and per-axis support
// width (in pixels).
func NewFilter(kind FilterKind, xwidth, ywidth float64) Filter {
	return Filter{Kind: kind, XWidth: xwidth, YWidth: ywidth}
}

// Weight evaluates the filter at offset (dx, dy).
func (f Filter) Weight(dx, dy float64) float64 {
	switch f.Kind {
	case FilterGaussian:
		xx := 2 * dx / f.XWidth
		yy := 2 * dy / f.YWidth
		return math.Exp(-2 * (xx*xx + yy*yy))
	default:
		return 1
	}
}
