// Package accel implements the spatial acceleration structures that sit
// between a ray and a prim.PrimitiveSet: a BVH and a uniform grid over
// surface primitives, and their volume-interval-returning analogues.
package accel

import (
	"errors"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

// ErrAlreadyBuilt is returned by Build when called a second time on the
// same accelerator. Build is intentionally not idempotent: the original
// renderer disables its "build on first intersect" path to keep
// Intersect branch-free and safe to call from many goroutines at once,
// so a caller accidentally rebuilding mid-render is a programmer error,
// not a state to silently absorb.
var ErrAlreadyBuilt = errors.New("accel: already built")

// Accelerator answers nearest-hit ray queries over a prim.PrimitiveSet.
// Build must be called exactly once before Intersect; after that,
// Intersect is safe to call concurrently from any number of goroutines.
type Accelerator interface {
	Build() error
	Intersect(ray *lin.Ray, time float64) (bool, *prim.Intersection)
	Bounds() *lin.Box
}

// Interval is a ray-parameter range during which the ray is inside a
// volume-bearing object. Owner is opaque to this package (mirroring
// prim.Intersection.Object) and lets a caller that builds intervals
// from higher-level instances, rather than bare prim.Volumes, recover
// which instance an interval came from.
type Interval struct {
	TMin, TMax float64
	Volume     *prim.Volume
	Owner      any
}

// IntervalList is the sorted-by-TMin collection of intervals a
// VolumeAccelerator query returns, plus the overall covered range.
type IntervalList struct {
	Items      []Interval
	MinT, MaxT float64
}

// NewIntervalList returns an empty list with MinT/MaxT set so the first
// Insert establishes real bounds.
func NewIntervalList() *IntervalList {
	return &IntervalList{MinT: lin.Large, MaxT: -lin.Large}
}

// Insert adds iv to the list, keeping Items sorted by TMin, and widens
// MinT/MaxT to cover it.
func (l *IntervalList) Insert(iv Interval) {
	i := 0
	for i < len(l.Items) && l.Items[i].TMin < iv.TMin {
		i++
	}
	l.Items = append(l.Items, Interval{})
	copy(l.Items[i+1:], l.Items[i:])
	l.Items[i] = iv
	l.MinT = lin.Min3(l.MinT, iv.TMin, iv.TMin)
	l.MaxT = lin.Max3(l.MaxT, iv.TMax, iv.TMax)
}

// Empty reports whether the list has no intervals.
func (l *IntervalList) Empty() bool { return len(l.Items) == 0 }

// VolumeAccelerator is the volume analogue of Accelerator: Intersect
// returns every overlapping Interval rather than the single nearest
// surface hit, since volumes composite rather than occlude.
type VolumeAccelerator interface {
	Build() error
	Intersect(ray *lin.Ray, time float64) *IntervalList
	Bounds() *lin.Box
}
