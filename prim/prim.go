// Package prim implements the render core's primitive sets: homogeneous
// batches of geometry (all triangles, all curves, ...) exposing a uniform
// ray-intersect / box-intersect / bounds query interface. Accelerators in
// package accel are built over a PrimitiveSet; they never interpret the
// geometry themselves.
package prim

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// PrimitiveSet is implemented by every concrete geometry batch (Mesh,
// Curve, PointCloud, Volume) and by object.Set, which treats whole object
// instances as primitives for the purpose of building a BVH over them.
type PrimitiveSet interface {
	// RayIntersect tests primitive primID against ray at the given
	// shutter time. On hit it returns a filled Intersection with THit
	// set; on miss the second return value is nil.
	RayIntersect(primID int, ray *lin.Ray, time float64) (bool, *Intersection)

	// BoxIntersect reports whether primitive primID's swept occupancy
	// overlaps box.
	BoxIntersect(primID int, box *lin.Box) bool

	// PrimitiveBounds returns the bounds of primitive primID across the
	// full shutter interval.
	PrimitiveBounds(primID int) *lin.Box

	// Bounds returns the union of every primitive's bounds.
	Bounds() *lin.Box

	// PrimitiveCount returns how many primitives this set holds.
	PrimitiveCount() int
}

// BoundsPadding is added to every primitive set's aggregate bounds before
// an accelerator stores them, so primitives touching the exact edge of a
// cell or node are never missed by a slab test landing exactly on the
// boundary.
const BoundsPadding = 1e-4

// Intersection is the result of a successful or attempted ray/primitive
// test. A freshly zeroed Intersection is not valid: use NewIntersection
// so THit starts at +Inf and reduction-by-min works without a separate
// "hit yet?" flag.
type Intersection struct {
	P    *lin.V3 // world-space hit point
	N    *lin.V3 // shading normal
	Cd   *lin.V3 // interpolated vertex color
	UV   [2]float64
	DPdu *lin.V3
	DPdv *lin.V3

	Object         any // set by the caller (object.Instance) after the accelerator call returns
	PrimID         int
	ShadingGroupID int32
	THit           float64
}

// NewIntersection returns an Intersection with THit = +Inf, ready to be
// compared against candidate hits with a plain less-than test.
func NewIntersection() *Intersection {
	return &Intersection{
		P: &lin.V3{}, N: &lin.V3{}, Cd: &lin.V3{},
		DPdu: &lin.V3{}, DPdv: &lin.V3{},
		THit: math.Inf(1),
	}
}

// Closer returns true if candidate's THit is smaller than isect's, used
// to fold a per-leaf test result into a running nearest-hit.
func (isect *Intersection) Closer(candidate *Intersection) bool {
	return candidate.THit < isect.THit
}
