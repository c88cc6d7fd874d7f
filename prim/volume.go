package prim

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Volume is a single gridded density field occupying a world-space box.
// Unlike Mesh/Curve/PointCloud it has no surface: instead of a ray hit
// it exposes an interval of ray parameter during which the ray is inside
// its bounding box, and a Density sampler the integrator's ray-marcher
// calls along that interval.
type Volume struct {
	Bounds_ *lin.Box
	Nx, Ny, Nz int
	Data       []float64 // Nx*Ny*Nz, x-fastest
}

// NewVolume creates a volume of the given resolution over bounds, zero
// density everywhere.
func NewVolume(bounds *lin.Box, nx, ny, nz int) *Volume {
	return &Volume{Bounds_: bounds, Nx: nx, Ny: ny, Nz: nz, Data: make([]float64, nx*ny*nz)}
}

func (v *Volume) PrimitiveCount() int { return 1 }
func (v *Volume) Bounds() *lin.Box    { return v.Bounds_ }
func (v *Volume) PrimitiveBounds(primID int) *lin.Box { return v.Bounds_ }

func (v *Volume) BoxIntersect(primID int, box *lin.Box) bool {
	return lin.BoxBoxIntersect(v.Bounds_, box)
}

// RayIntersect is not used for volumes: the integrator reaches Volume
// through IntervalIntersect instead. It always reports a miss so a
// Volume can still satisfy PrimitiveSet if referenced generically.
func (v *Volume) RayIntersect(primID int, ray *lin.Ray, time float64) (bool, *Intersection) {
	return false, nil
}

// IntervalIntersect returns the ray-parameter range during which ray is
// inside the volume's box, narrowed to [ray.Tmin, ray.Tmax].
func (v *Volume) IntervalIntersect(ray *lin.Ray) (hit bool, tmin, tmax float64) {
	h, t0, t1 := lin.BoxRayIntersect(v.Bounds_, ray.Orig, ray.Dir, ray.Tmin, ray.Tmax)
	if !h {
		return false, 0, 0
	}
	return true, math.Max(t0, ray.Tmin), math.Min(t1, ray.Tmax)
}

// Density trilinearly samples the grid at world point p, returning 0
// outside the bounding box.
func (v *Volume) Density(p *lin.V3) float64 {
	if !v.Bounds_.ContainsPoint(p) {
		return 0
	}
	diag := v.Bounds_.Diagonal()
	fx := (p.X - v.Bounds_.Min.X) / diag.X * float64(v.Nx-1)
	fy := (p.Y - v.Bounds_.Min.Y) / diag.Y * float64(v.Ny-1)
	fz := (p.Z - v.Bounds_.Min.Z) / diag.Z * float64(v.Nz-1)

	x0, y0, z0 := int(math.Floor(fx)), int(math.Floor(fy)), int(math.Floor(fz))
	x1, y1, z1 := clampIdx(x0+1, v.Nx), clampIdx(y0+1, v.Ny), clampIdx(z0+1, v.Nz)
	x0, y0, z0 = clampIdx(x0, v.Nx), clampIdx(y0, v.Ny), clampIdx(z0, v.Nz)
	tx, ty, tz := fx-math.Floor(fx), fy-math.Floor(fy), fz-math.Floor(fz)

	c000 := v.at(x0, y0, z0)
	c100 := v.at(x1, y0, z0)
	c010 := v.at(x0, y1, z0)
	c110 := v.at(x1, y1, z0)
	c001 := v.at(x0, y0, z1)
	c101 := v.at(x1, y0, z1)
	c011 := v.at(x0, y1, z1)
	c111 := v.at(x1, y1, z1)

	c00 := lin.Lerp(c000, c100, tx)
	c10 := lin.Lerp(c010, c110, tx)
	c01 := lin.Lerp(c001, c101, tx)
	c11 := lin.Lerp(c011, c111, tx)
	c0 := lin.Lerp(c00, c10, ty)
	c1 := lin.Lerp(c01, c11, ty)
	return lin.Lerp(c0, c1, tz)
}

func (v *Volume) at(x, y, z int) float64 {
	return v.Data[(z*v.Ny+y)*v.Nx+x]
}

// Set writes the density at grid cell (x, y, z).
func (v *Volume) Set(x, y, z int, density float64) {
	v.Data[(z*v.Ny+y)*v.Nx+x] = density
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
