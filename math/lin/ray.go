// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Ray is a parametric half-line orig + t*dir, bounded to the parameter
// range [Tmin, Tmax]. Tmin is kept away from zero by default to avoid
// self-intersection with the surface a ray was just cast from.
type Ray struct {
	Orig *V3 // Ray origin.
	Dir  *V3 // Ray direction. Not required to be unit length.
	Tmin float64
	Tmax float64
}

// Default ray parameter bounds, matching the renderer's traversal defaults.
const (
	RayTmin = 0.001
	RayTmax = 1000.0
)

// NewRay creates a ray with the default Tmin/Tmax bounds.
func NewRay(orig, dir *V3) *Ray {
	return &Ray{Orig: &V3{X: orig.X, Y: orig.Y, Z: orig.Z}, Dir: &V3{X: dir.X, Y: dir.Y, Z: dir.Z}, Tmin: RayTmin, Tmax: RayTmax}
}

// Set (=, copy) assigns ray r's fields from ray a. The updated ray r
// is returned.
func (r *Ray) Set(a *Ray) *Ray {
	r.Orig.Set(a.Orig)
	r.Dir.Set(a.Dir)
	r.Tmin, r.Tmax = a.Tmin, a.Tmax
	return r
}

// PointAt returns orig + t*dir, the point along ray r at parameter t.
func (r *Ray) PointAt(t float64) *V3 {
	p := &V3{}
	p.X = r.Orig.X + t*r.Dir.X
	p.Y = r.Orig.Y + t*r.Dir.Y
	p.Z = r.Orig.Z + t*r.Dir.Z
	return p
}

// Transform updates ray r to be ray a transformed by matrix m: the origin
// is transformed as a point, the direction as a vector (no translation).
// Tmin/Tmax are copied unchanged. The updated ray r is returned; r and a
// must be distinct.
func (r *Ray) Transform(a *Ray, m *M4) *Ray {
	r.Orig.MultPointM4(a.Orig, m)
	r.Dir.MultDirM4(a.Dir, m)
	r.Tmin, r.Tmax = a.Tmin, a.Tmax
	return r
}
