// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Box is an axis-aligned bounding box described by its min and max corners.
// Box supports the same mutator-style API as V3, V4, M3, M4: methods update
// the receiver and return it so calls can be chained without allocating.
type Box struct {
	Min *V3 // Minimum corner.
	Max *V3 // Maximum corner.
}

// NewBox creates a box from two corner points, sorting each axis so Min
// holds the smaller value and Max the larger.
func NewBox(p0, p1 *V3) *Box {
	b := &Box{Min: &V3{}, Max: &V3{}}
	return b.SetPoints(p0, p1)
}

// NewBoxEmpty creates a box reversed to infinity so the first AddPoint or
// AddBox establishes real bounds.
func NewBoxEmpty() *Box {
	b := &Box{Min: &V3{}, Max: &V3{}}
	return b.ReverseInfinite()
}

// SetPoints (=) sets box b to bound the two given corner points, sorting
// each axis. The updated box b is returned.
func (b *Box) SetPoints(p0, p1 *V3) *Box {
	b.Min.X, b.Max.X = minmax(p0.X, p1.X)
	b.Min.Y, b.Max.Y = minmax(p0.Y, p1.Y)
	b.Min.Z, b.Max.Z = minmax(p0.Z, p1.Z)
	return b
}

func minmax(a, c float64) (lo, hi float64) {
	if a < c {
		return a, c
	}
	return c, a
}

// ReverseInfinite resets box b to an inverted infinite extent: Min is set
// to +Large on every axis and Max to -Large, so the box contains nothing
// and the next AddPoint/AddBox call defines real bounds. The updated box
// b is returned.
func (b *Box) ReverseInfinite() *Box {
	b.Min.SetS(Large, Large, Large)
	b.Max.SetS(-Large, -Large, -Large)
	return b
}

// Expand grows box b by delta on every axis in both directions.
// The updated box b is returned.
func (b *Box) Expand(delta float64) *Box {
	b.Min.X, b.Min.Y, b.Min.Z = b.Min.X-delta, b.Min.Y-delta, b.Min.Z-delta
	b.Max.X, b.Max.Y, b.Max.Z = b.Max.X+delta, b.Max.Y+delta, b.Max.Z+delta
	return b
}

// ContainsPoint returns true if point p is within box b, inclusive of
// the boundary.
func (b *Box) ContainsPoint(p *V3) bool {
	if p.X < b.Min.X || b.Max.X < p.X {
		return false
	}
	if p.Y < b.Min.Y || b.Max.Y < p.Y {
		return false
	}
	if p.Z < b.Min.Z || b.Max.Z < p.Z {
		return false
	}
	return true
}

// AddPoint grows box b so it also contains point p. The updated box b
// is returned.
func (b *Box) AddPoint(p *V3) *Box {
	b.Min.X, b.Min.Y, b.Min.Z = Min3(b.Min.X, p.X, p.X), Min3(b.Min.Y, p.Y, p.Y), Min3(b.Min.Z, p.Z, p.Z)
	b.Max.X, b.Max.Y, b.Max.Z = Max3(b.Max.X, p.X, p.X), Max3(b.Max.Y, p.Y, p.Y), Max3(b.Max.Z, p.Z, p.Z)
	return b
}

// AddBox grows box b so it also contains box a. The updated box b
// is returned.
func (b *Box) AddBox(a *Box) *Box {
	b.Min.X, b.Min.Y, b.Min.Z = Min3(b.Min.X, a.Min.X, a.Min.X), Min3(b.Min.Y, a.Min.Y, a.Min.Y), Min3(b.Min.Z, a.Min.Z, a.Min.Z)
	b.Max.X, b.Max.Y, b.Max.Z = Max3(b.Max.X, a.Max.X, a.Max.X), Max3(b.Max.Y, a.Max.Y, a.Max.Y), Max3(b.Max.Z, a.Max.Z, a.Max.Z)
	return b
}

// Centroid returns the midpoint of box b.
func (b *Box) Centroid() *V3 {
	c := &V3{}
	return c.Add(b.Min, b.Max).Scale(c, 0.5)
}

// Diagonal returns max - min for box b.
func (b *Box) Diagonal() *V3 {
	d := &V3{}
	return d.Sub(b.Max, b.Min)
}

// Transform updates box b to be the axis-aligned box bounding box a after
// it has been transformed by matrix m (row-vector convention, v*m). Every
// one of the 8 corners of a is transformed and the result re-bounded, the
// standard way of keeping an AABB axis-aligned under an arbitrary affine
// transform. The updated box b is returned; a and b must be distinct.
func (b *Box) Transform(a *Box, m *M4) *Box {
	corners := [8]V3{
		{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Max.Z},
	}
	b.ReverseInfinite()
	p := &V3{}
	for i := range corners {
		p.MultPointM4(&corners[i], m)
		b.AddPoint(p)
	}
	return b
}

// BoxRayIntersect tests ray (orig, dir, tmin, tmax) against box using the
// slab method: each axis narrows a running [tmin, tmax] interval, and the
// ray misses as soon as the interval inverts. Returns whether the ray hits
// box within [tmin, tmax], and if so the entry/exit distances hitTmin,
// hitTmax.
func BoxRayIntersect(box *Box, orig, dir *V3, tmin, tmax float64) (hit bool, hitTmin, hitTmax float64) {
	var tx0, tx1, ty0, ty1, tz0, tz1 float64

	if dir.X >= 0 {
		tx0 = (box.Min.X - orig.X) / dir.X
		tx1 = (box.Max.X - orig.X) / dir.X
	} else {
		tx0 = (box.Max.X - orig.X) / dir.X
		tx1 = (box.Min.X - orig.X) / dir.X
	}

	if dir.Y >= 0 {
		ty0 = (box.Min.Y - orig.Y) / dir.Y
		ty1 = (box.Max.Y - orig.Y) / dir.Y
	} else {
		ty0 = (box.Max.Y - orig.Y) / dir.Y
		ty1 = (box.Min.Y - orig.Y) / dir.Y
	}
	if tx0 > ty1 || ty0 > tx1 {
		return false, 0, 0
	}
	if ty0 > tx0 {
		tx0 = ty0
	}
	if ty1 < tx1 {
		tx1 = ty1
	}

	if dir.Z >= 0 {
		tz0 = (box.Min.Z - orig.Z) / dir.Z
		tz1 = (box.Max.Z - orig.Z) / dir.Z
	} else {
		tz0 = (box.Max.Z - orig.Z) / dir.Z
		tz1 = (box.Min.Z - orig.Z) / dir.Z
	}
	if tx0 > tz1 || tz0 > tx1 {
		return false, 0, 0
	}
	if tz0 > tx0 {
		tx0 = tz0
	}
	if tz1 < tx1 {
		tx1 = tz1
	}

	if tx0 < tmax && tx1 > tmin {
		return true, tx0, tx1
	}
	return false, 0, 0
}

// BoxBoxIntersect returns true if boxes a and b overlap.
func BoxBoxIntersect(a, b *Box) bool {
	if a.Max.X < b.Min.X || a.Min.X > b.Max.X {
		return false
	}
	if a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y {
		return false
	}
	if a.Max.Z < b.Min.Z || a.Min.Z > b.Max.Z {
		return false
	}
	return true
}
