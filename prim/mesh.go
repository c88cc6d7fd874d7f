package prim

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Face is one mesh triangle: three point indices into Mesh.P (and the
// parallel attribute slices), plus an optional shading-group tag used to
// pick a shader binding on the owning object instance.
type Face struct {
	Indices [3]int32
	GroupID int32
}

// Mesh is a point-indexed triangle set. Per-point attributes are
// parallel slices addressed by Face.Indices; any attribute slice left
// nil is simply not used (no normals, no uv, no motion blur, ...).
type Mesh struct {
	P   []lin.V3
	N   []lin.V3      // optional per-point normals
	FN  [][3]int32    // optional per-face vertex-normal indices, overrides N via Faces.Indices
	UV  [][2]float64  // optional per-point texture coordinates
	Vel []lin.V3      // optional per-point velocity, for linear motion blur
	Cd  []lin.V3      // optional per-point color

	Faces []Face

	// ShutterEnd is the time at which velocity-displaced bounds are
	// computed; the renderer's sample_time_range upper bound.
	ShutterEnd float64
}

// NewMesh creates an empty mesh with the default full-open shutter [0,1].
func NewMesh() *Mesh {
	return &Mesh{ShutterEnd: 1}
}

func (m *Mesh) PrimitiveCount() int { return len(m.Faces) }

func (m *Mesh) pointAt(i int32, time float64) lin.V3 {
	p := m.P[i]
	if m.Vel != nil {
		p.X += time * m.Vel[i].X
		p.Y += time * m.Vel[i].Y
		p.Z += time * m.Vel[i].Z
	}
	return p
}

// RayIntersect tests the triangle primID via Möller-Trumbore, with no
// backface culling. Shading normal is (1-u-v)*N0 + u*N1 + v*N2 using
// face-indexed vertex normals when present, falling back to per-point
// normals, and finally to the face's geometric normal.
func (m *Mesh) RayIntersect(primID int, ray *lin.Ray, time float64) (bool, *Intersection) {
	f := m.Faces[primID]
	p0 := m.pointAt(f.Indices[0], time)
	p1 := m.pointAt(f.Indices[1], time)
	p2 := m.pointAt(f.Indices[2], time)

	e1 := sub(p1, p0)
	e2 := sub(p2, p0)

	pvec := cross(*ray.Dir, e2)
	det := dot(e1, pvec)
	if math.Abs(det) < lin.Epsilon {
		return false, nil
	}
	invDet := 1 / det

	tvec := sub(*ray.Orig, p0)
	u := dot(tvec, pvec) * invDet
	if u < 0 || u > 1 {
		return false, nil
	}

	qvec := cross(tvec, e1)
	v := dot(*ray.Dir, qvec) * invDet
	if v < 0 || u+v > 1 {
		return false, nil
	}

	t := dot(e2, qvec) * invDet
	if t < ray.Tmin || t > ray.Tmax {
		return false, nil
	}

	isect := NewIntersection()
	isect.THit = t
	isect.P = ray.PointAt(t)
	isect.PrimID = primID
	isect.ShadingGroupID = f.GroupID
	isect.UV = [2]float64{u, v}
	isect.DPdu = &lin.V3{X: e1.X, Y: e1.Y, Z: e1.Z}
	isect.DPdv = &lin.V3{X: e2.X, Y: e2.Y, Z: e2.Z}

	n := m.shadingNormal(primID, u, v)
	isect.N = &n

	if m.Cd != nil {
		cd := lerp3(m.Cd[f.Indices[0]], m.Cd[f.Indices[1]], m.Cd[f.Indices[2]], u, v)
		isect.Cd = &cd
	}

	return true, isect
}

func (m *Mesh) shadingNormal(primID int, u, v float64) lin.V3 {
	f := m.Faces[primID]
	switch {
	case m.FN != nil:
		idx := m.FN[primID]
		n := lerp3(m.N[idx[0]], m.N[idx[1]], m.N[idx[2]], u, v)
		n.Unit()
		return n
	case m.N != nil:
		n := lerp3(m.N[f.Indices[0]], m.N[f.Indices[1]], m.N[f.Indices[2]], u, v)
		n.Unit()
		return n
	default:
		p0, p1, p2 := m.P[f.Indices[0]], m.P[f.Indices[1]], m.P[f.Indices[2]]
		n := cross(sub(p1, p0), sub(p2, p0))
		n.Unit()
		return n
	}
}

// BoxIntersect sub-steps the primitive's velocity segment (or tests a
// single static position when Vel is nil) and accepts if any swept
// sub-AABB overlaps box.
func (m *Mesh) BoxIntersect(primID int, box *lin.Box) bool {
	const substeps = 4
	if m.Vel == nil {
		return lin.BoxBoxIntersect(m.PrimitiveBounds(primID), box)
	}
	for i := 0; i <= substeps; i++ {
		t := m.ShutterEnd * float64(i) / float64(substeps)
		b := m.triBoundsAt(primID, t)
		if lin.BoxBoxIntersect(b, box) {
			return true
		}
	}
	return false
}

func (m *Mesh) triBoundsAt(primID int, time float64) *lin.Box {
	f := m.Faces[primID]
	b := lin.NewBoxEmpty()
	p0 := m.pointAt(f.Indices[0], time)
	p1 := m.pointAt(f.Indices[1], time)
	p2 := m.pointAt(f.Indices[2], time)
	b.AddPoint(&p0)
	b.AddPoint(&p1)
	b.AddPoint(&p2)
	return b
}

// PrimitiveBounds unions the triangle's bounds at time 0 and at
// ShutterEnd, so velocity-displaced occupancy is always included.
func (m *Mesh) PrimitiveBounds(primID int) *lin.Box {
	b := m.triBoundsAt(primID, 0)
	if m.Vel != nil {
		b.AddBox(m.triBoundsAt(primID, m.ShutterEnd))
	}
	return b
}

// Bounds unions every triangle's PrimitiveBounds.
func (m *Mesh) Bounds() *lin.Box {
	b := lin.NewBoxEmpty()
	for i := range m.Faces {
		b.AddBox(m.PrimitiveBounds(i))
	}
	return b
}

func sub(a, b lin.V3) lin.V3    { return lin.V3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func cross(a, b lin.V3) lin.V3 {
	return lin.V3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}
func dot(a, b lin.V3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func lerp3(a, b, c lin.V3, u, v float64) lin.V3 {
	w := 1 - u - v
	return lin.V3{
		X: w*a.X + u*b.X + v*c.X,
		Y: w*a.Y + u*b.Y + v*c.Y,
		Z: w*a.Z + u*b.Z + v*c.Z,
	}
}
