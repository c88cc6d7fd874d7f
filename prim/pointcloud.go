package prim

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// PointCloud is a set of spheres, one per point, each with its own
// radius and optional velocity for motion blur.
type PointCloud struct {
	P      []lin.V3
	Radius []float64
	Vel    []lin.V3

	ShutterEnd float64
}

// NewPointCloud creates an empty point cloud with a full-open shutter.
func NewPointCloud() *PointCloud { return &PointCloud{ShutterEnd: 1} }

func (c *PointCloud) PrimitiveCount() int { return len(c.P) }

func (c *PointCloud) centerAt(i int, time float64) lin.V3 {
	p := c.P[i]
	if c.Vel != nil {
		p.X += time * c.Vel[i].X
		p.Y += time * c.Vel[i].Y
		p.Z += time * c.Vel[i].Z
	}
	return p
}

// RayIntersect is the standard ray/sphere quadratic, evaluated against
// the point's position at the given shutter time.
func (c *PointCloud) RayIntersect(primID int, ray *lin.Ray, time float64) (bool, *Intersection) {
	center := c.centerAt(primID, time)
	r := c.Radius[primID]

	oc := sub(*ray.Orig, center)
	a := dot(*ray.Dir, *ray.Dir)
	b := 2 * dot(oc, *ray.Dir)
	cc := dot(oc, oc) - r*r
	disc := b*b - 4*a*cc
	if disc < 0 {
		return false, nil
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t < ray.Tmin || t > ray.Tmax {
		t = (-b + sq) / (2 * a)
		if t < ray.Tmin || t > ray.Tmax {
			return false, nil
		}
	}

	isect := NewIntersection()
	isect.THit = t
	isect.PrimID = primID
	p := ray.PointAt(t)
	isect.P = p
	n := lin.V3{X: p.X - center.X, Y: p.Y - center.Y, Z: p.Z - center.Z}
	n.Unit()
	isect.N = &n
	isect.UV = [2]float64{0, 0}
	return true, isect
}

// BoxIntersect sub-steps the swept segment the same way Mesh.BoxIntersect
// does, since a moving sphere's occupancy is not a simple box union of
// its two endpoint spheres.
func (c *PointCloud) BoxIntersect(primID int, box *lin.Box) bool {
	const substeps = 4
	if c.Vel == nil {
		return lin.BoxBoxIntersect(c.sphereBounds(primID, 0), box)
	}
	for i := 0; i <= substeps; i++ {
		t := c.ShutterEnd * float64(i) / float64(substeps)
		if lin.BoxBoxIntersect(c.sphereBounds(primID, t), box) {
			return true
		}
	}
	return false
}

func (c *PointCloud) sphereBounds(primID int, time float64) *lin.Box {
	center := c.centerAt(primID, time)
	r := c.Radius[primID]
	b := lin.NewBoxEmpty()
	b.AddPoint(&lin.V3{X: center.X - r, Y: center.Y - r, Z: center.Z - r})
	b.AddPoint(&lin.V3{X: center.X + r, Y: center.Y + r, Z: center.Z + r})
	return b
}

func (c *PointCloud) PrimitiveBounds(primID int) *lin.Box {
	b := c.sphereBounds(primID, 0)
	if c.Vel != nil {
		b.AddBox(c.sphereBounds(primID, c.ShutterEnd))
	}
	return b
}

func (c *PointCloud) Bounds() *lin.Box {
	b := lin.NewBoxEmpty()
	for i := range c.P {
		b.AddBox(c.PrimitiveBounds(i))
	}
	return b
}
