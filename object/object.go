// Package object implements the scene graph node that binds a
// primitive set to a transform, a shader list, lights, and per-effect
// trace-target overrides: Instance. It also implements
// Group, the container that builds a BVH-of-instances over the
// surface-bearing instances it holds and a volume accelerator over the
// volume-bearing ones.
package object

import (
	"errors"

	"github.com/gazed/tracer/accel"
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
	"github.com/gazed/tracer/shade"
)

// ErrAlreadyBuilt mirrors accel.ErrAlreadyBuilt for Group.Build.
var ErrAlreadyBuilt = errors.New("object: already built")

// Instance binds exactly one of a surface accelerator or a volume to a
// transform sample list, a shader per shading group, a light list, and
// four trace-target overrides used when a shader asks to reflect,
// refract, cast a shadow ray, or self-intersect.
type Instance struct {
	Surface accel.Accelerator // nil for a volume instance
	Volume  *prim.Volume      // nil for a surface instance

	Xform *lin.TransformSampleList

	Shaders []shade.Shader // indexed by Intersection.ShadingGroupID
	Lights  []shade.Light

	ReflectTarget *Group
	RefractTarget *Group
	ShadowTarget  *Group
	SelfHitTarget *Group

	bounds      *lin.Box
	sampleTimes []float64
}

// NewInstance returns an instance with a default identity-centered
// transform and no bound primitive set; exactly one of SetSurface or
// SetVolume must be called before it is usable.
func NewInstance() *Instance {
	return &Instance{Xform: lin.NewTransformSampleList()}
}

func (o *Instance) SetSurface(a accel.Accelerator) { o.Surface = a; o.Volume = nil; o.bounds = nil }
func (o *Instance) SetVolume(v *prim.Volume)        { o.Volume = v; o.Surface = nil; o.bounds = nil }

func (o *Instance) IsSurface() bool { return o.Surface != nil }
func (o *Instance) IsVolume() bool  { return o.Volume != nil }

// SetSampleTimes records the distinct shutter times bounds should be
// conservative across; defaults to {0, 1} when never called.
func (o *Instance) SetSampleTimes(times []float64) {
	o.sampleTimes = times
	o.bounds = nil
}

func (o *Instance) localBounds() *lin.Box {
	if o.IsSurface() {
		return o.Surface.Bounds()
	}
	return o.Volume.Bounds()
}

// Bounds returns the world-space bounds cache, recomputing it if the
// primitive set or transform has invalidated it. Because a rotating or
// scaling transform can sweep the local bounding box into a shape no
// single transformed box encloses exactly, the local box is first
// widened to the circumscribing sphere of its own diagonal, then that
// sphere's bounding box is transformed and unioned at every sample time.
func (o *Instance) Bounds() *lin.Box {
	if o.bounds != nil {
		return o.bounds
	}
	local := o.localBounds()
	center := local.Centroid()
	radius := local.Diagonal().Len() / 2

	sphere := lin.NewBox(
		&lin.V3{X: center.X - radius, Y: center.Y - radius, Z: center.Z - radius},
		&lin.V3{X: center.X + radius, Y: center.Y + radius, Z: center.Z + radius},
	)

	times := o.sampleTimes
	if len(times) == 0 {
		times = []float64{0, 1}
	}

	result := lin.NewBoxEmpty()
	for _, t := range times {
		xf := o.Xform.Lerp(t)
		result.AddBox(lin.NewBox(&lin.V3{}, &lin.V3{}).Transform(sphere, xf.Matrix))
	}
	o.bounds = result
	return o.bounds
}

// rayToLocal builds the ray transformed into this instance's object
// space at time, returning it along with the forward/inverse matrices
// used to bring the result back to world space.
func (o *Instance) rayToLocal(ray *lin.Ray, time float64) (*lin.Ray, *lin.Transform) {
	xf := o.Xform.Lerp(time)
	local := &lin.Ray{Orig: &lin.V3{}, Dir: &lin.V3{}}
	local.Transform(ray, xf.Inverse)
	return local, xf
}

// IntersectSurface transforms ray into object space, intersects the
// bound surface accelerator, then transforms the hit point/normal back
// to world space and stamps Object with this instance.
func (o *Instance) IntersectSurface(ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	if !o.IsSurface() {
		return false, nil
	}
	local, xf := o.rayToLocal(ray, time)
	hit, isect := o.Surface.Intersect(local, time)
	if !hit {
		return false, nil
	}
	isect.P.MultPointM4(isect.P, xf.Matrix)
	isect.N.MultDirM4(isect.N, xf.Matrix)
	isect.N.Unit()
	isect.Object = o
	return true, isect
}

// LocalPoint transforms a world-space point into this instance's
// object space at time, for sampling its bound volume's density after
// IntervalIntersect has already reported a hit in world-space t.
func (o *Instance) LocalPoint(worldP *lin.V3, time float64) *lin.V3 {
	xf := o.Xform.Lerp(time)
	p := &lin.V3{}
	p.MultPointM4(worldP, xf.Inverse)
	return p
}

// IntervalIntersect is the volume analogue of IntersectSurface: it
// transforms ray to object space and returns the bound volume's slab
// interval; Group.IntersectVolumes turns it into an Interval (density
// lookups happen in object space, via LocalPoint, in the integrator's
// volume march).
func (o *Instance) IntervalIntersect(ray *lin.Ray, time float64) (bool, float64, float64) {
	if !o.IsVolume() {
		return false, 0, 0
	}
	local, _ := o.rayToLocal(ray, time)
	return o.Volume.IntervalIntersect(local)
}

// ============================================================================
// Set: the primitive set that lets a BVH be built over whole instances.

// Set implements prim.PrimitiveSet treating each surface-bearing
// Instance as one primitive; this is what lets Group build a
// BVH-of-objects the same way accel.BVH builds a BVH-of-triangles.
type Set struct {
	Instances []*Instance
}

func (s *Set) PrimitiveCount() int { return len(s.Instances) }

func (s *Set) PrimitiveBounds(i int) *lin.Box { return s.Instances[i].Bounds() }

func (s *Set) Bounds() *lin.Box {
	b := lin.NewBoxEmpty()
	for _, inst := range s.Instances {
		b.AddBox(inst.Bounds())
	}
	return b
}

func (s *Set) BoxIntersect(i int, box *lin.Box) bool {
	return lin.BoxBoxIntersect(s.Instances[i].Bounds(), box)
}

func (s *Set) RayIntersect(i int, ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	return s.Instances[i].IntersectSurface(ray, time)
}

// ============================================================================
// Group: a container of instances, split into surface- and
// volume-bearing subsets, each wrapped in its own accelerator.

// Group holds the instances attached to one another via Add, and the
// accelerators built over them. Every instance's own accelerator (or
// volume) must already be built before it is added; Build then builds
// the group-level BVH-of-instances and volume accelerator.
type Group struct {
	surfaces *Set
	volumes  []*Instance

	SurfaceAccel accel.Accelerator
	VolumeAccel  accel.VolumeAccelerator

	volumeWorldBounds *lin.Box
	built             bool
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{surfaces: &Set{}}
}

// Add appends inst to the surface or volume subset depending on which
// primitive it carries.
func (g *Group) Add(inst *Instance) {
	switch {
	case inst.IsSurface():
		g.surfaces.Instances = append(g.surfaces.Instances, inst)
	case inst.IsVolume():
		g.volumes = append(g.volumes, inst)
	}
}

// Build constructs the BVH over the surface Set and the volume
// accelerator over the volume instances. threshold selects BVH vs
// brute force for the volume subset, matching the instance-count cutoff
// the surface side applies when a caller picks between accel.BVH and
// accel.Grid.
func (g *Group) Build(volumeBVHThreshold int) error {
	if g.built {
		return ErrAlreadyBuilt
	}
	g.SurfaceAccel = accel.NewBVH(g.surfaces)
	if err := g.SurfaceAccel.Build(); err != nil {
		return err
	}

	vols := make([]*prim.Volume, len(g.volumes))
	for i, inst := range g.volumes {
		vols[i] = inst.Volume
	}
	if len(vols) >= volumeBVHThreshold {
		g.VolumeAccel = accel.NewVolumeBVH(vols)
	} else {
		g.VolumeAccel = accel.NewVolumeBruteForce(vols)
	}
	if err := g.VolumeAccel.Build(); err != nil {
		return err
	}

	b := lin.NewBoxEmpty()
	for _, inst := range g.volumes {
		b.AddBox(inst.Bounds())
	}
	g.volumeWorldBounds = b

	g.built = true
	return nil
}

// Bounds unions the surface subset's world-space bounds with the
// volume subset's (volumeWorldBounds, not VolumeAccel.Bounds(), since
// the latter is computed over un-transformed local volume bounds).
func (g *Group) Bounds() *lin.Box {
	b := lin.NewBoxEmpty()
	if g.SurfaceAccel != nil {
		b.AddBox(g.SurfaceAccel.Bounds())
	}
	if g.volumeWorldBounds != nil {
		b.AddBox(g.volumeWorldBounds)
	}
	return b
}

// HasSurfaces/HasVolumes report whether either subset is non-empty,
// letting a caller skip a trace step entirely.
func (g *Group) HasSurfaces() bool { return len(g.surfaces.Instances) > 0 }
func (g *Group) HasVolumes() bool  { return len(g.volumes) > 0 }

// IntersectSurface finds the nearest surface hit across every instance
// in the group.
func (g *Group) IntersectSurface(ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	if g.SurfaceAccel == nil {
		return false, nil
	}
	return g.SurfaceAccel.Intersect(ray, time)
}

// IntersectVolumes accumulates the interval list across every volume
// instance the ray passes through. Each instance carries its own
// transform, so the per-instance local-space test can't be delegated to
// the group's VolumeAccel directly; instead the world-space bounds
// union computed at Build is used as a broad-phase rejection test
// before paying for the per-instance loop.
func (g *Group) IntersectVolumes(ray *lin.Ray, time float64) *accel.IntervalList {
	result := accel.NewIntervalList()
	if g.volumeWorldBounds == nil || len(g.volumes) == 0 {
		return result
	}
	if hit, _, _ := lin.BoxRayIntersect(g.volumeWorldBounds, ray.Orig, ray.Dir, ray.Tmin, ray.Tmax); !hit {
		return result
	}
	for _, inst := range g.volumes {
		if hit, tmin, tmax := inst.IntervalIntersect(ray, time); hit {
			result.Insert(accel.Interval{TMin: tmin, TMax: tmax, Volume: inst.Volume, Owner: inst})
		}
	}
	return result
}
