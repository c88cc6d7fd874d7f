package shading

import (
	"github.com/gazed/tracer/accel"
	"github.com/gazed/tracer/camera"
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/object"
	"github.com/gazed/tracer/prim"
	"github.com/gazed/tracer/shade"
)

// UnitCube returns a mesh for an axis-aligned cube spanning [-1,1] on
// every axis, one shading group, per-face normals duplicated per
// vertex so adjoining faces stay flat-shaded.
func UnitCube() *prim.Mesh {
	m := prim.NewMesh()

	type quad struct {
		p            [4]lin.V3
		n            lin.V3
	}
	quads := []quad{
		{[4]lin.V3{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}, lin.V3{Z: 1}},    // +Z
		{[4]lin.V3{{X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}}, lin.V3{Z: -1}}, // -Z
		{[4]lin.V3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}}, lin.V3{X: -1}}, // -X
		{[4]lin.V3{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}, lin.V3{X: 1}},      // +X
		{[4]lin.V3{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}}, lin.V3{Y: 1}},      // +Y
		{[4]lin.V3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}, lin.V3{Y: -1}}, // -Y
	}

	for _, q := range quads {
		base := int32(len(m.P))
		for _, p := range q.p {
			m.P = append(m.P, p)
			m.N = append(m.N, q.n)
			m.Cd = append(m.Cd, lin.V3{X: 1, Y: 1, Z: 1})
		}
		m.Faces = append(m.Faces,
			prim.Face{Indices: [3]int32{base, base + 1, base + 2}},
			prim.Face{Indices: [3]int32{base, base + 2, base + 3}},
		)
	}
	return m
}

// DemoScene builds a minimal fixture scene: a single cube lit by one
// point light and shaded with a plastic-like surface, exercising
// camera, BVH, integrator, and shader in one pass. It returns the
// ready-to-render camera and world group; the scene's only light is
// also returned for a caller that wants to hand it to
// render.NewRenderer's lights slice.
func DemoScene() (*camera.Camera, *object.Group, []shade.Light) {
	light := NewPointLight()
	light.Xform.PushTranslate(4, 6, 4, 0)
	light.Intensity = 50

	lights := []shade.Light{light}
	plastic := NewPlastic(lights)

	mesh := UnitCube()
	bvh := accel.NewBVH(mesh)
	bvh.Build()

	inst := object.NewInstance()
	inst.SetSurface(bvh)
	inst.Shaders = []shade.Shader{plastic}
	inst.Lights = lights

	world := object.NewGroup()
	world.Add(inst)
	world.Build(4)

	inst.ReflectTarget = world
	inst.RefractTarget = world
	inst.ShadowTarget = world
	inst.SelfHitTarget = world

	cam := camera.NewCamera()
	cam.Xform.PushTranslate(0, 2, 6, 0)

	return cam, world, lights
}
