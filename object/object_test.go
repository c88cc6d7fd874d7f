package object

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

func unitCubeMesh() *prim.Mesh {
	m := prim.NewMesh()
	m.P = []lin.V3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1},
		{X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
	}
	m.Faces = []prim.Face{
		{Indices: [3]int32{0, 1, 2}},
		{Indices: [3]int32{0, 2, 3}},
	}
	return m
}

func TestInstanceIsSurfaceXorVolume(t *testing.T) {
	inst := NewInstance()
	if inst.IsSurface() || inst.IsVolume() {
		t.Fatal("fresh instance should be neither surface nor volume")
	}
	inst.SetSurface(newTestAccel(unitCubeMesh()))
	if !inst.IsSurface() || inst.IsVolume() {
		t.Error("SetSurface should make IsSurface true and IsVolume false")
	}
}

func TestInstanceBoundsFollowsTranslate(t *testing.T) {
	inst := NewInstance()
	inst.SetSurface(newTestAccel(unitCubeMesh()))
	inst.Xform.PushTranslate(10, 0, 0, 0)

	b := inst.Bounds()
	if b.Min.X < 5 || b.Max.X < 5 {
		t.Errorf("translated instance bounds = %+v, want shifted toward +X", b)
	}
}

func TestGroupHasSurfacesAndVolumes(t *testing.T) {
	g := NewGroup()
	if g.HasSurfaces() || g.HasVolumes() {
		t.Fatal("empty group should report neither")
	}
	inst := NewInstance()
	inst.SetSurface(newTestAccel(unitCubeMesh()))
	g.Add(inst)
	if !g.HasSurfaces() {
		t.Error("group with a surface instance should report HasSurfaces")
	}
	if g.HasVolumes() {
		t.Error("group with no volume instance should not report HasVolumes")
	}
}

func TestGroupBuildTwiceReturnsErrAlreadyBuilt(t *testing.T) {
	g := NewGroup()
	if err := g.Build(4); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if err := g.Build(4); err != ErrAlreadyBuilt {
		t.Errorf("second Build = %v, want ErrAlreadyBuilt", err)
	}
}

func TestSetPrimitiveCountMatchesInstances(t *testing.T) {
	s := &Set{Instances: []*Instance{NewInstance(), NewInstance()}}
	if s.PrimitiveCount() != 2 {
		t.Errorf("PrimitiveCount = %d, want 2", s.PrimitiveCount())
	}
}

// testAccel is a minimal accel.Accelerator wrapping a mesh's own bounds,
// enough to exercise Instance/Group plumbing without a full BVH build.
type testAccel struct {
	mesh *prim.Mesh
}

func newTestAccel(m *prim.Mesh) *testAccel { return &testAccel{mesh: m} }

func (a *testAccel) Build() error       { return nil }
func (a *testAccel) Bounds() *lin.Box   { return a.mesh.Bounds() }
func (a *testAccel) Intersect(ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	return false, nil
}
