package accel

import (
	"math/rand"
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

// gridOfTris scatters n unit-ish triangles across a grid so both the
// BVH and the uniform grid have several cells/nodes to traverse.
func gridOfTris(n int) *prim.Mesh {
	m := prim.NewMesh()
	r := rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		cx := float64(i%10) * 3
		cy := float64(i/10) * 3
		base := int32(len(m.P))
		m.P = append(m.P,
			lin.V3{X: cx + r.Float64(), Y: cy, Z: 0},
			lin.V3{X: cx + 1 + r.Float64(), Y: cy, Z: 0},
			lin.V3{X: cx + 0.5, Y: cy + 1, Z: 0},
		)
		m.Faces = append(m.Faces, prim.Face{Indices: [3]int32{base, base + 1, base + 2}})
	}
	return m
}

func TestBVHAndGridAgreeOnHits(t *testing.T) {
	mesh := gridOfTris(40)

	bvh := NewBVH(mesh)
	if err := bvh.Build(); err != nil {
		t.Fatal(err)
	}
	grid := NewGrid(mesh)
	if err := grid.Build(); err != nil {
		t.Fatal(err)
	}

	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		orig := &lin.V3{X: r.Float64() * 30, Y: r.Float64() * 15, Z: 5}
		dir := &lin.V3{X: 0, Y: 0, Z: -1}
		ray := lin.NewRay(orig, dir)

		hitB, isectB := bvh.Intersect(ray, 0)
		hitG, isectG := grid.Intersect(ray, 0)

		if hitB != hitG {
			t.Fatalf("ray %d: BVH hit=%v, Grid hit=%v", i, hitB, hitG)
		}
		if hitB && !lin.Aeq(isectB.THit, isectG.THit) {
			t.Fatalf("ray %d: THit mismatch BVH=%v Grid=%v", i, isectB.THit, isectG.THit)
		}
	}
}

func TestIntervalListSortedByTMin(t *testing.T) {
	l := NewIntervalList()
	l.Insert(Interval{TMin: 5, TMax: 6})
	l.Insert(Interval{TMin: 1, TMax: 2})
	l.Insert(Interval{TMin: 3, TMax: 4})

	for i := 1; i < len(l.Items); i++ {
		if l.Items[i].TMin < l.Items[i-1].TMin {
			t.Fatalf("Items not sorted by TMin: %+v", l.Items)
		}
	}
	if !lin.Aeq(l.MinT, 1) || !lin.Aeq(l.MaxT, 6) {
		t.Errorf("MinT,MaxT = %v,%v, want 1,6", l.MinT, l.MaxT)
	}
}

func TestIntervalListEmpty(t *testing.T) {
	l := NewIntervalList()
	if !l.Empty() {
		t.Error("fresh IntervalList should be Empty")
	}
	l.Insert(Interval{TMin: 0, TMax: 1})
	if l.Empty() {
		t.Error("IntervalList with an item should not be Empty")
	}
}
