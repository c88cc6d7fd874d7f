package prim

import (
	"math"
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func unitTriangle() *Mesh {
	m := NewMesh()
	m.P = []lin.V3{{X: -1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: 0, Y: 1, Z: 0}}
	m.Faces = []Face{{Indices: [3]int32{0, 1, 2}}}
	return m
}

func TestMeshRayIntersectHitsCenteredTriangle(t *testing.T) {
	m := unitTriangle()
	ray := lin.NewRay(&lin.V3{X: 0, Y: 0, Z: 5}, &lin.V3{X: 0, Y: 0, Z: -1})

	hit, isect := m.RayIntersect(0, ray, 0)
	if !hit {
		t.Fatal("expected a hit through the triangle's centroid")
	}
	if isect.THit <= 0 {
		t.Errorf("THit = %v, want > 0", isect.THit)
	}
	if isect.N.Z <= 0 {
		t.Errorf("N = %+v, want a +Z-facing normal for this winding", isect.N)
	}
}

func TestMeshRayIntersectMissesBeyondTriangle(t *testing.T) {
	m := unitTriangle()
	ray := lin.NewRay(&lin.V3{X: 10, Y: 10, Z: 5}, &lin.V3{X: 0, Y: 0, Z: -1})

	hit, _ := m.RayIntersect(0, ray, 0)
	if hit {
		t.Error("expected a miss for a ray well outside the triangle's footprint")
	}
}

func TestMeshRayIntersectInterpolatesVertexColor(t *testing.T) {
	m := unitTriangle()
	m.Cd = []lin.V3{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	ray := lin.NewRay(&lin.V3{X: 0, Y: 0, Z: 5}, &lin.V3{X: 0, Y: 0, Z: -1})

	hit, isect := m.RayIntersect(0, ray, 0)
	if !hit {
		t.Fatal("expected a hit")
	}
	if isect.Cd == nil {
		t.Fatal("expected an interpolated Cd")
	}
	sum := isect.Cd.X + isect.Cd.Y + isect.Cd.Z
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("barycentric color components sum to %v, want 1", sum)
	}
}

func TestMeshBoundsUnionsAllTriangles(t *testing.T) {
	m := unitTriangle()
	b := m.Bounds()
	if b.Min.X != -1 || b.Max.X != 1 || b.Min.Y != -1 || b.Max.Y != 1 {
		t.Errorf("Bounds = %+v, want [-1,1]x[-1,1]", b)
	}
}

func TestMeshBoxIntersectRejectsDisjointBox(t *testing.T) {
	m := unitTriangle()
	far := lin.NewBox(&lin.V3{X: 100, Y: 100, Z: 100}, &lin.V3{X: 101, Y: 101, Z: 101})
	if m.BoxIntersect(0, far) {
		t.Error("expected no overlap with a far-away box")
	}
	near := lin.NewBox(&lin.V3{X: -2, Y: -2, Z: -1}, &lin.V3{X: 2, Y: 2, Z: 1})
	if !m.BoxIntersect(0, near) {
		t.Error("expected overlap with a box enclosing the triangle")
	}
}

func TestPointCloudRayIntersectHitsSphere(t *testing.T) {
	pc := NewPointCloud()
	pc.P = []lin.V3{{X: 0, Y: 0, Z: 0}}
	pc.Radius = []float64{1}

	ray := lin.NewRay(&lin.V3{X: 0, Y: 0, Z: 5}, &lin.V3{X: 0, Y: 0, Z: -1})
	hit, isect := pc.RayIntersect(0, ray, 0)
	if !hit {
		t.Fatal("expected a hit against the unit sphere")
	}
	if math.Abs(isect.THit-4) > 1e-9 {
		t.Errorf("THit = %v, want 4", isect.THit)
	}
}

func TestPointCloudRayIntersectMissesWhenRayPassesOutsideRadius(t *testing.T) {
	pc := NewPointCloud()
	pc.P = []lin.V3{{X: 0, Y: 0, Z: 0}}
	pc.Radius = []float64{1}

	ray := lin.NewRay(&lin.V3{X: 5, Y: 5, Z: 5}, &lin.V3{X: 0, Y: 0, Z: -1})
	hit, _ := pc.RayIntersect(0, ray, 0)
	if hit {
		t.Error("expected a miss for a ray well outside the sphere's radius")
	}
}

func TestPointCloudBoundsReflectsRadius(t *testing.T) {
	pc := NewPointCloud()
	pc.P = []lin.V3{{X: 0, Y: 0, Z: 0}}
	pc.Radius = []float64{2}

	b := pc.Bounds()
	if b.Min.X != -2 || b.Max.X != 2 {
		t.Errorf("Bounds = %+v, want [-2,2] on X", b)
	}
}

func straightCurve() *Curve {
	c := NewCurve()
	c.CP = [][4]lin.V3{{
		{X: 0, Y: 0, Z: 3}, {X: 0, Y: 0, Z: 2}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 0},
	}}
	c.Width = [][2]float64{{0.2, 0.2}}
	c.Preprocess()
	return c
}

func TestCurveRayIntersectHitsStrandAlongItsAxis(t *testing.T) {
	c := straightCurve()
	ray := lin.NewRay(&lin.V3{X: 0.05, Y: 0, Z: 10}, &lin.V3{X: 0, Y: 0, Z: -1})

	hit, isect := c.RayIntersect(0, ray, 0)
	if !hit {
		t.Fatal("expected a hit against a strand running down the ray's axis")
	}
	if isect.THit <= 0 {
		t.Errorf("THit = %v, want > 0", isect.THit)
	}
}

func TestCurveRayIntersectMissesWhenRayIsFarFromStrand(t *testing.T) {
	c := straightCurve()
	ray := lin.NewRay(&lin.V3{X: 10, Y: 10, Z: 10}, &lin.V3{X: 0, Y: 0, Z: -1})

	hit, _ := c.RayIntersect(0, ray, 0)
	if hit {
		t.Error("expected a miss for a ray far from the strand")
	}
}

func TestCurveBoundsExpandsByRadius(t *testing.T) {
	c := straightCurve()
	b := c.Bounds()
	if b.Min.X > -0.1 || b.Max.X < 0.1 {
		t.Errorf("Bounds = %+v, want expanded by the strand's half-width", b)
	}
}

func TestCurveBoxIntersectRejectsDisjointBox(t *testing.T) {
	c := straightCurve()
	far := lin.NewBox(&lin.V3{X: 100, Y: 100, Z: 100}, &lin.V3{X: 101, Y: 101, Z: 101})
	if c.BoxIntersect(0, far) {
		t.Error("expected no overlap with a far-away box")
	}
}
