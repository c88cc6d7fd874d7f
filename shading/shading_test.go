package shading

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/shade"
)

func TestPointLightSamplesItsTranslate(t *testing.T) {
	l := NewPointLight()
	l.Xform.PushTranslate(1, 2, 3, 0)

	samples := make([]shade.LightSample, 1)
	n := l.GetSamples(samples, 1)
	if n != 1 {
		t.Fatalf("GetSamples returned %d, want 1", n)
	}
	if samples[0].P.X != 1 || samples[0].P.Y != 2 || samples[0].P.Z != 3 {
		t.Errorf("sample position = %+v, want (1,2,3)", samples[0].P)
	}
}

func TestPointLightIlluminateScalesIntensityAndColor(t *testing.T) {
	l := NewPointLight()
	l.Intensity = 2
	l.Color = lin.V3{X: 1, Y: 0.5, Z: 0}

	cl := l.Illuminate(&shade.LightSample{}, &lin.V3{})
	if cl.X != 2 || cl.Y != 1 || cl.Z != 0 {
		t.Errorf("Illuminate = %+v, want (2,1,0)", cl)
	}
}

func TestUnitCubeHasTwelveTriangles(t *testing.T) {
	m := UnitCube()
	if len(m.Faces) != 12 {
		t.Errorf("UnitCube face count = %d, want 12", len(m.Faces))
	}
	if len(m.P) != 24 || len(m.N) != 24 || len(m.Cd) != 24 {
		t.Errorf("UnitCube attribute counts = P:%d N:%d Cd:%d, want 24 each", len(m.P), len(m.N), len(m.Cd))
	}
}

func TestDemoSceneBuildsAndIsHitByACenteredRay(t *testing.T) {
	cam, world, lights := DemoScene()
	if cam == nil || world == nil || len(lights) != 1 {
		t.Fatal("DemoScene returned an incomplete scene")
	}
	if !world.HasSurfaces() {
		t.Fatal("DemoScene's world should have a surface instance")
	}

	ray := &lin.Ray{
		Orig: &lin.V3{X: 0, Y: 0, Z: 6},
		Dir:  &lin.V3{X: 0, Y: 0, Z: -1},
		Tmin: lin.RayTmin, Tmax: lin.RayTmax,
	}
	hit, isect := world.IntersectSurface(ray, 0)
	if !hit {
		t.Fatal("expected a ray through the cube's center to hit it")
	}
	if isect.THit <= 0 {
		t.Errorf("THit = %v, want > 0", isect.THit)
	}
}

func TestPlasticEvaluateProducesNonNegativeColor(t *testing.T) {
	light := NewPointLight()
	light.Xform.PushTranslate(4, 6, 4, 0)
	light.Intensity = 50
	lights := []shade.Light{light}
	plastic := NewPlastic(lights)

	ctx := &shade.TraceContext{
		CastShadow: false,
		Reflect:    func(obj any) *shade.TraceContext { return nil },
	}
	in := &shade.SurfaceInput{
		P: &lin.V3{X: 0, Y: 0, Z: 1},
		N: &lin.V3{X: 0, Y: 0, Z: 1},
		I: &lin.V3{X: 0, Y: 0, Z: 1},
		Cd: &lin.V3{X: 1, Y: 1, Z: 1},
	}
	out := plastic.Evaluate(ctx, in)
	if out.Cs.X < 0 || out.Cs.Y < 0 || out.Cs.Z < 0 {
		t.Errorf("Evaluate produced a negative color component: %+v", out.Cs)
	}
	if out.Cs.X == 0 && out.Cs.Y == 0 && out.Cs.Z == 0 {
		t.Error("expected a lit surface facing its only light to receive some color")
	}
}
