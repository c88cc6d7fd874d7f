package integrate

import (
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/object"
	"github.com/gazed/tracer/prim"
	"github.com/gazed/tracer/shade"
)

// planeAccel is a fake accel.Accelerator that always reports a hit at
// t=1 facing the ray, letting tests exercise the integrator without
// building real geometry.
type planeAccel struct{}

func (planeAccel) Build() error { return nil }
func (planeAccel) Bounds() *lin.Box {
	return lin.NewBox(&lin.V3{X: -1, Y: -1, Z: -1}, &lin.V3{X: 1, Y: 1, Z: 1})
}
func (planeAccel) Intersect(ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	isect := prim.NewIntersection()
	isect.THit = 1
	isect.P = ray.PointAt(1)
	isect.N = &lin.V3{X: 0, Y: 0, Z: 1}
	return true, isect
}

// mirrorShader recursively reflects forever, counting how many times it
// is actually invoked; the integrator's bounce budget is what must stop
// it, not the shader itself.
type mirrorShader struct {
	calls *int
}

func (s mirrorShader) Evaluate(ctx *shade.TraceContext, in *shade.SurfaceInput) shade.SurfaceOutput {
	*s.calls++
	if reflectCtx := ctx.Reflect(in.ShadedObject); reflectCtx != nil {
		reflectCtx.Trace(in.P, shade.Reflect(in.I, in.N), lin.RayTmin, lin.RayTmax)
	}
	return shade.SurfaceOutput{Cs: &lin.V3{}, Os: 1}
}

func buildMirrorWorld(calls *int) (*object.Group, *object.Instance) {
	inst := object.NewInstance()
	inst.SetSurface(planeAccel{})
	inst.Shaders = []shade.Shader{mirrorShader{calls: calls}}

	world := object.NewGroup()
	world.Add(inst)
	world.Build(4)

	inst.ReflectTarget = world
	inst.RefractTarget = world
	inst.ShadowTarget = world
	inst.SelfHitTarget = world
	return world, inst
}

func TestTraceStopsAtMaxReflectDepth(t *testing.T) {
	calls := 0
	world, _ := buildMirrorWorld(&calls)

	cfg := DefaultConfig()
	cfg.MaxReflectDepth = 3
	ig := NewIntegrator(cfg)

	ig.Trace(world, 0, &lin.V3{X: 0, Y: 0, Z: -5}, &lin.V3{X: 0, Y: 0, Z: 1}, lin.RayTmin, lin.RayTmax)

	// One shade at depth 0, then one more per allowed bounce.
	want := cfg.MaxReflectDepth + 1
	if calls != want {
		t.Errorf("shader invoked %d times, want %d (MaxReflectDepth=%d)", calls, want, cfg.MaxReflectDepth)
	}
}

func TestTraceReportsMissWithEmptyWorld(t *testing.T) {
	ig := NewIntegrator(DefaultConfig())
	world := object.NewGroup()
	world.Build(4)

	hit, _, _ := ig.Trace(world, 0, &lin.V3{X: 0, Y: 0, Z: -5}, &lin.V3{X: 0, Y: 0, Z: 1}, lin.RayTmin, lin.RayTmax)
	if hit {
		t.Error("expected a miss against an empty world")
	}
}

func TestIlluminanceOccludedSampleIsNotVisible(t *testing.T) {
	calls := 0
	world, inst := buildMirrorWorld(&calls) // any opaque occluder works here

	cfg := DefaultConfig()
	ig := NewIntegrator(cfg)
	s := ig.newState(world, shade.ContextCamera, 0, 0, 0)

	light := fakeLight{color: &lin.V3{X: 1, Y: 1, Z: 1}}
	ls := shade.LightSample{P: &lin.V3{X: 0, Y: 0, Z: 10}, N: &lin.V3{}}
	p := &lin.V3{X: 0, Y: 0, Z: -5}

	_, _, _, visible := Illuminance(s.ctx, inst, light, ls, p, nil, 0)
	if visible {
		t.Error("expected the plane between p and the light sample to occlude it")
	}
}

type fakeLight struct{ color *lin.V3 }

func (fakeLight) SampleCount() int                                     { return 1 }
func (fakeLight) GetSamples(samples []shade.LightSample, max int) int  { return 0 }
func (l fakeLight) Illuminate(ls *shade.LightSample, p *lin.V3) *lin.V3 { return l.color }
func (fakeLight) Preprocess()                                          {}
