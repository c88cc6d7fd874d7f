// Package integrate implements the recursive ray-tracing integrator:
// surface shading with bounce-depth accounting, shadow-ray occlusion
// queries, and front-to-back volume ray-marching, composited together
// into the single recursive Trace entry point the renderer calls once
// per pixel sample.
package integrate

import (
	"math"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/object"
	"github.com/gazed/tracer/shade"
)

// Config holds the bounce budgets and step sizes that apply uniformly
// to every Trace call an Integrator makes.
type Config struct {
	CastShadow        bool
	MaxReflectDepth   int     // default 5
	MaxRefractDepth   int     // default 5
	OpacityThreshold  float64 // default 0.995
	RaymarchStep      [4]float64 // indexed by shade.RayContext: camera, shadow, reflect, refract
}

// DefaultConfig matches the renderer's documented defaults.
func DefaultConfig() Config {
	return Config{
		CastShadow:       true,
		MaxReflectDepth:  5,
		MaxRefractDepth:  5,
		OpacityThreshold: 0.995,
		RaymarchStep:     [4]float64{0.1, 0.1, 0.1, 0.1},
	}
}

// Integrator drives Trace against a world object.Group using cfg's
// bounce budgets. It holds no per-ray state itself; every Trace call
// builds its own state tree so an Integrator is safe to share across
// worker goroutines.
type Integrator struct {
	cfg Config
}

func NewIntegrator(cfg Config) *Integrator { return &Integrator{cfg: cfg} }

// state is the integrator-private companion to a shade.TraceContext:
// it remembers the trace target the context's closures were built
// against, since shade.TraceContext itself only knows targets as `any`.
type state struct {
	ig     *Integrator
	target *object.Group
	ctx    *shade.TraceContext
}

func (ig *Integrator) newState(target *object.Group, rc shade.RayContext, time float64, reflectDepth, refractDepth int) *state {
	s := &state{ig: ig, target: target}
	ctx := &shade.TraceContext{
		RayContext:       rc,
		CastShadow:       ig.cfg.CastShadow,
		Time:             time,
		ReflectDepth:     reflectDepth,
		RefractDepth:     refractDepth,
		MaxReflectDepth:  ig.cfg.MaxReflectDepth,
		MaxRefractDepth:  ig.cfg.MaxRefractDepth,
		RaymarchStep:     ig.cfg.RaymarchStep,
		OpacityThreshold: ig.cfg.OpacityThreshold,
	}
	s.ctx = ctx

	ctx.Trace = func(orig, dir *lin.V3, tmin, tmax float64) (bool, shade.Color, float64) {
		return ig.trace(s, orig, dir, tmin, tmax)
	}
	ctx.Reflect = func(obj any) *shade.TraceContext {
		inst, _ := obj.(*object.Instance)
		if inst == nil || reflectDepth+1 > ig.cfg.MaxReflectDepth {
			return nil
		}
		return ig.newState(inst.ReflectTarget, shade.ContextReflect, time, reflectDepth+1, refractDepth).ctx
	}
	ctx.Refract = func(obj any) *shade.TraceContext {
		inst, _ := obj.(*object.Instance)
		if inst == nil || refractDepth+1 > ig.cfg.MaxRefractDepth {
			return nil
		}
		return ig.newState(inst.RefractTarget, shade.ContextRefract, time, reflectDepth, refractDepth+1).ctx
	}
	ctx.Shadow = func(obj any) *shade.TraceContext {
		inst, _ := obj.(*object.Instance)
		if inst == nil {
			return nil
		}
		return ig.newState(inst.ShadowTarget, shade.ContextShadow, time, 0, 0).ctx
	}
	ctx.SelfHit = func(obj any) *shade.TraceContext {
		inst, _ := obj.(*object.Instance)
		if inst == nil {
			return nil
		}
		return ig.newState(inst.SelfHitTarget, shade.ContextSelfHit, time, reflectDepth, refractDepth).ctx
	}
	return s
}

// Trace is the top-level entry point invoked once per pixel sample: it
// builds a fresh CAMERA-context state against target and runs the
// recursive surface+volume trace.
func (ig *Integrator) Trace(target *object.Group, time float64, orig, dir *lin.V3, tmin, tmax float64) (bool, shade.Color, float64) {
	s := ig.newState(target, shade.ContextCamera, time, 0, 0)
	return ig.trace(s, orig, dir, tmin, tmax)
}

func withinBudget(ctx *shade.TraceContext) bool {
	switch ctx.RayContext {
	case shade.ContextReflect:
		return ctx.ReflectDepth <= ctx.MaxReflectDepth
	case shade.ContextRefract:
		return ctx.RefractDepth <= ctx.MaxRefractDepth
	default:
		return true
	}
}

// trace implements the documented recursive pseudocode: surface shade,
// short-circuit on a fully-opaque shadow occluder, clip the ray at the
// surface hit, march any volumes inside the clipped range, and
// composite volume over surface.
func (ig *Integrator) trace(s *state, orig, dir *lin.V3, tmin, tmax float64) (bool, shade.Color, float64) {
	if !withinBudget(s.ctx) {
		return false, shade.Color{}, 0
	}
	ray := &lin.Ray{Orig: orig, Dir: dir, Tmin: tmin, Tmax: tmax}

	surfaceHit, surfaceColor, tHit := ig.traceSurface(s, ray)
	if s.ctx.RayContext == shade.ContextShadow && surfaceColor.A > s.ctx.OpacityThreshold {
		return true, surfaceColor, tHit
	}
	if surfaceHit {
		ray.Tmax = tHit
	}

	volumeHit, volumeColor := ig.raymarchVolume(s, ray)
	out := volumeColor.Over(surfaceColor)
	return surfaceHit || volumeHit, out, tHit
}

// traceSurface queries the trace target's surface accelerator and, on
// hit, evaluates the shader assigned to the hit shading group.
func (ig *Integrator) traceSurface(s *state, ray *lin.Ray) (bool, shade.Color, float64) {
	if s.target == nil || !s.target.HasSurfaces() {
		return false, shade.Color{}, 0
	}
	hit, isect := s.target.IntersectSurface(ray, s.ctx.Time)
	if !hit {
		return false, shade.Color{}, 0
	}

	inst, _ := isect.Object.(*object.Instance)
	var shader shade.Shader
	if inst != nil && int(isect.ShadingGroupID) < len(inst.Shaders) {
		shader = inst.Shaders[isect.ShadingGroupID]
	}
	if shader == nil {
		return true, shade.Color{}, isect.THit
	}

	incident := &lin.V3{}
	incident.Neg(ray.Dir)
	incident.Unit()

	in := &shade.SurfaceInput{
		P: isect.P, N: isect.N, Cd: isect.Cd,
		UV: isect.UV, I: incident,
		DPdu: isect.DPdu, DPdv: isect.DPdv,
		ShadedObject: inst,
	}
	out := shader.Evaluate(s.ctx, in)
	os := clamp01(out.Os)
	col := shade.Color{R: out.Cs.X * os, G: out.Cs.Y * os, B: out.Cs.Z * os, A: os}
	return true, col, isect.THit
}

// raymarchVolume implements section 4.4.3: march the ray through every
// overlapping volume interval at the step appropriate to the current
// ray context, compositing front-to-back until saturation or the
// interval range is exhausted.
func (ig *Integrator) raymarchVolume(s *state, ray *lin.Ray) (bool, shade.Color) {
	if s.target == nil || !s.target.HasVolumes() {
		return false, shade.Color{}
	}
	intervals := s.target.IntersectVolumes(ray, s.ctx.Time)
	if intervals.Empty() {
		return false, shade.Color{}
	}

	// ContextSelfHit has no entry of its own and takes the default step.
	step := 0.0
	if int(s.ctx.RayContext) < len(s.ctx.RaymarchStep) {
		step = s.ctx.RaymarchStep[s.ctx.RayContext]
	}
	if step <= 0 {
		step = 0.1
	}
	tStart := math.Max(intervals.MinT, ray.Tmin)
	tStart = math.Ceil(tStart/step) * step
	tEnd := math.Min(intervals.MaxT, ray.Tmax)

	out := shade.Color{}
	for t := tStart; t <= tEnd; t += step {
		maxAlpha := 0.0
		var stepRGB lin.V3
		for _, iv := range intervals.Items {
			if t < iv.TMin || t > iv.TMax {
				continue
			}
			inst, _ := iv.Owner.(*object.Instance)
			if inst == nil {
				continue
			}
			localP := inst.LocalPoint(ray.PointAt(t), s.ctx.Time)
			density := iv.Volume.Density(localP)
			alpha := clamp01(step * density)
			if alpha > maxAlpha {
				maxAlpha = alpha
			}
			if s.ctx.RayContext == shade.ContextShadow || len(inst.Shaders) == 0 || inst.Shaders[0] == nil {
				continue
			}
			in := &shade.SurfaceInput{
				P: ray.PointAt(t), N: &lin.V3{}, Cd: &lin.V3{X: 1, Y: 1, Z: 1},
				ShadedObject: inst,
			}
			sout := inst.Shaders[0].Evaluate(s.ctx, in)
			stepRGB.X += sout.Cs.X * alpha
			stepRGB.Y += sout.Cs.Y * alpha
			stepRGB.Z += sout.Cs.Z * alpha
		}

		out.R += stepRGB.X * (1 - out.A)
		out.G += stepRGB.Y * (1 - out.A)
		out.B += stepRGB.Z * (1 - out.A)
		out.A += maxAlpha * (1 - out.A)

		if out.A >= s.ctx.OpacityThreshold {
			out.A = 1
			break
		}
	}
	return out.A > 0, out
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
