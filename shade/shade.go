// Package shade defines the render core's shading surface: the Shader
// and Light interfaces evaluated by the integrator, their standardized
// inputs/outputs, and the BRDF building blocks a shader implementation
// composes. Shaders and lights themselves are plugin-supplied and
// treated as opaque by everything in this module; only the shapes of
// their inputs/outputs live here.
package shade

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Color is a linear RGBA sample value threaded through shading,
// compositing, and the framebuffer.
type Color struct {
	R, G, B, A float64
}

// Over composites the receiver dst over src (dst is the nearer layer),
// returning the result.
func (dst Color) Over(src Color) Color {
	return Color{
		R: dst.R + src.R*(1-dst.A),
		G: dst.G + src.G*(1-dst.A),
		B: dst.B + src.B*(1-dst.A),
		A: dst.A + src.A*(1-dst.A),
	}
}

// RayContext identifies why a ray is being traced, selecting its bounce
// budget and raymarch step size.
type RayContext int

const (
	ContextCamera RayContext = iota
	ContextShadow
	ContextReflect
	ContextRefract
	ContextSelfHit
)

// TraceContext is the state threaded through a Trace call and down into
// shader evaluation. Its Trace/Reflect/Refract/Shadow/SelfHit fields are
// closures supplied by the integrator (package integrate) so a Shader
// can issue secondary rays without this package depending on the
// integrator or the object graph.
type TraceContext struct {
	RayContext RayContext
	CastShadow bool
	Time       float64

	ReflectDepth, RefractDepth         int
	MaxReflectDepth, MaxRefractDepth   int

	RaymarchStep        [4]float64 // indexed by RayContext: camera, shadow, reflect, refract
	OpacityThreshold    float64

	// Trace issues a ray in the current trace target/ray-context and
	// returns whether it hit, the composited color, and t_hit.
	Trace func(orig, dir *lin.V3, tmin, tmax float64) (bool, Color, float64)

	// Reflect/Refract/Shadow/SelfHit return a derived TraceContext
	// narrowed to the corresponding override target group of the
	// instance obj (as stamped on Intersection.Object), with the
	// matching depth counter incremented (Shadow also zeroes secondary
	// depth budgets). nil if the calling integrator has exhausted the
	// relevant bounce budget.
	Reflect func(obj any) *TraceContext
	Refract func(obj any) *TraceContext
	Shadow  func(obj any) *TraceContext
	SelfHit func(obj any) *TraceContext
}

// SurfaceInput carries everything a Shader needs to evaluate one
// shading point.
type SurfaceInput struct {
	P, N, Cd   *lin.V3
	UV         [2]float64
	I          *lin.V3 // incident (ray) direction, pointing away from the surface toward the camera
	DPdu, DPdv *lin.V3
	ShadedObject any
}

// SurfaceOutput is a Shader's result: Cs (RGB) and Os (opacity, clamped
// to [0,1] by the integrator before compositing).
type SurfaceOutput struct {
	Cs *lin.V3
	Os float64
}

// Shader is implemented by plugin shaders; the core only ever calls
// Evaluate and treats every shader as opaque otherwise.
type Shader interface {
	Evaluate(ctx *TraceContext, in *SurfaceInput) SurfaceOutput
}

// LightSample is one emission sample returned by Light.GetSamples: a
// world-space position and, for area lights, a surface normal.
type LightSample struct {
	P, N *lin.V3
}

// Light is implemented by point/sphere/dome/grid lights.
type Light interface {
	SampleCount() int
	GetSamples(samples []LightSample, max int) int
	Illuminate(ls *LightSample, shadedP *lin.V3) *lin.V3 // RGB
	Preprocess()
}

// ============================================================================
// BRDF helpers

// Reflect returns I reflected about normal N: I + 2*(-I.N)*N.
func Reflect(i, n *lin.V3) *lin.V3 {
	d := -i.Dot(n)
	return &lin.V3{X: i.X + 2*d*n.X, Y: i.Y + 2*d*n.Y, Z: i.Z + 2*d*n.Z}
}

// Refract bends I through a surface with normal N and relative index of
// refraction eta. ok is false on total internal reflection, in which
// case the returned vector is Reflect(i, n) as the documented fallback.
func Refract(i, n *lin.V3, eta float64) (dir *lin.V3, ok bool) {
	cosi := -i.Dot(n)
	sin2t := eta * eta * (1 - cosi*cosi)
	if sin2t > 1 {
		return Reflect(i, n), false
	}
	cost := math.Sqrt(1 - sin2t)
	return &lin.V3{
		X: eta*i.X + (eta*cosi-cost)*n.X,
		Y: eta*i.Y + (eta*cosi-cost)*n.Y,
		Z: eta*i.Z + (eta*cosi-cost)*n.Z,
	}, true
}

// Fresnel approximates the reflectance at normal n for incident
// direction i and relative index eta via Schlick's approximation with
// k^2 = 0 (dielectric, no absorption).
func Fresnel(i, n *lin.V3, eta float64) float64 {
	cosi := math.Abs(i.Dot(n))
	r0 := (1 - eta) / (1 + eta)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosi, 5)
}

// Phong evaluates max(0, I.Reflect(L,N))^(1/max(0.001, roughness)).
func Phong(i, n, l *lin.V3, roughness float64) float64 {
	r := Reflect(l, n)
	d := i.Dot(r)
	if d < 0 {
		d = 0
	}
	exp := 1 / math.Max(0.001, roughness)
	return math.Pow(d, exp)
}

// BumpTexture samples a scalar (luminance) texture at uv; BumpMap uses
// its finite-difference derivatives to perturb a shading normal.
type BumpTexture interface {
	Sample(u, v float64) float64
}

// BumpMap perturbs normal n using finite-difference derivatives of
// texture at uv, scaled by amplitude, returning the renormalized result.
// N' = N + amplitude*(Bv*(N x Pu) - Bu*(N x Pv)).
func BumpMap(texture BumpTexture, dPdu, dPdv *lin.V3, uv [2]float64, amplitude float64, n *lin.V3) *lin.V3 {
	const du, dv = 0.001, 0.001
	b0 := texture.Sample(uv[0], uv[1])
	bu := (texture.Sample(uv[0]+du, uv[1]) - b0) / du
	bv := (texture.Sample(uv[0], uv[1]+dv) - b0) / dv

	nCrossPu := &lin.V3{}
	nCrossPu.Cross(n, dPdu)
	nCrossPv := &lin.V3{}
	nCrossPv.Cross(n, dPdv)

	result := &lin.V3{
		X: n.X + amplitude*(bv*nCrossPu.X-bu*nCrossPv.X),
		Y: n.Y + amplitude*(bv*nCrossPu.Y-bu*nCrossPv.Y),
		Z: n.Z + amplitude*(bv*nCrossPu.Z-bu*nCrossPv.Z),
	}
	result.Unit()
	return result
}
