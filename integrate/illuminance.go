package integrate

import (
	"math"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/shade"
)

// shadowEpsilon offsets a shadow ray's origin off the surface it was
// cast from, along the light direction, to avoid immediately
// re-intersecting the originating primitive.
const shadowEpsilon = 1e-4

// Illuminance is the per-light-sample helper a shader's light loop
// calls: it normalizes the direction from p to the sample, rejects
// samples outside a cone of coneAngle around axis (skip the test by
// passing a nil axis), fetches the light's emitted color, and — if
// ctx.CastShadow and obj carries a shadow target — attenuates that
// color by a shadow ray's occluder opacity. The returned visible is
// false when the sample falls outside the cone or is fully occluded.
func Illuminance(ctx *shade.TraceContext, obj any, light shade.Light, ls shade.LightSample, p, axis *lin.V3, coneAngle float64) (ln *lin.V3, distance float64, cl *lin.V3, visible bool) {
	ln = &lin.V3{}
	ln.Sub(ls.P, p)
	distance = ln.Len()
	if distance > 0 {
		ln.Scale(ln, 1/distance)
	}

	if axis != nil {
		cosAngle := ln.Dot(axis)
		if cosAngle < math.Cos(coneAngle) {
			return ln, distance, &lin.V3{}, false
		}
	}

	cl = light.Illuminate(&ls, p)

	if !ctx.CastShadow {
		return ln, distance, cl, true
	}
	shadowCtx := ctx.Shadow(obj)
	if shadowCtx == nil {
		return ln, distance, cl, true
	}

	origin := &lin.V3{X: p.X + ln.X*shadowEpsilon, Y: p.Y + ln.Y*shadowEpsilon, Z: p.Z + ln.Z*shadowEpsilon}
	hit, occluder, _ := shadowCtx.Trace(origin, ln, lin.RayTmin, distance)
	if !hit {
		return ln, distance, cl, true
	}

	atten := 1 - clamp01(occluder.A)
	if atten <= 0 {
		return ln, distance, &lin.V3{}, false
	}
	cl.Scale(cl, atten)
	return ln, distance, cl, true
}
