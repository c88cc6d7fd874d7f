// Package shading provides reference Shader/Light implementations: a
// point light and a Phong-based plastic surface, built entirely from
// the BRDF helpers and interfaces package shade declares. Neither is
// part of the render core proper — both are sample plugin
// implementations, the kind a scene author supplies.
package shading

import (
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/shade"
)

// PointLight is an unshadowed, non-area emitter: one sample per call,
// positioned by its transform sample list, with an intensity*color
// radiant value independent of distance or direction. Visibility and
// falloff are the integrator's job (see integrate.Illuminance), not
// the light's.
type PointLight struct {
	Xform     *lin.TransformSampleList
	Intensity float64
	Color     lin.V3
}

// NewPointLight returns a point light at the origin with unit
// intensity and white color; callers push translate samples onto
// Xform to place and animate it.
func NewPointLight() *PointLight {
	return &PointLight{
		Xform:     lin.NewTransformSampleList(),
		Intensity: 1,
		Color:     lin.V3{X: 1, Y: 1, Z: 1},
	}
}

// SampleCount is always 1: a point light has no area to distribute
// samples over.
func (l *PointLight) SampleCount() int { return 1 }

// GetSamples writes the light's current world position (time 0; a
// point light's motion is carried by Xform but sampled by the caller's
// own shutter time through a future GetSamplesAt, not yet needed here)
// as P, with N left zero since a point light has no surface to shade.
func (l *PointLight) GetSamples(samples []shade.LightSample, max int) int {
	if max <= 0 || len(samples) == 0 {
		return 0
	}
	xf := l.Xform.Lerp(0)
	samples[0] = shade.LightSample{
		P: &lin.V3{X: xf.Translate.X, Y: xf.Translate.Y, Z: xf.Translate.Z},
		N: &lin.V3{},
	}
	return 1
}

// Illuminate returns intensity*color unconditionally: no falloff, no
// visibility test.
func (l *PointLight) Illuminate(ls *shade.LightSample, shadedP *lin.V3) *lin.V3 {
	return &lin.V3{
		X: l.Intensity * l.Color.X,
		Y: l.Intensity * l.Color.Y,
		Z: l.Intensity * l.Color.Z,
	}
}

// Preprocess is a no-op: PointLight has no precomputation to do before
// a frame.
func (l *PointLight) Preprocess() {}

var _ shade.Light = (*PointLight)(nil)
