package shading

import (
	"github.com/gazed/tracer/integrate"
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/shade"
)

// Plastic is a Phong dielectric: a diffuse Cd term lit by every light
// in Lights via integrate.Illuminance (through ctx.Shadow, so occluded
// samples fall away), plus a specular highlight and an optional glossy
// reflection term weighted by Fresnel(I, N, Eta). It has no
// transmission; Refract/refraction depth are left to a future
// transparent shader.
type Plastic struct {
	Kd, Ks     float64 // diffuse/specular coefficient
	Roughness  float64
	Eta        float64 // relative index of refraction driving Fresnel reflectance
	Reflective float64 // 0 disables the reflection term entirely

	Lights []shade.Light
}

// NewPlastic returns a Plastic shader with the teacher-reasonable
// defaults: moderate diffuse, tight specular, glass-like eta, no
// forced reflection (Reflective must be set explicitly to enable it).
func NewPlastic(lights []shade.Light) *Plastic {
	return &Plastic{Kd: 0.7, Ks: 0.3, Roughness: 0.1, Eta: 1.0 / 1.5, Lights: lights}
}

func (s *Plastic) Evaluate(ctx *shade.TraceContext, in *shade.SurfaceInput) shade.SurfaceOutput {
	diffuse := &lin.V3{}
	specular := &lin.V3{}

	samples := make([]shade.LightSample, 1)
	for _, light := range s.Lights {
		n := light.GetSamples(samples, 1)
		for i := 0; i < n; i++ {
			ln, _, cl, visible := integrate.Illuminance(ctx, in.ShadedObject, light, samples[i], in.P, nil, 0)
			if !visible {
				continue
			}
			ndotl := in.N.Dot(ln)
			if ndotl > 0 {
				diffuse.X += cl.X * ndotl
				diffuse.Y += cl.Y * ndotl
				diffuse.Z += cl.Z * ndotl
			}
			spec := shade.Phong(in.I, in.N, ln, s.Roughness)
			specular.X += cl.X * spec
			specular.Y += cl.Y * spec
			specular.Z += cl.Z * spec
		}
	}

	cd := in.Cd
	if cd == nil {
		cd = &lin.V3{X: 1, Y: 1, Z: 1}
	}
	cs := &lin.V3{
		X: s.Kd*cd.X*diffuse.X + s.Ks*specular.X,
		Y: s.Kd*cd.Y*diffuse.Y + s.Ks*specular.Y,
		Z: s.Kd*cd.Z*diffuse.Z + s.Ks*specular.Z,
	}

	if s.Reflective > 0 {
		if reflectCtx := ctx.Reflect(in.ShadedObject); reflectCtx != nil {
			r := shade.Reflect(in.I, in.N)
			fresnel := shade.Fresnel(in.I, in.N, s.Eta)
			hit, color, _ := reflectCtx.Trace(in.P, r, lin.RayTmin, lin.RayTmax)
			if hit {
				weight := s.Reflective * fresnel
				cs.X += color.R * weight
				cs.Y += color.G * weight
				cs.Z += color.B * weight
			}
		}
	}

	return shade.SurfaceOutput{Cs: cs, Os: 1}
}

var _ shade.Shader = (*Plastic)(nil)
