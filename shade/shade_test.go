package shade

import (
	"math"
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func aeq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestReflectAboutFlatNormal(t *testing.T) {
	i := &lin.V3{X: 1, Y: -1, Z: 0}
	i.Unit()
	n := &lin.V3{X: 0, Y: 1, Z: 0}
	r := Reflect(i, n)
	want := &lin.V3{X: i.X, Y: -i.Y, Z: i.Z}
	if !aeq(r.X, want.X) || !aeq(r.Y, want.Y) || !aeq(r.Z, want.Z) {
		t.Errorf("Reflect = %+v, want %+v", r, want)
	}
}

func TestRefractStraightThroughIsUnbent(t *testing.T) {
	i := &lin.V3{X: 0, Y: -1, Z: 0}
	n := &lin.V3{X: 0, Y: 1, Z: 0}
	dir, ok := Refract(i, n, 1.0)
	if !ok {
		t.Fatal("expected no total internal reflection at eta=1")
	}
	if !aeq(dir.X, i.X) || !aeq(dir.Y, i.Y) || !aeq(dir.Z, i.Z) {
		t.Errorf("Refract at eta=1 should pass straight through, got %+v", dir)
	}
}

func TestRefractTotalInternalReflectionFallsBackToReflect(t *testing.T) {
	// Steep grazing angle with eta > 1 drives sin2t above 1.
	i := &lin.V3{X: 0.95, Y: -0.31, Z: 0}
	i.Unit()
	n := &lin.V3{X: 0, Y: 1, Z: 0}
	dir, ok := Refract(i, n, 1.5)
	if ok {
		t.Fatal("expected total internal reflection")
	}
	want := Reflect(i, n)
	if !aeq(dir.X, want.X) || !aeq(dir.Y, want.Y) {
		t.Errorf("TIR fallback = %+v, want Reflect() = %+v", dir, want)
	}
}

func TestFresnelIsHigherAtGrazingAngle(t *testing.T) {
	n := &lin.V3{X: 0, Y: 1, Z: 0}
	head := &lin.V3{X: 0, Y: -1, Z: 0}
	grazing := &lin.V3{X: -0.99, Y: -0.14, Z: 0}
	grazing.Unit()

	rHead := Fresnel(head, n, 1.0/1.5)
	rGrazing := Fresnel(grazing, n, 1.0/1.5)
	if !(rGrazing > rHead) {
		t.Errorf("Fresnel at grazing (%v) should exceed Fresnel at head-on (%v)", rGrazing, rHead)
	}
}

func TestPhongPeaksAtPerfectReflection(t *testing.T) {
	n := &lin.V3{X: 0, Y: 1, Z: 0}
	l := &lin.V3{X: 0, Y: -1, Z: 0}
	// Reflect(l, n) points straight up; an eye looking straight down at
	// it should see the peak specular response.
	i := Reflect(l, n)
	peak := Phong(i, n, l, 0.1)
	off := Phong(&lin.V3{X: 0.7, Y: 0.7, Z: 0}, n, l, 0.1)
	if !(peak > off) {
		t.Errorf("Phong at perfect reflection (%v) should exceed an off-axis eye (%v)", peak, off)
	}
}

type constTexture float64

func (c constTexture) Sample(u, v float64) float64 { return float64(c) }

func TestBumpMapWithFlatTextureLeavesNormalUnchanged(t *testing.T) {
	n := &lin.V3{X: 0, Y: 1, Z: 0}
	dPdu := &lin.V3{X: 1, Y: 0, Z: 0}
	dPdv := &lin.V3{X: 0, Y: 0, Z: 1}
	out := BumpMap(constTexture(0.5), dPdu, dPdv, [2]float64{0.5, 0.5}, 1.0, n)
	if !aeq(out.X, n.X) || !aeq(out.Y, n.Y) || !aeq(out.Z, n.Z) {
		t.Errorf("flat texture should leave normal unchanged, got %+v", out)
	}
}

// Over's receiver is the nearer layer: dst.Over(src) composites dst on
// top of src, matching integrate.go's volumeColor.Over(surfaceColor)
// (the volume march result, nearer the camera, over the surface hit
// behind it).

func TestColorOverWithOpaqueDstHidesSrc(t *testing.T) {
	dst := Color{R: 1, G: 0, B: 0, A: 1}
	src := Color{R: 0, G: 1, B: 0, A: 1}
	out := dst.Over(src)
	if out.R != 1 || out.G != 0 || out.B != 0 || out.A != 1 {
		t.Errorf("opaque dst over src = %+v, want dst unchanged", out)
	}
}

func TestColorOverWithTransparentDstRevealsSrc(t *testing.T) {
	// Color is premultiplied: a fully transparent layer carries zero
	// RGB along with zero alpha.
	dst := Color{R: 0, G: 0, B: 0, A: 0}
	src := Color{R: 0, G: 1, B: 0, A: 1}
	out := dst.Over(src)
	if out.R != 0 || out.G != 1 || out.B != 0 || out.A != 1 {
		t.Errorf("fully transparent dst over src = %+v, want src unchanged", out)
	}
}
