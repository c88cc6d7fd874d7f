package lin

import "testing"

func TestRayPointAt(t *testing.T) {
	r := NewRay(&V3{X: 1, Y: 2, Z: 3}, &V3{X: 0, Y: 0, Z: 1})
	p := r.PointAt(5)
	want := &V3{X: 1, Y: 2, Z: 8}
	if !p.Eq(want) {
		t.Errorf("PointAt(5) = %s, want %s", p.Dump(), want.Dump())
	}
}

func TestRayTransformIdentity(t *testing.T) {
	r := NewRay(&V3{X: 1, Y: 2, Z: 3}, &V3{X: 0, Y: 1, Z: 0})
	out := &Ray{Orig: &V3{}, Dir: &V3{}}
	out.Transform(r, NewM4I())
	if !out.Orig.Eq(r.Orig) || !out.Dir.Eq(r.Dir) {
		t.Errorf("identity transform changed ray: %s/%s", out.Orig.Dump(), out.Dir.Dump())
	}
}

func TestRayTransformForwardThenInverseIsIdentity(t *testing.T) {
	xf := NewTransform()
	xf.SetTranslate(3, -1, 2)
	xf.SetRotate(0.3, 0.7, -0.4)
	xf.SetScale(2, 1, 0.5)

	r := NewRay(&V3{X: 1, Y: 2, Z: 3}, &V3{X: 1, Y: 0, Z: 0})
	forward := &Ray{Orig: &V3{}, Dir: &V3{}}
	forward.Transform(r, xf.Matrix)
	back := &Ray{Orig: &V3{}, Dir: &V3{}}
	back.Transform(forward, xf.Inverse)

	if !back.Orig.Eq(r.Orig) {
		t.Errorf("orig round trip = %s, want %s", back.Orig.Dump(), r.Orig.Dump())
	}
	if !back.Dir.Eq(r.Dir) {
		t.Errorf("dir round trip = %s, want %s", back.Dir.Dump(), r.Dir.Dump())
	}
}
