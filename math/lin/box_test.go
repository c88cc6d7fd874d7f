package lin

import "testing"

func TestBoxUnion(t *testing.T) {
	a := NewBox(&V3{X: 0, Y: 0, Z: 0}, &V3{X: 1, Y: 1, Z: 1})
	b := NewBox(&V3{X: -1, Y: 2, Z: 0.5}, &V3{X: 0.5, Y: 3, Z: 2})
	want := NewBox(&V3{X: -1, Y: 0, Z: 0}, &V3{X: 1, Y: 3, Z: 2})
	a.AddBox(b)
	if !a.Min.Eq(want.Min) || !a.Max.Eq(want.Max) {
		t.Errorf("union = %s..%s, want %s..%s", a.Min.Dump(), a.Max.Dump(), want.Min.Dump(), want.Max.Dump())
	}
}

func TestBoxUnionWithEmptyIsIdentity(t *testing.T) {
	a := NewBox(&V3{X: 0, Y: 0, Z: 0}, &V3{X: 1, Y: 1, Z: 1})
	want := NewBox(&V3{X: 0, Y: 0, Z: 0}, &V3{X: 1, Y: 1, Z: 1})
	empty := NewBoxEmpty()
	a.AddBox(empty)
	if !a.Min.Eq(want.Min) || !a.Max.Eq(want.Max) {
		t.Errorf("union with empty changed bounds: got %s..%s", a.Min.Dump(), a.Max.Dump())
	}
}

func TestBoxRayIntersectHit(t *testing.T) {
	box := NewBox(&V3{X: -1, Y: -1, Z: -1}, &V3{X: 1, Y: 1, Z: 1})
	orig := &V3{X: 0, Y: 0, Z: -5}
	dir := &V3{X: 0, Y: 0, Z: 1}
	hit, tmin, tmax := BoxRayIntersect(box, orig, dir, 0, 1000)
	if !hit {
		t.Fatal("expected hit")
	}
	if !Aeq(tmin, 4) || !Aeq(tmax, 6) {
		t.Errorf("tmin,tmax = %v,%v, want 4,6", tmin, tmax)
	}
}

func TestBoxRayIntersectMiss(t *testing.T) {
	box := NewBox(&V3{X: -1, Y: -1, Z: -1}, &V3{X: 1, Y: 1, Z: 1})
	orig := &V3{X: 10, Y: 10, Z: -5}
	dir := &V3{X: 0, Y: 0, Z: 1}
	if hit, _, _ := BoxRayIntersect(box, orig, dir, 0, 1000); hit {
		t.Error("expected miss")
	}
}

func TestBoxRayRoundTripEveryAxis(t *testing.T) {
	box := NewBox(&V3{X: -2, Y: -2, Z: -2}, &V3{X: 2, Y: 2, Z: 2})
	dirs := []V3{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}
	for _, d := range dirs {
		orig := &V3{X: -d.X * 10, Y: -d.Y * 10, Z: -d.Z * 10}
		hit, tmin, tmax := BoxRayIntersect(box, orig, &d, 0, 1000)
		if !hit {
			t.Errorf("dir %s: expected hit", d.Dump())
			continue
		}
		entry := (orig.X+tmin*d.X)*d.X + (orig.Y+tmin*d.Y)*d.Y + (orig.Z+tmin*d.Z)*d.Z
		exit := (orig.X+tmax*d.X)*d.X + (orig.Y+tmax*d.Y)*d.Y + (orig.Z+tmax*d.Z)*d.Z
		if !(entry < exit) {
			t.Errorf("dir %s: tmin..tmax not increasing (%v..%v)", d.Dump(), entry, exit)
		}
	}
}
