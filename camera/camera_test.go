package camera

import (
	"math"
	"testing"

	"github.com/gazed/tracer/math/lin"
)

func TestSetAspect(t *testing.T) {
	c := NewCamera()
	c.SetAspect(320, 240)
	want := 320.0 / 240.0
	if !lin.Aeq(c.Aspect, want) {
		t.Errorf("Aspect = %v, want %v", c.Aspect, want)
	}
}

func TestSetAspectIgnoresZeroHeight(t *testing.T) {
	c := NewCamera()
	c.Aspect = 1.5
	c.SetAspect(320, 0)
	if c.Aspect != 1.5 {
		t.Errorf("Aspect changed on zero height: %v", c.Aspect)
	}
}

func TestGetRayCentersThroughScreenMidpoint(t *testing.T) {
	c := NewCamera()
	c.Xform.PushTranslate(0, 0, 5, 0)
	c.SetAspect(1, 1)

	ray := &lin.Ray{Orig: &lin.V3{}, Dir: &lin.V3{}}
	c.GetRay([2]float64{0.5, 0.5}, 0, ray)

	if !lin.Aeq(ray.Dir.X, 0) || !lin.Aeq(ray.Dir.Y, 0) {
		t.Errorf("center ray direction = %s, want pointing straight down -Z", ray.Dir.Dump())
	}
	if !(ray.Dir.Z < 0) {
		t.Errorf("center ray should point toward -Z, got %s", ray.Dir.Dump())
	}
	if !lin.Aeq(ray.Dir.Len(), 1) {
		t.Errorf("ray direction not normalized: len=%v", ray.Dir.Len())
	}
}

func TestGetRayWidensWithAspect(t *testing.T) {
	c := NewCamera()
	c.FovY = math.Pi / 2
	c.SetAspect(2, 1)

	left := &lin.Ray{Orig: &lin.V3{}, Dir: &lin.V3{}}
	c.GetRay([2]float64{0, 0.5}, 0, left)
	right := &lin.Ray{Orig: &lin.V3{}, Dir: &lin.V3{}}
	c.GetRay([2]float64{1, 0.5}, 0, right)

	if !(left.Dir.X < 0 && right.Dir.X > 0) {
		t.Errorf("left/right edge rays should diverge in X: left=%v right=%v", left.Dir.X, right.Dir.X)
	}
}
