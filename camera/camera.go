// Package camera implements the pinhole camera that turns a screen
// sample (u, v, time) into a world-space ray.
package camera

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Camera is a time-sampled pinhole projection: fov and znear/zfar are
// constant, while position/orientation come from a TransformSampleList
// so the camera itself can carry motion blur.
type Camera struct {
	Xform  *lin.TransformSampleList
	FovY   float64 // vertical field of view, radians
	Aspect float64 // width / height, set by SetAspect from the framebuffer resolution
	ZNear  float64
	ZFar   float64
}

// NewCamera returns a camera with the renderer's documented defaults:
// a 30 degree vertical fov, aspect 1, near/far matching the ray's
// default tmin/tmax.
func NewCamera() *Camera {
	return &Camera{
		Xform:  lin.NewTransformSampleList(),
		FovY:   30 * math.Pi / 180,
		Aspect: 1,
		ZNear:  lin.RayTmin,
		ZFar:   lin.RayTmax,
	}
}

// SetAspect is the camera's preprocess step: derive aspect from a
// render resolution so non-square framebuffers don't distort the view.
func (c *Camera) SetAspect(width, height int) {
	if height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
}

// GetRay fills ray with the camera ray through screen-space uv (each
// component in [0,1]) at the given shutter time: a target point is
// built in camera space at uv_size scale one unit in front of the lens,
// both target and origin are carried to world space by the time-lerped
// transform, and the resulting direction is normalized.
func (c *Camera) GetRay(uv [2]float64, time float64, ray *lin.Ray) {
	xf := c.Xform.Lerp(time)

	uvSizeY := 2 * math.Tan(c.FovY/2)
	uvSizeX := uvSizeY * c.Aspect

	target := &lin.V3{
		X: (uv[0] - 0.5) * uvSizeX,
		Y: (uv[1] - 0.5) * uvSizeY,
		Z: -1,
	}

	worldTarget := &lin.V3{}
	worldTarget.MultPointM4(target, xf.Matrix)
	worldOrig := &lin.V3{}
	worldOrig.MultPointM4(&lin.V3{}, xf.Matrix)

	dir := &lin.V3{}
	dir.Sub(worldTarget, worldOrig)
	dir.Unit()

	ray.Orig = worldOrig
	ray.Dir = dir
	ray.Tmin = c.ZNear
	ray.Tmax = c.ZFar
}
