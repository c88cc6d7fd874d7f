// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "sort"

// TransformOrder controls the order translate, rotate, and scale are
// composed into Transform's matrix.
type TransformOrder int

// Transform composition orders.
const (
	OrderSRT TransformOrder = iota
	OrderSTR
	OrderRST
	OrderRTS
	OrderTRS
	OrderTSR
)

// RotateOrder controls the order the X, Y, Z axis rotations are composed
// into Transform's rotation component.
type RotateOrder int

// Rotation axis composition orders.
const (
	OrderXYZ RotateOrder = iota
	OrderXZY
	OrderYXZ
	OrderYZX
	OrderZXY
	OrderZYX
)

// Transform is an affine transform built from separate translate, rotate,
// and scale channels, composed according to TransformOrder/RotateOrder.
// Transform keeps full scale and shear-free axis rotations and caches
// its own inverse, matching a keyframed object's placement in a
// scene graph. Matrix and Inverse use the row-vector convention (v*M)
// shared by the rest of this package.
type Transform struct {
	Matrix  *M4
	Inverse *M4

	Order       TransformOrder
	RotateOrder RotateOrder

	Translate *V3
	Rotate    *V3 // Euler angles in radians, one per axis.
	Scale     *V3
}

// NewTransform creates an identity transform with ORDER_SRT/ORDER_XYZ
// defaults and unit scale.
func NewTransform() *Transform {
	t := &Transform{
		Matrix:      NewM4I(),
		Inverse:     NewM4I(),
		Order:       OrderSRT,
		RotateOrder: OrderXYZ,
		Translate:   &V3{},
		Rotate:      &V3{},
		Scale:       &V3{X: 1, Y: 1, Z: 1},
	}
	return t
}

// SetTranslate updates the translate channel and rebuilds the matrix.
// The updated transform t is returned.
func (t *Transform) SetTranslate(x, y, z float64) *Transform {
	t.Translate.SetS(x, y, z)
	return t.update()
}

// SetRotate updates the rotate channel (radians per axis) and rebuilds
// the matrix. The updated transform t is returned.
func (t *Transform) SetRotate(x, y, z float64) *Transform {
	t.Rotate.SetS(x, y, z)
	return t.update()
}

// SetScale updates the scale channel and rebuilds the matrix.
// The updated transform t is returned.
func (t *Transform) SetScale(x, y, z float64) *Transform {
	t.Scale.SetS(x, y, z)
	return t.update()
}

// SetTransformOrder changes how translate/rotate/scale are composed and
// rebuilds the matrix. The updated transform t is returned.
func (t *Transform) SetTransformOrder(order TransformOrder) *Transform {
	t.Order = order
	return t.update()
}

// SetRotateOrder changes how the per-axis rotations are composed and
// rebuilds the matrix. The updated transform t is returned.
func (t *Transform) SetRotateOrder(order RotateOrder) *Transform {
	t.RotateOrder = order
	return t.update()
}

// TransformPoint updates v to be point a transformed by t's matrix.
// The updated vector v is returned.
func (t *Transform) TransformPoint(v, a *V3) *V3 { return v.MultPointM4(a, t.Matrix) }

// TransformVector updates v to be direction a transformed by t's matrix
// (no translation). The updated vector v is returned.
func (t *Transform) TransformVector(v, a *V3) *V3 { return v.MultDirM4(a, t.Matrix) }

// TransformBounds updates box b to bound box a after transform t is
// applied to each of its corners. The updated box b is returned.
func (t *Transform) TransformBounds(b, a *Box) *Box { return b.Transform(a, t.Matrix) }

// TransformPointInverse updates v to be point a transformed by t's
// cached inverse matrix. The updated vector v is returned.
func (t *Transform) TransformPointInverse(v, a *V3) *V3 { return v.MultPointM4(a, t.Inverse) }

// TransformVectorInverse updates v to be direction a transformed by t's
// cached inverse matrix. The updated vector v is returned.
func (t *Transform) TransformVectorInverse(v, a *V3) *V3 { return v.MultDirM4(a, t.Inverse) }

// TransformBoundsInverse updates box b to bound box a after t's inverse
// is applied to each of its corners. The updated box b is returned.
func (t *Transform) TransformBoundsInverse(b, a *Box) *Box { return b.Transform(a, t.Inverse) }

// update rebuilds Matrix and Inverse from the translate/rotate/scale
// channels according to Order and RotateOrder. The composed rotation
// always pre-multiplies the three axis matrices in RotateOrder, then the
// translate/scale/rotate matrices are composed in Order, row-vector
// convention so the first-applied factor is leftmost.
func (t *Transform) update() *Transform {
	tm := NewM4().SetTranslate(t.Translate.X, t.Translate.Y, t.Translate.Z)
	sm := NewM4().SetScale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	rx := NewM4().SetRotateX(t.Rotate.X)
	ry := NewM4().SetRotateY(t.Rotate.Y)
	rz := NewM4().SetRotateZ(t.Rotate.Z)

	var rm *M4
	switch t.RotateOrder {
	case OrderXYZ:
		rm = NewM4().Mult(rx, NewM4().Mult(ry, rz))
	case OrderXZY:
		rm = NewM4().Mult(rx, NewM4().Mult(rz, ry))
	case OrderYXZ:
		rm = NewM4().Mult(ry, NewM4().Mult(rx, rz))
	case OrderYZX:
		rm = NewM4().Mult(ry, NewM4().Mult(rz, rx))
	case OrderZXY:
		rm = NewM4().Mult(rz, NewM4().Mult(rx, ry))
	default: // OrderZYX
		rm = NewM4().Mult(rz, NewM4().Mult(ry, rx))
	}

	var m *M4
	switch t.Order {
	case OrderSRT:
		m = NewM4().Mult(sm, NewM4().Mult(rm, tm))
	case OrderSTR:
		m = NewM4().Mult(sm, NewM4().Mult(tm, rm))
	case OrderRST:
		m = NewM4().Mult(rm, NewM4().Mult(sm, tm))
	case OrderRTS:
		m = NewM4().Mult(rm, NewM4().Mult(tm, sm))
	case OrderTRS:
		m = NewM4().Mult(tm, NewM4().Mult(rm, sm))
	default: // OrderTSR
		m = NewM4().Mult(tm, NewM4().Mult(sm, rm))
	}

	t.Matrix.Set(m)
	t.Inverse.Inv(m)
	return t
}

// ============================================================================
// TransformSampleList

// transformSample is one keyed sample of a single channel (translate,
// rotate, or scale) at a point in time.
type transformSample struct {
	v    V3
	time float64
}

// maxTransformSamples bounds how many motion samples a single channel
// keeps. Scenes sampling faster than this are expected to thin their own
// keys; the renderer only needs enough samples to reconstruct a smooth
// shutter-interval motion blur.
const maxTransformSamples = 8

// TransformSampleList accumulates keyed translate/rotate/scale samples
// over time for a moving object and produces an interpolated Transform
// for any requested time via Lerp. Samples are kept sorted by time with
// duplicate times overwriting the earlier sample.
type TransformSampleList struct {
	translate []transformSample
	rotate    []transformSample
	scale     []transformSample

	Order       TransformOrder
	RotateOrder RotateOrder
}

// NewTransformSampleList creates a sample list with a single identity
// sample at time 0, matching Transform's defaults.
func NewTransformSampleList() *TransformSampleList {
	l := &TransformSampleList{Order: OrderSRT, RotateOrder: OrderXYZ}
	l.scale = append(l.scale, transformSample{v: V3{X: 1, Y: 1, Z: 1}, time: 0})
	return l
}

// PushTranslate adds a translate sample at the given time.
func (l *TransformSampleList) PushTranslate(x, y, z, time float64) {
	l.translate = pushSample(l.translate, transformSample{v: V3{X: x, Y: y, Z: z}, time: time})
}

// PushRotate adds a rotate sample (radians per axis) at the given time.
func (l *TransformSampleList) PushRotate(x, y, z, time float64) {
	l.rotate = pushSample(l.rotate, transformSample{v: V3{X: x, Y: y, Z: z}, time: time})
}

// PushScale adds a scale sample at the given time.
func (l *TransformSampleList) PushScale(x, y, z, time float64) {
	l.scale = pushSample(l.scale, transformSample{v: V3{X: x, Y: y, Z: z}, time: time})
}

// pushSample inserts s into samples keeping the slice sorted by time; a
// sample at an existing time overwrites it rather than duplicating. The
// slice is capped at maxTransformSamples by dropping the oldest sample.
func pushSample(samples []transformSample, s transformSample) []transformSample {
	i := sort.Search(len(samples), func(i int) bool { return samples[i].time >= s.time })
	if i < len(samples) && samples[i].time == s.time {
		samples[i] = s
		return samples
	}
	samples = append(samples, transformSample{})
	copy(samples[i+1:], samples[i:])
	samples[i] = s
	if len(samples) > maxTransformSamples {
		samples = samples[len(samples)-maxTransformSamples:]
	}
	return samples
}

// lerpChannel returns the linear interpolation of a channel's samples at
// time, clamping to the first/last sample outside their range. A channel
// with no samples falls back to dflt.
func lerpChannel(samples []transformSample, time float64, dflt V3) V3 {
	switch len(samples) {
	case 0:
		return dflt
	case 1:
		return samples[0].v
	}
	if time <= samples[0].time {
		return samples[0].v
	}
	last := len(samples) - 1
	if time >= samples[last].time {
		return samples[last].v
	}
	i := sort.Search(len(samples), func(i int) bool { return samples[i].time >= time })
	a, b := samples[i-1], samples[i]
	ratio := (time - a.time) / (b.time - a.time)
	v := V3{}
	v.Lerp(&a.v, &b.v, ratio)
	return v
}

// Lerp returns a Transform interpolated from the translate/rotate/scale
// channels at the given time. No slerp is performed on rotation: each
// Euler axis is interpolated independently and linearly, same as the
// original renderer's property sampler.
func (l *TransformSampleList) Lerp(time float64) *Transform {
	tr := lerpChannel(l.translate, time, V3{})
	rt := lerpChannel(l.rotate, time, V3{})
	sc := lerpChannel(l.scale, time, V3{X: 1, Y: 1, Z: 1})

	t := NewTransform()
	t.Order = l.Order
	t.RotateOrder = l.RotateOrder
	t.SetTranslate(tr.X, tr.Y, tr.Z)
	t.SetRotate(rt.X, rt.Y, rt.Z)
	t.SetScale(sc.X, sc.Y, sc.Z)
	return t
}
