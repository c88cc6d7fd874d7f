package prim

import (
	"math"

	"github.com/gazed/tracer/math/lin"
)

// Curve is a set of cubic-Bezier hair/fur strands, each with a root and
// tip width. Ray tests transform the strand's control points into a
// ray-aligned frame (ray origin at the frame origin, ray direction along
// +Z) then recursively split the Bezier until a bounding-cylinder test
// converges to a hit, following Nakamaru and Ono's "Ray Tracing for
// Curves Primitive" (WSCG 2002).
type Curve struct {
	CP    [][4]lin.V3 // 4 control points per strand
	Vel   [][4]lin.V3 // optional per-control-point velocity
	Width [][2]float64 // [root, tip] width per strand

	splitDepth []int
}

// NewCurve creates an empty curve set.
func NewCurve() *Curve { return &Curve{} }

func (c *Curve) PrimitiveCount() int { return len(c.CP) }

// Preprocess precomputes the recursive split depth for every strand from
// an epsilon relative to its max control-polygon radius, clamped to
// [1, 5]. Call once after CP/Width are populated and before rendering.
func (c *Curve) Preprocess() {
	c.splitDepth = make([]int, len(c.CP))
	for i := range c.CP {
		radius := curveMaxRadius(c.Width[i])
		c.splitDepth[i] = splitDepthLimit(c.CP[i], 2*radius/20)
	}
}

func splitDepthLimit(cp [4]lin.V3, epsilon float64) int {
	l0 := -1.0
	for i := 0; i < 2; i++ {
		xv := math.Abs(cp[i].X - 2*cp[i+1].X + cp[i+2].X)
		yv := math.Abs(cp[i].Y - 2*cp[i+1].Y + cp[i+2].Y)
		l0 = math.Max(l0, math.Max(xv, yv))
	}
	if l0 <= 0 || epsilon <= 0 {
		return 1
	}
	n := 4.0
	r0 := int(math.Log(math.Sqrt2*n*(n-1)*l0/(8*epsilon)) / math.Log(4))
	return int(lin.Clamp(float64(r0), 1, 5))
}

func curveMaxRadius(width [2]float64) float64 {
	return 0.5 * math.Max(width[0], width[1])
}

func curveWidthAt(width [2]float64, t float64) float64 {
	return lin.Lerp(width[0], width[1], t)
}

func (c *Curve) displaced(primID int, time float64) [4]lin.V3 {
	cp := c.CP[primID]
	if c.Vel == nil {
		return cp
	}
	v := c.Vel[primID]
	for i := range cp {
		cp[i].X += time * v[i].X
		cp[i].Y += time * v[i].Y
		cp[i].Z += time * v[i].Z
	}
	return cp
}

// worldToRay builds the matrix that maps world space into a frame where
// ray.orig is the origin and ray.dir (must be unit length) lies along
// +Z, following the original's compute_world_to_ray_matrix.
func worldToRay(orig, dir *lin.V3) *lin.M4 {
	ox, oy, oz := orig.X, orig.Y, orig.Z
	lx, ly, lz := dir.X, dir.Y, dir.Z

	d := math.Sqrt(lx*lx + lz*lz)
	dInv := 0.0
	if d != 0 {
		dInv = 1 / d
	}

	translate := lin.NewM4().SetTranslate(-ox, -oy, -oz)
	rotate := &lin.M4{
		Xx: lz * dInv, Xy: 0, Xz: -lx * dInv, Xw: 0,
		Yx: -lx * ly * dInv, Yy: d, Yz: -ly * lz * dInv, Yw: 0,
		Zx: lx, Zy: ly, Zz: lz, Zw: 0,
		Wx: 0, Wy: 0, Wz: 0, Ww: 1,
	}
	return lin.NewM4().Mult(translate, rotate)
}

func evalBezier3(cp [4]lin.V3, t float64) lin.V3 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	cc := 3 * u * t * t
	d := t * t * t
	return lin.V3{
		X: a*cp[0].X + b*cp[1].X + cc*cp[2].X + d*cp[3].X,
		Y: a*cp[0].Y + b*cp[1].Y + cc*cp[2].Y + d*cp[3].Y,
		Z: a*cp[0].Z + b*cp[1].Z + cc*cp[2].Z + d*cp[3].Z,
	}
}

func derivativeBezier3(cp [4]lin.V3, t float64) lin.V3 {
	u := 1 - t
	a := 2 * u * u
	b := 4 * u * t
	cc := 2 * t * t
	return lin.V3{
		X: a*(cp[1].X-cp[0].X) + b*(cp[2].X-cp[1].X) + cc*(cp[3].X-cp[2].X),
		Y: a*(cp[1].Y-cp[0].Y) + b*(cp[2].Y-cp[1].Y) + cc*(cp[3].Y-cp[2].Y),
		Z: a*(cp[1].Z-cp[0].Z) + b*(cp[2].Z-cp[1].Z) + cc*(cp[3].Z-cp[2].Z),
	}
}

func midPoint(a, b lin.V3) lin.V3 {
	return lin.V3{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

func splitBezier3(cp [4]lin.V3, width [2]float64) (leftCP, rightCP [4]lin.V3, leftW, rightW [2]float64) {
	midP := evalBezier3(cp, 0.5)
	midCP := midPoint(cp[1], cp[2])

	leftCP[0] = cp[0]
	leftCP[1] = midPoint(cp[0], cp[1])
	leftCP[2] = midPoint(leftCP[1], midCP)
	leftCP[3] = midP

	rightCP[3] = cp[3]
	rightCP[2] = midPoint(cp[3], cp[2])
	rightCP[1] = midPoint(rightCP[2], midCP)
	rightCP[0] = midP

	leftW[0] = width[0]
	leftW[1] = (width[0] + width[1]) / 2
	rightW[0] = leftW[1]
	rightW[1] = width[1]
	return
}

func bezier3Bounds(cp [4]lin.V3) *lin.Box {
	b := lin.NewBoxEmpty()
	for i := range cp {
		p := cp[i]
		b.AddPoint(&p)
	}
	return b
}

// convergeBezier3 recursively narrows [v0, vn] until depth reaches zero,
// then solves for the closest point on the line segment between the
// segment's endpoints that falls within its interpolated half-width in
// x/y and has a smaller z (ray-space depth) than the best hit so far.
func convergeBezier3(cp [4]lin.V3, width [2]float64, v0, vn float64, depth int, pHit float64) (hit bool, vHit, newPHit float64) {
	radius := curveMaxRadius(width)
	b := bezier3Bounds(cp)
	if b.Min.X >= radius || b.Max.X <= -radius ||
		b.Min.Y >= radius || b.Max.Y <= -radius ||
		b.Min.Z >= pHit || b.Max.Z <= 1e-6 {
		return false, 0, pHit
	}

	if depth == 0 {
		dir := lin.V3{X: cp[3].X - cp[0].X, Y: cp[3].Y - cp[0].Y}
		dP0 := lin.V3{X: cp[1].X - cp[0].X, Y: cp[1].Y - cp[0].Y}
		if dotXY(dir, dP0) < 0 {
			dP0.X, dP0.Y = -dP0.X, -dP0.Y
		}
		if -dotXY(dP0, lin.V3{X: cp[0].X, Y: cp[0].Y}) < 0 {
			return false, 0, pHit
		}

		dPn := lin.V3{X: cp[3].X - cp[2].X, Y: cp[3].Y - cp[2].Y}
		if dotXY(dir, dPn) < 0 {
			dPn.X, dPn.Y = -dPn.X, -dPn.Y
		}
		if dotXY(dPn, lin.V3{X: cp[3].X, Y: cp[3].Y}) < 0 {
			return false, 0, pHit
		}

		w := dir.X*dir.X + dir.Y*dir.Y
		if math.Abs(w) < 1e-6 {
			return false, 0, pHit
		}
		w = -(cp[0].X*dir.X + cp[0].Y*dir.Y) / w
		w = lin.Clamp(w, 0, 1)

		v := v0*(1-w) + vn*w
		radiusW := 0.5 * curveWidthAt(width, w)
		vP := evalBezier3(cp, w)
		if vP.X*vP.X+vP.Y*vP.Y >= radiusW*radiusW {
			return false, 0, pHit
		}
		if vP.Z <= 1e-6 || pHit < vP.Z {
			return false, 0, pHit
		}
		return true, v, vP.Z
	}

	vm := (v0 + vn) / 2
	leftCP, rightCP, leftW, rightW := splitBezier3(cp, width)

	hitLeft, vLeft, tLeft := convergeBezier3(leftCP, leftW, v0, vm, depth-1, pHit)
	best := pHit
	if hitLeft {
		best = tLeft
	}
	hitRight, vRight, tRight := convergeBezier3(rightCP, rightW, vm, vn, depth-1, best)

	switch {
	case hitLeft && hitRight:
		if tLeft < tRight {
			return true, vLeft, tLeft
		}
		return true, vRight, tRight
	case hitLeft:
		return true, vLeft, tLeft
	case hitRight:
		return true, vRight, tRight
	default:
		return false, 0, pHit
	}
}

func dotXY(a, b lin.V3) float64 { return a.X*b.X + a.Y*b.Y }

// RayIntersect implements the Nakamaru/Ono curve-ray test described
// above. The nearest hit's parametric position v along the strand and
// ray-space depth are converted back to world t_hit via the ray's
// (possibly non-unit) direction length.
func (c *Curve) RayIntersect(primID int, ray *lin.Ray, time float64) (bool, *Intersection) {
	rayScale := ray.Dir.Len()
	if rayScale == 0 {
		return false, nil
	}
	unitDir := &lin.V3{X: ray.Dir.X / rayScale, Y: ray.Dir.Y / rayScale, Z: ray.Dir.Z / rayScale}

	cp := c.displaced(primID, time)
	m := worldToRay(ray.Orig, unitDir)
	var rayCP [4]lin.V3
	for i := range cp {
		rayCP[i].MultPointM4(&cp[i], m)
	}

	depth := 1
	if c.splitDepth != nil {
		depth = c.splitDepth[primID]
	}
	hit, vHit, tHit := convergeBezier3(rayCP, c.Width[primID], 0, 1, depth, math.MaxFloat64)
	if !hit {
		return false, nil
	}

	isect := NewIntersection()
	isect.THit = tHit / rayScale
	if isect.THit < ray.Tmin || isect.THit > ray.Tmax {
		return false, nil
	}
	isect.P = ray.PointAt(isect.THit)
	isect.PrimID = primID
	isect.UV = [2]float64{vHit, vHit}
	dpdv := derivativeBezier3(cp, vHit)
	isect.DPdv = &dpdv
	return true, isect
}

// BoxIntersect recursively splits the strand (depth 5, matching the
// original's box_bezier3_intersect_recursive) and, at the leaf, tests
// the swept control-point segment bounds against box.
func (c *Curve) BoxIntersect(primID int, box *lin.Box) bool {
	return boxBezier3Recursive(box, c.CP[primID], 5)
}

func boxBezier3Recursive(box *lin.Box, cp [4]lin.V3, depth int) bool {
	if depth == 0 {
		b := bezier3Bounds(cp)
		return lin.BoxBoxIntersect(b, box)
	}
	leftCP, rightCP, _, _ := splitBezier3(cp, [2]float64{0, 0})
	if boxBezier3Recursive(box, leftCP, depth-1) {
		return true
	}
	return boxBezier3Recursive(box, rightCP, depth-1)
}

// PrimitiveBounds unions the strand's control-polygon bounds at time 0
// and at time 1 (full shutter), inflated by the strand's max radius.
func (c *Curve) PrimitiveBounds(primID int) *lin.Box {
	b := bezier3Bounds(c.CP[primID])
	if c.Vel != nil {
		b.AddBox(bezier3Bounds(c.displaced(primID, 1)))
	}
	b.Expand(curveMaxRadius(c.Width[primID]))
	return b
}

func (c *Curve) Bounds() *lin.Box {
	b := lin.NewBoxEmpty()
	for i := range c.CP {
		b.AddBox(c.PrimitiveBounds(i))
	}
	return b
}
