package accel

import (
	"sort"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

// bvhNode is either a leaf (PrimID >= 0, Left == Right == -1) or an
// interior node (PrimID == -1, both children set).
type bvhNode struct {
	Bounds      *lin.Box
	Left, Right int
	PrimID      int
}

// BVH is a median-split bounding volume hierarchy over a
// prim.PrimitiveSet, rotating the split axis x -> y -> z -> x as it
// descends.
type BVH struct {
	set    prim.PrimitiveSet
	nodes  []bvhNode
	bounds *lin.Box
	built  bool
}

// NewBVH wraps set; call Build before Intersect.
func NewBVH(set prim.PrimitiveSet) *BVH { return &BVH{set: set} }

type bvhPrimInfo struct {
	bounds   *lin.Box
	centroid *lin.V3
	index    int
}

// Build materializes per-primitive bounds/centroids and recursively
// splits them into a node tree. Build is idempotent-checked: calling it
// twice returns ErrAlreadyBuilt.
func (a *BVH) Build() error {
	if a.built {
		return ErrAlreadyBuilt
	}
	n := a.set.PrimitiveCount()
	infos := make([]bvhPrimInfo, n)
	for i := 0; i < n; i++ {
		b := a.set.PrimitiveBounds(i)
		infos[i] = bvhPrimInfo{bounds: b, centroid: b.Centroid(), index: i}
	}

	a.nodes = make([]bvhNode, 0, 2*n+1)
	if n > 0 {
		a.buildRange(infos, 0)
	}

	a.bounds = a.set.Bounds()
	a.bounds.Expand(prim.BoundsPadding)
	a.built = true
	return nil
}

// buildRange recursively splits infos (by median along a rotating axis)
// and appends nodes to a.nodes, returning the index of the node it just
// appended.
func (a *BVH) buildRange(infos []bvhPrimInfo, axis int) int {
	if len(infos) == 1 {
		idx := len(a.nodes)
		a.nodes = append(a.nodes, bvhNode{Bounds: infos[0].bounds, Left: -1, Right: -1, PrimID: infos[0].index})
		return idx
	}

	sort.Slice(infos, func(i, j int) bool {
		return axisOf(infos[i].centroid, axis) < axisOf(infos[j].centroid, axis)
	})

	lo, hi := axisOf(infos[0].centroid, axis), axisOf(infos[len(infos)-1].centroid, axis)
	mid := (lo + hi) / 2
	split := sort.Search(len(infos), func(i int) bool { return axisOf(infos[i].centroid, axis) >= mid })
	if split == 0 {
		split = 1
	}
	if split == len(infos) {
		split = len(infos) - 1
	}

	nextAxis := (axis + 1) % 3
	left := a.buildRange(infos[:split], nextAxis)
	right := a.buildRange(infos[split:], nextAxis)

	bounds := lin.NewBoxEmpty()
	bounds.AddBox(a.nodes[left].Bounds)
	bounds.AddBox(a.nodes[right].Bounds)

	idx := len(a.nodes)
	a.nodes = append(a.nodes, bvhNode{Bounds: bounds, Left: left, Right: right, PrimID: -1})
	return idx
}

func axisOf(v *lin.V3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Bounds returns the padded aggregate bounds computed by Build.
func (a *BVH) Bounds() *lin.Box { return a.bounds }

// Intersect traverses the tree iteratively with an explicit stack. On a
// HIT_BOTH interior node both children are pushed, right first so left
// is processed next (approximating the reference's "push right, descend
// left" without recursion).
func (a *BVH) Intersect(ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	if len(a.nodes) == 0 {
		return false, nil
	}
	best := prim.NewIntersection()
	hitAny := false
	stack := make([]int, 0, 64)
	stack = append(stack, len(a.nodes)-1)

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &a.nodes[idx]

		hit, _, _ := lin.BoxRayIntersect(node.Bounds, ray.Orig, ray.Dir, ray.Tmin, ray.Tmax)
		if !hit {
			continue
		}

		if node.Left == -1 && node.Right == -1 {
			if h, isect := a.set.RayIntersect(node.PrimID, ray, time); h && isect.THit < best.THit {
				best = isect
				hitAny = true
			}
			continue
		}

		stack = append(stack, node.Right)
		stack = append(stack, node.Left)
	}

	if !hitAny {
		return false, nil
	}
	return true, best
}
