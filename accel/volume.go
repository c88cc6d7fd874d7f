package accel

import (
	"sort"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

// VolumeBruteForce tests every volume against the ray with no spatial
// structure at all; fine for scenes with a handful of volume objects.
type VolumeBruteForce struct {
	volumes []*prim.Volume
	bounds  *lin.Box
	built   bool
}

// NewVolumeBruteForce wraps a fixed list of volumes.
func NewVolumeBruteForce(volumes []*prim.Volume) *VolumeBruteForce {
	return &VolumeBruteForce{volumes: volumes}
}

func (a *VolumeBruteForce) Build() error {
	if a.built {
		return ErrAlreadyBuilt
	}
	b := lin.NewBoxEmpty()
	for _, v := range a.volumes {
		b.AddBox(v.Bounds())
	}
	a.bounds = b
	a.built = true
	return nil
}

func (a *VolumeBruteForce) Bounds() *lin.Box { return a.bounds }

// Intersect never early-exits: every overlapping interval is returned,
// since volumes composite rather than occlude one another.
func (a *VolumeBruteForce) Intersect(ray *lin.Ray, time float64) *IntervalList {
	list := NewIntervalList()
	for _, v := range a.volumes {
		if hit, tmin, tmax := v.IntervalIntersect(ray); hit {
			list.Insert(Interval{TMin: tmin, TMax: tmax, Volume: v})
		}
	}
	return list
}

// volumeBVHNode mirrors bvhNode but leaves hold a volume index and
// intersect pushes an Interval instead of comparing THit.
type volumeBVHNode struct {
	Bounds      *lin.Box
	Left, Right int
	VolumeIdx   int
}

// VolumeBVH is the median-split BVH analogue for volume instances: the
// same construction as BVH, but every leaf query appends an Interval to
// the result instead of reducing to a single nearest hit.
type VolumeBVH struct {
	volumes []*prim.Volume
	nodes   []volumeBVHNode
	bounds  *lin.Box
	built   bool
}

// NewVolumeBVH wraps a fixed list of volumes.
func NewVolumeBVH(volumes []*prim.Volume) *VolumeBVH { return &VolumeBVH{volumes: volumes} }

func (a *VolumeBVH) Bounds() *lin.Box { return a.bounds }

type volumeInfo struct {
	bounds   *lin.Box
	centroid *lin.V3
	index    int
}

func (a *VolumeBVH) Build() error {
	if a.built {
		return ErrAlreadyBuilt
	}
	n := len(a.volumes)
	infos := make([]volumeInfo, n)
	for i, v := range a.volumes {
		b := v.Bounds()
		infos[i] = volumeInfo{bounds: b, centroid: b.Centroid(), index: i}
	}
	a.nodes = make([]volumeBVHNode, 0, 2*n+1)
	if n > 0 {
		a.buildRange(infos, 0)
	}
	b := lin.NewBoxEmpty()
	for _, v := range a.volumes {
		b.AddBox(v.Bounds())
	}
	a.bounds = b
	a.built = true
	return nil
}

func (a *VolumeBVH) buildRange(infos []volumeInfo, axis int) int {
	if len(infos) == 1 {
		idx := len(a.nodes)
		a.nodes = append(a.nodes, volumeBVHNode{Bounds: infos[0].bounds, Left: -1, Right: -1, VolumeIdx: infos[0].index})
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
	a.nodes = append(a.nodes, volumeBVHNode{Bounds: bounds, Left: left, Right: right, VolumeIdx: -1})
	return idx
}

// Intersect traverses every node whose bounds the ray touches and
// appends an Interval for each leaf volume hit; there is no pruning by
// nearest hit since all overlapping intervals must be returned.
func (a *VolumeBVH) Intersect(ray *lin.Ray, time float64) *IntervalList {
	list := NewIntervalList()
	if len(a.nodes) == 0 {
		return list
	}
	stack := make([]int, 0, 64)
	stack = append(stack, len(a.nodes)-1)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &a.nodes[idx]

		if hit, _, _ := lin.BoxRayIntersect(node.Bounds, ray.Orig, ray.Dir, ray.Tmin, ray.Tmax); !hit {
			continue
		}
		if node.Left == -1 && node.Right == -1 {
			v := a.volumes[node.VolumeIdx]
			if hit, tmin, tmax := v.IntervalIntersect(ray); hit {
				list.Insert(Interval{TMin: tmin, TMax: tmax, Volume: v})
			}
			continue
		}
		stack = append(stack, node.Right)
		stack = append(stack, node.Left)
	}
	return list
}
