package accel

import (
	"math"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

// Grid is a uniform-grid accelerator: primitives are binned into a 3D
// cell array sized from the primitive count, then a ray walks the grid
// cell-by-cell via a 3D DDA.
type Grid struct {
	set    prim.PrimitiveSet
	bounds *lin.Box
	nx, ny, nz int
	cellWidth  lin.V3
	cells      [][]int32 // nx*ny*nz, each a list of primitive ids touching the cell
	built      bool
}

// NewGrid wraps set; call Build before Intersect.
func NewGrid(set prim.PrimitiveSet) *Grid { return &Grid{set: set} }

func (g *Grid) Bounds() *lin.Box { return g.bounds }

// Build computes a cell resolution of roughly 3*cbrt(N) per axis from
// the longest bounding-box axis, clamped to [1, 512], then inserts each
// primitive into every cell its (padded) bounds touches, confirmed by
// PrimitiveSet.BoxIntersect so over-conservative insertion is avoided.
func (g *Grid) Build() error {
	if g.built {
		return ErrAlreadyBuilt
	}
	n := g.set.PrimitiveCount()
	g.bounds = g.set.Bounds()
	g.bounds.Expand(prim.BoundsPadding)

	diag := g.bounds.Diagonal()
	maxWidth := lin.Max3(diag.X, diag.Y, diag.Z)
	if maxWidth <= 0 {
		maxWidth = 1
	}
	ncellsPerUnit := 3 * math.Cbrt(float64(n)) / maxWidth

	g.nx = clampCells(int(ncellsPerUnit * diag.X))
	g.ny = clampCells(int(ncellsPerUnit * diag.Y))
	g.nz = clampCells(int(ncellsPerUnit * diag.Z))

	g.cellWidth = lin.V3{X: diag.X / float64(g.nx), Y: diag.Y / float64(g.ny), Z: diag.Z / float64(g.nz)}
	g.cells = make([][]int32, g.nx*g.ny*g.nz)

	for i := 0; i < n; i++ {
		b := g.set.PrimitiveBounds(i)
		x0, y0, z0 := g.cellIndex(b.Min)
		x1, y1, z1 := g.cellIndex(b.Max)
		for z := z0; z <= z1; z++ {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					cellBox := g.cellBox(x, y, z)
					if g.set.BoxIntersect(i, cellBox) {
						idx := g.cellAt(x, y, z)
						g.cells[idx] = append(g.cells[idx], int32(i))
					}
				}
			}
		}
	}

	g.built = true
	return nil
}

func clampCells(n int) int {
	if n < 1 {
		return 1
	}
	if n > 512 {
		return 512
	}
	return n
}

func (g *Grid) cellIndex(p *lin.V3) (x, y, z int) {
	x = clampIndex(int((p.X-g.bounds.Min.X)/g.cellWidth.X), g.nx)
	y = clampIndex(int((p.Y-g.bounds.Min.Y)/g.cellWidth.Y), g.ny)
	z = clampIndex(int((p.Z-g.bounds.Min.Z)/g.cellWidth.Z), g.nz)
	return
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func (g *Grid) cellAt(x, y, z int) int { return (z*g.ny+y)*g.nx + x }

func (g *Grid) cellBox(x, y, z int) *lin.Box {
	min := lin.V3{
		X: g.bounds.Min.X + float64(x)*g.cellWidth.X,
		Y: g.bounds.Min.Y + float64(y)*g.cellWidth.Y,
		Z: g.bounds.Min.Z + float64(z)*g.cellWidth.Z,
	}
	max := lin.V3{X: min.X + g.cellWidth.X, Y: min.Y + g.cellWidth.Y, Z: min.Z + g.cellWidth.Z}
	return lin.NewBox(&min, &max)
}

// ddaAxis holds the 3D-DDA marching state for one axis.
type ddaAxis struct {
	cell     int
	step     int
	end      int
	tNext    float64
	tDelta   float64
}

func newDDAAxis(orig, dir, boxMin, cellWidth float64, n int, tHit float64) ddaAxis {
	cell := clampIndex(int((orig+tHit*dir-boxMin)/cellWidth), n)
	switch {
	case dir > 0:
		next := boxMin + float64(cell+1)*cellWidth
		return ddaAxis{cell: cell, step: 1, end: n, tNext: (next - orig) / dir, tDelta: cellWidth / dir}
	case dir < 0:
		next := boxMin + float64(cell)*cellWidth
		return ddaAxis{cell: cell, step: -1, end: -1, tNext: (next - orig) / dir, tDelta: cellWidth / -dir}
	default:
		return ddaAxis{cell: cell, step: 0, end: -1, tNext: lin.Large, tDelta: 0}
	}
}

// Intersect walks the grid cell-by-cell along ray, testing only
// primitives listed in the current cell and accepting the first hit
// whose point lies inside that cell's box, which avoids double-hits
// across adjacent cells that both contain the same primitive.
func (g *Grid) Intersect(ray *lin.Ray, time float64) (bool, *prim.Intersection) {
	boxHit, tminHit, tmaxHit := lin.BoxRayIntersect(g.bounds, ray.Orig, ray.Dir, ray.Tmin, ray.Tmax)
	if !boxHit {
		return false, nil
	}
	tHit := math.Max(tminHit, ray.Tmin)
	tEnd := math.Min(tmaxHit, ray.Tmax)

	ax := newDDAAxis(ray.Orig.X, ray.Dir.X, g.bounds.Min.X, g.cellWidth.X, g.nx, tHit)
	ay := newDDAAxis(ray.Orig.Y, ray.Dir.Y, g.bounds.Min.Y, g.cellWidth.Y, g.ny, tHit)
	az := newDDAAxis(ray.Orig.Z, ray.Dir.Z, g.bounds.Min.Z, g.cellWidth.Z, g.nz, tHit)

	for {
		if ax.cell < 0 || ax.cell >= g.nx || ay.cell < 0 || ay.cell >= g.ny || az.cell < 0 || az.cell >= g.nz {
			return false, nil
		}

		idx := g.cellAt(ax.cell, ay.cell, az.cell)
		cellBox := g.cellBox(ax.cell, ay.cell, az.cell)
		best := prim.NewIntersection()
		hitAny := false
		for _, primID := range g.cells[idx] {
			if h, isect := g.set.RayIntersect(int(primID), ray, time); h {
				if cellBox.ContainsPoint(isect.P) && isect.THit < best.THit {
					best = isect
					hitAny = true
				}
			}
		}
		if hitAny {
			return true, best
		}

		// step to the neighbor with the smallest tNext
		switch {
		case ax.tNext <= ay.tNext && ax.tNext <= az.tNext:
			if ax.tNext > tEnd {
				return false, nil
			}
			ax.cell += ax.step
			if ax.cell == ax.end {
				return false, nil
			}
			ax.tNext += ax.tDelta
		case ay.tNext <= az.tNext:
			if ay.tNext > tEnd {
				return false, nil
			}
			ay.cell += ay.step
			if ay.cell == ay.end {
				return false, nil
			}
			ay.tNext += ay.tDelta
		default:
			if az.tNext > tEnd {
				return false, nil
			}
			az.cell += az.step
			if az.cell == az.end {
				return false, nil
			}
			az.tNext += az.tDelta
		}
	}
}
