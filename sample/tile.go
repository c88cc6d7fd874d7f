// Package sample implements the renderer's sub-pixel sampling
// pipeline: the Tiler that carves a render region into work units, the
// fixed and adaptive grid samplers that populate each tile with
// screen-space samples, and the reconstruction Filter that turns a
// tile's samples back into pixels.
package sample

import "math"

// Region is an integer pixel rectangle, [X0,X1) x [Y0,Y1).
type Region struct {
	X0, Y0, X1, Y1 int
}

func (r Region) Width() int  { return r.X1 - r.X0 }
func (r Region) Height() int { return r.Y1 - r.Y0 }

// Tile is one unit of parallel work: an id (for deterministic ordering
// and logging) plus the pixel region it covers.
type Tile struct {
	ID int
	Region
}

// Tiler divides a (xres, yres) image into (tileW, tileH) tiles and
// emits one Tile record per cell of the division that overlaps a given
// render region, each clipped to that region.
type Tiler struct {
	xres, yres     int
	tileW, tileH   int
}

// NewTiler configures the division; GenerateTiles can be called any
// number of times afterward (e.g. once per frame) with different
// regions.
func NewTiler(xres, yres, tileW, tileH int) *Tiler {
	return &Tiler{xres: xres, yres: yres, tileW: tileW, tileH: tileH}
}

// GenerateTiles returns tiles in scan order (top row left-to-right,
// then down), clipped to region and to the image bounds.
func (t *Tiler) GenerateTiles(region Region) []Tile {
	xmin, ymin := maxInt(0, region.X0), maxInt(0, region.Y0)
	xmax, ymax := minInt(t.xres, region.X1), minInt(t.yres, region.Y1)
	if xmin >= xmax || ymin >= ymax {
		return nil
	}

	xMinTile := int(math.Floor(float64(xmin) / float64(t.tileW)))
	yMinTile := int(math.Floor(float64(ymin) / float64(t.tileH)))
	xMaxTile := int(math.Ceil(float64(xmax) / float64(t.tileW)))
	yMaxTile := int(math.Ceil(float64(ymax) / float64(t.tileH)))

	var tiles []Tile
	id := 0
	for y := yMinTile; y < yMaxTile; y++ {
		for x := xMinTile; x < xMaxTile; x++ {
			r := Region{
				X0: maxInt(x*t.tileW, xmin),
				Y0: maxInt(y*t.tileH, ymin),
				X1: minInt((x+1)*t.tileW, xmax),
				Y1: minInt((y+1)*t.tileH, ymax),
			}
			tiles = append(tiles, Tile{ID: id, Region: r})
			id++
		}
	}
	return tiles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
