package format

import (
	"image"
	"image/color"
	"io"
	"math"

	"golang.org/x/image/draw"
)

const mipMagic = "MIPM"
const mipVersion = 1

// Mipmap is a tiled, power-of-two-dimensioned image used for filtered
// texture lookups. Tiles are read on demand and the most recently
// fetched tile is cached, since texture lookups during shading are
// heavily locally coherent (adjacent samples land in the same tile).
type Mipmap struct {
	Width, Height, Channels, TileSize int
	xtiles, ytiles                    int

	r          io.ReaderAt
	dataStart  int64
	tileBytes  int64
	lastTX     int
	lastTY     int
	lastTile   []float32
	haveCached bool
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// BuildMipmap resamples src to power-of-two dimensions, the generator
// step run before writing a *.mip file. Each channel plane is scaled
// independently through golang.org/x/image/draw's bilinear scaler.
func BuildMipmap(src *Framebuffer) *Framebuffer {
	w := nextPowerOfTwo(src.width)
	h := nextPowerOfTwo(src.height)
	if w == src.width && h == src.height {
		return src
	}
	dst := NewFramebuffer(w, h, src.nchan)
	for z := 0; z < src.nchan; z++ {
		resampleChannel(src, dst, z)
	}
	return dst
}

// resampleChannel scales one channel plane from src to dst via
// draw.BiLinear. Values are normalized by the plane's largest value
// into a 16-bit intermediate image and rescaled back out afterward, so
// values above 1 survive the round trip; negative values come back as 0.
func resampleChannel(src, dst *Framebuffer, z int) {
	peak := float32(0)
	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			if v := src.At(x, y, z); v > peak {
				peak = v
			}
		}
	}
	if peak == 0 {
		peak = 1
	}

	srcImg := &channelImage{fb: src, z: z, scale: peak}
	dstImg := image.NewGray16(image.Rect(0, 0, dst.width, dst.height))
	draw.BiLinear.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)

	for y := 0; y < dst.height; y++ {
		for x := 0; x < dst.width; x++ {
			g := dstImg.Gray16At(x, y).Y
			dst.Set(x, y, z, float32(g)/65535*peak)
		}
	}
}

// channelImage adapts a single Framebuffer channel plane to
// image.Image so it can be driven through golang.org/x/image/draw.
type channelImage struct {
	fb    *Framebuffer
	z     int
	scale float32
}

func (c *channelImage) ColorModel() color.Model { return color.Gray16Model }
func (c *channelImage) Bounds() image.Rectangle { return image.Rect(0, 0, c.fb.width, c.fb.height) }
func (c *channelImage) At(x, y int) color.Color {
	v := clampFloat(c.fb.At(x, y, c.z)/c.scale, 0, 1)
	return color.Gray16{Y: uint16(v * 65535)}
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WriteMipmap writes fb (ideally already power-of-two, via
// BuildMipmap) as a tiled *.mip stream.
func WriteMipmap(w io.Writer, fb *Framebuffer, tileSize int) error {
	if err := writeMagic(w, mipMagic); err != nil {
		return err
	}
	if err := writeI32(w, mipVersion); err != nil {
		return err
	}
	if err := writeI32(w, int32(fb.width)); err != nil {
		return err
	}
	if err := writeI32(w, int32(fb.height)); err != nil {
		return err
	}
	if err := writeI32(w, int32(fb.nchan)); err != nil {
		return err
	}
	if err := writeI32(w, int32(tileSize)); err != nil {
		return err
	}

	xtiles := (fb.width + tileSize - 1) / tileSize
	ytiles := (fb.height + tileSize - 1) / tileSize

	tile := make([]float32, tileSize*tileSize*fb.nchan)
	for ty := 0; ty < ytiles; ty++ {
		for tx := 0; tx < xtiles; tx++ {
			for i := range tile {
				tile[i] = 0
			}
			for ly := 0; ly < tileSize; ly++ {
				y := ty*tileSize + ly
				if y >= fb.height {
					continue
				}
				for lx := 0; lx < tileSize; lx++ {
					x := tx*tileSize + lx
					if x >= fb.width {
						continue
					}
					for z := 0; z < fb.nchan; z++ {
						tile[(ly*tileSize+lx)*fb.nchan+z] = fb.At(x, y, z)
					}
				}
			}
			if err := writeF32s(w, tile); err != nil {
				return err
			}
		}
	}
	return nil
}

// OpenMipmap wraps r (already positioned immediately after the
// header-reading done by ReadMipmapHeader) for on-demand tile lookups.
func OpenMipmap(r io.ReaderAt, header Mipmap, dataStart int64) *Mipmap {
	m := header
	m.r = r
	m.dataStart = dataStart
	m.xtiles = (m.Width + m.TileSize - 1) / m.TileSize
	m.ytiles = (m.Height + m.TileSize - 1) / m.TileSize
	m.tileBytes = int64(m.TileSize*m.TileSize*m.Channels) * 4
	m.lastTX, m.lastTY = -1, -1
	return &m
}

// ReadMipmapHeader decodes a *.mip stream's fixed header, returning the
// header fields and the byte offset the tile data begins at (for a
// subsequent OpenMipmap over an io.ReaderAt).
func ReadMipmapHeader(r io.Reader) (Mipmap, int64, error) {
	if err := readMagic(r, mipMagic); err != nil {
		return Mipmap{}, 0, err
	}
	if _, err := readI32(r); err != nil {
		return Mipmap{}, 0, err
	}
	width, err := readI32(r)
	if err != nil {
		return Mipmap{}, 0, err
	}
	height, err := readI32(r)
	if err != nil {
		return Mipmap{}, 0, err
	}
	nchan, err := readI32(r)
	if err != nil {
		return Mipmap{}, 0, err
	}
	tileSize, err := readI32(r)
	if err != nil {
		return Mipmap{}, 0, err
	}
	const headerBytes = int64(len(mipMagic)) + 5*4
	return Mipmap{Width: int(width), Height: int(height), Channels: int(nchan), TileSize: int(tileSize)}, headerBytes, nil
}

func (m *Mipmap) loadTile(tx, ty int) error {
	if m.haveCached && tx == m.lastTX && ty == m.lastTY {
		return nil
	}
	idx := int64(ty*m.xtiles + tx)
	off := m.dataStart + idx*m.tileBytes

	buf := make([]byte, m.tileBytes)
	if _, err := m.r.ReadAt(buf, off); err != nil {
		return err
	}
	n := m.TileSize * m.TileSize * m.Channels
	if cap(m.lastTile) < n {
		m.lastTile = make([]float32, n)
	}
	m.lastTile = m.lastTile[:n]
	for i := 0; i < n; i++ {
		bits := uint32(buf[4*i]) | uint32(buf[4*i+1])<<8 | uint32(buf[4*i+2])<<16 | uint32(buf[4*i+3])<<24
		m.lastTile[i] = math.Float32frombits(bits)
	}
	m.lastTX, m.lastTY = tx, ty
	m.haveCached = true
	return nil
}

// At samples channel z at pixel (x, y), loading (and caching) the
// covering tile on demand.
func (m *Mipmap) At(x, y, z int) (float32, error) {
	tx, ty := x/m.TileSize, y/m.TileSize
	if err := m.loadTile(tx, ty); err != nil {
		return 0, err
	}
	lx, ly := x%m.TileSize, y%m.TileSize
	return m.lastTile[(ly*m.TileSize+lx)*m.Channels+z], nil
}
