// Geometry file framing: mesh, curve, and point-cloud files share one
// attribute-list layout — a magic, a version, one or more element
// counts, then for each declared attribute an 8-bit length-prefixed
// name followed by its data laid out by the type that name implies.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
)

var (
	ErrBadMagic        = errors.New("format: bad magic")
	ErrUnknownAttr     = errors.New("format: unrecognized attribute name")
	ErrAttrNameTooLong = errors.New("format: attribute name longer than 32 bytes")
)

const maxAttrNameLen = 32

func readMagic(r io.Reader, want string) error {
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	if string(buf) != want {
		return fmt.Errorf("%w: want %q, got %q", ErrBadMagic, want, buf)
	}
	return nil
}

func writeMagic(w io.Writer, magic string) error {
	_, err := w.Write([]byte(magic))
	return err
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
func writeI32(w io.Writer, v int32) error { return binary.Write(w, binary.LittleEndian, v) }

func readAttrName(r io.Reader) (string, error) {
	var n uint8
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if int(n) > maxAttrNameLen {
		return "", ErrAttrNameTooLong
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeAttrName(w io.Writer, name string) error {
	if len(name) > maxAttrNameLen {
		return ErrAttrNameTooLong
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(name))); err != nil {
		return err
	}
	_, err := w.Write([]byte(name))
	return err
}

func readF32s(r io.Reader, n int) ([]float32, error) {
	v := make([]float32, n)
	err := binary.Read(r, binary.LittleEndian, v)
	return v, err
}
func readF64s(r io.Reader, n int) ([]float64, error) {
	v := make([]float64, n)
	err := binary.Read(r, binary.LittleEndian, v)
	return v, err
}
func readI32s(r io.Reader, n int) ([]int32, error) {
	v := make([]int32, n)
	err := binary.Read(r, binary.LittleEndian, v)
	return v, err
}
func writeF32s(w io.Writer, v []float32) error { return binary.Write(w, binary.LittleEndian, v) }
func writeF64s(w io.Writer, v []float64) error { return binary.Write(w, binary.LittleEndian, v) }
func writeI32s(w io.Writer, v []int32) error   { return binary.Write(w, binary.LittleEndian, v) }

// ---- Mesh (*.mesh) -----------------------------------------------------

const meshMagic = "MESH"
const meshVersion = 1

// ReadMesh decodes a *.mesh stream into a prim.Mesh, recognizing the
// documented vertex attributes (P, N, uv, velocity, Cd) and face
// attributes (indices, group_id). An unrecognized attribute name stops
// the read with an error wrapping ErrUnknownAttr.
func ReadMesh(r io.Reader) (*prim.Mesh, error) {
	if err := readMagic(r, meshMagic); err != nil {
		return nil, err
	}
	if _, err := readI32(r); err != nil { // version, unused
		return nil, err
	}
	nverts, err := readI32(r)
	if err != nil {
		return nil, err
	}
	nvattrs, err := readI32(r)
	if err != nil {
		return nil, err
	}
	nfaces, err := readI32(r)
	if err != nil {
		return nil, err
	}
	nfattrs, err := readI32(r)
	if err != nil {
		return nil, err
	}

	m := prim.NewMesh()
	for i := int32(0); i < nvattrs; i++ {
		name, err := readAttrName(r)
		if err != nil {
			return nil, err
		}
		switch name {
		case "P":
			p, err := readV3s(r, int(nverts))
			if err != nil {
				return nil, err
			}
			m.P = p
		case "N":
			n, err := readV3s(r, int(nverts))
			if err != nil {
				return nil, err
			}
			m.N = n
		case "uv":
			flat, err := readF32s(r, int(nverts)*2)
			if err != nil {
				return nil, err
			}
			m.UV = make([][2]float64, nverts)
			for i := range m.UV {
				m.UV[i] = [2]float64{float64(flat[2*i]), float64(flat[2*i+1])}
			}
		case "velocity":
			v, err := readV3s(r, int(nverts))
			if err != nil {
				return nil, err
			}
			m.Vel = v
		case "Cd":
			flat, err := readF32s(r, int(nverts)*3)
			if err != nil {
				return nil, err
			}
			m.Cd = make([]lin.V3, nverts)
			for i := range m.Cd {
				m.Cd[i] = lin.V3{X: float64(flat[3*i]), Y: float64(flat[3*i+1]), Z: float64(flat[3*i+2])}
			}
		default:
			return nil, fmt.Errorf("%w: vertex attribute %q", ErrUnknownAttr, name)
		}
	}

	m.Faces = make([]prim.Face, nfaces)
	for i := int32(0); i < nfattrs; i++ {
		name, err := readAttrName(r)
		if err != nil {
			return nil, err
		}
		switch name {
		case "indices":
			flat, err := readI32s(r, int(nfaces)*3)
			if err != nil {
				return nil, err
			}
			for i := range m.Faces {
				m.Faces[i].Indices = [3]int32{flat[3*i], flat[3*i+1], flat[3*i+2]}
			}
		case "group_id":
			gid, err := readI32s(r, int(nfaces))
			if err != nil {
				return nil, err
			}
			for i := range m.Faces {
				m.Faces[i].GroupID = gid[i]
			}
		default:
			return nil, fmt.Errorf("%w: face attribute %q", ErrUnknownAttr, name)
		}
	}
	return m, nil
}

func readV3s(r io.Reader, n int) ([]lin.V3, error) {
	flat, err := readF64s(r, n*3)
	if err != nil {
		return nil, err
	}
	out := make([]lin.V3, n)
	for i := range out {
		out[i] = lin.V3{X: flat[3*i], Y: flat[3*i+1], Z: flat[3*i+2]}
	}
	return out, nil
}

func writeV3s(w io.Writer, v []lin.V3) error {
	flat := make([]float64, len(v)*3)
	for i, p := range v {
		flat[3*i], flat[3*i+1], flat[3*i+2] = p.X, p.Y, p.Z
	}
	return writeF64s(w, flat)
}

// WriteMesh encodes m in the *.mesh layout, writing only the vertex
// attributes actually populated; the face attributes indices and
// group_id are always written.
func WriteMesh(w io.Writer, m *prim.Mesh) error {
	if err := writeMagic(w, meshMagic); err != nil {
		return err
	}
	if err := writeI32(w, meshVersion); err != nil {
		return err
	}
	if err := writeI32(w, int32(len(m.P))); err != nil {
		return err
	}

	type vattr struct {
		name string
		enc  func(io.Writer) error
	}
	var vattrs []vattr
	if m.P != nil {
		vattrs = append(vattrs, vattr{"P", func(w io.Writer) error { return writeV3s(w, m.P) }})
	}
	if m.N != nil {
		vattrs = append(vattrs, vattr{"N", func(w io.Writer) error { return writeV3s(w, m.N) }})
	}
	if m.UV != nil {
		vattrs = append(vattrs, vattr{"uv", func(w io.Writer) error {
			flat := make([]float32, len(m.UV)*2)
			for i, uv := range m.UV {
				flat[2*i], flat[2*i+1] = float32(uv[0]), float32(uv[1])
			}
			return writeF32s(w, flat)
		}})
	}
	if m.Vel != nil {
		vattrs = append(vattrs, vattr{"velocity", func(w io.Writer) error { return writeV3s(w, m.Vel) }})
	}
	if m.Cd != nil {
		vattrs = append(vattrs, vattr{"Cd", func(w io.Writer) error {
			flat := make([]float32, len(m.Cd)*3)
			for i, c := range m.Cd {
				flat[3*i], flat[3*i+1], flat[3*i+2] = float32(c.X), float32(c.Y), float32(c.Z)
			}
			return writeF32s(w, flat)
		}})
	}

	if err := writeI32(w, int32(len(vattrs))); err != nil {
		return err
	}
	if err := writeI32(w, int32(len(m.Faces))); err != nil {
		return err
	}

	fattrs := []vattr{
		{"indices", func(w io.Writer) error {
			flat := make([]int32, len(m.Faces)*3)
			for i, f := range m.Faces {
				flat[3*i], flat[3*i+1], flat[3*i+2] = f.Indices[0], f.Indices[1], f.Indices[2]
			}
			return writeI32s(w, flat)
		}},
		{"group_id", func(w io.Writer) error {
			flat := make([]int32, len(m.Faces))
			for i, f := range m.Faces {
				flat[i] = f.GroupID
			}
			return writeI32s(w, flat)
		}},
	}
	if err := writeI32(w, int32(len(fattrs))); err != nil {
		return err
	}

	for _, a := range vattrs {
		if err := writeAttrName(w, a.name); err != nil {
			return err
		}
		if err := a.enc(w); err != nil {
			return err
		}
	}
	for _, a := range fattrs {
		if err := writeAttrName(w, a.name); err != nil {
			return err
		}
		if err := a.enc(w); err != nil {
			return err
		}
	}
	return nil
}

// ---- Curve (*.crv) and point cloud (*.ptc) -----------------------------
//
// Both follow the mesh file's attribute-list framing (magic, version,
// element count, attribute count, then named attributes) applied to
// their own per-strand / per-point data instead of per-vertex data.

const curveMagic = "CURV"
const curveVersion = 1

// ReadCurve decodes a *.crv stream: per-strand "cp" (4 control points),
// "width" (root/tip), and optional "velocity".
func ReadCurve(r io.Reader) (*prim.Curve, error) {
	if err := readMagic(r, curveMagic); err != nil {
		return nil, err
	}
	if _, err := readI32(r); err != nil {
		return nil, err
	}
	n, err := readI32(r)
	if err != nil {
		return nil, err
	}
	nattrs, err := readI32(r)
	if err != nil {
		return nil, err
	}

	c := prim.NewCurve()
	for i := int32(0); i < nattrs; i++ {
		name, err := readAttrName(r)
		if err != nil {
			return nil, err
		}
		switch name {
		case "cp":
			flat, err := readV3s(r, int(n)*4)
			if err != nil {
				return nil, err
			}
			c.CP = make([][4]lin.V3, n)
			for i := range c.CP {
				copy(c.CP[i][:], flat[4*i:4*i+4])
			}
		case "velocity":
			flat, err := readV3s(r, int(n)*4)
			if err != nil {
				return nil, err
			}
			c.Vel = make([][4]lin.V3, n)
			for i := range c.Vel {
				copy(c.Vel[i][:], flat[4*i:4*i+4])
			}
		case "width":
			flat, err := readF64s(r, int(n)*2)
			if err != nil {
				return nil, err
			}
			c.Width = make([][2]float64, n)
			for i := range c.Width {
				c.Width[i] = [2]float64{flat[2*i], flat[2*i+1]}
			}
		default:
			return nil, fmt.Errorf("%w: curve attribute %q", ErrUnknownAttr, name)
		}
	}
	return c, nil
}

// WriteCurve encodes c in the *.crv layout.
func WriteCurve(w io.Writer, c *prim.Curve) error {
	if err := writeMagic(w, curveMagic); err != nil {
		return err
	}
	if err := writeI32(w, curveVersion); err != nil {
		return err
	}
	if err := writeI32(w, int32(len(c.CP))); err != nil {
		return err
	}

	nattrs := int32(1) // cp is mandatory
	if c.Width != nil {
		nattrs++
	}
	if c.Vel != nil {
		nattrs++
	}
	if err := writeI32(w, nattrs); err != nil {
		return err
	}

	flattenCP := func(cp [][4]lin.V3) []lin.V3 {
		flat := make([]lin.V3, 0, len(cp)*4)
		for _, q := range cp {
			flat = append(flat, q[0], q[1], q[2], q[3])
		}
		return flat
	}

	if err := writeAttrName(w, "cp"); err != nil {
		return err
	}
	if err := writeV3s(w, flattenCP(c.CP)); err != nil {
		return err
	}
	if c.Width != nil {
		if err := writeAttrName(w, "width"); err != nil {
			return err
		}
		flat := make([]float64, len(c.Width)*2)
		for i, wd := range c.Width {
			flat[2*i], flat[2*i+1] = wd[0], wd[1]
		}
		if err := writeF64s(w, flat); err != nil {
			return err
		}
	}
	if c.Vel != nil {
		if err := writeAttrName(w, "velocity"); err != nil {
			return err
		}
		if err := writeV3s(w, flattenCP(c.Vel)); err != nil {
			return err
		}
	}
	return nil
}

const pointCloudMagic = "PTCL"
const pointCloudVersion = 1

// ReadPointCloud decodes a *.ptc stream: per-point "P", "radius", and
// optional "velocity".
func ReadPointCloud(r io.Reader) (*prim.PointCloud, error) {
	if err := readMagic(r, pointCloudMagic); err != nil {
		return nil, err
	}
	if _, err := readI32(r); err != nil {
		return nil, err
	}
	n, err := readI32(r)
	if err != nil {
		return nil, err
	}
	nattrs, err := readI32(r)
	if err != nil {
		return nil, err
	}

	pc := prim.NewPointCloud()
	for i := int32(0); i < nattrs; i++ {
		name, err := readAttrName(r)
		if err != nil {
			return nil, err
		}
		switch name {
		case "P":
			p, err := readV3s(r, int(n))
			if err != nil {
				return nil, err
			}
			pc.P = p
		case "radius":
			rad, err := readF64s(r, int(n))
			if err != nil {
				return nil, err
			}
			pc.Radius = rad
		case "velocity":
			v, err := readV3s(r, int(n))
			if err != nil {
				return nil, err
			}
			pc.Vel = v
		default:
			return nil, fmt.Errorf("%w: point cloud attribute %q", ErrUnknownAttr, name)
		}
	}
	return pc, nil
}

// WritePointCloud encodes pc in the *.ptc layout.
func WritePointCloud(w io.Writer, pc *prim.PointCloud) error {
	if err := writeMagic(w, pointCloudMagic); err != nil {
		return err
	}
	if err := writeI32(w, pointCloudVersion); err != nil {
		return err
	}
	if err := writeI32(w, int32(len(pc.P))); err != nil {
		return err
	}

	nattrs := int32(2) // P, radius
	if pc.Vel != nil {
		nattrs++
	}
	if err := writeI32(w, nattrs); err != nil {
		return err
	}

	if err := writeAttrName(w, "P"); err != nil {
		return err
	}
	if err := writeV3s(w, pc.P); err != nil {
		return err
	}
	if err := writeAttrName(w, "radius"); err != nil {
		return err
	}
	if err := writeF64s(w, pc.Radius); err != nil {
		return err
	}
	if pc.Vel != nil {
		if err := writeAttrName(w, "velocity"); err != nil {
			return err
		}
		if err := writeV3s(w, pc.Vel); err != nil {
			return err
		}
	}
	return nil
}
