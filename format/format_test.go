package format

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/prim"
	"github.com/gazed/tracer/shade"
)

// seekableBuffer adapts a growable byte slice to io.WriteSeeker for
// IFFWriter/WriteFJGeo, which need to backpatch earlier chunk sizes.
type seekableBuffer struct {
	buf []byte
	pos int64
}

func newSeekableBuffer() *seekableBuffer { return &seekableBuffer{} }

func (b *seekableBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.buf)) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case 0:
		base = 0
	case 1:
		base = b.pos
	case 2:
		base = int64(len(b.buf))
	default:
		return 0, errors.New("seekableBuffer: bad whence")
	}
	np := base + offset
	if np < 0 {
		return 0, errors.New("seekableBuffer: negative position")
	}
	b.pos = np
	return np, nil
}

func (b *seekableBuffer) Bytes() []byte { return b.buf }

func TestMeshWriteReadRoundTrip(t *testing.T) {
	m := prim.NewMesh()
	m.P = []lin.V3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	m.N = []lin.V3{{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}}
	m.Cd = []lin.V3{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	m.Faces = []prim.Face{{Indices: [3]int32{0, 1, 2}, GroupID: 2}}

	var buf bytes.Buffer
	if err := WriteMesh(&buf, m); err != nil {
		t.Fatalf("WriteMesh: %v", err)
	}
	got, err := ReadMesh(&buf)
	if err != nil {
		t.Fatalf("ReadMesh: %v", err)
	}
	if len(got.P) != 3 || len(got.Faces) != 1 {
		t.Fatalf("round trip shape = %d verts, %d faces", len(got.P), len(got.Faces))
	}
	if got.Faces[0].GroupID != 2 {
		t.Errorf("GroupID = %d, want 2", got.Faces[0].GroupID)
	}
	if got.P[1].X != 1 {
		t.Errorf("P[1].X = %v, want 1", got.P[1].X)
	}
	if got.Cd == nil || got.Cd[1].Y != 1 {
		t.Errorf("Cd not preserved: %+v", got.Cd)
	}
}

func TestCurveWriteReadRoundTrip(t *testing.T) {
	c := prim.NewCurve()
	c.CP = [][4]lin.V3{{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 2, Z: 0}, {X: 0, Y: 3, Z: 0},
	}}
	c.Width = [][2]float64{{0.1, 0.02}}

	var buf bytes.Buffer
	if err := WriteCurve(&buf, c); err != nil {
		t.Fatalf("WriteCurve: %v", err)
	}
	got, err := ReadCurve(&buf)
	if err != nil {
		t.Fatalf("ReadCurve: %v", err)
	}
	if len(got.CP) != 1 || got.CP[0][3].Y != 3 {
		t.Errorf("round-tripped control points wrong: %+v", got.CP)
	}
	if got.Width[0][0] != 0.1 || got.Width[0][1] != 0.02 {
		t.Errorf("round-tripped width wrong: %+v", got.Width)
	}
}

func TestPointCloudWriteReadRoundTrip(t *testing.T) {
	pc := prim.NewPointCloud()
	pc.P = []lin.V3{{X: 1, Y: 2, Z: 3}}
	pc.Radius = []float64{0.5}

	var buf bytes.Buffer
	if err := WritePointCloud(&buf, pc); err != nil {
		t.Fatalf("WritePointCloud: %v", err)
	}
	got, err := ReadPointCloud(&buf)
	if err != nil {
		t.Fatalf("ReadPointCloud: %v", err)
	}
	if len(got.P) != 1 || got.P[0].Z != 3 || got.Radius[0] != 0.5 {
		t.Errorf("round trip mismatch: %+v %+v", got.P, got.Radius)
	}
}

func TestFramebufferBinaryRoundTrip(t *testing.T) {
	fb := NewFramebuffer(4, 3, 3)
	fb.SetColor(1, 2, shade.Color{R: 0.25, G: 0.5, B: 0.75, A: 1})

	var buf bytes.Buffer
	view := IntBox{XMin: 0, YMin: 0, XMax: 4, YMax: 3}
	if err := WriteFramebuffer(&buf, fb, view, view); err != nil {
		t.Fatalf("WriteFramebuffer: %v", err)
	}
	got, gotView, gotData, err := ReadFramebuffer(&buf)
	if err != nil {
		t.Fatalf("ReadFramebuffer: %v", err)
	}
	if got.Width() != 4 || got.Height() != 3 || got.ChannelCount() != 3 {
		t.Fatalf("shape mismatch: %dx%dx%d", got.Width(), got.Height(), got.ChannelCount())
	}
	if gotView != view || gotData != view {
		t.Errorf("window mismatch: view=%+v data=%+v", gotView, gotData)
	}
	c := got.GetColor(1, 2)
	if c.R != 0.25 || c.G != 0.5 || c.B != 0.75 {
		t.Errorf("GetColor(1,2) = %+v, want {0.25 0.5 0.75 1}", c)
	}
}

func TestFramebufferPTORoundTrip(t *testing.T) {
	fb := NewFramebuffer(2, 2, 1)
	fb.Set(0, 0, 0, 1.5)
	fb.Set(1, 1, 0, -2.5)

	var buf bytes.Buffer
	if err := WritePTO(&buf, fb); err != nil {
		t.Fatalf("WritePTO: %v", err)
	}
	got, err := ReadPTO(&buf)
	if err != nil {
		t.Fatalf("ReadPTO: %v", err)
	}
	if got.At(0, 0, 0) != 1.5 || got.At(1, 1, 0) != -2.5 {
		t.Errorf("PTO round trip mismatch: %v %v", got.At(0, 0, 0), got.At(1, 1, 0))
	}
}

func TestMipmapBuildAndTileRoundTrip(t *testing.T) {
	src := NewFramebuffer(3, 3, 1)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			src.Set(x, y, 0, float32(x+y))
		}
	}
	built := BuildMipmap(src)
	if built.Width() != 4 || built.Height() != 4 {
		t.Fatalf("BuildMipmap shape = %dx%d, want 4x4", built.Width(), built.Height())
	}

	var buf bytes.Buffer
	if err := WriteMipmap(&buf, built, 2); err != nil {
		t.Fatalf("WriteMipmap: %v", err)
	}

	header, dataStart, err := ReadMipmapHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadMipmapHeader: %v", err)
	}
	if header.Width != 4 || header.Height != 4 || header.TileSize != 2 {
		t.Fatalf("header = %+v", header)
	}

	reader := bytes.NewReader(buf.Bytes())
	mm := OpenMipmap(reader, header, dataStart)
	if _, err := mm.At(0, 0, 0); err != nil {
		t.Errorf("At(0,0,0): %v", err)
	}
	if _, err := mm.At(3, 3, 0); err != nil {
		t.Errorf("At(3,3,0): %v", err)
	}
}

func TestIFFWriterReaderRoundTrip(t *testing.T) {
	buf := newSeekableBuffer()
	iw := NewIFFWriter(buf)
	if err := iw.BeginGroup("GRUP"); err != nil {
		t.Fatal(err)
	}
	if err := iw.WriteChunk("LEAF", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := iw.EndGroup(); err != nil {
		t.Fatal(err)
	}

	ir := NewIFFReader(bytes.NewReader(buf.Bytes()))
	outer, ok, err := ir.Next()
	if err != nil || !ok || outer.ID != "GRUP" {
		t.Fatalf("outer chunk = %+v, ok=%v, err=%v", outer, ok, err)
	}
	inner, ok, err := ir.Next()
	if err != nil || !ok || inner.ID != "LEAF" {
		t.Fatalf("inner chunk = %+v, ok=%v, err=%v", inner, ok, err)
	}
	data, err := ir.ReadData(inner)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("payload = %q, want %q", data, "hello")
	}
	done, err := ir.EndOfChunk(outer)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("expected to be positioned at the end of the outer group")
	}
}

func TestFJGeoWriteReadRoundTrip(t *testing.T) {
	buf := newSeekableBuffer()
	chunks := []Chunk{{ID: "MESH"}, {ID: "CURV"}}
	payloads := [][]byte{[]byte("mesh-bytes"), []byte("curve-bytes")}
	if err := WriteFJGeo(buf, chunks, payloads); err != nil {
		t.Fatalf("WriteFJGeo: %v", err)
	}

	gotChunks, gotPayloads, err := ReadFJGeo(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadFJGeo: %v", err)
	}
	if len(gotChunks) != 2 || gotChunks[0].ID != "MESH" || gotChunks[1].ID != "CURV" {
		t.Fatalf("chunk ids = %+v", gotChunks)
	}
	if string(gotPayloads[0]) != "mesh-bytes" || string(gotPayloads[1]) != "curve-bytes" {
		t.Fatalf("payloads = %q %q", gotPayloads[0], gotPayloads[1])
	}
}

func TestWritePreviewPNGProducesValidStream(t *testing.T) {
	fb := NewFramebuffer(2, 2, 3)
	fb.SetColor(0, 0, shade.Color{R: 1, G: 0, B: 0, A: 1})
	fb.SetColor(1, 1, shade.Color{R: 0, G: 1, B: 0, A: 1})

	var buf bytes.Buffer
	if err := WritePreviewPNG(&buf, fb); err != nil {
		t.Fatalf("WritePreviewPNG: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty PNG output")
	}
	sig := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), sig) {
		t.Errorf("output does not start with the PNG signature: %x", buf.Bytes()[:4])
	}
}
