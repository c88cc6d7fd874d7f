package format

import (
	"bufio"
	"fmt"
	"io"
)

const fbMagic = "FBUF"
const fbVersion = 1

// IntBox is a half-open pixel-space rectangle (XMax and YMax are one
// past the last pixel), used by the framebuffer
// file format to record both its view window and data window.
type IntBox struct{ XMin, YMin, XMax, YMax int32 }

func readIntBox(r io.Reader) (IntBox, error) {
	var b IntBox
	for _, p := range []*int32{&b.XMin, &b.YMin, &b.XMax, &b.YMax} {
		v, err := readI32(r)
		if err != nil {
			return IntBox{}, err
		}
		*p = v
	}
	return b, nil
}

func writeIntBox(w io.Writer, b IntBox) error {
	for _, v := range []int32{b.XMin, b.YMin, b.XMax, b.YMax} {
		if err := writeI32(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadFramebuffer decodes the binary *.fb layout: magic, version,
// width/height/channels, view window, data window, then the pixel data
// in row-major order.
func ReadFramebuffer(r io.Reader) (*Framebuffer, IntBox, IntBox, error) {
	if err := readMagic(r, fbMagic); err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	if _, err := readI32(r); err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	width, err := readI32(r)
	if err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	height, err := readI32(r)
	if err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	nchan, err := readI32(r)
	if err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	viewWindow, err := readIntBox(r)
	if err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	dataWindow, err := readIntBox(r)
	if err != nil {
		return nil, IntBox{}, IntBox{}, err
	}

	fb := NewFramebuffer(int(width), int(height), int(nchan))
	flat, err := readF32s(r, int(width)*int(height)*int(nchan))
	if err != nil {
		return nil, IntBox{}, IntBox{}, err
	}
	copy(fb.buf, flat)
	return fb, viewWindow, dataWindow, nil
}

// WriteFramebuffer encodes fb in the binary *.fb layout.
func WriteFramebuffer(w io.Writer, fb *Framebuffer, viewWindow, dataWindow IntBox) error {
	if err := writeMagic(w, fbMagic); err != nil {
		return err
	}
	if err := writeI32(w, fbVersion); err != nil {
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
	if err := writeIntBox(w, viewWindow); err != nil {
		return err
	}
	if err := writeIntBox(w, dataWindow); err != nil {
		return err
	}
	return writeF32s(w, fb.buf)
}

// ReadPTO decodes the plain-text *.pto variant: a "#PTO Plain Text
// Object" header, "resolution W H", "channel_count N", then "begin
// pixels" / whitespace-separated floats / "end pixels".
func ReadPTO(r io.Reader) (*Framebuffer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}
	expect := func(word string) error {
		tok, ok := next()
		if !ok || tok != word {
			return fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, word, tok)
		}
		return nil
	}

	if err := expect("#PTO"); err != nil {
		return nil, err
	}
	if err := expect("Plain"); err != nil {
		return nil, err
	}
	if err := expect("Text"); err != nil {
		return nil, err
	}
	if err := expect("Object"); err != nil {
		return nil, err
	}
	if err := expect("resolution"); err != nil {
		return nil, err
	}
	w, _ := next()
	h, _ := next()
	width, height := 0, 0
	fmt.Sscanf(w, "%d", &width)
	fmt.Sscanf(h, "%d", &height)

	if err := expect("channel_count"); err != nil {
		return nil, err
	}
	nc, _ := next()
	nchan := 0
	fmt.Sscanf(nc, "%d", &nchan)

	if err := expect("begin"); err != nil {
		return nil, err
	}
	if err := expect("pixels"); err != nil {
		return nil, err
	}

	fb := NewFramebuffer(width, height, nchan)
	for i := range fb.buf {
		tok, ok := next()
		if !ok {
			return nil, fmt.Errorf("format: truncated pto pixel data")
		}
		if tok == "end" {
			break
		}
		var v float64
		fmt.Sscanf(tok, "%g", &v)
		fb.buf[i] = float32(v)
	}
	return fb, nil
}

// WritePTO encodes fb in the plain-text *.pto variant.
func WritePTO(w io.Writer, fb *Framebuffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#PTO Plain Text Object")
	fmt.Fprintf(bw, "resolution %d %d\n", fb.width, fb.height)
	fmt.Fprintf(bw, "channel_count %d\n", fb.nchan)
	fmt.Fprintln(bw, "begin pixels")
	for i, v := range fb.buf {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%g", v)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "end pixels")
	return bw.Flush()
}
