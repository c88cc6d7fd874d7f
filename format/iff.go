package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ChunkIDSize is the fixed width of a chunk identifier, null-padded
// when the id is shorter.
const ChunkIDSize = 8

// Chunk describes a chunk header as read from a stream: its id, the
// byte offset its payload starts at, and the payload's length.
type Chunk struct {
	ID       string
	DataHead int64
	DataSize int64
}

// Match reports whether the chunk's id equals key.
func (c Chunk) Match(key string) bool { return c.ID == key }

var ErrUnknownChunk = errors.New("format: empty chunk id")

// IFFWriter writes the renderer's IFF-inspired container format: a
// flat sequence of [id(8) | size(8, little endian) | payload | pad]
// records, with payload length tracked automatically for nested
// groups via BeginGroup/EndGroup.
type IFFWriter struct {
	w     io.WriteSeeker
	stack []int64 // data_head of each open group, for EndGroup's backpatch
}

func NewIFFWriter(w io.WriteSeeker) *IFFWriter { return &IFFWriter{w: w} }

func (cw *IFFWriter) pos() (int64, error) { return cw.w.Seek(0, io.SeekCurrent) }

func (cw *IFFWriter) writePadding() error {
	p, err := cw.pos()
	if err != nil {
		return err
	}
	if p%2 == 1 {
		_, err = cw.w.Write([]byte{0})
	}
	return err
}

func chunkIDBytes(id string) [ChunkIDSize]byte {
	var b [ChunkIDSize]byte
	copy(b[:], id)
	return b
}

// WriteChunk writes one leaf chunk: id, its byte length, and data.
func (cw *IFFWriter) WriteChunk(id string, data []byte) error {
	if err := cw.writePadding(); err != nil {
		return err
	}
	idb := chunkIDBytes(id)
	if _, err := cw.w.Write(idb[:]); err != nil {
		return err
	}
	if err := binary.Write(cw.w, binary.LittleEndian, uint64(len(data))); err != nil {
		return err
	}
	_, err := cw.w.Write(data)
	return err
}

// BeginGroup opens a chunk whose size is unknown until EndGroup,
// writing a zero-valued placeholder size to be backpatched.
func (cw *IFFWriter) BeginGroup(id string) error {
	if err := cw.writePadding(); err != nil {
		return err
	}
	idb := chunkIDBytes(id)
	if _, err := cw.w.Write(idb[:]); err != nil {
		return err
	}
	if err := binary.Write(cw.w, binary.LittleEndian, uint64(0)); err != nil {
		return err
	}
	head, err := cw.pos()
	if err != nil {
		return err
	}
	cw.stack = append(cw.stack, head)
	return nil
}

// EndGroup closes the innermost open BeginGroup, backpatching its size.
func (cw *IFFWriter) EndGroup() error {
	if len(cw.stack) == 0 {
		return fmt.Errorf("format: EndGroup with no matching BeginGroup")
	}
	head := cw.stack[len(cw.stack)-1]
	cw.stack = cw.stack[:len(cw.stack)-1]

	end, err := cw.pos()
	if err != nil {
		return err
	}
	size := end - head
	if size == 0 {
		return nil
	}
	if _, err := cw.w.Seek(head-8, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(cw.w, binary.LittleEndian, uint64(size)); err != nil {
		return err
	}
	_, err = cw.w.Seek(end, io.SeekStart)
	return err
}

// IFFReader reads a stream written by IFFWriter.
type IFFReader struct {
	r io.ReadSeeker
}

func NewIFFReader(r io.ReadSeeker) *IFFReader { return &IFFReader{r: r} }

func (cr *IFFReader) pos() (int64, error) { return cr.r.Seek(0, io.SeekCurrent) }

func (cr *IFFReader) readPadding() error {
	p, err := cr.pos()
	if err != nil {
		return err
	}
	if p%2 == 1 {
		var b [1]byte
		_, err = io.ReadFull(cr.r, b[:])
	}
	return err
}

// Next reads the next chunk header, skipping the inter-chunk padding
// byte. ok is false (with a nil error) at a clean end of stream.
func (cr *IFFReader) Next() (c Chunk, ok bool, err error) {
	if err = cr.readPadding(); err != nil {
		if err == io.EOF {
			return Chunk{}, false, nil
		}
		return Chunk{}, false, err
	}

	var idb [ChunkIDSize]byte
	if _, err = io.ReadFull(cr.r, idb[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Chunk{}, false, nil
		}
		return Chunk{}, false, err
	}
	id := trimID(idb)
	if id == "" {
		return Chunk{}, false, nil
	}

	var size uint64
	if err = binary.Read(cr.r, binary.LittleEndian, &size); err != nil {
		return Chunk{}, false, err
	}
	head, err := cr.pos()
	if err != nil {
		return Chunk{}, false, err
	}
	return Chunk{ID: id, DataHead: head, DataSize: int64(size)}, true, nil
}

func trimID(b [ChunkIDSize]byte) string {
	n := ChunkIDSize
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// ReadData reads c's full payload.
func (cr *IFFReader) ReadData(c Chunk) ([]byte, error) {
	if _, err := cr.r.Seek(c.DataHead, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, c.DataSize)
	if _, err := io.ReadFull(cr.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Skip seeks past c's payload without reading it, positioning the
// reader at the start of the next chunk.
func (cr *IFFReader) Skip(c Chunk) error {
	_, err := cr.r.Seek(c.DataHead+c.DataSize, io.SeekStart)
	return err
}

// EndOfChunk reports whether the reader is positioned exactly at the
// end of c's payload, the group-traversal terminator condition.
func (cr *IFFReader) EndOfChunk(c Chunk) (bool, error) {
	p, err := cr.pos()
	if err != nil {
		return false, err
	}
	return p == c.DataHead+c.DataSize, nil
}
