package format

import (
	"fmt"
	"io"
)

// fjGeoSignature is the top-level 8-byte marker every *.fjgeo stream
// starts with, ahead of its IFF-framed chunk body.
var fjGeoSignature = [8]byte{0x80, 'F', 'J', 'G', 'E', 'O', '.', '.'}

// WriteFJGeo writes a *.fjgeo stream: the top-level signature followed
// by one leaf chunk per (id, payload) pair in chunks, in order.
func WriteFJGeo(w io.WriteSeeker, chunks []Chunk, payloads [][]byte) error {
	if len(chunks) != len(payloads) {
		return fmt.Errorf("format: chunks/payloads length mismatch (%d != %d)", len(chunks), len(payloads))
	}
	if _, err := w.Write(fjGeoSignature[:]); err != nil {
		return err
	}
	iw := NewIFFWriter(w)
	for i, c := range chunks {
		if err := iw.WriteChunk(c.ID, payloads[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadFJGeo validates the top-level signature and returns every chunk
// id/payload pair in the stream, in order.
func ReadFJGeo(r io.ReadSeeker) ([]Chunk, [][]byte, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, nil, err
	}
	if sig != fjGeoSignature {
		return nil, nil, fmt.Errorf("%w: .fjgeo top-level signature", ErrBadMagic)
	}

	ir := NewIFFReader(r)
	var chunks []Chunk
	var payloads [][]byte
	for {
		c, ok, err := ir.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		data, err := ir.ReadData(c)
		if err != nil {
			return nil, nil, err
		}
		chunks = append(chunks, c)
		payloads = append(payloads, data)
	}
	return chunks, payloads, nil
}
