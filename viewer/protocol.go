// Package viewer implements the render core's viewer wire protocol:
// little-endian 32-bit messages over TCP reporting frame/tile progress,
// plus a minimal in-process listener used to exercise the protocol
// end-to-end without a real UI attached.
package viewer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MessageType identifies a protocol message body's shape.
type MessageType int32

const (
	MsgNone MessageType = iota
	MsgRenderFrameStart
	MsgRenderFrameDone
	MsgRenderFrameAbort
	MsgRenderTileStart
	MsgRenderTileDone
	MsgReplyOK
)

// DefaultPort is the protocol's documented default TCP port.
const DefaultPort = 50505

// Message is the union of every field any message type carries; only
// the fields relevant to Type are meaningful for a given message.
type Message struct {
	Type         MessageType
	FrameID      int32
	XRes, YRes   int32
	ChannelCount int32
	TileCount    int32

	TileID                 int32
	XMin, YMin, XMax, YMax int32

	Pixels []float32 // RENDER_TILE_DONE payload, row-major within [XMin,XMax)x[YMin,YMax)
}

// Encode writes every field in order as little-endian int32, then
// (for RENDER_TILE_DONE) the pixel payload, prefixed by a body-size
// header matching the original's {size_of_body, type} framing.
func Encode(w io.Writer, m Message) error {
	fields := headerFields(m)
	bodySize := int32(4 * len(fields))
	if m.Type == MsgRenderTileDone {
		bodySize += int32(4 * len(m.Pixels))
	}

	if err := binary.Write(w, binary.LittleEndian, bodySize); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(m.Type)); err != nil {
		return err
	}
	for _, f := range fields[1:] { // fields[0] is Type, already written above
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	if m.Type == MsgRenderTileDone {
		if err := binary.Write(w, binary.LittleEndian, m.Pixels); err != nil {
			return err
		}
	}
	return nil
}

// headerFields lists, in wire order, every int32 field a message of
// m.Type carries (field 0 is always Type itself).
func headerFields(m Message) []int32 {
	switch m.Type {
	case MsgRenderFrameStart:
		return []int32{int32(m.Type), m.FrameID, m.XRes, m.YRes, m.ChannelCount, m.TileCount}
	case MsgRenderFrameDone, MsgRenderFrameAbort, MsgReplyOK:
		return []int32{int32(m.Type), m.FrameID}
	case MsgRenderTileStart:
		return []int32{int32(m.Type), m.FrameID, m.TileID, m.XMin, m.YMin, m.XMax, m.YMax}
	case MsgRenderTileDone:
		return []int32{int32(m.Type), m.FrameID, m.TileID, m.XMin, m.YMin, m.XMax, m.YMax}
	default:
		return []int32{int32(m.Type)}
	}
}

// Decode reads one message from r: the body-size header, the type,
// then exactly as many int32 fields (and trailing pixel payload, for
// RENDER_TILE_DONE) as that type's body size implies.
func Decode(r io.Reader) (Message, error) {
	var bodySize int32
	if err := binary.Read(r, binary.LittleEndian, &bodySize); err != nil {
		return Message{}, err
	}
	var typ int32
	if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
		return Message{}, err
	}
	m := Message{Type: MessageType(typ)}

	read := func(dst *int32) error { return binary.Read(r, binary.LittleEndian, dst) }

	switch m.Type {
	case MsgRenderFrameStart:
		for _, dst := range []*int32{&m.FrameID, &m.XRes, &m.YRes, &m.ChannelCount, &m.TileCount} {
			if err := read(dst); err != nil {
				return Message{}, err
			}
		}
	case MsgRenderFrameDone, MsgRenderFrameAbort, MsgReplyOK:
		if err := read(&m.FrameID); err != nil {
			return Message{}, err
		}
	case MsgRenderTileStart:
		for _, dst := range []*int32{&m.FrameID, &m.TileID, &m.XMin, &m.YMin, &m.XMax, &m.YMax} {
			if err := read(dst); err != nil {
				return Message{}, err
			}
		}
	case MsgRenderTileDone:
		for _, dst := range []*int32{&m.FrameID, &m.TileID, &m.XMin, &m.YMin, &m.XMax, &m.YMax} {
			if err := read(dst); err != nil {
				return Message{}, err
			}
		}
		headerBytes := int32(4 * 6)
		npix := (bodySize - headerBytes - 4) / 4 // -4 for the type field already consumed
		if npix < 0 {
			return Message{}, fmt.Errorf("viewer: negative pixel payload length in RENDER_TILE_DONE")
		}
		m.Pixels = make([]float32, npix)
		if err := binary.Read(r, binary.LittleEndian, m.Pixels); err != nil {
			return Message{}, err
		}
	default:
		return Message{}, fmt.Errorf("viewer: unknown message type %d", typ)
	}
	return m, nil
}
