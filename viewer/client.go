package viewer

import (
	"net"
	"time"
)

// FrameSink receives frame/tile progress reports for one connection's
// lifetime, in the shape render.Renderer's Callbacks naturally produce.
// Reports are opened and closed per call — the socket is dialed, used
// synchronously, and closed, matching the documented "no persistent
// shared connection" concurrency note.
type FrameSink interface {
	FrameStart(frameID int32, xres, yres, channelCount, tileCount int32) (abort bool)
	FrameDone(frameID int32)
	TileStart(frameID, tileID, xmin, ymin, xmax, ymax int32) (abort bool)
	TileDone(frameID, tileID, xmin, ymin, xmax, ymax int32, pixels []float32)
}

// Client is a FrameSink that reports over a TCP connection to addr,
// dialing fresh for every call.
type Client struct {
	addr    string
	timeout time.Duration
}

// NewClient returns a Client reporting to addr (host:port, typically
// using DefaultPort).
func NewClient(addr string) *Client {
	return &Client{addr: addr, timeout: 2 * time.Second}
}

func (c *Client) roundTrip(m Message) (Message, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return Message{}, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))
	if err := Encode(conn, m); err != nil {
		return Message{}, err
	}
	return Decode(conn)
}

func (c *Client) FrameStart(frameID int32, xres, yres, channelCount, tileCount int32) bool {
	reply, err := c.roundTrip(Message{
		Type: MsgRenderFrameStart, FrameID: frameID,
		XRes: xres, YRes: yres, ChannelCount: channelCount, TileCount: tileCount,
	})
	return err != nil || reply.Type == MsgRenderFrameAbort
}

func (c *Client) FrameDone(frameID int32) {
	c.roundTrip(Message{Type: MsgRenderFrameDone, FrameID: frameID})
}

func (c *Client) TileStart(frameID, tileID, xmin, ymin, xmax, ymax int32) bool {
	reply, err := c.roundTrip(Message{
		Type: MsgRenderTileStart, FrameID: frameID, TileID: tileID,
		XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax,
	})
	return err != nil || reply.Type == MsgRenderFrameAbort
}

func (c *Client) TileDone(frameID, tileID, xmin, ymin, xmax, ymax int32, pixels []float32) {
	c.roundTrip(Message{
		Type: MsgRenderTileDone, FrameID: frameID, TileID: tileID,
		XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax, Pixels: pixels,
	})
}

var _ FrameSink = (*Client)(nil)
