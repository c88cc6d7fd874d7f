package viewer

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTripEveryMessageType(t *testing.T) {
	cases := []Message{
		{Type: MsgRenderFrameStart, FrameID: 1, XRes: 640, YRes: 480, ChannelCount: 3, TileCount: 12},
		{Type: MsgRenderFrameDone, FrameID: 1},
		{Type: MsgRenderFrameAbort, FrameID: 1},
		{Type: MsgRenderTileStart, FrameID: 1, TileID: 3, XMin: 0, YMin: 0, XMax: 64, YMax: 64},
		{Type: MsgRenderTileDone, FrameID: 1, TileID: 3, XMin: 0, YMin: 0, XMax: 2, YMax: 1, Pixels: []float32{0.1, 0.2, 0.3}},
		{Type: MsgReplyOK, FrameID: 1},
	}

	for _, m := range cases {
		var buf bytes.Buffer
		if err := Encode(&buf, m); err != nil {
			t.Fatalf("Encode(%v): %v", m.Type, err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode(%v): %v", m.Type, err)
		}
		if got.Type != m.Type || got.FrameID != m.FrameID {
			t.Errorf("type %v: round trip = %+v, want %+v", m.Type, got, m)
		}
		if len(got.Pixels) != len(m.Pixels) {
			t.Errorf("type %v: pixel count = %d, want %d", m.Type, len(got.Pixels), len(m.Pixels))
		}
		for i := range m.Pixels {
			if got.Pixels[i] != m.Pixels[i] {
				t.Errorf("type %v: pixel[%d] = %v, want %v", m.Type, i, got.Pixels[i], m.Pixels[i])
			}
		}
	}
}

func TestClientFrameAndTileRoundTripAgainstMockListener(t *testing.T) {
	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	c := NewClient(ln.Addr())

	if abort := c.FrameStart(7, 4, 4, 3, 1); abort {
		t.Fatal("FrameStart reported abort with AbortAfter disabled")
	}
	if abort := c.TileStart(7, 0, 0, 0, 4, 4); abort {
		t.Fatal("TileStart reported abort with AbortAfter disabled")
	}
	c.TileDone(7, 0, 0, 0, 4, 4, []float32{1, 2, 3, 4})
	c.FrameDone(7)

	received := ln.Received()
	if len(received) != 4 {
		t.Fatalf("MockListener received %d messages, want 4", len(received))
	}
	want := []MessageType{MsgRenderFrameStart, MsgRenderTileStart, MsgRenderTileDone, MsgRenderFrameDone}
	for i, m := range received {
		if m.Type != want[i] {
			t.Errorf("message %d: type = %v, want %v", i, m.Type, want[i])
		}
		if m.FrameID != 7 {
			t.Errorf("message %d: FrameID = %d, want 7", i, m.FrameID)
		}
	}
}

func TestClientReportsAbortOnceMockListenerIsConfiguredToAbort(t *testing.T) {
	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	ln.AbortAfter = 1

	c := NewClient(ln.Addr())
	if abort := c.FrameStart(1, 1, 1, 1, 1); !abort {
		t.Error("expected FrameStart to report abort once AbortAfter is reached")
	}
}
