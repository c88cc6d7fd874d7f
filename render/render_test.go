package render

import (
	"context"
	"testing"

	"github.com/gazed/tracer/format"
	"github.com/gazed/tracer/shading"
)

func TestRenderSceneProducesANonEmptyFramebuffer(t *testing.T) {
	cam, world, lights := shading.DemoScene()

	cfg := NewConfig(
		WithResolution(16, 12),
		WithTileSize(8, 8),
		WithPixelSamples(1, 1),
		WithThreadCount(1),
	)

	var frameStarted, frameDone bool
	var tilesSeen int
	cb := Callbacks{
		FrameStart: func(fi FrameInfo) Action {
			frameStarted = true
			if fi.Resolution != [2]int{16, 12} {
				t.Errorf("FrameInfo.Resolution = %v, want [16 12]", fi.Resolution)
			}
			return Continue
		},
		FrameDone: func(fi FrameInfo) { frameDone = true },
		TileDone: func(ti TileInfo, fb *format.Framebuffer) {
			tilesSeen++
		},
	}

	r := NewRenderer(cfg, cam, world, lights, cb)
	if err := r.RenderScene(context.Background(), 42); err != nil {
		t.Fatalf("RenderScene: %v", err)
	}

	if !frameStarted || !frameDone {
		t.Error("expected both FrameStart and FrameDone callbacks to fire")
	}
	if tilesSeen == 0 {
		t.Error("expected at least one TileDone callback")
	}

	fb := r.Framebuffer()
	if fb.Width() != 16 || fb.Height() != 12 {
		t.Fatalf("framebuffer shape = %dx%d, want 16x12", fb.Width(), fb.Height())
	}

	litPixel := false
	for y := 0; y < fb.Height() && !litPixel; y++ {
		for x := 0; x < fb.Width() && !litPixel; x++ {
			c := fb.GetColor(x, y)
			if c.A > 0 && (c.R > 0 || c.G > 0 || c.B > 0) {
				litPixel = true
			}
		}
	}
	if !litPixel {
		t.Error("expected at least one non-background pixel from the demo cube")
	}
}
