package viewer

import (
	"github.com/gazed/tracer/format"
	"github.com/gazed/tracer/render"
)

// Callbacks adapts a FrameSink into render.Callbacks, translating each
// render-driver observation point into the matching wire message. The
// framebuffer is assumed 4-channel RGBA, the only layout render.Renderer
// ever allocates.
func Callbacks(sink FrameSink) render.Callbacks {
	return render.Callbacks{
		FrameStart: func(fi render.FrameInfo) render.Action {
			abort := sink.FrameStart(fi.FrameID, int32(fi.Resolution[0]), int32(fi.Resolution[1]), 4, int32(fi.TileCount))
			if abort {
				return render.Interrupt
			}
			return render.Continue
		},
		FrameDone: func(fi render.FrameInfo) {
			sink.FrameDone(fi.FrameID)
		},
		TileStart: func(ti render.TileInfo) render.Action {
			abort := sink.TileStart(ti.FrameID, int32(ti.TileID),
				int32(ti.Region.X0), int32(ti.Region.Y0), int32(ti.Region.X1), int32(ti.Region.Y1))
			if abort {
				return render.Interrupt
			}
			return render.Continue
		},
		TileDone: func(ti render.TileInfo, fb *format.Framebuffer) {
			pixels := tilePixels(fb, ti)
			sink.TileDone(ti.FrameID, int32(ti.TileID),
				int32(ti.Region.X0), int32(ti.Region.Y0), int32(ti.Region.X1), int32(ti.Region.Y1), pixels)
		},
	}
}

// tilePixels gathers ti's pixel rectangle out of fb in row-major RGBA
// order, the payload shape RENDER_TILE_DONE's wire message carries.
func tilePixels(fb *format.Framebuffer, ti render.TileInfo) []float32 {
	w := int(ti.Region.X1 - ti.Region.X0)
	h := int(ti.Region.Y1 - ti.Region.Y0)
	out := make([]float32, 0, w*h*4)
	for y := int(ti.Region.Y0); y < int(ti.Region.Y1); y++ {
		for x := int(ti.Region.X0); x < int(ti.Region.X1); x++ {
			c := fb.GetColor(x, y)
			out = append(out, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		}
	}
	return out
}
