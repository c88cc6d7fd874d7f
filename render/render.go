// Package render implements the renderer driver: the per-frame control
// flow described by the scene's configuration, its worker pool, and
// the callback points a viewer or progress reporter can hook into.
package render

import (
	"context"
	"math/bits"
	"runtime"
	"sync/atomic"

	"github.com/gazed/tracer/camera"
	"github.com/gazed/tracer/format"
	"github.com/gazed/tracer/integrate"
	"github.com/gazed/tracer/math/lin"
	"github.com/gazed/tracer/object"
	"github.com/gazed/tracer/sample"
	"github.com/gazed/tracer/shade"
	"golang.org/x/sync/errgroup"
)

// Action is a callback's return value: CONTINUE lets the loop proceed
// as usual, INTERRUPT propagates up and aborts the tile, frame, or
// sample loop the callback was invoked from.
type Action int

const (
	Continue Action = iota
	Interrupt
)

// SamplerType selects which sample.Sampler a worker constructs.
type SamplerType int

const (
	FixedGridSampler SamplerType = iota
	AdaptiveGridSampler
)

// FrameInfo is passed to the frame-start/frame-done callbacks.
type FrameInfo struct {
	FrameID    int32
	Resolution [2]int
	TileCount  int
}

// TileInfo is passed to the tile-start/tile-done callbacks, and
// identifies which worker produced it for viewer-side bookkeeping.
type TileInfo struct {
	FrameID  int32
	TileID   int
	Region   sample.Region
	ThreadID int
}

// Callbacks are the renderer driver's observation points; every
// returned Action besides Interrupt is treated as Continue. A nil
// function is always Continue.
type Callbacks struct {
	FrameStart func(FrameInfo) Action
	FrameDone  func(FrameInfo)
	TileStart  func(TileInfo) Action
	SampleDone func(TileInfo) Action
	TileDone   func(TileInfo, *format.Framebuffer)
}

func (cb Callbacks) frameStart(fi FrameInfo) Action {
	if cb.FrameStart == nil {
		return Continue
	}
	return cb.FrameStart(fi)
}
func (cb Callbacks) frameDone(fi FrameInfo) {
	if cb.FrameDone != nil {
		cb.FrameDone(fi)
	}
}
func (cb Callbacks) tileStart(ti TileInfo) Action {
	if cb.TileStart == nil {
		return Continue
	}
	return cb.TileStart(ti)
}
func (cb Callbacks) sampleDone(ti TileInfo) Action {
	if cb.SampleDone == nil {
		return Continue
	}
	return cb.SampleDone(ti)
}
func (cb Callbacks) tileDone(ti TileInfo, fb *format.Framebuffer) {
	if cb.TileDone != nil {
		cb.TileDone(ti, fb)
	}
}

// Config mirrors the renderer's documented configuration surface.
type Config struct {
	ResX, ResY           int
	RenderRegion         sample.Region
	TileW, TileH         int
	FilterWidth          [2]float64
	FilterKind           sample.FilterKind
	SamplerType          SamplerType
	PixelSamplesX        int
	PixelSamplesY        int
	MaxSubdivision       int
	SubdivisionThreshold float64
	SampleJitter         float64
	SampleTimeStart      float64
	SampleTimeEnd        float64

	CastShadow       bool
	MaxReflectDepth  int
	MaxRefractDepth  int
	RaymarchStep     [4]float64

	UseMaxThread bool
	ThreadCount  int
}

// Option applies one setting to a Config, in the teacher's
// functional-options style.
type Option func(*Config)

// DefaultConfig matches the documented renderer defaults.
func DefaultConfig() Config {
	return Config{
		ResX: 320, ResY: 240,
		RenderRegion:         sample.Region{X0: 0, Y0: 0, X1: 320, Y1: 240},
		TileW:                64,
		TileH:                64,
		FilterWidth:          [2]float64{2, 2},
		FilterKind:           sample.FilterBox,
		SamplerType:          FixedGridSampler,
		PixelSamplesX:        4,
		PixelSamplesY:        4,
		MaxSubdivision:       4,
		SubdivisionThreshold: 0.05,
		SampleJitter:         1,
		SampleTimeStart:      0,
		SampleTimeEnd:        0,
		CastShadow:           true,
		MaxReflectDepth:      5,
		MaxRefractDepth:      5,
		RaymarchStep:         [4]float64{0.1, 0.1, 0.1, 0.1},
		UseMaxThread:         true,
		ThreadCount:          1,
	}
}

func WithResolution(w, h int) Option {
	return func(c *Config) {
		c.ResX, c.ResY = w, h
		c.RenderRegion = sample.Region{X0: 0, Y0: 0, X1: w, Y1: h}
	}
}
func WithRenderRegion(r sample.Region) Option  { return func(c *Config) { c.RenderRegion = r } }
func WithTileSize(w, h int) Option             { return func(c *Config) { c.TileW, c.TileH = w, h } }
func WithFilterWidth(x, y float64) Option      { return func(c *Config) { c.FilterWidth = [2]float64{x, y} } }
func WithFilterKind(k sample.FilterKind) Option { return func(c *Config) { c.FilterKind = k } }
func WithSamplerType(t SamplerType) Option      { return func(c *Config) { c.SamplerType = t } }
func WithPixelSamples(x, y int) Option          { return func(c *Config) { c.PixelSamplesX, c.PixelSamplesY = x, y } }
func WithThreadCount(n int) Option {
	return func(c *Config) { c.ThreadCount = n; c.UseMaxThread = n <= 0 }
}

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Renderer binds a Config to a scene (camera, world, lights) and a
// framebuffer, and drives RenderScene across a worker pool.
type Renderer struct {
	cfg    Config
	cam    *camera.Camera
	world  *object.Group
	lights []shade.Light
	fb     *format.Framebuffer
	cb     Callbacks

	ig *integrate.Integrator
}

// NewRenderer wires the scene graph the renderer will trace.
func NewRenderer(cfg Config, cam *camera.Camera, world *object.Group, lights []shade.Light, cb Callbacks) *Renderer {
	return &Renderer{
		cfg:    cfg,
		cam:    cam,
		world:  world,
		lights: lights,
		cb:     cb,
		ig: integrate.NewIntegrator(integrate.Config{
			CastShadow:       cfg.CastShadow,
			MaxReflectDepth:  cfg.MaxReflectDepth,
			MaxRefractDepth:  cfg.MaxRefractDepth,
			OpacityThreshold: 0.995,
			RaymarchStep:     cfg.RaymarchStep,
		}),
	}
}

func (r *Renderer) threadCount() int {
	if r.cfg.UseMaxThread || r.cfg.ThreadCount <= 0 {
		return runtime.NumCPU()
	}
	return r.cfg.ThreadCount
}

// frameID derives a positive 31-bit id from a time-seeded RNG, as the
// reference does to tag a frame for viewer correlation.
func frameID(seed uint64) int32 {
	return int32(bits.RotateLeft64(seed, 17) & 0x7fffffff)
}

// RenderScene runs the documented control flow: preprocess camera and
// lights, allocate the framebuffer, generate tiles, then trace every
// tile's samples across a worker pool with dynamic (grain-1)
// scheduling, reconstructing pixels as each tile completes.
func (r *Renderer) RenderScene(ctx context.Context, seed uint64) error {
	r.cam.SetAspect(r.cfg.ResX, r.cfg.ResY)
	for _, l := range r.lights {
		l.Preprocess()
	}
	r.fb = format.NewFramebuffer(r.cfg.ResX, r.cfg.ResY, 4)

	id := frameID(seed)
	tiler := sample.NewTiler(r.cfg.ResX, r.cfg.ResY, r.cfg.TileW, r.cfg.TileH)
	tiles := tiler.GenerateTiles(r.cfg.RenderRegion)

	fi := FrameInfo{FrameID: id, Resolution: [2]int{r.cfg.ResX, r.cfg.ResY}, TileCount: len(tiles)}
	if r.cb.frameStart(fi) == Interrupt {
		return nil
	}

	var nextTile int64
	var aborted int32
	nthreads := r.threadCount()

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < nthreads; w++ {
		threadID := w
		g.Go(func() error {
			smp := r.newSampler(seed + uint64(threadID)*0x2545F4914F6CDD1D)
			for {
				if gctx.Err() != nil || atomic.LoadInt32(&aborted) != 0 {
					return nil
				}
				idx := int(atomic.AddInt64(&nextTile, 1)) - 1
				if idx >= len(tiles) {
					return nil
				}
				if r.renderTile(tiles[idx], id, threadID, smp) == Interrupt {
					atomic.StoreInt32(&aborted, 1)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.cb.frameDone(fi)
	return nil
}

// Framebuffer returns the buffer filled by the most recent RenderScene.
func (r *Renderer) Framebuffer() *format.Framebuffer { return r.fb }

func (r *Renderer) newSampler(seed uint64) sample.Sampler {
	var smp sample.Sampler
	if r.cfg.SamplerType == AdaptiveGridSampler {
		smp = sample.NewAdaptiveGridSampler(seed)
	} else {
		smp = sample.NewFixedGridSampler(seed)
	}
	smp.SetResolution(r.cfg.ResX, r.cfg.ResY)
	smp.SetPixelSamples(r.cfg.PixelSamplesX, r.cfg.PixelSamplesY)
	smp.SetFilterWidth(r.cfg.FilterWidth[0], r.cfg.FilterWidth[1])
	smp.SetJitter(r.cfg.SampleJitter)
	smp.SetSampleTimeRange(r.cfg.SampleTimeStart, r.cfg.SampleTimeEnd)
	smp.SetMaxSubdivision(r.cfg.MaxSubdivision)
	smp.SetSubdivisionThreshold(r.cfg.SubdivisionThreshold)
	return smp
}

// renderTile implements the per-tile worker loop: generate samples,
// trace each one, then reconstruct every pixel in the tile via the
// configured filter.
func (r *Renderer) renderTile(t sample.Tile, frame int32, threadID int, smp sample.Sampler) Action {
	ti := TileInfo{FrameID: frame, TileID: t.ID, Region: t.Region, ThreadID: threadID}
	if r.cb.tileStart(ti) == Interrupt {
		return Continue
	}

	smp.GenerateSamples(t.Region)
	var ray lin.Ray
	for s := smp.NextSample(); s != nil; s = smp.NextSample() {
		r.cam.GetRay(s.UV, s.Time, &ray)
		hit, rgba, _ := r.ig.Trace(r.world, s.Time, ray.Orig, ray.Dir, ray.Tmin, ray.Tmax)
		if hit {
			s.Data = rgba
		} else {
			s.Data = shade.Color{}
		}
		if r.cb.sampleDone(ti) == Interrupt {
			return Interrupt
		}
	}

	filt := sample.NewFilter(r.cfg.FilterKind, r.cfg.FilterWidth[0], r.cfg.FilterWidth[1])
	for y := t.Y0; y < t.Y1; y++ {
		for x := t.X0; x < t.X1; x++ {
			r.fb.SetColor(x, y, reconstructPixel(smp, filt, x, y, r.cfg.ResX, r.cfg.ResY))
		}
	}

	r.cb.tileDone(ti, r.fb)
	return Continue
}

// reconstructPixel gathers every sample in (x, y)'s footprint, weighs
// each by the filter evaluated at its pixel-space offset from the
// pixel center, and divides the weighted color sum by the weight sum.
func reconstructPixel(smp sample.Sampler, filt sample.Filter, x, y, resX, resY int) shade.Color {
	samples := smp.SampleSetInPixel(x, y)

	var sumR, sumG, sumB, sumA, sumW float64
	for _, s := range samples {
		dx := float64(resX)*s.UV[0] - (float64(x) + 0.5)
		dy := float64(resY)*(1-s.UV[1]) - (float64(y) + 0.5)
		w := filt.Weight(dx, dy)

		sumR += s.Data.R * w
		sumG += s.Data.G * w
		sumB += s.Data.B * w
		sumA += s.Data.A * w
		sumW += w
	}
	if sumW == 0 {
		return shade.Color{}
	}
	return shade.Color{R: sumR / sumW, G: sumG / sumW, B: sumB / sumW, A: sumA / sumW}
}
