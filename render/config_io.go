package render

import (
	"io"

	"github.com/gazed/tracer/sample"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors Config with yaml tags; Config itself stays free
// of serialization tags since most of its fields are also read by
// hot-path code, and the teacher never tags its domain structs for a
// single consumer.
type yamlConfig struct {
	ResX                 int     `yaml:"res_x,omitempty"`
	ResY                 int     `yaml:"res_y,omitempty"`
	RenderRegion         [4]int  `yaml:"render_region,omitempty"`
	TileW                int     `yaml:"tile_w,omitempty"`
	TileH                int     `yaml:"tile_h,omitempty"`
	FilterWidth          [2]float64 `yaml:"filter_width,omitempty"`
	FilterKind           int     `yaml:"filter_kind"`
	SamplerType          int     `yaml:"sampler_type"`
	PixelSamplesX        int     `yaml:"pixel_samples_x,omitempty"`
	PixelSamplesY        int     `yaml:"pixel_samples_y,omitempty"`
	MaxSubdivision       int     `yaml:"max_subdivision,omitempty"`
	SubdivisionThreshold float64 `yaml:"subdivision_threshold,omitempty"`
	SampleJitter         float64 `yaml:"sample_jitter"`
	SampleTimeStart      float64 `yaml:"sample_time_start"`
	SampleTimeEnd        float64 `yaml:"sample_time_end"`

	CastShadow      bool       `yaml:"cast_shadow"`
	MaxReflectDepth int        `yaml:"max_reflect_depth,omitempty"`
	MaxRefractDepth int        `yaml:"max_refract_depth,omitempty"`
	RaymarchStep    [4]float64 `yaml:"raymarch_step,omitempty"`

	UseMaxThread bool `yaml:"use_max_thread"`
	ThreadCount  int  `yaml:"thread_count,omitempty"`
}

func toYAML(c Config) yamlConfig {
	return yamlConfig{
		ResX: c.ResX, ResY: c.ResY,
		RenderRegion:         [4]int{c.RenderRegion.X0, c.RenderRegion.Y0, c.RenderRegion.X1, c.RenderRegion.Y1},
		TileW:                c.TileW,
		TileH:                c.TileH,
		FilterWidth:          c.FilterWidth,
		FilterKind:           int(c.FilterKind),
		SamplerType:          int(c.SamplerType),
		PixelSamplesX:        c.PixelSamplesX,
		PixelSamplesY:        c.PixelSamplesY,
		MaxSubdivision:       c.MaxSubdivision,
		SubdivisionThreshold: c.SubdivisionThreshold,
		SampleJitter:         c.SampleJitter,
		SampleTimeStart:      c.SampleTimeStart,
		SampleTimeEnd:        c.SampleTimeEnd,
		CastShadow:           c.CastShadow,
		MaxReflectDepth:      c.MaxReflectDepth,
		MaxRefractDepth:      c.MaxRefractDepth,
		RaymarchStep:         c.RaymarchStep,
		UseMaxThread:         c.UseMaxThread,
		ThreadCount:          c.ThreadCount,
	}
}

func fromYAML(y yamlConfig) Config {
	return Config{
		ResX: y.ResX, ResY: y.ResY,
		RenderRegion:         sample.Region{X0: y.RenderRegion[0], Y0: y.RenderRegion[1], X1: y.RenderRegion[2], Y1: y.RenderRegion[3]},
		TileW:                y.TileW,
		TileH:                y.TileH,
		FilterWidth:          y.FilterWidth,
		FilterKind:           sample.FilterKind(y.FilterKind),
		SamplerType:          SamplerType(y.SamplerType),
		PixelSamplesX:        y.PixelSamplesX,
		PixelSamplesY:        y.PixelSamplesY,
		MaxSubdivision:       y.MaxSubdivision,
		SubdivisionThreshold: y.SubdivisionThreshold,
		SampleJitter:         y.SampleJitter,
		SampleTimeStart:      y.SampleTimeStart,
		SampleTimeEnd:        y.SampleTimeEnd,
		CastShadow:           y.CastShadow,
		MaxReflectDepth:      y.MaxReflectDepth,
		MaxRefractDepth:      y.MaxRefractDepth,
		RaymarchStep:         y.RaymarchStep,
		UseMaxThread:         y.UseMaxThread,
		ThreadCount:          y.ThreadCount,
	}
}

// LoadConfig reads a YAML-encoded Config, starting from DefaultConfig
// so an omitted field keeps its default rather than zeroing out.
func LoadConfig(r io.Reader) (Config, error) {
	y := toYAML(DefaultConfig())
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&y); err != nil && err != io.EOF {
		return Config{}, err
	}
	return fromYAML(y), nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(toYAML(cfg))
}
