package terrain

import (
	"fmt"

	"github.com/Faultbox/terragen/internal/config"
	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

// Variant is one independent phase offset over the shared field set.
type Variant struct {
	Index int
	Phase math.Vec2
}

// Variants returns count variants spaced step apart along both axes.
func Variants(count int, step float64) []Variant {
	out := make([]Variant, count)
	for i := range out {
		out[i] = Variant{Index: i, Phase: math.Vec2{X: float64(i) * step, Y: float64(i) * step}}
	}
	return out
}

// Sample is the full per-point evaluation behind one Pixel.
type Sample struct {
	Ground  float64
	Terrace Terrace
	Water   float64
}

// Pipeline evaluates ground, terrace and bands at grid points.
// It holds no mutable state and is safe to share across goroutines.
type Pipeline struct {
	Ground   Ground
	Terracer Terracer
	Bands    Bands
}

// Point maps a grid coordinate onto the unit square.
func Point(xi, yi, width, height int) math.Vec2 {
	return math.Vec2{X: float64(xi) / float64(width), Y: float64(yi) / float64(height)}
}

// Evaluate computes the terrain values at a normalized point for a variant.
func (pl *Pipeline) Evaluate(p math.Vec2, v Variant, diag *noise.Diagnostics) Sample {
	return pl.evaluate(p.Add(v.Phase).XY0(), diag)
}

func (pl *Pipeline) evaluate(q math.Vec3, diag *noise.Diagnostics) Sample {
	ground := pl.Ground.Height(q, diag)
	return Sample{
		Ground:  ground,
		Terrace: pl.Terracer.At(q, ground, diag),
		Water:   pl.Bands.Water.LevelAt(q, diag),
	}
}

// Pixel evaluates and shades one grid point.
func (pl *Pipeline) Pixel(p math.Vec2, v Variant, diag *noise.Diagnostics) Pixel {
	q := p.Add(v.Phase).XY0()
	s := pl.evaluate(q, diag)
	return pl.Bands.Compose(s.Ground, s.Terrace, s.Water, func() bool {
		return pl.Bands.Ramp.Walkable(q)
	})
}

// FromConfig builds the pipeline described by cfg over fields.
func FromConfig(cfg *config.Config, fields *noise.Set) (*Pipeline, error) {
	ground, err := sampler(fields, cfg.Ground.Octaves)
	if err != nil {
		return nil, fmt.Errorf("ground: %w", err)
	}
	secondary, err := sampler(fields, cfg.Terrace.Octaves)
	if err != nil {
		return nil, fmt.Errorf("terrace: %w", err)
	}
	water, err := sampler(fields, cfg.Water.Octaves)
	if err != nil {
		return nil, fmt.Errorf("water: %w", err)
	}

	pl := &Pipeline{
		Ground: Ground{Base: ground},
		Terracer: Terracer{
			Rules: TerraceRules{
				Count:          cfg.Terrace.Count,
				RampProportion: cfg.Terrace.RampProportion,
				CloseWhenOver:  cfg.Terrace.CloseWhenOver,
				IncWhenOver:    cfg.Terrace.IncWhenOver,
			},
			Secondary: secondary,
		},
		Bands: Bands{
			Water: Water{
				Level:       water,
				Base:        cfg.Water.Base,
				Amplitude:   cfg.Water.Amplitude,
				Phase:       math.Vec2{X: cfg.Water.PhaseX, Y: cfg.Water.PhaseY},
				DepthGain:   cfg.Water.DepthGain,
				DarknessCap: cfg.Water.DarknessCap,
				Brightness:  cfg.Water.Brightness,
				Secondary:   cfg.Water.Secondary,
			},
			Ramp: RampTexture{
				Field:     fields.At(cfg.Ramp.Field),
				Scalar:    cfg.Ramp.Scalar,
				Threshold: cfg.Ramp.Threshold,
			},
		},
	}
	if b := cfg.Ground.Blend; b.Enabled {
		pl.Ground.Blend = &Blend{Fields: fields, Offset: b.Offset, Scalar: b.Scalar, Factor: b.Factor}
	}
	return pl, nil
}

func sampler(fields *noise.Set, o config.OctaveConfig) (noise.Sampler, error) {
	r, err := fields.Range(o.Offset, o.Count)
	if err != nil {
		return noise.Sampler{}, err
	}
	if o.Reversed {
		r = r.Reversed()
	}
	return noise.Sampler{Fields: r, Scalar: o.Scalar, Factor: o.Factor, Gain: o.Gain}, nil
}
