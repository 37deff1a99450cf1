package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports every misconfiguration at once.
func (c *Config) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		fail("grid must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	switch c.Output.Format {
	case "png", "bmp", "tiff":
	default:
		fail("unknown output format %q", c.Output.Format)
	}
	switch c.Noise.Backend {
	case "perlin", "simplex":
	default:
		fail("unknown noise backend %q", c.Noise.Backend)
	}
	if c.Noise.Fields <= 0 {
		fail("noise.fields must be positive, got %d", c.Noise.Fields)
	}

	validateOctaves := func(name string, o OctaveConfig) {
		if o.Count <= 0 {
			fail("%s: empty octave range", name)
		}
		if o.Scalar == 0 {
			fail("%s: scalar must be non-zero", name)
		}
		if o.Factor <= 0 {
			fail("%s: factor must be positive, got %v", name, o.Factor)
		}
	}
	validateOctaves("ground.octaves", c.Ground.Octaves)
	validateOctaves("terrace.octaves", c.Terrace.Octaves)
	validateOctaves("water.octaves", c.Water.Octaves)

	if b := c.Ground.Blend; b.Enabled && (b.Scalar == 0 || b.Factor <= 0) {
		fail("ground.blend: scalar must be non-zero and factor positive")
	}

	t := c.Terrace
	if t.Count <= 0 {
		fail("terrace.count must be positive, got %d", t.Count)
	}
	if t.RampProportion < 0 || t.RampProportion > 1 {
		fail("terrace.ramp_proportion must be in [0,1], got %v", t.RampProportion)
	}
	if t.CloseWhenOver >= t.IncWhenOver {
		fail("terrace.close_when_over (%v) must be below inc_when_over (%v)", t.CloseWhenOver, t.IncWhenOver)
	}

	if c.Water.DarknessCap < 0 || c.Water.DarknessCap > 1 {
		fail("water.darkness_cap must be in [0,1], got %v", c.Water.DarknessCap)
	}
	if c.Ramp.Scalar == 0 {
		fail("ramp.scalar must be non-zero")
	}

	if c.Variants.Count <= 0 {
		fail("variants.count must be positive, got %d", c.Variants.Count)
	}
	if c.Variants.Workers < 0 {
		fail("variants.workers must not be negative, got %d", c.Variants.Workers)
	}

	if c.Rivers.Sites < 3 {
		fail("rivers.sites must be at least 3, got %d", c.Rivers.Sites)
	}
	if c.Rivers.Width <= 0 || c.Rivers.Height <= 0 {
		fail("rivers raster must be positive, got %dx%d", c.Rivers.Width, c.Rivers.Height)
	}
	if c.Bridges.Probability < 0 || c.Bridges.Probability > 1 {
		fail("bridges.probability must be in [0,1], got %v", c.Bridges.Probability)
	}

	if m := c.Multi; m.Octaves <= 0 || m.Frequency == 0 || m.Lacunarity <= 0 {
		fail("multi: octaves and lacunarity must be positive and frequency non-zero")
	}

	return errs
}
