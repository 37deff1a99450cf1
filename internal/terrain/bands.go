package terrain

import (
	"image/color"

	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

// Pixel holds the four channel colors of one grid point.
type Pixel struct {
	Ground  color.RGBA
	Terrace color.RGBA
	Water   color.RGBA
	Ramp    color.RGBA
}

// Channels returns the colors in ground, terrace, water, ramp order.
func (p Pixel) Channels() [4]color.RGBA {
	return [4]color.RGBA{p.Ground, p.Terrace, p.Water, p.Ramp}
}

// Water configures the water level field and depth shading.
type Water struct {
	Level       noise.Sampler
	Base        float64
	Amplitude   float64
	Phase       math.Vec2
	DepthGain   float64
	DarknessCap float64
	Brightness  float64
	Secondary   float64
}

// LevelAt returns the water level at p.
func (w Water) LevelAt(p math.Vec3, diag *noise.Diagnostics) float64 {
	return w.Base + w.Amplitude*w.Level.Sample(p.Add(w.Phase.XY0()), diag)
}

// Shade returns the water color for a given depth below the surface.
// Darkness grows linearly with depth up to the cap and brightness falls off
// with its square.
func (w Water) Shade(depth float64) color.RGBA {
	darkness := min(depth*w.DepthGain, w.DarknessCap)
	b := w.Brightness * (1 - darkness*darkness)
	rg := math.ToByte(b * w.Secondary)
	return color.RGBA{R: rg, G: rg, B: math.ToByte(b), A: 255}
}

// RampTexture decides between a walkable ramp and a cliff.
type RampTexture struct {
	Field     noise.Field
	Scalar    float64
	Threshold float64
}

// Walkable reports whether the ramp texture at p is above the threshold.
func (r RampTexture) Walkable(p math.Vec3) bool {
	return math.Normalized(r.Field.Sample(p.Scale(r.Scalar))) > r.Threshold
}

// Bands derives the channel colors from the per-pixel terrain values.
type Bands struct {
	Water Water
	Ramp  RampTexture
}

// Compose builds the four channel colors. walkable is only consulted for dry
// ramp pixels; equality between ground and water counts as dry land.
func (b Bands) Compose(ground float64, t Terrace, water float64, walkable func() bool) Pixel {
	px := Pixel{
		Ground:  gray(ground),
		Terrace: gray(t.Height),
		Water:   color.RGBA{A: 255},
	}

	switch {
	case ground < water:
		px.Water = b.Water.Shade(water - ground)
		px.Ramp = px.Water
	case !t.Ramp:
		px.Ramp = px.Terrace
	case walkable():
		px.Ramp = gray(ground)
	default:
		px.Ramp = gray(ground * 0.5)
	}
	return px
}

func gray(v float64) color.RGBA {
	c := math.ToByte(v)
	return color.RGBA{R: c, G: c, B: c, A: 255}
}
