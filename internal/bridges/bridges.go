// Package bridges renders the thresholded sketch: a sparse raw height field,
// its bit-masked terraces and random single-pixel bridges between terraces.
package bridges

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"

	"go.uber.org/multierr"

	"github.com/Faultbox/terragen/internal/raster"
	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

const (
	// Fields is the number of distinct fields the sketch reads.
	Fields = 12

	octaves        = 10
	threshScaleIdx = 10
	threshIdx      = 11

	terraceMask uint8 = 0b11110000
	terraceStep uint8 = 0b00010000
	bridgeValue uint8 = 255
)

// ErrTooFewFields is returned when the field set cannot back every octave.
var ErrTooFewFields = fmt.Errorf("bridges: need %d distinct fields", Fields)

// octaveScales doubles from 1/8 up to 64.
var octaveScales = [octaves]float64{0.125, 0.25, 0.5, 1, 2, 4, 8, 16, 32, 64}

// Generator produces sketches from a field set.
type Generator struct {
	Fields      *noise.Set
	Width       int
	Height      int
	Seed        uint64
	Probability float64
}

// Sketch holds the three byte layers in row-major order.
type Sketch struct {
	Width    int
	Height   int
	Raw      []uint8
	Terraced []uint8
	Bridged  []uint8
}

// RawAt returns the raw byte height at p.
//
// A noise-driven threshold rises and falls across the map; each octave only
// contributes where it pokes above it, leaving flat basins elsewhere.
func (g Generator) RawAt(p math.Vec2) uint8 {
	q := p.XY0()
	threshScale := g.Fields.At(threshScaleIdx).Sample(q.Scale(8)) + 1
	thresh := g.Fields.At(threshIdx).Sample(q.Scale(threshScale))*0.4 + 0.5

	var raw float64
	for i, scale := range octaveScales {
		s := math.Normalized(g.Fields.At(i).Sample(q.Scale(scale)))
		if s > thresh {
			raw += (s - thresh) * min(1-thresh, 2) / octaves
		}
	}
	return uint8(math.Clamp(raw*256, 0, 255))
}

// Generate evaluates all three layers.
func (g Generator) Generate() (*Sketch, error) {
	if g.Fields == nil || g.Fields.Len() < Fields {
		return nil, ErrTooFewFields
	}
	if g.Width <= 0 || g.Height <= 0 {
		return nil, errors.New("bridges: raster size must be positive")
	}

	n := g.Width * g.Height
	s := &Sketch{
		Width:    g.Width,
		Height:   g.Height,
		Raw:      make([]uint8, n),
		Terraced: make([]uint8, n),
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := y*g.Width + x
			s.Raw[i] = g.RawAt(math.Vec2{X: float64(x) / float64(g.Width), Y: float64(y) / float64(g.Height)})
			s.Terraced[i] = s.Raw[i] & terraceMask
		}
	}
	s.Bridged = placeBridges(s.Terraced, g.Width, g.Height, rand.New(rand.NewPCG(g.Seed, g.Seed)), g.Probability)
	return s, nil
}

// placeBridges marks pixels that sit between a higher and a lower neighbor
// terrace. Pixels next to a drop of more than one terrace are skipped.
// A random draw happens only after the height comparison holds.
func placeBridges(terraced []uint8, width, height int, rng *rand.Rand, p float64) []uint8 {
	out := append([]uint8(nil), terraced...)
	for y := 1; y < height; y++ {
		for x := 1; x < width; x++ {
			me := terraced[y*width+x]
			north := terraced[(y-1)*width+x]
			west := terraced[y*width+x-1]
			if absDiff(me, north) > terraceStep || absDiff(me, west) > terraceStep {
				continue
			}
			avg := north/2 + west/2
			if avg < me && rng.Float64() < p {
				out[y*width+x] = bridgeValue
			} else if avg > me && rng.Float64() < p {
				out[y*width+x] = bridgeValue
			}
		}
	}
	return out
}

func absDiff(a, b uint8) uint8 {
	if a < b {
		return b - a
	}
	return a - b
}

// Render streams the three layers into their sinks as opaque grayscale.
func (s *Sketch) Render(raw, terraced, bridged raster.Sink) error {
	layers := []struct {
		name string
		data []uint8
		sink raster.Sink
	}{
		{"raw", s.Raw, raw},
		{"terraced", s.Terraced, terraced},
		{"bridged", s.Bridged, bridged},
	}

	var err error
	for _, l := range layers {
		if err = writeLayer(l.sink, l.data); err != nil {
			err = fmt.Errorf("%s layer: %w", l.name, err)
			break
		}
	}
	if err != nil {
		for _, l := range layers {
			err = multierr.Append(err, l.sink.Abort())
		}
	}
	return err
}

func writeLayer(sink raster.Sink, data []uint8) error {
	for _, v := range data {
		if err := sink.WritePixel(color.RGBA{R: v, G: v, B: v, A: 255}); err != nil {
			return err
		}
	}
	return sink.Flush()
}
