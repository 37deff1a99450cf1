// Package fractal renders a single multifractal height map as a grayscale raster.
package fractal

import (
	"fmt"
	"image/color"

	"go.uber.org/multierr"

	"github.com/Faultbox/terragen/internal/raster"
	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

// Map samples a multifractal over the unit square.
type Map struct {
	Noise  noise.Multi
	Width  int
	Height int
}

// ByteAt returns the gray level at p: the normalized sample times 256, saturating.
func (m Map) ByteAt(p math.Vec2, diag *noise.Diagnostics) uint8 {
	return uint8(math.Clamp(math.Normalized(m.Noise.Sample(p.XY0(), diag))*256, 0, 255))
}

// Render writes the map row-major into sink and flushes it.
// The sink is aborted on any failure.
func (m Map) Render(sink raster.Sink, diag *noise.Diagnostics) error {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := math.Vec2{X: float64(x) / float64(m.Width), Y: float64(y) / float64(m.Height)}
			v := m.ByteAt(p, diag)
			if err := sink.WritePixel(color.RGBA{R: v, G: v, B: v, A: 255}); err != nil {
				return multierr.Append(fmt.Errorf("pixel (%d,%d): %w", x, y, err), sink.Abort())
			}
		}
	}
	if err := sink.Flush(); err != nil {
		return multierr.Append(err, sink.Abort())
	}
	return nil
}
