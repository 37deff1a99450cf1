// Package terrain turns layered noise into ground height, terraces and the
// four shaded bands emitted per tile pixel.
package terrain

import (
	"slices"

	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

const (
	blendSamples = 6
	blendBuckets = blendSamples - 1
)

// Ground synthesizes a height in [0,1] at a sample point.
type Ground struct {
	Base  noise.Sampler
	Blend *Blend
}

// Blend draws extra single-octave samples at a scalar fed back from the base
// value and interpolates between two adjacent ones after sorting.
type Blend struct {
	Fields *noise.Set
	Offset int
	Scalar float64
	Factor float64
}

// Height returns the ground height at p.
func (g Ground) Height(p math.Vec3, diag *noise.Diagnostics) float64 {
	v := g.Base.SampleNormalized(p, diag)
	if g.Blend == nil {
		return v
	}
	return g.Blend.apply(p, v, diag)
}

func (b *Blend) apply(p math.Vec3, v float64, diag *noise.Diagnostics) float64 {
	var samples [blendSamples]float64
	scalar := b.Scalar * (1 + v)
	for j := range samples {
		samples[j] = math.Normalized(b.Fields.At(b.Offset + j).Sample(p.Scale(scalar)))
		scalar *= b.Factor
	}
	slices.Sort(samples[:])
	return BlendSorted(v, samples[:], diag)
}

// BlendSorted picks the bucket of v among five equal-width buckets over [0,1]
// and lerps between sorted[k] and sorted[k+1] by the offset inside the bucket.
// sorted must hold at least six ascending values.
func BlendSorted(v float64, sorted []float64, diag *noise.Diagnostics) float64 {
	scaled := v * blendBuckets
	k := int(scaled)
	k = max(0, min(k, blendBuckets-1))
	w := scaled - float64(k)
	noise.CheckRange("blend weight", w, 0, 1, diag)
	return math.Lerp(sorted[k], sorted[k+1], math.Clamp(w, 0, 1))
}
