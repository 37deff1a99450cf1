package noise

import "github.com/Faultbox/terragen/pkg/math"

// Sampler combines a range of fields at geometrically growing frequencies.
//
// Field i is evaluated at point*Scalar*Factor^i and weighted by
// 1/(Scalar*Factor^i), so low octaves dominate. The weighted average keeps
// the result inside the hull of the field outputs. A negative Scalar runs
// the same progression with every sign flipped, giving a second pass over
// the same fields that looks decorrelated from the first.
type Sampler struct {
	Fields Range
	Scalar float64
	Factor float64
	// Gain rescales the average when non-zero. The result is clamped to [-1,1].
	Gain float64
}

// Sample evaluates the sampler at p. diag may be nil.
func (s Sampler) Sample(p math.Vec3, diag *Diagnostics) float64 {
	scalar := s.Scalar
	recip := 1 / scalar
	var sum, weight float64
	for i := range s.Fields.Len() {
		v := s.Fields.Field(i).Sample(p.Scale(scalar))
		sum += v * recip
		weight += recip
		scalar *= s.Factor
		recip /= s.Factor
	}
	out := sum / weight
	if s.Gain != 0 {
		out *= s.Gain
	} else {
		checkRange("sampler output", out, -1, 1, diag)
	}
	diag.Observe(out)
	return math.Clamp(out, -1, 1)
}

// SampleNormalized evaluates the sampler and maps the result onto [0,1].
func (s Sampler) SampleNormalized(p math.Vec3, diag *Diagnostics) float64 {
	return math.Normalized(s.Sample(p, diag))
}
