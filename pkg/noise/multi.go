package noise

import "github.com/Faultbox/terragen/pkg/math"

// Multi is a multifractal: every octave past the first is scaled by the
// running result, so detail piles up on high ground and smooths out in
// valleys.
type Multi struct {
	Fields      Range
	Frequency   float64
	Lacunarity  float64
	Persistence float64
}

// Sample evaluates the fractal at p. The result is halved and clamped to [-1,1].
func (m Multi) Sample(p math.Vec3, diag *Diagnostics) float64 {
	q := p.Scale(m.Frequency)
	result := m.Fields.Field(0).Sample(q)
	amplitude := 1.0
	for i := 1; i < m.Fields.Len(); i++ {
		q = q.Scale(m.Lacunarity)
		amplitude *= m.Persistence
		result += m.Fields.Field(i).Sample(q) * amplitude * result
	}
	out := result * 0.5
	diag.Observe(out)
	return math.Clamp(out, -1, 1)
}
