package terrain

import (
	stdmath "math"

	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

// Terrace is the discrete band a ground height falls into.
type Terrace struct {
	Level  int
	Height float64 // Level / Count
	Ramp   bool    // transition pixel rather than flat terrace
}

// TerraceRules quantizes heights and applies the round-up / stay / ramp decision.
type TerraceRules struct {
	Count          int
	RampProportion float64
	CloseWhenOver  float64
	IncWhenOver    float64
}

// Classify converts a ground height and a secondary sample into a terrace.
//
// The secondary sample is negated on even levels. Above IncWhenOver the pixel
// is promoted to the next level; in (CloseWhenOver, IncWhenOver] it is marked
// as a ramp without promotion; otherwise the initial ramp guess stands.
func (r TerraceRules) Classify(ground, secondary float64) Terrace {
	approx := ground * float64(r.Count)
	level := int(stdmath.Floor(approx))
	ramp := approx-float64(level) > 1-r.RampProportion

	s := secondary
	if level%2 == 0 {
		s = -s
	}
	switch {
	case s > r.IncWhenOver:
		level++
		ramp = false
	case s > r.CloseWhenOver:
		ramp = true
	}

	level = max(0, min(level, r.Count))
	return Terrace{
		Level:  level,
		Height: float64(level) / float64(r.Count),
		Ramp:   ramp,
	}
}

// Terracer draws the secondary sample and classifies.
type Terracer struct {
	Rules     TerraceRules
	Secondary noise.Sampler
}

// At classifies the ground height found at p.
func (t Terracer) At(p math.Vec3, ground float64, diag *noise.Diagnostics) Terrace {
	return t.Rules.Classify(ground, t.Secondary.Sample(p, diag))
}
