// Package noise wraps seeded gradient-noise primitives and combines them into
// frequency-weighted multi-octave samples.
package noise

import (
	"errors"
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/terragen/pkg/math"
)

// Noise errors.
var (
	ErrUnknownBackend = errors.New("unknown noise backend")
	ErrEmptySet       = errors.New("noise set needs at least one field")
	ErrEmptyRange     = errors.New("noise range needs at least one octave")
)

// Field is a deterministic scalar noise primitive.
// Sample returns values in [-1,1] and must be safe for concurrent use.
type Field interface {
	Sample(p math.Vec3) float64
}

// Backend selects the noise primitive behind a Field.
type Backend string

// Supported backends.
const (
	BackendPerlin  Backend = "perlin"
	BackendSimplex Backend = "simplex"
)

// NewField creates a single field of the given backend.
func NewField(backend Backend, seed int64) (Field, error) {
	switch backend {
	case BackendPerlin, "":
		return &perlinField{p: perlin.NewPerlin(2, 2, 1, seed)}, nil
	case BackendSimplex:
		return &simplexField{n: opensimplex.New(seed)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

type perlinField struct {
	p *perlin.Perlin
}

func (f *perlinField) Sample(p math.Vec3) float64 {
	if p.Z == 0 {
		return math.Clamp(f.p.Noise2D(p.X, p.Y), -1, 1)
	}
	return math.Clamp(f.p.Noise3D(p.X, p.Y, p.Z), -1, 1)
}

type simplexField struct {
	n opensimplex.Noise
}

func (f *simplexField) Sample(p math.Vec3) float64 {
	if p.Z == 0 {
		return math.Clamp(f.n.Eval2(p.X, p.Y), -1, 1)
	}
	return math.Clamp(f.n.Eval3(p.X, p.Y, p.Z), -1, 1)
}

// Constant is a field that returns the same value everywhere.
type Constant float64

// Sample implements Field.
func (c Constant) Sample(math.Vec3) float64 {
	return float64(c)
}

// Func adapts a plain function to Field.
type Func func(p math.Vec3) float64

// Sample implements Field.
func (f Func) Sample(p math.Vec3) float64 {
	return f(p)
}
