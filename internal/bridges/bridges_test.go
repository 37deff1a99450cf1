package bridges

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/terragen/internal/raster"
	"github.com/Faultbox/terragen/pkg/math"
	"github.com/Faultbox/terragen/pkg/noise"
)

func constantSet(t *testing.T, values ...float64) *noise.Set {
	t.Helper()
	fields := make([]noise.Field, Fields)
	for i := range fields {
		fields[i] = noise.Constant(values[i%len(values)])
	}
	set, err := noise.SetOf(fields...)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestRawAtBelowThresholdIsFlat(t *testing.T) {
	// Every octave normalizes to 0.5, equal to the threshold: no contribution
	g := Generator{Fields: constantSet(t, 0)}
	if got := g.RawAt(math.Vec2{X: 0.3, Y: 0.7}); got != 0 {
		t.Errorf("RawAt = %d, want 0", got)
	}
}

func TestRawAtAboveThreshold(t *testing.T) {
	fields := make([]noise.Field, Fields)
	for i := range octaves {
		fields[i] = noise.Constant(1) // normalized 1.0
	}
	fields[threshScaleIdx] = noise.Constant(0)
	fields[threshIdx] = noise.Constant(0) // thresh 0.5
	set, err := noise.SetOf(fields...)
	if err != nil {
		t.Fatal(err)
	}

	// Each octave adds (1-0.5)*0.5/10, ten octaves give 0.25 -> 64,
	// give or take the rounding of the running sum
	g := Generator{Fields: set}
	if got := g.RawAt(math.Vec2{X: 0.1, Y: 0.1}); got < 63 || got > 64 {
		t.Errorf("RawAt = %d, want 64", got)
	}
}

func TestGenerateRejectsSmallSet(t *testing.T) {
	set, _ := noise.SetOf(noise.Constant(0))
	if _, err := (Generator{Fields: set, Width: 4, Height: 4}).Generate(); !errors.Is(err, ErrTooFewFields) {
		t.Errorf("expected ErrTooFewFields, got %v", err)
	}
}

func TestTerracedIsMasked(t *testing.T) {
	set, err := noise.NewSet(noise.BackendPerlin, 0, Fields)
	if err != nil {
		t.Fatal(err)
	}
	s, err := Generator{Fields: set, Width: 32, Height: 32, Seed: 4, Probability: 0.03}.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := range s.Raw {
		if s.Terraced[i] != s.Raw[i]&0xF0 {
			t.Fatalf("terraced[%d] = %d, raw %d", i, s.Terraced[i], s.Raw[i])
		}
		if s.Bridged[i] != s.Terraced[i] && s.Bridged[i] != 255 {
			t.Fatalf("bridged[%d] = %d, want terraced value or 255", i, s.Bridged[i])
		}
	}
}

func TestPlaceBridges(t *testing.T) {
	// 3x2 grid: (1,1) sits at 16 with north 32 and west 16, averaging 24
	terraced := []uint8{
		0, 32, 0,
		16, 16, 48,
	}

	always := placeBridges(terraced, 3, 2, rand.New(rand.NewPCG(1, 1)), 1)
	if always[4] != 255 {
		t.Errorf("expected bridge at (1,1), got %d", always[4])
	}
	// (2,1) differs from its northern neighbour by 48, more than one step, so skipped
	if always[5] != 48 {
		t.Errorf("expected (2,1) skipped, got %d", always[5])
	}
	// Row 0 and column 0 are never touched
	for _, i := range []int{0, 1, 2, 3} {
		if always[i] != terraced[i] {
			t.Errorf("edge pixel %d changed to %d", i, always[i])
		}
	}

	never := placeBridges(terraced, 3, 2, rand.New(rand.NewPCG(1, 1)), 0)
	for i := range never {
		if never[i] != terraced[i] {
			t.Errorf("probability 0 changed pixel %d", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	set, err := noise.NewSet(noise.BackendSimplex, 3, Fields)
	if err != nil {
		t.Fatal(err)
	}
	g := Generator{Fields: set, Width: 24, Height: 16, Seed: 4, Probability: 0.3}
	a, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Bridged {
		if a.Bridged[i] != b.Bridged[i] || a.Raw[i] != b.Raw[i] {
			t.Fatalf("pixel %d differs between runs", i)
		}
	}
}

func TestRender(t *testing.T) {
	s := &Sketch{
		Width: 2, Height: 1,
		Raw:      []uint8{10, 20},
		Terraced: []uint8{0, 16},
		Bridged:  []uint8{0, 255},
	}
	raw, ter, bri := raster.NewBuffer(2, 1), raster.NewBuffer(2, 1), raster.NewBuffer(2, 1)
	if err := s.Render(raw, ter, bri); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if raw.At(1, 0).R != 20 || ter.At(1, 0).G != 16 || bri.At(1, 0).B != 255 {
		t.Errorf("unexpected pixels %v %v %v", raw.At(1, 0), ter.At(1, 0), bri.At(1, 0))
	}

	short := raster.NewBuffer(1, 1)
	if err := s.Render(raster.NewBuffer(2, 1), short, raster.NewBuffer(2, 1)); !errors.Is(err, raster.ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}
