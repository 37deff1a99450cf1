package noise

import (
	"fmt"
	stdmath "math"
)

// rangeEpsilon absorbs float rounding in weighted averages.
const rangeEpsilon = 1e-9

// Diagnostics accumulates sample statistics for one worker.
// A nil *Diagnostics is valid and records nothing. It is not safe for
// concurrent use; give each goroutine its own.
type Diagnostics struct {
	Count      int
	Min        float64
	Max        float64
	OutOfRange int
	LastDefect string
}

// Observe records a sample value.
func (d *Diagnostics) Observe(v float64) {
	if d == nil {
		return
	}
	if d.Count == 0 || v < d.Min {
		d.Min = v
	}
	if d.Count == 0 || v > d.Max {
		d.Max = v
	}
	d.Count++
}

// Defect records a numeric invariant violation.
func (d *Diagnostics) Defect(msg string) {
	if d == nil {
		return
	}
	d.OutOfRange++
	d.LastDefect = msg
}

// Merge folds other into d.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if d == nil || other == nil || other.Count == 0 && other.OutOfRange == 0 {
		return
	}
	if other.Count > 0 {
		if d.Count == 0 || other.Min < d.Min {
			d.Min = other.Min
		}
		if d.Count == 0 || other.Max > d.Max {
			d.Max = other.Max
		}
	}
	d.Count += other.Count
	d.OutOfRange += other.OutOfRange
	if other.LastDefect != "" {
		d.LastDefect = other.LastDefect
	}
}

// CheckRange reports whether v lies in [lo, hi]. Violations are recorded on
// diag and panic when built with the terragen_assert tag.
func CheckRange(what string, v, lo, hi float64, diag *Diagnostics) bool {
	return checkRange(what, v, lo, hi, diag)
}

func checkRange(what string, v, lo, hi float64, diag *Diagnostics) bool {
	if v >= lo-rangeEpsilon && v <= hi+rangeEpsilon && !stdmath.IsNaN(v) {
		return true
	}
	msg := fmt.Sprintf("%s %v outside [%v,%v]", what, v, lo, hi)
	diag.Defect(msg)
	if assertInvariants {
		panic(msg)
	}
	return false
}
