package math

import "math"

// Normalized maps a raw sample in [-1,1] onto [0,1].
func Normalized(v float64) float64 {
	return v*0.5 + 0.5
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToByte converts a [0,1] intensity into a channel byte, saturating at both ends.
func ToByte(v float64) uint8 {
	return uint8(Clamp(math.Floor(v*255), 0, 255))
}
