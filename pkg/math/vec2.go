// Package math provides the small float64 vector types used for noise sample points.
package math

import "math"

// Vec2 is a 2D sample point.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the Euclidean distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// XY0 lifts v into 3D with a zero Z component.
func (v Vec2) XY0() Vec3 {
	return Vec3{v.X, v.Y, 0}
}

// Pixel maps a unit-square point onto the nearest-below grid cell of a
// width x height raster. Results may fall outside the grid for points outside [0,1).
func (v Vec2) Pixel(width, height int) (int, int) {
	return int(math.Floor(v.X * float64(width))), int(math.Floor(v.Y * float64(height)))
}
