package geometry

import (
	"fmt"
	"math"
)

// Direction is a unit vector in 2D space.
// The zero value is not a valid direction; use NewDirection or FromAngle.
type Direction struct {
	dx, dy float64
}

// NewDirection creates a direction by normalizing the vector (dx, dy).
// Returns ErrWrongDirection for a zero or non-finite vector.
func NewDirection(dx, dy float64) (Direction, error) {
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsInf(length, 0) || math.IsNaN(length) {
		return Direction{}, fmt.Errorf("normalize (%g, %g): %w", dx, dy, ErrWrongDirection)
	}
	return Direction{dx: dx / length, dy: dy / length}, nil
}

// FromAngle creates a direction at angle radians counter-clockwise from +X
func FromAngle(angle float64) Direction {
	sin, cos := math.Sincos(angle)
	return Direction{dx: cos, dy: sin}
}

// DX returns the X component
func (d Direction) DX() float64 {
	return d.dx
}

// DY returns the Y component
func (d Direction) DY() float64 {
	return d.dy
}

// Angle returns the angle counter-clockwise from +X in (-π, π]
func (d Direction) Angle() float64 {
	return math.Atan2(d.dy, d.dx)
}

// Rotate rotates the direction counter-clockwise by angle radians.
// The rotation is orthogonal so the length stays 1 up to rounding; the
// vector is renormalized to keep drift from accumulating over long walks.
func (d *Direction) Rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	dx := d.dx*cos - d.dy*sin
	dy := d.dx*sin + d.dy*cos
	length := math.Hypot(dx, dy)
	d.dx = dx / length
	d.dy = dy / length
}

// Rotated returns a copy of d rotated by angle radians
func (d Direction) Rotated(angle float64) Direction {
	d.Rotate(angle)
	return d
}

// String returns a string representation for debugging
func (d Direction) String() string {
	return fmt.Sprintf("<%g, %g>", d.dx, d.dy)
}
