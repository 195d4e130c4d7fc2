package geometry

import (
	"errors"
	"fmt"
)

// ErrWrongDirection is returned when a move would require stepping
// backwards or along an undefined path.
var ErrWrongDirection = errors.New("wrong direction")

// Point represents a location in 2D space (cm)
type Point struct {
	x, y float64
}

// NewPoint creates a new Point
func NewPoint(x, y float64) Point {
	return Point{x: x, y: y}
}

// X returns the X coordinate
func (p Point) X() float64 {
	return p.x
}

// Y returns the Y coordinate
func (p Point) Y() float64 {
	return p.y
}

// Step moves the point by length along d.
// Callers enforce the sign of length; see particle.Photon.Step.
func (p *Point) Step(d Direction, length float64) {
	p.x += d.dx * length
	p.y += d.dy * length
}

// String returns a string representation for debugging
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.x, p.y)
}
