package particle

import (
	"fmt"
	"math"

	"github.com/df07/go-photon-transport/pkg/geometry"
)

// Photon is the state of a single particle during one trial
type Photon struct {
	location  geometry.Point
	direction geometry.Direction
	energy    float64 // keV
}

// NewPhoton creates a photon at location moving along direction with energy in keV
func NewPhoton(location geometry.Point, direction geometry.Direction, energy float64) *Photon {
	return &Photon{
		location:  location,
		direction: direction,
		energy:    energy,
	}
}

// Location returns the current position
func (p *Photon) Location() geometry.Point {
	return p.location
}

// Direction returns the current direction of flight
func (p *Photon) Direction() geometry.Direction {
	return p.direction
}

// Energy returns the current energy in keV
func (p *Photon) Energy() float64 {
	return p.energy
}

// Rotate turns the direction of flight by angle radians
func (p *Photon) Rotate(angle float64) {
	p.direction.Rotate(angle)
}

// SetEnergy replaces the photon energy
func (p *Photon) SetEnergy(energy float64) {
	p.energy = energy
}

// Step moves the photon forward by length.
// A length that is not positive and finite fails with
// geometry.ErrWrongDirection and leaves the location untouched.
func (p *Photon) Step(length float64) error {
	if !(length > 0) || math.IsInf(length, 1) {
		return fmt.Errorf("step by %g: %w", length, geometry.ErrWrongDirection)
	}
	p.location.Step(p.direction, length)
	return nil
}

// GoToX moves the photon along its direction until it reaches the plane x.
// A photon already on the plane is accepted only if it moves towards +X.
// A photon moving parallel to the plane never reaches it.
func (p *Photon) GoToX(x float64) error {
	if p.direction.DX() == 0 {
		return fmt.Errorf("enter plane x=%g moving along %v: %w", x, p.direction, geometry.ErrWrongDirection)
	}
	distance := x - p.location.X()
	if distance == 0 {
		if p.direction.DX() > 0 {
			return nil
		}
		return fmt.Errorf("enter plane x=%g: %w", x, geometry.ErrWrongDirection)
	}
	return p.Step(distance / p.direction.DX())
}

// GoToY moves the photon along its direction until it reaches the plane y.
// A photon already on the plane is accepted only if it moves towards +Y.
// A photon moving parallel to the plane never reaches it.
func (p *Photon) GoToY(y float64) error {
	if p.direction.DY() == 0 {
		return fmt.Errorf("enter plane y=%g moving along %v: %w", y, p.direction, geometry.ErrWrongDirection)
	}
	distance := y - p.location.Y()
	if distance == 0 {
		if p.direction.DY() > 0 {
			return nil
		}
		return fmt.Errorf("enter plane y=%g: %w", y, geometry.ErrWrongDirection)
	}
	return p.Step(distance / p.direction.DY())
}

// String returns a string representation for debugging
func (p *Photon) String() string {
	return fmt.Sprintf("Photon{at %v along %v, %g keV}", p.location, p.direction, p.energy)
}
