package particle

import (
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/geometry"
)

// Source emits a fresh photon for every trial
type Source interface {
	Emit(rng core.RandomSource) *Photon
}

// PointSource is an isotropic point source of monoenergetic photons
type PointSource struct {
	location geometry.Point
	energy   float64
}

// NewPointSource creates a source at location producing photons of energy keV
func NewPointSource(location geometry.Point, energy float64) *PointSource {
	return &PointSource{location: location, energy: energy}
}

// Location returns the source position
func (s *PointSource) Location() geometry.Point {
	return s.location
}

// Energy returns the energy of emitted photons in keV
func (s *PointSource) Energy() float64 {
	return s.energy
}

// Emit creates a photon flying in a uniformly random direction
func (s *PointSource) Emit(rng core.RandomSource) *Photon {
	return NewPhoton(s.location, RandomDirection(rng), s.energy)
}

// EastPointingSource is like PointSource but only emits into the +X half plane
type EastPointingSource struct {
	PointSource
}

// NewEastPointingSource creates a half-plane source at location
func NewEastPointingSource(location geometry.Point, energy float64) *EastPointingSource {
	return &EastPointingSource{PointSource{location: location, energy: energy}}
}

// Emit creates a photon with a uniformly random direction in (-π/2, π/2)
func (s *EastPointingSource) Emit(rng core.RandomSource) *Photon {
	angle := rng.Uniform(-math.Pi/2, math.Pi/2)
	return NewPhoton(s.location, geometry.FromAngle(angle), s.energy)
}

// RandomDirection returns a direction uniformly distributed on the unit circle
func RandomDirection(rng core.RandomSource) geometry.Direction {
	return geometry.FromAngle(rng.Uniform(-math.Pi, math.Pi))
}
